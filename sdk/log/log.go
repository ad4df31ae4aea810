package cdslog

import (
	"context"
	"io"
	"log/syslog"
	"os"

	"github.com/pkg/errors"
	"github.com/rockbears/log"
	"github.com/sirupsen/logrus"
	lSyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// Conf contains log configuration
type Conf struct {
	Level          string
	Format         string
	TextFields     []string
	SyslogHost     string
	SyslogPort     string
	SyslogProtocol string
	SyslogExtraTag string
}

// Initialize init log level
func Initialize(ctx context.Context, conf *Conf) {
	switch conf.Level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "warning":
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetOutput(os.Stderr)
	switch conf.Format {
	case "discard":
		logrus.SetOutput(io.Discard)
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&CDSFormatter{Fields: conf.TextFields})
	}

	if conf.SyslogHost != "" && conf.SyslogPort != "" {
		if err := initSyslogHook(ctx, conf); err != nil {
			logrus.Error(err)
		}
	}
}

func initSyslogHook(ctx context.Context, conf *Conf) error {
	hook, err := lSyslog.NewSyslogHook(conf.SyslogProtocol, conf.SyslogHost+":"+conf.SyslogPort, syslog.LOG_INFO, conf.SyslogExtraTag)
	if err != nil {
		return errors.Wrap(err, "unable to init syslog hook")
	}
	logrus.AddHook(hook)
	log.Info(ctx, "syslog hook initialized")
	return nil
}
