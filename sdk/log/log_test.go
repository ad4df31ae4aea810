package cdslog

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	Initialize(context.TODO(), &Conf{Level: "debug", Format: "text", TextFields: []string{"region"}})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	f, ok := logrus.StandardLogger().Formatter.(*CDSFormatter)
	require.True(t, ok)
	assert.Equal(t, []string{"region"}, f.Fields)

	Initialize(context.TODO(), &Conf{Level: "warning", Format: "json"})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	_, ok = logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
