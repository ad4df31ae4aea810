package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fsamin/go-dump"
	defaults "github.com/mcuadros/go-defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ovh/layersync/engine/layersync"
	"github.com/ovh/layersync/engine/objectstore"
	"github.com/ovh/layersync/sdk"
)

// envPrefix follows the GitHub Actions convention for inputs.
const envPrefix = "INPUT"

// flagKeys binds command line flags to configuration keys.
var flagKeys = map[string]string{
	"repo-owner":    "repoOwner",
	"repo":          "repo",
	"token":         "token",
	"layer":         "layer",
	"artifact-name": "artifactName",
	"regions":       "regions",
	"bucket-prefix": "bucketPrefix",
	"description":   "description",
	"commit":        "commit",
	"force":         "force",
	"workdir":       "workdir",
	"log-level":     "log.level",
}

func configBootstrap() Configuration {
	var conf Configuration
	defaults.SetDefaults(&conf)
	defaults.SetDefaults(&conf.AWS)
	defaults.SetDefaults(&conf.GitHub)
	defaults.SetDefaults(&conf.LayerOptions)
	return conf
}

// configToEnvVariables returns the configuration attributes as env variables and binds them in v.
func configToEnvVariables(v *viper.Viper, o interface{}) map[string]string {
	dumper := dump.NewDefaultEncoder()
	dumper.DisableTypePrefix = true
	dumper.Separator = "_"
	dumper.Prefix = envPrefix
	dumper.Formatters = []dump.KeyFormatterFunc{dump.WithDefaultUpperCaseFormatter()}
	envs, _ := dumper.ToStringMap(o)
	if v != nil {
		for key := range envs {
			_ = v.BindEnv(dumper.ViperKey(key), key)
		}
	}
	return envs
}

func configPrintToEnv(c Configuration, w io.Writer) {
	m := configToEnvVariables(nil, c)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		// Print the export command and escape all \n in value
		fmt.Fprintf(w, "export %s=\"%s\"\n", k, strings.ReplaceAll(m[k], "\n", "\\n"))
	}
}

// configImport loads the configuration from, in increasing precedence: defaults, the configuration
// file, the environment and the command line flags.
func configImport(cfgFile string, flags *pflag.FlagSet) (Configuration, error) {
	conf := configBootstrap()

	v := viper.New()
	// Convert the default config to envs to setup binding in viper.
	_ = configToEnvVariables(v, conf)

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return conf, sdk.NewErrorFrom(sdk.ErrWrongConfiguration, "file %s doesn't exist", cfgFile)
		}
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return conf, sdk.NewError(sdk.ErrWrongConfiguration, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return conf, sdk.WithStack(err)
				}
			}
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return conf, sdk.NewError(sdk.ErrWrongConfiguration, err)
	}
	return conf, nil
}

// configCheck validates the configuration of a run.
func configCheck(conf Configuration) error {
	var errs []string
	if conf.Token == "" {
		errs = append(errs, "missing value for token")
	}
	if conf.Parallel <= 0 {
		errs = append(errs, "parallel must be positive")
	}
	if conf.Upload.PartSizeMB < 5 {
		errs = append(errs, "upload.partSizeMB must be at least 5")
	}
	switch conf.Log.Format {
	case "", "text", "json", "discard":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", conf.Log.Format))
	}
	if err := runOptions(conf).Validate(); err != nil {
		errs = append(errs, sdk.ExtractError(err).From)
	}
	if len(errs) > 0 {
		return sdk.NewErrorFrom(sdk.ErrWrongConfiguration, "%s", strings.Join(errs, ", "))
	}
	return nil
}

// runOptions returns the options of a run.
func runOptions(conf Configuration) layersync.Options {
	return layersync.Options{
		RepoOwner:    conf.RepoOwner,
		Repo:         conf.Repo,
		Layer:        conf.Layer,
		ArtifactName: conf.ArtifactName,
		Regions:      sdk.ParseRegions(conf.Regions),
		BucketPrefix: conf.BucketPrefix,
		Description:  conf.Description,
		Force:        conf.Force,
		Parallel:     conf.Parallel,
		SpoolDir:     conf.SpoolDir,
		Upload: objectstore.UploadOptions{
			ChunkSize: conf.Upload.ChunkSizeKB * 1024,
			Depth:     conf.Upload.Depth,
		},
		LayerOptions: conf.LayerOptions,
	}
}
