package main

import (
	"github.com/ovh/layersync/cli"
	"github.com/ovh/layersync/sdk"
)

var versionCmd = cli.NewGetCommand(cli.Command{
	Name:  "version",
	Short: "Display layersync version",
}, func(v cli.Values) (cli.GetResult, error) {
	return sdk.VersionCurrent(), nil
}, nil)
