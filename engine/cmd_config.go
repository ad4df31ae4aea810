package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	toml "github.com/yesnault/go-toml"

	"github.com/ovh/layersync/cli"
)

var configCmd = cli.NewCommand(cli.Command{
	Name:  "config",
	Short: "Manage layersync configuration",
}, nil, cli.SubCommands{configNewCmd, configCheckCmd})

var configNewCmd = cli.NewCommand(cli.Command{
	Name:  "new",
	Short: "layersync configuration file assistant",
	Long: `
Generate the whole configuration file
	$ layersync config new > layersync.toml

Generate the environment variables
	$ layersync config new --env
`,
	Flags: []cli.Flag{
		{Name: "env", Type: cli.FlagBool, Default: "false", Usage: "Print configuration as environment variable"},
	},
}, func(v cli.Values) error {
	conf := configBootstrap()
	if v.GetBool("env") {
		configPrintToEnv(conf, os.Stdout)
		return nil
	}
	btes, err := toml.Marshal(conf)
	if err != nil {
		return err
	}
	fmt.Println(string(btes))
	return nil
}, nil)

var configCheckCmd = newConfigCheckCmd()

func newConfigCheckCmd() *cobra.Command {
	var cmd *cobra.Command
	cmd = cli.NewCommand(cli.Command{
		Name:  "check",
		Short: "Check layersync configuration",
		Long:  `$ layersync config check [path]`,
		OptionalArgs: []cli.Arg{
			{Name: "path"},
		},
	}, func(v cli.Values) error {
		conf, err := configImport(v.GetString("path"), nil)
		if err != nil {
			return err
		}
		if err := configCheck(conf); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration file OK")
		return nil
	}, nil)
	return cmd
}
