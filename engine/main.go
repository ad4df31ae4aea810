package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ovh/layersync/cli"
)

func init() {
	mainCmd.AddCommand(versionCmd)
	mainCmd.AddCommand(runCmd)
	mainCmd.AddCommand(configCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Gracefully shutdown all
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	cli.ExitOnError(mainCmd.ExecuteContext(ctx))
}

var mainCmd = &cobra.Command{
	Use:   "layersync",
	Short: "Distribute the latest CI artifact of a repository as a Lambda layer in many regions",
	Long: `
Distribute the latest CI artifact of a repository as an AWS Lambda layer in many regions.

The latest artifact is compared to the layer published in every region. If one region is not
up to date, the artifact is uploaded once to a bucket per region and a new layer version is
published everywhere. A Markdown report lists the published ARNs.

Configuration is read from a TOML file, the environment (INPUT_* variables, as GitHub Actions
inputs) and the command line flags.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
}
