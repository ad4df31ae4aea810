package main

import (
	"context"
	"os"

	"github.com/rockbears/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ovh/layersync/cli"
	"github.com/ovh/layersync/engine/awsclient"
	"github.com/ovh/layersync/engine/layersync"
	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/engine/report"
	"github.com/ovh/layersync/engine/vcs/github"
	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

const (
	reportAuthorName  = "layersync"
	reportAuthorEmail = "layersync@users.noreply.github.com"
)

var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	var cmd *cobra.Command
	cmd = cli.NewCommand(cli.Command{
		Name:  "run",
		Short: "Distribute the latest artifact to every region",
		Long: `
Distribute the latest artifact of the repository to every configured region, if at least one region
is not up to date.

Exit codes:
	0: success or nothing to do
	2: wrong configuration
	3: the repository has no available artifact
	4: the distribution failed in at least one region
`,
		Example: `  layersync run --config layersync.toml
  INPUT_REPOOWNER=ovh INPUT_REPO=my-layer INPUT_REGIONS=eu-west-1,us-east-1 INPUT_BUCKETPREFIX=layers- layersync run --dry-run`,
		Flags: []cli.Flag{
			{Name: "config", Usage: "config file"},
			{Name: "repo-owner", Usage: "owner of the repository"},
			{Name: "repo", Usage: "repository building the layer"},
			{Name: "token", Usage: "GitHub token"},
			{Name: "layer", Usage: "name of the layer, defaults to the repository name"},
			{Name: "artifact-name", Usage: "only consider artifacts with this name"},
			{Name: "regions", Usage: "comma separated list of regions"},
			{Name: "bucket-prefix", Usage: "buckets are named <bucket-prefix><region>"},
			{Name: "description", Usage: "description of the layer"},
			{Name: "workdir", Usage: "git working copy where the report is committed"},
			{Name: "log-level", Usage: "log level: debug, info, warning, error"},
			{Name: "commit", Type: cli.FlagBool, Default: "false", Usage: "commit and push the report"},
			{Name: "force", Type: cli.FlagBool, Default: "false", Usage: "publish even if every region is up to date"},
			{Name: "dry-run", Type: cli.FlagBool, Default: "false", Usage: "only collect the state of every region and display the plan"},
		},
	}, func(v cli.Values) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		conf, err := configImport(v.GetString("config"), cmd.Flags())
		if err != nil {
			return err
		}
		return run(ctx, conf, v.GetBool("dry-run"))
	}, nil)
	return cmd
}

func run(ctx context.Context, conf Configuration, dryRun bool) error {
	cdslog.Initialize(ctx, &cdslog.Conf{
		Level:      conf.Log.Level,
		Format:     conf.Log.Format,
		TextFields: conf.Log.TextFields,
	})
	log.Info(ctx, "layersync> %s", sdk.VersionString())

	if err := configCheck(conf); err != nil {
		return err
	}
	if err := observability.RegisterViews(ctx); err != nil {
		return err
	}

	s := newService(conf)
	s.Options.DryRun = dryRun
	res, err := s.Run(ctx)
	if dryRun && err == nil {
		return cli.Display(os.Stdout, res.Decision, "plain")
	}
	return err
}

func newService(conf Configuration) *layersync.Service {
	factory := awsclient.NewFactory(conf.AWS, awsclient.UploadConfig{
		PartSizeMB:  conf.Upload.PartSizeMB,
		Concurrency: conf.Upload.Concurrency,
	})

	var persister report.Persister = report.WriterPersister{Out: os.Stdout}
	if conf.Commit {
		persister = report.GitPersister{
			Workdir:     conf.Workdir,
			Filename:    conf.ReportFile,
			Token:       conf.Token,
			Push:        true,
			AuthorName:  reportAuthorName,
			AuthorEmail: reportAuthorEmail,
		}
	}

	return &layersync.Service{
		Options: runOptions(conf),
		CI:      github.New(conf.GitHub, conf.Token),
		Clients: func(ctx context.Context, region sdk.Region) (layersync.RegionalClients, error) {
			c, err := factory.Get(ctx, region)
			if err != nil {
				return layersync.RegionalClients{}, err
			}
			return layersync.RegionalClients{Bucket: c.S3, Uploader: c.Uploader, Lambda: c.Lambda}, nil
		},
		Fs:        afero.NewOsFs(),
		Persister: persister,
	}
}
