package layersync

import (
	"context"
	"strconv"
	"time"

	"github.com/rockbears/log"
	"go.uber.org/multierr"

	"github.com/ovh/layersync/engine/artifact"
	"github.com/ovh/layersync/engine/layer"
	"github.com/ovh/layersync/engine/objectstore"
	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/engine/report"
	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// Run distributes the latest artifact of the repository to every configured region if one of them
// is not up to date. Regional failures don't stop the other regions: they are returned together as
// a sdk.ErrRegionalFailure once the report has been persisted.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result
	o := s.Options
	if err := o.Validate(); err != nil {
		return res, err
	}
	layerName := o.LayerName()
	ctx = context.WithValue(ctx, cdslog.Repository, o.RepoOwner+"/"+o.Repo)
	ctx = context.WithValue(ctx, cdslog.Layer, layerName)

	a, err := s.CI.LatestArtifact(ctx, o.RepoOwner, o.Repo, o.ArtifactName)
	if err != nil {
		return res, err
	}
	res.Artifact = a
	ctx = context.WithValue(ctx, cdslog.ArtifactID, strconv.FormatInt(a.ID, 10))
	log.Info(ctx, "layersync.Run> latest artifact of %s/%s is %d (%s)", o.RepoOwner, o.Repo, a.ID, a.Name)

	clients := make([]RegionalClients, len(o.Regions))
	for i, r := range o.Regions {
		c, err := s.Clients(ctx, r)
		if err != nil {
			return res, sdk.WrapError(err, "unable to get clients of region %s", r)
		}
		clients[i] = c
	}

	// Collect
	registries := make([]layer.Registry, len(o.Regions))
	for i, r := range o.Regions {
		registries[i] = layer.Registry{Region: r, API: clients[i].Lambda}
	}
	res.States = s.collect(ctx, registries, layerName)

	// Decide
	res.Decision = Decide(ctx, res.States, a.ID, o.Force)
	log.Info(ctx, "layersync.Run> %s", res.Decision)
	if res.Decision.UpToDate {
		return res, nil
	}
	if o.DryRun {
		log.Info(ctx, "layersync.Run> dry run: artifact %d would be published in %s", a.ID, joinRegions(res.Decision.Targets))
		return res, nil
	}

	var regionalErr error

	// Provision
	targets := make([]objectstore.Target, len(o.Regions))
	for i, r := range o.Regions {
		targets[i] = objectstore.Target{Region: r, Bucket: clients[i].Bucket, Uploader: clients[i].Uploader}
	}
	res.Provisioned = s.provision(ctx, targets)
	var ready []objectstore.Target
	for i := range res.Provisioned {
		if res.Provisioned[i].OK() {
			ready = append(ready, targets[i])
			continue
		}
		regionalErr = multierr.Append(regionalErr, res.Provisioned[i].Err)
	}
	if len(ready) == 0 {
		return res, sdk.NewError(sdk.ErrNothingToPublish, regionalErr)
	}

	// Upload
	uploads, key, err := s.upload(ctx, a, ready)
	res.Uploads = uploads
	res.ObjectKey = key
	if err != nil {
		return res, err
	}
	var uploaded int
	for _, u := range uploads {
		if u.OK() {
			uploaded++
			continue
		}
		regionalErr = multierr.Append(regionalErr, u.Err)
	}
	if uploaded == 0 {
		return res, sdk.NewError(sdk.ErrNothingToPublish, regionalErr)
	}

	// Publish
	res.Published = s.publish(ctx, registries, layerName, a.ID, uploads)
	var published int
	for _, p := range res.Published {
		if p.IsPublished() {
			published++
		}
		if p.Err != nil {
			regionalErr = multierr.Append(regionalErr, p.Err)
		}
	}

	// Report
	if published > 0 {
		if err := s.report(ctx, res.Published, &res); err != nil {
			return res, err
		}
	} else {
		log.Warn(ctx, "layersync.Run> no layer version published, the report is left untouched")
	}

	s.logSummary(ctx)

	if regionalErr != nil {
		for _, e := range multierr.Errors(regionalErr) {
			log.Error(ctx, "layersync.Run> %v", e)
		}
		return res, sdk.NewError(sdk.ErrRegionalFailure, regionalErr)
	}
	log.Info(ctx, "layersync.Run> artifact %d published in %d regions", a.ID, published)
	return res, nil
}

func (s *Service) collect(ctx context.Context, registries []layer.Registry, layerName string) []sdk.RegionalLayerState {
	ctx = context.WithValue(ctx, cdslog.Phase, observability.PhaseCollect)
	ctx, end := observability.Span(ctx, "layersync.collect")
	defer end()
	return layer.Collect(ctx, registries, layerName, s.Options.Parallel)
}

func (s *Service) provision(ctx context.Context, targets []objectstore.Target) []objectstore.ProvisionResult {
	ctx = context.WithValue(ctx, cdslog.Phase, observability.PhaseProvision)
	ctx, end := observability.Span(ctx, "layersync.provision")
	defer end()
	return objectstore.EnsureBuckets(ctx, targets, s.Options.BucketPrefix, s.Options.Parallel)
}

// upload downloads the artifact, checks its content and streams its single file to every target.
func (s *Service) upload(ctx context.Context, a sdk.ArtifactReference, targets []objectstore.Target) ([]sdk.UploadResult, string, error) {
	ctx = context.WithValue(ctx, cdslog.Phase, observability.PhaseUpload)
	ctx, end := observability.Span(ctx, "layersync.upload")
	defer end()

	body, err := s.CI.DownloadArtifact(ctx, a)
	if err != nil {
		return nil, "", err
	}
	spooled, err := artifact.Spool(ctx, s.Fs, s.Options.SpoolDir, body)
	_ = body.Close()
	if err != nil {
		return nil, "", err
	}
	defer spooled.Close() // nolint

	entry, err := artifact.OpenSingleEntry(ctx, spooled)
	if err != nil {
		return nil, "", sdk.WrapError(err, "invalid artifact %d", a.ID)
	}
	defer entry.Close() // nolint

	// The object key is computed once and shared by every region
	key := entry.Name
	ctx = context.WithValue(ctx, cdslog.ObjectKey, key)
	results, err := objectstore.UploadAll(ctx, targets, s.Options.BucketPrefix, key, entry, s.Options.Upload)
	return results, key, err
}

func (s *Service) publish(ctx context.Context, registries []layer.Registry, layerName string, artifactID int64, uploads []sdk.UploadResult) []sdk.PublishedLayer {
	ctx = context.WithValue(ctx, cdslog.Phase, observability.PhasePublish)
	ctx, end := observability.Span(ctx, "layersync.publish")
	defer end()
	return layer.PublishAll(ctx, registries, layerName, artifactID, uploads, s.Options.LayerOptions, s.Options.Parallel)
}

func (s *Service) report(ctx context.Context, layers []sdk.PublishedLayer, res *Result) error {
	o := s.Options
	releaseName, err := s.CI.LatestReleaseName(ctx, o.RepoOwner, o.Repo)
	if err != nil {
		log.Warn(ctx, "layersync.report> unable to get latest release of %s/%s: %v", o.RepoOwner, o.Repo, err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	res.Report = report.Generate(report.Info{
		Title:        report.DefaultTitle(o.LayerName()),
		Description:  o.Description,
		Instructions: report.DefaultInstructions(o.LayerName()),
		ReleaseName:  releaseName,
		UpdatedAt:    now(),
		Layers:       layers,
	})
	if s.Persister == nil {
		return nil
	}
	return s.Persister.Persist(ctx, res.Report)
}

func (s *Service) logSummary(ctx context.Context) {
	summary, err := observability.Snapshot()
	if err != nil {
		log.Debug(ctx, "layersync.logSummary> %v", err)
		return
	}
	var total int64
	for _, n := range summary.UploadedBytes {
		total += n
	}
	ctx = context.WithValue(ctx, cdslog.Size, total)
	log.Info(ctx, "layersync.Run> %d bytes uploaded, %d layer versions published, failures: %v", total, len(summary.Published), summary.Failures)
}
