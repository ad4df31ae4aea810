package layersync

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/ovh/layersync/engine/layer"
	"github.com/ovh/layersync/engine/objectstore"
	"github.com/ovh/layersync/engine/report"
	"github.com/ovh/layersync/sdk"
)

//go:generate mockgen -destination=mock_layersync/interface_mock.go -package mock_layersync github.com/ovh/layersync/engine/layersync CIClient
//go:generate mockgen -destination=mock_layersync/persister_mock.go -package mock_layersync github.com/ovh/layersync/engine/report Persister

// CIClient reads the artifacts and the releases of a repository.
type CIClient interface {
	LatestArtifact(ctx context.Context, owner, repo, name string) (sdk.ArtifactReference, error)
	LatestReleaseName(ctx context.Context, owner, repo string) (string, error)
	DownloadArtifact(ctx context.Context, a sdk.ArtifactReference) (io.ReadCloser, error)
}

// RegionalClients are the clients used to distribute the artifact in a region.
type RegionalClients struct {
	Bucket   objectstore.BucketAPI
	Uploader objectstore.Uploader
	Lambda   layer.LambdaAPI
}

// ClientsFunc returns the clients of a region.
type ClientsFunc func(ctx context.Context, region sdk.Region) (RegionalClients, error)

// Options are the parameters of a run.
type Options struct {
	RepoOwner    string
	Repo         string
	Layer        string
	ArtifactName string
	Regions      sdk.Regions
	BucketPrefix string
	Description  string
	Force        bool
	DryRun       bool
	Parallel     int
	SpoolDir     string
	Upload       objectstore.UploadOptions
	LayerOptions layer.Options
}

// LayerName returns the name of the layer, which defaults to the repository name.
func (o Options) LayerName() string {
	if o.Layer != "" {
		return o.Layer
	}
	return o.Repo
}

// Validate checks the required options.
func (o Options) Validate() error {
	var missing []string
	if o.RepoOwner == "" {
		missing = append(missing, "repoOwner")
	}
	if o.Repo == "" {
		missing = append(missing, "repo")
	}
	if len(o.Regions) == 0 {
		missing = append(missing, "regions")
	}
	if o.BucketPrefix == "" {
		missing = append(missing, "bucketPrefix")
	}
	if len(missing) > 0 {
		return sdk.NewErrorFrom(sdk.ErrWrongConfiguration, "missing value for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Service runs the distribution of the latest artifact of a repository.
type Service struct {
	Options   Options
	CI        CIClient
	Clients   ClientsFunc
	Fs        afero.Fs
	Persister report.Persister
	Now       func() time.Time
}

// Result is the outcome of a run.
type Result struct {
	Artifact    sdk.ArtifactReference
	States      []sdk.RegionalLayerState
	Decision    Decision
	Provisioned []objectstore.ProvisionResult
	ObjectKey   string
	Uploads     []sdk.UploadResult
	Published   []sdk.PublishedLayer
	Report      string
}
