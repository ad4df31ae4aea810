package layer

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/rockbears/log"
	"golang.org/x/sync/errgroup"

	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// LatestVersion returns the highest version number of the layer, or nil if there is no version.
func LatestVersion(ctx context.Context, api LambdaAPI, layerName string) (*int64, error) {
	var latest *int64
	var marker *string
	for {
		out, err := api.ListLayerVersionsWithContext(ctx, &lambda.ListLayerVersionsInput{
			LayerName: aws.String(layerName),
			Marker:    marker,
		})
		if err != nil {
			return nil, sdk.WrapError(err, "unable to list versions of layer %s", layerName)
		}
		for _, v := range out.LayerVersions {
			if v == nil || v.Version == nil {
				continue
			}
			if latest == nil || *v.Version > *latest {
				latest = aws.Int64(*v.Version)
			}
		}
		if aws.StringValue(out.NextMarker) == "" {
			return latest, nil
		}
		marker = out.NextMarker
	}
}

// CollectState fetches the state of the layer in a region. Registry failures are recorded on the
// state, which is then considered missing.
func CollectState(ctx context.Context, r Registry, layerName string) sdk.RegionalLayerState {
	ctx = context.WithValue(ctx, cdslog.Region, string(r.Region))
	ctx = context.WithValue(ctx, cdslog.Layer, layerName)
	state := sdk.RegionalLayerState{Region: r.Region}

	version, err := LatestVersion(ctx, r.API, layerName)
	if err != nil {
		state.Err = err
		log.Warn(ctx, "layer.CollectState> %v", err)
		observability.RecordFailure(ctx, r.Region, observability.PhaseCollect)
		return state
	}
	if version == nil {
		log.Info(ctx, "layer.CollectState> layer %s has no version in %s", layerName, r.Region)
		return state
	}

	out, err := r.API.GetLayerVersionWithContext(ctx, &lambda.GetLayerVersionInput{
		LayerName:     aws.String(layerName),
		VersionNumber: version,
	})
	if err != nil {
		state.Err = sdk.WrapError(err, "unable to get version %d of layer %s", *version, layerName)
		log.Warn(ctx, "layer.CollectState> %v", state.Err)
		observability.RecordFailure(ctx, r.Region, observability.PhaseCollect)
		return state
	}

	state.Exists = true
	state.CurrentVersion = version
	state.ArtifactID = sdk.ParseFingerprint(aws.StringValue(out.Description))
	log.Debug(ctx, "layer.CollectState> version %d of layer %s has fingerprint %q", *version, layerName, state.ArtifactID)
	return state
}

// Collect fetches the state of the layer in every region concurrently. States are returned in the
// order of registries.
func Collect(ctx context.Context, registries []Registry, layerName string, parallel int) []sdk.RegionalLayerState {
	states := make([]sdk.RegionalLayerState, len(registries))
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range registries {
		i := i
		g.Go(func() error {
			states[i] = CollectState(ctx, registries[i], layerName)
			return nil
		})
	}
	_ = g.Wait()
	return states
}
