package layer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/rockbears/log"
	"golang.org/x/sync/errgroup"

	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// Permission granted on every published version.
const (
	PermissionAction    = "lambda:GetLayerVersion"
	PermissionPrincipal = "*"
)

// StatementID returns the id of the permission statement of a layer version.
func StatementID(version int64) string {
	return fmt.Sprintf("layersync-public-%d", version)
}

// PublishInput returns the publication request of a layer version built from an uploaded object.
func PublishInput(layerName string, artifactID int64, upload sdk.UploadResult, opts Options) *lambda.PublishLayerVersionInput {
	in := &lambda.PublishLayerVersionInput{
		LayerName:   aws.String(layerName),
		Description: aws.String(sdk.FormatFingerprint(layerName, artifactID)),
		Content: &lambda.LayerVersionContentInput{
			S3Bucket: aws.String(upload.Bucket),
			S3Key:    aws.String(upload.ObjectKey),
		},
	}
	if len(opts.CompatibleRuntimes) > 0 {
		in.CompatibleRuntimes = aws.StringSlice(opts.CompatibleRuntimes)
	}
	if len(opts.CompatibleArchitectures) > 0 {
		in.CompatibleArchitectures = aws.StringSlice(opts.CompatibleArchitectures)
	}
	if opts.LicenseInfo != "" {
		in.LicenseInfo = aws.String(opts.LicenseInfo)
	}
	return in
}

// Publish registers the uploaded object as a new version of the layer and grants its usage.
// A permission failure is recorded on the result, the published version is kept.
func Publish(ctx context.Context, r Registry, layerName string, artifactID int64, upload sdk.UploadResult, opts Options) sdk.PublishedLayer {
	ctx = context.WithValue(ctx, cdslog.Region, string(r.Region))
	ctx = context.WithValue(ctx, cdslog.Layer, layerName)
	ctx, end := observability.Span(ctx, "layer.Publish", observability.Tag(observability.TagRegion, r.Region))
	defer end()

	res := sdk.PublishedLayer{Region: r.Region}
	out, err := r.API.PublishLayerVersionWithContext(ctx, PublishInput(layerName, artifactID, upload, opts))
	if err != nil {
		res.Err = sdk.WrapError(err, "unable to publish layer %s", layerName)
		log.Warn(ctx, "layer.Publish> %v", res.Err)
		observability.RecordFailure(ctx, r.Region, observability.PhasePublish)
		return res
	}
	res.LayerArn = aws.StringValue(out.LayerArn)
	res.LayerVersionArn = aws.StringValue(out.LayerVersionArn)
	res.VersionNumber = aws.Int64Value(out.Version)
	observability.RecordPublished(ctx, r.Region)
	log.Info(ctx, "layer.Publish> version %d of layer %s published: %s", res.VersionNumber, layerName, res.LayerVersionArn)

	perm := &lambda.AddLayerVersionPermissionInput{
		LayerName:     aws.String(layerName),
		VersionNumber: aws.Int64(res.VersionNumber),
		StatementId:   aws.String(StatementID(res.VersionNumber)),
		Action:        aws.String(PermissionAction),
		Principal:     aws.String(PermissionPrincipal),
	}
	if opts.PrincipalOrgID != "" {
		perm.OrganizationId = aws.String(opts.PrincipalOrgID)
	}
	if _, err := r.API.AddLayerVersionPermissionWithContext(ctx, perm); err != nil {
		res.Err = sdk.WrapError(err, "unable to grant permission on version %d of layer %s", res.VersionNumber, layerName)
		log.Warn(ctx, "layer.Publish> %v", res.Err)
		observability.RecordFailure(ctx, r.Region, observability.PhasePermit)
		return res
	}
	res.PermissionGranted = true
	return res
}

// PublishAll publishes a layer version in every region whose upload succeeded, concurrently.
// Regions without a matching successful upload are skipped. Results are returned in the order of uploads.
func PublishAll(ctx context.Context, registries []Registry, layerName string, artifactID int64, uploads []sdk.UploadResult, opts Options, parallel int) []sdk.PublishedLayer {
	byRegion := make(map[sdk.Region]Registry, len(registries))
	for _, r := range registries {
		byRegion[r.Region] = r
	}

	var results []sdk.PublishedLayer
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	slots := make([]*sdk.PublishedLayer, len(uploads))
	for i := range uploads {
		if !uploads[i].OK() {
			continue
		}
		r, ok := byRegion[uploads[i].Region]
		if !ok {
			log.Warn(ctx, "layer.PublishAll> no layer registry for region %s", uploads[i].Region)
			continue
		}
		i := i
		slots[i] = new(sdk.PublishedLayer)
		g.Go(func() error {
			*slots[i] = Publish(ctx, r, layerName, artifactID, uploads[i], opts)
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range slots {
		if s != nil {
			results = append(results, *s)
		}
	}
	return results
}
