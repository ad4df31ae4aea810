package objectstore

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rockbears/log"
	"golang.org/x/sync/errgroup"

	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// CreateBucketInput returns the creation request of a regional bucket. The default region
// rejects an explicit location constraint, every other region requires it.
func CreateBucketInput(bucket string, region sdk.Region) *s3.CreateBucketInput {
	in := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if region != sdk.DefaultRegion {
		in.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(string(region)),
		}
	}
	return in
}

// EnsureBucket makes sure the bucket prefix+region exists, creating it if it can't be reached.
func EnsureBucket(ctx context.Context, api BucketAPI, bucketPrefix string, region sdk.Region) ProvisionResult {
	bucket := sdk.BucketName(bucketPrefix, region)
	ctx = context.WithValue(ctx, cdslog.Region, string(region))
	ctx = context.WithValue(ctx, cdslog.Bucket, bucket)
	res := ProvisionResult{Region: region, Bucket: bucket}

	_, err := api.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		log.Debug(ctx, "objectstore.EnsureBucket> bucket %s exists", bucket)
		return res
	}
	// Not found, forbidden or unreachable: creation decides
	log.Info(ctx, "objectstore.EnsureBucket> bucket %s is not reachable (%v), creating it", bucket, err)

	if _, err := api.CreateBucketWithContext(ctx, CreateBucketInput(bucket, region)); err != nil {
		res.Err = sdk.WrapError(err, "unable to create bucket %s", bucket)
		log.Warn(ctx, "objectstore.EnsureBucket> %v", res.Err)
		observability.RecordFailure(ctx, region, observability.PhaseProvision)
		return res
	}
	res.Created = true
	log.Info(ctx, "objectstore.EnsureBucket> bucket %s created", bucket)
	return res
}

// EnsureBuckets provisions the bucket of every target concurrently and waits for all of them.
// Results are returned in the order of targets.
func EnsureBuckets(ctx context.Context, targets []Target, bucketPrefix string, parallel int) []ProvisionResult {
	results := make([]ProvisionResult, len(targets))
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range targets {
		i := i
		g.Go(func() error {
			results[i] = EnsureBucket(ctx, targets[i].Bucket, bucketPrefix, targets[i].Region)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
