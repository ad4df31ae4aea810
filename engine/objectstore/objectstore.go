package objectstore

import (
	"context"

	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/ovh/layersync/sdk"
)

//go:generate mockgen -source=objectstore.go -destination=mock_objectstore/interface_mock.go

// BucketAPI is the subset of the S3 API used to provision buckets.
type BucketAPI interface {
	HeadBucketWithContext(ctx context.Context, input *s3.HeadBucketInput, opts ...request.Option) (*s3.HeadBucketOutput, error)
	CreateBucketWithContext(ctx context.Context, input *s3.CreateBucketInput, opts ...request.Option) (*s3.CreateBucketOutput, error)
}

// Uploader streams an object to S3. It is implemented by *s3manager.Uploader.
type Uploader interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Target is the object store of one region.
type Target struct {
	Region   sdk.Region
	Bucket   BucketAPI
	Uploader Uploader
}

// ProvisionResult is the result of the bucket provisioning of a region.
type ProvisionResult struct {
	Region  sdk.Region
	Bucket  string
	Created bool
	Err     error
}

// OK returns true if the bucket is ready to receive the artifact.
func (p ProvisionResult) OK() bool { return p.Err == nil }
