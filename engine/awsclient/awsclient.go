package awsclient

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

// Config is the configuration shared by every regional client.
// Auth options: a profile name, the environment (default chain) or access keys.
type Config struct {
	Endpoint        string `toml:"endpoint" default:"" comment:"Custom AWS endpoint (ie. localstack). Empty means AWS" json:"endpoint"`
	ForcePathStyle  bool   `toml:"forcePathStyle" default:"false" comment:"Use path-style S3 URLs, required by most S3 emulators" json:"forcePathStyle"`
	Profile         string `toml:"profile" default:"" comment:"Shared credentials profile" json:"profile"`
	AccessKeyID     string `toml:"accessKeyID" default:"" json:"accessKeyID"`
	SecretAccessKey string `toml:"secretAccessKey" default:"" json:"secretAccessKey"`
	SessionToken    string `toml:"sessionToken" default:"" json:"sessionToken"`
}

// UploadConfig tunes multipart uploads.
type UploadConfig struct {
	PartSizeMB  int64 `toml:"partSizeMB" default:"5" comment:"Size of each multipart chunk, minimum 5" json:"partSizeMB"`
	Concurrency int   `toml:"concurrency" default:"2" comment:"Number of parts uploaded concurrently in each region" json:"concurrency"`
}

// Clients are the AWS clients of a region.
type Clients struct {
	Region   sdk.Region
	S3       *s3.S3
	Uploader *s3manager.Uploader
	Lambda   *lambda.Lambda
}

// Factory builds and caches one set of clients per region.
type Factory struct {
	config  Config
	upload  UploadConfig
	mutex   sync.Mutex
	clients map[sdk.Region]*Clients
}

// NewFactory returns a client factory.
func NewFactory(cfg Config, upload UploadConfig) *Factory {
	return &Factory{
		config:  cfg,
		upload:  upload,
		clients: make(map[sdk.Region]*Clients),
	}
}

// AWSConfig returns the aws-sdk-go configuration for a region.
func (f *Factory) AWSConfig(region sdk.Region) *aws.Config {
	cfg := aws.NewConfig().WithRegion(string(region))
	if f.config.Endpoint != "" {
		cfg = cfg.WithEndpoint(f.config.Endpoint)
	}
	if f.config.ForcePathStyle {
		cfg = cfg.WithS3ForcePathStyle(true)
	}
	switch {
	case f.config.AccessKeyID != "" && f.config.SecretAccessKey != "":
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(f.config.AccessKeyID, f.config.SecretAccessKey, f.config.SessionToken))
	case f.config.Profile != "":
		cfg = cfg.WithCredentials(credentials.NewSharedCredentials("", f.config.Profile))
	}
	return cfg
}

// Get returns the clients of a region, creating them at first call.
func (f *Factory) Get(ctx context.Context, region sdk.Region) (*Clients, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if c, ok := f.clients[region]; ok {
		return c, nil
	}

	sess, err := session.NewSession(f.AWSConfig(region))
	if err != nil {
		return nil, sdk.WrapError(err, "unable to create aws session for region %s", region)
	}
	log.Debug(ctx, "awsclient.Get> new session for region %s", region)

	partSize := f.upload.PartSizeMB * 1024 * 1024
	if partSize < s3manager.MinUploadPartSize {
		partSize = s3manager.MinUploadPartSize
	}
	c := &Clients{
		Region: region,
		S3:     s3.New(sess),
		Uploader: s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
			u.PartSize = partSize
			if f.upload.Concurrency > 0 {
				u.Concurrency = f.upload.Concurrency
			}
		}),
		Lambda: lambda.New(sess),
	}
	f.clients[region] = c
	return c, nil
}
