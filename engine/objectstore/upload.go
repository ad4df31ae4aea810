package objectstore

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
	"github.com/rockbears/log"
	"golang.org/x/sync/errgroup"

	"github.com/ovh/layersync/engine/observability"
	"github.com/ovh/layersync/sdk"
	"github.com/ovh/layersync/sdk/fanout"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// UploadOptions tunes the fan-out between the source and the regional uploads.
type UploadOptions struct {
	ChunkSize   int
	Depth       int
	ContentType string
}

// UploadAll streams body once to the bucket of every target, under the same object key.
// Uploads run concurrently, each one reading its own fan-out reader, and a failing upload doesn't
// interrupt the others. It returns one result per target, in the order of targets. The returned
// error is only set when reading the source failed, in which case every upload failed too.
func UploadAll(ctx context.Context, targets []Target, bucketPrefix, key string, body io.Reader, opts UploadOptions) ([]sdk.UploadResult, error) {
	results := make([]sdk.UploadResult, len(targets))
	if len(targets) == 0 {
		return results, nil
	}

	names := make([]string, len(targets))
	for i := range targets {
		names[i] = string(targets[i].Region)
	}
	w, readers := fanout.New(ctx, names, fanout.Options{ChunkSize: opts.ChunkSize, Depth: opts.Depth})

	// Every upload must be consuming its reader while the source is copied: no parallel limit here
	var g errgroup.Group
	for i := range targets {
		i := i
		g.Go(func() error {
			results[i] = upload(ctx, targets[i], readers[i], bucketPrefix, key, opts.ContentType)
			return nil
		})
	}

	t0 := time.Now()
	n, err := io.Copy(w, body)
	if errors.Is(err, fanout.ErrNoReader) {
		log.Warn(ctx, "objectstore.UploadAll> every upload has stopped after %d bytes", n)
		err = nil
	}
	if err != nil {
		_ = w.CloseWithError(err)
	} else {
		_ = w.Close()
	}
	_ = g.Wait()

	ctx = context.WithValue(ctx, cdslog.Size, n)
	ctx = context.WithValue(ctx, cdslog.Duration, time.Since(t0).Milliseconds())
	if err != nil {
		return results, sdk.WrapError(err, "unable to read artifact payload")
	}
	log.Info(ctx, "objectstore.UploadAll> %d bytes of %s streamed to %d regions", n, key, len(targets))
	return results, nil
}

func upload(ctx context.Context, t Target, r *fanout.Reader, bucketPrefix, key, contentType string) sdk.UploadResult {
	bucket := sdk.BucketName(bucketPrefix, t.Region)
	ctx = context.WithValue(ctx, cdslog.Region, string(t.Region))
	ctx = context.WithValue(ctx, cdslog.Bucket, bucket)
	ctx = context.WithValue(ctx, cdslog.ObjectKey, key)
	ctx, end := observability.Span(ctx, "objectstore.upload", observability.Tag(observability.TagRegion, t.Region))
	defer end()

	res := sdk.UploadResult{Region: t.Region, Bucket: bucket, ObjectKey: key}
	in := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	log.Debug(ctx, "objectstore.upload> uploading %s to %s", key, bucket)
	out, err := t.Uploader.UploadWithContext(ctx, in)
	if err != nil {
		// Detach the reader so that the other regions are not slowed down
		_ = r.CloseWithError(err)
		res.Err = sdk.WrapError(err, "unable to upload %s to bucket %s", key, bucket)
		log.Warn(ctx, "objectstore.upload> %v", res.Err)
		observability.RecordFailure(ctx, t.Region, observability.PhaseUpload)
		return res
	}
	_ = r.Close()

	if out != nil {
		res.Location = out.Location
	}
	observability.RecordUpload(ctx, t.Region, r.BytesRead())
	log.Info(ctx, "objectstore.upload> %s uploaded to %s (%d bytes)", key, bucket, r.BytesRead())
	return res
}
