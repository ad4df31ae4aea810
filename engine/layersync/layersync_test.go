package layersync

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/golang/mock/gomock"
	"github.com/rockbears/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovh/layersync/engine/layer/mock_layer"
	"github.com/ovh/layersync/engine/layersync/mock_layersync"
	"github.com/ovh/layersync/engine/objectstore/mock_objectstore"
	"github.com/ovh/layersync/sdk"
)

func TestDecide(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	v := aws.Int64(3)
	tests := []struct {
		name       string
		states     []sdk.RegionalLayerState
		artifactID int64
		force      bool
		upToDate   bool
		missing    sdk.Regions
		stale      sdk.Regions
	}{
		{
			name: "every region is up to date",
			states: []sdk.RegionalLayerState{
				{Region: "a", Exists: true, CurrentVersion: v, ArtifactID: "77"},
				{Region: "b", Exists: true, CurrentVersion: v, ArtifactID: "77"},
			},
			artifactID: 77,
			upToDate:   true,
		},
		{
			name: "up to date but forced",
			states: []sdk.RegionalLayerState{
				{Region: "a", Exists: true, CurrentVersion: v, ArtifactID: "77"},
			},
			artifactID: 77,
			force:      true,
		},
		{
			name: "new artifact and missing region",
			states: []sdk.RegionalLayerState{
				{Region: "a", Exists: true, CurrentVersion: v, ArtifactID: "77"},
				{Region: "b"},
			},
			artifactID: 78,
			missing:    sdk.Regions{"b"},
			stale:      sdk.Regions{"a"},
		},
		{
			name: "reference is up to date but a region is missing",
			states: []sdk.RegionalLayerState{
				{Region: "a", Exists: true, CurrentVersion: v, ArtifactID: "77"},
				{Region: "b", Exists: true, CurrentVersion: v},
			},
			artifactID: 77,
			missing:    sdk.Regions{"b"},
		},
		{
			name: "first fingerprint is the reference",
			states: []sdk.RegionalLayerState{
				{Region: "a"},
				{Region: "b", Exists: true, CurrentVersion: v, ArtifactID: "77"},
				{Region: "c", Exists: true, CurrentVersion: v, ArtifactID: "76"},
			},
			artifactID: 77,
			missing:    sdk.Regions{"a"},
			stale:      sdk.Regions{"c"},
		},
		{
			name:       "nothing published yet",
			states:     []sdk.RegionalLayerState{{Region: "a"}, {Region: "b"}},
			artifactID: 1,
			missing:    sdk.Regions{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(context.TODO(), tt.states, tt.artifactID, tt.force)
			assert.Equal(t, tt.upToDate, d.UpToDate)
			assert.Equal(t, tt.missing, d.Missing)
			assert.Equal(t, tt.stale, d.Stale)
			if tt.upToDate {
				assert.Empty(t, d.Targets)
			} else {
				assert.Len(t, d.Targets, len(tt.states), "every region is republished")
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	err := Options{Repo: "my-layer"}.Validate()
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrWrongConfiguration))
	assert.Contains(t, err.Error(), "repoOwner, regions, bucketPrefix")
	assert.Equal(t, 2, sdk.ExitCode(err))

	o := Options{RepoOwner: "ovh", Repo: "my-layer", Regions: sdk.Regions{"eu-west-1"}, BucketPrefix: "layers-"}
	require.NoError(t, o.Validate())
	assert.Equal(t, "my-layer", o.LayerName())
	o.Layer = "other"
	assert.Equal(t, "other", o.LayerName())
}

type regionMocks struct {
	bucket   *mock_objectstore.MockBucketAPI
	uploader *mock_objectstore.MockUploader
	lambda   *mock_layer.MockLambdaAPI
	received bytes.Buffer
	key      string
	mutex    sync.Mutex
}

type testEnv struct {
	ctrl      *gomock.Controller
	ci        *mock_layersync.MockCIClient
	persister *mock_layersync.MockPersister
	regions   map[sdk.Region]*regionMocks
	service   *Service
}

func newTestEnv(t *testing.T, regions ...sdk.Region) *testEnv {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	env := &testEnv{
		ctrl:      ctrl,
		ci:        mock_layersync.NewMockCIClient(ctrl),
		persister: mock_layersync.NewMockPersister(ctrl),
		regions:   make(map[sdk.Region]*regionMocks),
	}
	for _, r := range regions {
		env.regions[r] = &regionMocks{
			bucket:   mock_objectstore.NewMockBucketAPI(ctrl),
			uploader: mock_objectstore.NewMockUploader(ctrl),
			lambda:   mock_layer.NewMockLambdaAPI(ctrl),
		}
	}
	env.service = &Service{
		Options: Options{
			RepoOwner:    "ovh",
			Repo:         "my-layer",
			Regions:      regions,
			BucketPrefix: "layers-",
			Description:  "My shared layer",
			Parallel:     4,
			SpoolDir:     "/tmp/layersync",
		},
		CI: env.ci,
		Clients: func(ctx context.Context, r sdk.Region) (RegionalClients, error) {
			m := env.regions[r]
			return RegionalClients{Bucket: m.bucket, Uploader: m.uploader, Lambda: m.lambda}, nil
		},
		Fs:        afero.NewMemMapFs(),
		Persister: env.persister,
		Now:       func() time.Time { return time.Date(2023, 3, 4, 10, 0, 0, 0, time.UTC) },
	}
	return env
}

// withLayer sets the current state of the layer in a region. A zero artifact id means no layer.
func (env *testEnv) withLayer(r sdk.Region, artifactID int64) {
	m := env.regions[r]
	if artifactID == 0 {
		m.lambda.EXPECT().ListLayerVersionsWithContext(gomock.Any(), gomock.Any()).Return(&lambda.ListLayerVersionsOutput{}, nil)
		return
	}
	m.lambda.EXPECT().ListLayerVersionsWithContext(gomock.Any(), gomock.Any()).Return(&lambda.ListLayerVersionsOutput{
		LayerVersions: []*lambda.LayerVersionsListItem{{Version: aws.Int64(1)}, {Version: aws.Int64(2)}},
	}, nil)
	m.lambda.EXPECT().GetLayerVersionWithContext(gomock.Any(), &lambda.GetLayerVersionInput{LayerName: aws.String("my-layer"), VersionNumber: aws.Int64(2)}).
		Return(&lambda.GetLayerVersionOutput{Description: aws.String(sdk.FormatFingerprint("my-layer", artifactID))}, nil)
}

func (env *testEnv) withBucket(r sdk.Region) {
	env.regions[r].bucket.EXPECT().HeadBucketWithContext(gomock.Any(), gomock.Any()).Return(&s3.HeadBucketOutput{}, nil)
}

func (env *testEnv) withUpload(r sdk.Region, fail bool) {
	m := env.regions[r]
	m.uploader.EXPECT().UploadWithContext(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
			if fail {
				return nil, awserr.New("RequestTimeout", "connection reset by peer", nil)
			}
			m.mutex.Lock()
			defer m.mutex.Unlock()
			m.key = aws.StringValue(in.Key)
			if _, err := io.Copy(&m.received, in.Body); err != nil {
				return nil, err
			}
			return &s3manager.UploadOutput{Location: "https://" + aws.StringValue(in.Bucket) + ".s3.amazonaws.com/" + m.key}, nil
		},
	)
}

func (env *testEnv) withPublish(r sdk.Region, artifactID int64, version int64) {
	env.withPublishedVersion(r, artifactID, version)
	env.regions[r].lambda.EXPECT().AddLayerVersionPermissionWithContext(gomock.Any(), gomock.Any()).Return(&lambda.AddLayerVersionPermissionOutput{}, nil)
}

func (env *testEnv) withPublishedVersion(r sdk.Region, artifactID int64, version int64) {
	m := env.regions[r]
	m.lambda.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *lambda.PublishLayerVersionInput, opts ...request.Option) (*lambda.PublishLayerVersionOutput, error) {
			if aws.StringValue(in.Description) != sdk.FormatFingerprint("my-layer", artifactID) {
				return nil, awserr.New("InvalidParameterValueException", "unexpected description "+aws.StringValue(in.Description), nil)
			}
			arn := "arn:aws:lambda:" + string(r) + ":123456789012:layer:my-layer"
			return &lambda.PublishLayerVersionOutput{
				LayerArn:        aws.String(arn),
				LayerVersionArn: aws.String(arn + ":" + strconv.FormatInt(version, 10)),
				Version:         aws.Int64(version),
			}, nil
		},
	)
}

func (env *testEnv) withArtifact(id int64, entries map[string]string) {
	a := sdk.ArtifactReference{ID: id, Name: "layer", DownloadURL: "https://api.github.com/repos/ovh/my-layer/actions/artifacts/" + strconv.FormatInt(id, 10) + "/zip"}
	env.ci.EXPECT().LatestArtifact(gomock.Any(), "ovh", "my-layer", "").Return(a, nil)
	if entries != nil {
		env.ci.EXPECT().DownloadArtifact(gomock.Any(), a).Return(io.NopCloser(bytes.NewReader(buildZip(entries))), nil)
	}
}

func buildZip(entries map[string]string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestRunEveryRegionUpToDate(t *testing.T) {
	env := newTestEnv(t, "us-west-1", "us-west-2")
	defer env.ctrl.Finish()

	env.withArtifact(77, nil)
	env.withLayer("us-west-1", 77)
	env.withLayer("us-west-2", 77)
	// Nothing is mutated
	for _, m := range env.regions {
		m.bucket.EXPECT().HeadBucketWithContext(gomock.Any(), gomock.Any()).Times(0)
		m.bucket.EXPECT().CreateBucketWithContext(gomock.Any(), gomock.Any()).Times(0)
		m.uploader.EXPECT().UploadWithContext(gomock.Any(), gomock.Any()).Times(0)
		m.lambda.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Times(0)
	}
	env.ci.EXPECT().DownloadArtifact(gomock.Any(), gomock.Any()).Times(0)
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	res, err := env.service.Run(context.TODO())
	require.NoError(t, err)
	assert.True(t, res.Decision.UpToDate)
	assert.Empty(t, res.Uploads)
	assert.Empty(t, res.Published)
}

func TestRunNewArtifactWithMissingRegion(t *testing.T) {
	env := newTestEnv(t, "us-west-1", "us-west-2")
	defer env.ctrl.Finish()

	env.withArtifact(78, map[string]string{"dist/layer.zip": "layer payload v78"})
	env.withLayer("us-west-1", 77)
	env.withLayer("us-west-2", 0)
	env.withBucket("us-west-1")
	env.withBucket("us-west-2")
	env.withUpload("us-west-1", false)
	env.withUpload("us-west-2", false)
	env.withPublish("us-west-1", 78, 3)
	env.withPublish("us-west-2", 78, 1)
	env.ci.EXPECT().LatestReleaseName(gomock.Any(), "ovh", "my-layer").Return("v1.0.78", nil)

	var report string
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, content string) error {
		report = content
		return nil
	})

	res, err := env.service.Run(context.TODO())
	require.NoError(t, err)
	assert.False(t, res.Decision.UpToDate)
	assert.Equal(t, sdk.Regions{"us-west-2"}, res.Decision.Missing)
	assert.Equal(t, "dist/layer.zip", res.ObjectKey)

	for r, m := range env.regions {
		assert.Equal(t, "layer payload v78", m.received.String(), "region %s", r)
		assert.Equal(t, "dist/layer.zip", m.key, "region %s", r)
	}
	require.Len(t, res.Published, 2)
	assert.Equal(t, report, res.Report)
	assert.Contains(t, report, "# Lambda Layers For my-layer")
	assert.Contains(t, report, "My shared layer")
	assert.Contains(t, report, "Latest release: v1.0.78")
	assert.Contains(t, report, "`arn:aws:lambda:us-west-1:123456789012:layer:my-layer:3`")
	assert.Contains(t, report, "`arn:aws:lambda:us-west-2:123456789012:layer:my-layer:1`")
}

func TestRunWithFailingUpload(t *testing.T) {
	env := newTestEnv(t, "us-west-1", "us-west-2")
	defer env.ctrl.Finish()

	env.withArtifact(78, map[string]string{"layer.zip": "layer payload v78"})
	env.withLayer("us-west-1", 77)
	env.withLayer("us-west-2", 77)
	env.withBucket("us-west-1")
	env.withBucket("us-west-2")
	env.withUpload("us-west-1", false)
	env.withUpload("us-west-2", true)
	env.withPublish("us-west-1", 78, 3)
	env.regions["us-west-2"].lambda.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Times(0)
	env.ci.EXPECT().LatestReleaseName(gomock.Any(), "ovh", "my-layer").Return("", nil)
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)

	res, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrRegionalFailure))
	assert.Equal(t, 4, sdk.ExitCode(err))
	assert.Contains(t, err.Error(), "layers-us-west-2")

	require.Len(t, res.Published, 1)
	assert.Equal(t, sdk.Region("us-west-1"), res.Published[0].Region)
	assert.Contains(t, res.Report, "us-west-1")
	assert.NotContains(t, res.Report, "us-west-2")
}

func TestRunWithFailingPermission(t *testing.T) {
	env := newTestEnv(t, "us-west-1", "us-west-2")
	defer env.ctrl.Finish()

	env.withArtifact(78, map[string]string{"layer.zip": "layer payload v78"})
	env.withLayer("us-west-1", 77)
	env.withLayer("us-west-2", 77)
	env.withBucket("us-west-1")
	env.withBucket("us-west-2")
	env.withUpload("us-west-1", false)
	env.withUpload("us-west-2", false)
	env.withPublish("us-west-1", 78, 3)
	env.withPublishedVersion("us-west-2", 78, 4)
	env.regions["us-west-2"].lambda.EXPECT().AddLayerVersionPermissionWithContext(gomock.Any(), gomock.Any()).
		Return(nil, awserr.New(lambda.ErrCodeServiceException, "boom", nil))
	env.ci.EXPECT().LatestReleaseName(gomock.Any(), "ovh", "my-layer").Return("", nil)
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)

	res, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrRegionalFailure))
	assert.Equal(t, 4, sdk.ExitCode(err))
	assert.Contains(t, err.Error(), "unable to grant permission on version 4")

	require.Len(t, res.Published, 2)
	assert.Contains(t, res.Report, "`arn:aws:lambda:us-west-1:123456789012:layer:my-layer:3`")
	assert.Contains(t, res.Report, "`arn:aws:lambda:us-west-2:123456789012:layer:my-layer:4`", "the version exists even without its permission")
}

func TestRunWithFailingBucket(t *testing.T) {
	env := newTestEnv(t, "us-west-1", "eu-west-3")
	defer env.ctrl.Finish()

	env.withArtifact(78, map[string]string{"layer.zip": "layer payload v78"})
	env.withLayer("us-west-1", 0)
	env.withLayer("eu-west-3", 0)
	env.withBucket("us-west-1")
	m := env.regions["eu-west-3"]
	m.bucket.EXPECT().HeadBucketWithContext(gomock.Any(), gomock.Any()).Return(nil, awserr.New("NotFound", "not found", nil))
	m.bucket.EXPECT().CreateBucketWithContext(gomock.Any(), gomock.Any()).Return(nil, awserr.New(s3.ErrCodeBucketAlreadyExists, "taken", nil))
	m.uploader.EXPECT().UploadWithContext(gomock.Any(), gomock.Any()).Times(0)
	env.withUpload("us-west-1", false)
	env.withPublish("us-west-1", 78, 1)
	env.ci.EXPECT().LatestReleaseName(gomock.Any(), "ovh", "my-layer").Return("", nil)
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)

	res, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrRegionalFailure))
	require.Len(t, res.Uploads, 1)
	require.Len(t, res.Published, 1)
}

func TestRunWithoutArtifact(t *testing.T) {
	env := newTestEnv(t, "us-west-1")
	defer env.ctrl.Finish()

	env.ci.EXPECT().LatestArtifact(gomock.Any(), "ovh", "my-layer", "").Return(sdk.ArtifactReference{}, sdk.NewErrorFrom(sdk.ErrNoArtifact, "ovh/my-layer"))

	_, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrNoArtifact))
	assert.Equal(t, 3, sdk.ExitCode(err))
}

func TestRunWithWrongConfiguration(t *testing.T) {
	env := newTestEnv(t)
	defer env.ctrl.Finish()

	env.ci.EXPECT().LatestArtifact(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrWrongConfiguration))
}

func TestRunWithInvalidArchive(t *testing.T) {
	env := newTestEnv(t, "us-west-1")
	defer env.ctrl.Finish()

	env.withArtifact(78, map[string]string{"a.zip": "a", "b.zip": "b"})
	env.withLayer("us-west-1", 77)
	env.withBucket("us-west-1")
	env.regions["us-west-1"].uploader.EXPECT().UploadWithContext(gomock.Any(), gomock.Any()).Times(0)
	env.persister.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	_, err := env.service.Run(context.TODO())
	require.Error(t, err)
	assert.True(t, sdk.ErrorIs(err, sdk.ErrArchiveMultipleEntries))
}

func TestRunDryRun(t *testing.T) {
	env := newTestEnv(t, "us-west-1")
	defer env.ctrl.Finish()
	env.service.Options.DryRun = true

	env.withArtifact(78, nil)
	env.withLayer("us-west-1", 77)
	env.regions["us-west-1"].bucket.EXPECT().HeadBucketWithContext(gomock.Any(), gomock.Any()).Times(0)

	res, err := env.service.Run(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, sdk.Regions{"us-west-1"}, res.Decision.Targets)
	assert.Equal(t, sdk.Regions{"us-west-1"}, res.Decision.Stale)
}
