package layer

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/golang/mock/gomock"
	"github.com/rockbears/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovh/layersync/engine/layer/mock_layer"
	"github.com/ovh/layersync/sdk"
)

func versions(vs ...int64) []*lambda.LayerVersionsListItem {
	var res []*lambda.LayerVersionsListItem
	for _, v := range vs {
		res = append(res, &lambda.LayerVersionsListItem{Version: aws.Int64(v)})
	}
	return res
}

func TestCollectStateWithPagination(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock_layer.NewMockLambdaAPI(ctrl)
	gomock.InOrder(
		api.EXPECT().ListLayerVersionsWithContext(gomock.Any(), &lambda.ListLayerVersionsInput{LayerName: aws.String("my-layer")}).
			Return(&lambda.ListLayerVersionsOutput{LayerVersions: versions(3, 12), NextMarker: aws.String("page2")}, nil),
		api.EXPECT().ListLayerVersionsWithContext(gomock.Any(), &lambda.ListLayerVersionsInput{LayerName: aws.String("my-layer"), Marker: aws.String("page2")}).
			Return(&lambda.ListLayerVersionsOutput{LayerVersions: versions(7)}, nil),
	)
	api.EXPECT().GetLayerVersionWithContext(gomock.Any(), &lambda.GetLayerVersionInput{LayerName: aws.String("my-layer"), VersionNumber: aws.Int64(12)}).
		Return(&lambda.GetLayerVersionOutput{Description: aws.String(`Latest release of my-layer layer. Artifact: "77"`)}, nil)

	state := CollectState(context.TODO(), Registry{Region: "eu-west-1", API: api}, "my-layer")
	require.NoError(t, state.Err)
	assert.True(t, state.Exists)
	require.NotNil(t, state.CurrentVersion)
	assert.Equal(t, int64(12), *state.CurrentVersion)
	assert.Equal(t, "77", state.ArtifactID)
}

func TestCollect(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Layer without any version
	empty := mock_layer.NewMockLambdaAPI(ctrl)
	empty.EXPECT().ListLayerVersionsWithContext(gomock.Any(), gomock.Any()).Return(&lambda.ListLayerVersionsOutput{}, nil)
	empty.EXPECT().GetLayerVersionWithContext(gomock.Any(), gomock.Any()).Times(0)

	// Registry not reachable
	broken := mock_layer.NewMockLambdaAPI(ctrl)
	broken.EXPECT().ListLayerVersionsWithContext(gomock.Any(), gomock.Any()).Return(nil, awserr.New("AccessDeniedException", "denied", nil))

	// Description without fingerprint
	legacy := mock_layer.NewMockLambdaAPI(ctrl)
	legacy.EXPECT().ListLayerVersionsWithContext(gomock.Any(), gomock.Any()).Return(&lambda.ListLayerVersionsOutput{LayerVersions: versions(1)}, nil)
	legacy.EXPECT().GetLayerVersionWithContext(gomock.Any(), gomock.Any()).Return(&lambda.GetLayerVersionOutput{Description: aws.String("hand made")}, nil)

	states := Collect(context.TODO(), []Registry{
		{Region: "us-west-1", API: empty},
		{Region: "us-west-2", API: broken},
		{Region: "eu-west-3", API: legacy},
	}, "my-layer", 2)
	require.Len(t, states, 3)

	assert.Equal(t, sdk.Region("us-west-1"), states[0].Region)
	assert.False(t, states[0].Exists)
	assert.NoError(t, states[0].Err)
	assert.False(t, states[0].HasFingerprint())

	assert.Equal(t, sdk.Region("us-west-2"), states[1].Region)
	assert.False(t, states[1].Exists)
	assert.Error(t, states[1].Err)

	assert.Equal(t, sdk.Region("eu-west-3"), states[2].Region)
	assert.True(t, states[2].Exists)
	assert.False(t, states[2].HasFingerprint())
}

func TestPublish(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock_layer.NewMockLambdaAPI(ctrl)
	api.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *lambda.PublishLayerVersionInput, opts ...request.Option) (*lambda.PublishLayerVersionOutput, error) {
			assert.Equal(t, "my-layer", aws.StringValue(in.LayerName))
			assert.Equal(t, `Latest release of my-layer layer. Artifact: "78"`, aws.StringValue(in.Description))
			assert.Equal(t, "layers-eu-west-1", aws.StringValue(in.Content.S3Bucket))
			assert.Equal(t, "layer.zip", aws.StringValue(in.Content.S3Key))
			assert.Equal(t, []string{"nodejs18.x"}, aws.StringValueSlice(in.CompatibleRuntimes))
			assert.Nil(t, in.LicenseInfo)
			return &lambda.PublishLayerVersionOutput{
				LayerArn:        aws.String("arn:aws:lambda:eu-west-1:123456789012:layer:my-layer"),
				LayerVersionArn: aws.String("arn:aws:lambda:eu-west-1:123456789012:layer:my-layer:5"),
				Version:         aws.Int64(5),
			}, nil
		},
	)
	api.EXPECT().AddLayerVersionPermissionWithContext(gomock.Any(), &lambda.AddLayerVersionPermissionInput{
		LayerName:     aws.String("my-layer"),
		VersionNumber: aws.Int64(5),
		StatementId:   aws.String("layersync-public-5"),
		Action:        aws.String("lambda:GetLayerVersion"),
		Principal:     aws.String("*"),
	}).Return(&lambda.AddLayerVersionPermissionOutput{}, nil)

	upload := sdk.UploadResult{Region: "eu-west-1", Bucket: "layers-eu-west-1", ObjectKey: "layer.zip"}
	res := Publish(context.TODO(), Registry{Region: "eu-west-1", API: api}, "my-layer", 78, upload, Options{CompatibleRuntimes: []string{"nodejs18.x"}})
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.True(t, res.PermissionGranted)
	assert.Equal(t, int64(5), res.VersionNumber)
	assert.Equal(t, "arn:aws:lambda:eu-west-1:123456789012:layer:my-layer:5", res.LayerVersionArn)
}

func TestPublishPermissionFailure(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock_layer.NewMockLambdaAPI(ctrl)
	api.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Return(&lambda.PublishLayerVersionOutput{
		LayerVersionArn: aws.String("arn:aws:lambda:eu-west-1:123456789012:layer:my-layer:6"),
		Version:         aws.Int64(6),
	}, nil)
	api.EXPECT().AddLayerVersionPermissionWithContext(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *lambda.AddLayerVersionPermissionInput, opts ...request.Option) (*lambda.AddLayerVersionPermissionOutput, error) {
			assert.Equal(t, "o-abcdef", aws.StringValue(in.OrganizationId))
			return nil, awserr.New(lambda.ErrCodeResourceConflictException, "statement already exists", nil)
		},
	)

	upload := sdk.UploadResult{Region: "eu-west-1", Bucket: "layers-eu-west-1", ObjectKey: "layer.zip"}
	res := Publish(context.TODO(), Registry{Region: "eu-west-1", API: api}, "my-layer", 78, upload, Options{PrincipalOrgID: "o-abcdef"})
	assert.Error(t, res.Err)
	assert.False(t, res.PermissionGranted)
	assert.Equal(t, "arn:aws:lambda:eu-west-1:123456789012:layer:my-layer:6", res.LayerVersionArn, "published version is kept")
}

func TestPublishAll(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ok := mock_layer.NewMockLambdaAPI(ctrl)
	ok.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Return(&lambda.PublishLayerVersionOutput{
		LayerVersionArn: aws.String("arn:aws:lambda:us-west-1:123456789012:layer:my-layer:2"),
		Version:         aws.Int64(2),
	}, nil)
	ok.EXPECT().AddLayerVersionPermissionWithContext(gomock.Any(), gomock.Any()).Return(&lambda.AddLayerVersionPermissionOutput{}, nil)

	ko := mock_layer.NewMockLambdaAPI(ctrl)
	ko.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Return(nil, awserr.New(lambda.ErrCodeServiceException, "boom", nil))

	// Upload failed: nothing is published
	skipped := mock_layer.NewMockLambdaAPI(ctrl)
	skipped.EXPECT().PublishLayerVersionWithContext(gomock.Any(), gomock.Any()).Times(0)

	results := PublishAll(context.TODO(), []Registry{
		{Region: "us-west-1", API: ok},
		{Region: "us-west-2", API: ko},
		{Region: "eu-west-3", API: skipped},
	}, "my-layer", 78, []sdk.UploadResult{
		{Region: "us-west-1", Bucket: "layers-us-west-1", ObjectKey: "layer.zip"},
		{Region: "us-west-2", Bucket: "layers-us-west-2", ObjectKey: "layer.zip"},
		{Region: "eu-west-3", Bucket: "layers-eu-west-3", ObjectKey: "layer.zip", Err: sdk.ErrUnknownError},
	}, Options{}, 0)

	require.Len(t, results, 2)
	assert.Equal(t, sdk.Region("us-west-1"), results[0].Region)
	assert.True(t, results[0].OK())
	assert.Equal(t, sdk.Region("us-west-2"), results[1].Region)
	assert.False(t, results[1].OK())
}
