package layer

import (
	"context"

	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"

	"github.com/ovh/layersync/sdk"
)

//go:generate mockgen -source=layer.go -destination=mock_layer/interface_mock.go

// LambdaAPI is the subset of the Lambda API used to manage layer versions.
type LambdaAPI interface {
	ListLayerVersionsWithContext(ctx context.Context, input *lambda.ListLayerVersionsInput, opts ...request.Option) (*lambda.ListLayerVersionsOutput, error)
	GetLayerVersionWithContext(ctx context.Context, input *lambda.GetLayerVersionInput, opts ...request.Option) (*lambda.GetLayerVersionOutput, error)
	PublishLayerVersionWithContext(ctx context.Context, input *lambda.PublishLayerVersionInput, opts ...request.Option) (*lambda.PublishLayerVersionOutput, error)
	AddLayerVersionPermissionWithContext(ctx context.Context, input *lambda.AddLayerVersionPermissionInput, opts ...request.Option) (*lambda.AddLayerVersionPermissionOutput, error)
}

// Registry is the layer registry of one region.
type Registry struct {
	Region sdk.Region
	API    LambdaAPI
}

// Options are the optional attributes of the published layer versions.
type Options struct {
	CompatibleRuntimes      []string `toml:"compatibleRuntimes" comment:"Runtimes compatible with the layer, ie. nodejs18.x" json:"compatibleRuntimes,omitempty"`
	CompatibleArchitectures []string `toml:"compatibleArchitectures" comment:"Instruction set architectures compatible with the layer: x86_64, arm64" json:"compatibleArchitectures,omitempty"`
	LicenseInfo             string   `toml:"licenseInfo" comment:"SPDX license identifier of the layer" json:"licenseInfo,omitempty"`
	PrincipalOrgID          string   `toml:"principalOrgID" comment:"Restrict the usage of the layer to an AWS organization. Empty means public" json:"principalOrgID,omitempty"`
}
