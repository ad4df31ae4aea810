package cdslog

import (
	"context"

	"github.com/rockbears/log"
)

const (
	// If you add a field constant, don't forget to add it in the log.RegisterField below
	Region     = log.Field("region")
	Layer      = log.Field("layer")
	ArtifactID = log.Field("artifact_id")
	Bucket     = log.Field("bucket")
	ObjectKey  = log.Field("object_key")
	Phase      = log.Field("phase")
	Repository = log.Field("repository")
	Duration   = log.Field("duration_milliseconds_num")
	Size       = log.Field("size_num")
	Stacktrace = log.Field("stack_trace")
)

func init() {
	log.RegisterField(
		Region,
		Layer,
		ArtifactID,
		Bucket,
		ObjectKey,
		Phase,
		Repository,
		Duration,
		Size,
		Stacktrace,
	)
}

// ContextValue returns the string value of a log field stored in the context.
func ContextValue(ctx context.Context, f log.Field) string {
	i := ctx.Value(f)
	if i != nil {
		if s, ok := i.(string); ok {
			return s
		}
	}
	return ""
}
