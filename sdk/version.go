package sdk

import (
	"fmt"
	"runtime"
)

// Build information, set with -ldflags at build time.
var (
	VERSION   = "snapshot"
	GOOS      = runtime.GOOS
	GOARCH    = runtime.GOARCH
	GITHASH   = ""
	BUILDTIME = ""
)

// Version is the build information of the binary.
type Version struct {
	Version      string `json:"version" yaml:"version" cli:"version"`
	Architecture string `json:"architecture" yaml:"architecture" cli:"architecture"`
	OS           string `json:"os" yaml:"os" cli:"os"`
	GitHash      string `json:"git_hash" yaml:"git_hash" cli:"git_hash"`
	BuildTime    string `json:"build_time" yaml:"build_time" cli:"build_time"`
}

// VersionCurrent returns the build information of the running binary.
func VersionCurrent() Version {
	return Version{
		Version:      VERSION,
		Architecture: GOARCH,
		OS:           GOOS,
		GitHash:      GITHASH,
		BuildTime:    BUILDTIME,
	}
}

// VersionString returns a one line description of the build.
func VersionString() string {
	return fmt.Sprintf("layersync %s (%s/%s) git.hash: %s built: %s", VERSION, GOOS, GOARCH, GITHASH, BUILDTIME)
}
