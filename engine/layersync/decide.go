package layersync

import (
	"context"
	"strconv"
	"strings"

	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

// Decision is the result of the comparison of the regional layers with the latest artifact.
type Decision struct {
	UpToDate bool
	Forced   bool
	// Reference is the fingerprint of the first region carrying one, empty if none does
	Reference string
	// Missing regions have no layer or no fingerprint
	Missing sdk.Regions
	// Stale regions have a fingerprint different from the latest artifact
	Stale sdk.Regions
	// Targets are the regions to distribute the artifact to
	Targets sdk.Regions
}

// Decide compares the state of the layer in every region with the latest artifact. States must be
// in the configured order of regions. When a distribution is needed, every region is targeted.
func Decide(ctx context.Context, states []sdk.RegionalLayerState, artifactID int64, force bool) Decision {
	var d Decision
	for _, s := range states {
		if !s.HasFingerprint() {
			d.Missing = append(d.Missing, s.Region)
			continue
		}
		if d.Reference == "" {
			d.Reference = s.ArtifactID
		} else if s.ArtifactID != d.Reference {
			log.Debug(ctx, "layersync.Decide> region %s has fingerprint %q, reference is %q", s.Region, s.ArtifactID, d.Reference)
		}
		if !sdk.FingerprintMatches(s.ArtifactID, artifactID) {
			d.Stale = append(d.Stale, s.Region)
		}
	}

	if !force && len(d.Missing) == 0 && sdk.FingerprintMatches(d.Reference, artifactID) {
		d.UpToDate = true
		return d
	}
	d.Forced = force
	for _, s := range states {
		d.Targets = append(d.Targets, s.Region)
	}
	return d
}

// String returns a short description of the decision.
func (d Decision) String() string {
	if d.UpToDate {
		return "up to date (artifact " + d.Reference + ")"
	}
	s := "distribute to " + strconv.Itoa(len(d.Targets)) + " regions"
	if len(d.Missing) > 0 {
		s += ", missing in " + joinRegions(d.Missing)
	}
	if len(d.Stale) > 0 {
		s += ", stale in " + joinRegions(d.Stale)
	}
	if d.Forced {
		s += " (forced)"
	}
	return s
}

func joinRegions(rs sdk.Regions) string {
	return strings.Join(rs.Strings(), ",")
}
