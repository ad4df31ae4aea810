package sdk

import (
	"sort"
	"strings"
	"time"
)

// DefaultRegion is the object store region that rejects an explicit location constraint.
const DefaultRegion Region = "us-east-1"

// Region is a cloud provider region code, ie. eu-west-1.
type Region string

func (r Region) String() string { return string(r) }

// Regions is a list of Region.
type Regions []Region

// ParseRegions splits a comma separated list of regions. Blank items and duplicates are dropped.
func ParseRegions(raw ...string) Regions {
	var res Regions
	seen := make(map[Region]struct{})
	for _, s := range raw {
		for _, item := range strings.Split(s, ",") {
			r := Region(strings.TrimSpace(item))
			if r == "" {
				continue
			}
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			res = append(res, r)
		}
	}
	return res
}

// Strings returns the regions as a slice of string.
func (rs Regions) Strings() []string {
	res := make([]string, len(rs))
	for i := range rs {
		res[i] = string(rs[i])
	}
	return res
}

// Sorted returns a sorted copy of the list.
func (rs Regions) Sorted() Regions {
	res := make(Regions, len(rs))
	copy(res, rs)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// BucketName returns the name of the regional bucket.
func BucketName(prefix string, r Region) string {
	return prefix + string(r)
}

// RegionalLayerState is the state of the layer published in one region.
type RegionalLayerState struct {
	Region         Region `json:"region"`
	Exists         bool   `json:"exists"`
	CurrentVersion *int64 `json:"current_version,omitempty"`
	// ArtifactID is the fingerprint found in the layer description, empty when undefined
	ArtifactID string `json:"artifact_id,omitempty"`
	Err        error  `json:"-"`
}

// HasFingerprint returns true if the layer description carried an artifact fingerprint.
func (s RegionalLayerState) HasFingerprint() bool {
	return s.ArtifactID != ""
}

// ArtifactReference is the latest artifact available on the CI side.
type ArtifactReference struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DownloadURL string    `json:"archive_download_url"`
	SizeInBytes int64     `json:"size_in_bytes"`
	Expired     bool      `json:"expired"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadResult is the result of the upload of the artifact payload in one region.
type UploadResult struct {
	Region    Region `json:"region"`
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
	Location  string `json:"location,omitempty"`
	Err       error  `json:"-"`
}

// OK returns true if the upload succeeded.
func (u UploadResult) OK() bool { return u.Err == nil }

// PublishedLayer is the layer version published in one region.
type PublishedLayer struct {
	Region            Region `json:"region"`
	LayerArn          string `json:"layer_arn"`
	LayerVersionArn   string `json:"layer_version_arn"`
	VersionNumber     int64  `json:"version_number"`
	PermissionGranted bool   `json:"permission_granted"`
	Err               error  `json:"-"`
}

// OK returns true if the layer version has been published and made public.
func (p PublishedLayer) OK() bool { return p.Err == nil && p.LayerVersionArn != "" }

// IsPublished returns true if the layer version exists, even if granting the permission failed.
func (p PublishedLayer) IsPublished() bool { return p.LayerVersionArn != "" }
