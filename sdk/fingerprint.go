package sdk

import (
	"fmt"
	"regexp"
	"strconv"
)

// Layer descriptions carry the id of the artifact they were built from: `[anything] Artifact: "<id>"`.
var fingerprintRegex = regexp.MustCompile(`Artifact: "(\w+)"`)

// FormatFingerprint returns the layer description embedding the artifact id.
func FormatFingerprint(layerName string, artifactID int64) string {
	return fmt.Sprintf("Latest release of %s layer. Artifact: \"%d\"", layerName, artifactID)
}

// ParseFingerprint extracts the artifact id from a layer description. It returns an empty string
// if the description doesn't carry one.
func ParseFingerprint(description string) string {
	m := fingerprintRegex.FindStringSubmatch(description)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// FingerprintMatches returns true if the fingerprint is the given artifact id, compared as numbers.
func FingerprintMatches(fingerprint string, artifactID int64) bool {
	if fingerprint == "" {
		return false
	}
	n, err := strconv.ParseInt(fingerprint, 10, 64)
	if err != nil {
		return false
	}
	return n == artifactID
}
