package spatialindex

import (
	"crypto/sha256"
	"io"
	"os"
	"strings"
)

// SpatialIndexPath derives the canonical on-disk index path for a
// dataset: the dataset path with ".spatial.bin" appended.
func SpatialIndexPath(datasetPath string) string {
	return datasetPath + ".spatial.bin"
}

// releaseMarkerPath derives the release-marker sidecar path: the dataset
// path with ".release" appended.
func releaseMarkerPath(datasetPath string) string {
	return datasetPath + ".release"
}

// DatasetMetadata is the freshness fingerprint embedded in an index built
// with metadata (the "v2" on-disk layout: flags bit 1 set): the dataset's
// SHA-256 checksum at build time, the release tag it was built against
// (if known), and the build's Unix timestamp.
type DatasetMetadata struct {
	Checksum       [32]byte
	ReleaseTag     *string
	BuildTimestamp int64
}

// ComputeDatasetChecksum streams path through SHA-256, avoiding loading
// the whole dataset file into memory.
func ComputeDatasetChecksum(path string) ([32]byte, error) {
	var sum [32]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// ReadReleaseTag reads the resolved release tag from a dataset's
// ".release" marker sidecar, if present. Returns "", false when the
// marker is absent or unparseable.
func ReadReleaseTag(datasetPath string) (string, bool) {
	raw, err := os.ReadFile(releaseMarkerPath(datasetPath))
	if err != nil {
		return "", false
	}
	marker, ok := parseReleaseMarker(string(raw))
	if !ok {
		return "", false
	}
	return marker, true
}

// parseReleaseMarker parses the "requested=...\nresolved=...\n" sidecar
// format. A file containing only a bare tag (no "resolved=" line) is
// accepted as a fallback, mirroring the dataset tooling that writes
// these markers.
func parseReleaseMarker(contents string) (string, bool) {
	var resolved string
	found := false
	for _, line := range strings.Split(contents, "\n") {
		if v, ok := strings.CutPrefix(line, "resolved="); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				resolved = v
				found = true
			}
		}
	}
	if found {
		return resolved, true
	}
	fallback := strings.TrimSpace(contents)
	if fallback == "" {
		return "", false
	}
	return fallback, true
}

// FreshnessKind classifies the outcome of a freshness check.
type FreshnessKind int

const (
	FreshnessFresh FreshnessKind = iota
	FreshnessStale
	FreshnessLegacyFormat
	FreshnessMissing
	FreshnessDatasetMissing
	FreshnessError
)

func (k FreshnessKind) String() string {
	switch k {
	case FreshnessFresh:
		return "fresh"
	case FreshnessStale:
		return "stale"
	case FreshnessLegacyFormat:
		return "legacy_format"
	case FreshnessMissing:
		return "missing"
	case FreshnessDatasetMissing:
		return "dataset_missing"
	case FreshnessError:
		return "error"
	default:
		return "unknown"
	}
}

// FreshnessResult is the tagged outcome of VerifyFreshness, one case per
// FreshnessKind with the fields that case carries.
type FreshnessResult struct {
	Kind FreshnessKind

	Checksum   [32]byte
	ReleaseTag *string

	ExpectedChecksum [32]byte
	ActualChecksum   [32]byte
	ExpectedTag      *string
	ActualTag        *string

	IndexPath    string
	ExpectedPath string
	Message      string
}

// VerifyFreshness compares an on-disk spatial index against the current
// dataset. It never errors: every failure mode (missing index, missing
// dataset, legacy format, I/O failure) is reported as a FreshnessResult
// case instead, so a caller can pattern-match on Kind without a type
// switch on error values.
func VerifyFreshness(indexPath, datasetPath string) FreshnessResult {
	if _, err := os.Stat(datasetPath); err != nil {
		return FreshnessResult{Kind: FreshnessDatasetMissing, ExpectedPath: datasetPath}
	}
	if _, err := os.Stat(indexPath); err != nil {
		return FreshnessResult{Kind: FreshnessMissing, ExpectedPath: indexPath}
	}

	idx, err := Load(indexPath)
	if err != nil {
		return FreshnessResult{Kind: FreshnessError, Message: err.Error()}
	}
	if idx.Metadata == nil {
		return FreshnessResult{
			Kind:      FreshnessLegacyFormat,
			IndexPath: indexPath,
			Message:   "index has no embedded dataset metadata (v1 format); rebuild to enable freshness tracking",
		}
	}

	actualChecksum, err := ComputeDatasetChecksum(datasetPath)
	if err != nil {
		return FreshnessResult{Kind: FreshnessError, Message: err.Error()}
	}

	var actualTag *string
	if tag, ok := ReadReleaseTag(datasetPath); ok {
		actualTag = &tag
	}

	if actualChecksum == idx.Metadata.Checksum {
		return FreshnessResult{Kind: FreshnessFresh, Checksum: actualChecksum, ReleaseTag: idx.Metadata.ReleaseTag}
	}

	return FreshnessResult{
		Kind:             FreshnessStale,
		ExpectedChecksum: idx.Metadata.Checksum,
		ActualChecksum:   actualChecksum,
		ExpectedTag:      idx.Metadata.ReleaseTag,
		ActualTag:        actualTag,
	}
}
