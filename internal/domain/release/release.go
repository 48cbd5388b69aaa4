package release

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Channel is a release track with its own latest-version pointer.
type Channel string

const (
	// ChannelStable is the production release track.
	ChannelStable Channel = "stable"
	// ChannelDevelopment is the pre-release track.
	ChannelDevelopment Channel = "development"
)

// Platform identifiers supported by every release.
const (
	PlatformWindows = "windows-x64"
	PlatformLinux   = "linux-x64"
	PlatformMacOS   = "macos-x64"
)

const (
	// RecordFilename is the per-version release record document.
	RecordFilename = "metadata.json"

	// GlobalPointerFilename tracks the most recent stable release only.
	GlobalPointerFilename = "latest.txt"

	// DateLayout is the strict UTC timestamp format used in release records.
	DateLayout = "2006-01-02T15:04:05Z"
)

var (
	errUnknownChannel   = errors.New("unknown release channel")
	errNoVersion        = errors.New("release record has no version")
	errMissingPlatform  = errors.New("release record is missing a platform")
	errEmptyFilename    = errors.New("artifact has no filename")
	errMalformedDigest  = errors.New("artifact digest is not 64-char lowercase hex")
	sha256HexExpression = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// ParseChannel validates a channel name supplied by the operator.
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.TrimSpace(s)) {
	case ChannelStable:
		return ChannelStable, nil
	case ChannelDevelopment:
		return ChannelDevelopment, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownChannel, s)
	}
}

// PointerFilename returns the channel-specific latest pointer filename.
func (c Channel) PointerFilename() string {
	return "latest-" + string(c) + ".txt"
}

// Platforms returns the supported platforms in publish order.
func Platforms() []string {
	return []string{PlatformWindows, PlatformLinux, PlatformMacOS}
}

// ArtifactFilename returns the fixed distribution filename for a platform.
func ArtifactFilename(platform string) string {
	if platform == PlatformWindows {
		return "synodic-" + platform + ".zip"
	}

	return "synodic-" + platform + ".tar.gz"
}

// NormalizeVersion strips the conventional leading "v" from a version tag.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// Artifact describes one downloadable file of a release.
type Artifact struct {
	// Filename is the distribution filename inside the version directory.
	Filename string `json:"filename"`
	// SHA256 is the lowercase hex digest of the artifact contents.
	SHA256 string `json:"sha256"`
}

// Record is the durable proof of a successful publish, one per version.
// It is written once and never updated.
type Record struct {
	// Version is the semantic version without a leading "v".
	Version string `json:"version"`
	// Channel is the release track this version was published to.
	Channel Channel `json:"channel"`
	// ReleaseDate is the UTC publish time in DateLayout form.
	ReleaseDate string `json:"release_date"`
	// Artifacts maps platform identifiers to their files and digests.
	Artifacts map[string]Artifact `json:"artifacts"`
}

// Validate checks that the record is complete enough to persist.
func (r *Record) Validate() error {
	if r.Version == "" {
		return errNoVersion
	}

	if _, err := ParseChannel(string(r.Channel)); err != nil {
		return err
	}

	for _, platform := range Platforms() {
		artifact, ok := r.Artifacts[platform]
		if !ok {
			return fmt.Errorf("%w: %s", errMissingPlatform, platform)
		}

		if artifact.Filename == "" {
			return fmt.Errorf("%w: %s", errEmptyFilename, platform)
		}

		if !sha256HexExpression.MatchString(artifact.SHA256) {
			return fmt.Errorf("%w: %s", errMalformedDigest, platform)
		}
	}

	return nil
}

// Clone returns a copy of the record to avoid leaking internal references.
func (r *Record) Clone() *Record {
	artifacts := make(map[string]Artifact, len(r.Artifacts))
	for platform, artifact := range r.Artifacts {
		artifacts[platform] = artifact
	}

	return &Record{
		Version:     r.Version,
		Channel:     r.Channel,
		ReleaseDate: r.ReleaseDate,
		Artifacts:   artifacts,
	}
}
