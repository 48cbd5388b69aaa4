package publisher

import (
	"context"
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/synodic/release-repo/internal/config"
	"github.com/synodic/release-repo/internal/domain/release"
	"github.com/synodic/release-repo/internal/logger"
	"github.com/synodic/release-repo/internal/repository/targets"

	// Ensure SHA256 available for artifact digests.
	_ "crypto/sha256"
)

// Options contains inputs for the publisher entry point.
type Options struct {
	// ConfigPath is an optional path to repository settings YAML.
	ConfigPath string
	// Version is the release version; a leading "v" is stripped.
	Version string
	// Channel is the release track, stable or development.
	Channel string
	// WindowsURL, LinuxURL and MacOSURL locate the platform artifacts.
	WindowsURL string
	LinuxURL   string
	MacOSURL   string
}

// ChecksumFunction is used to digest downloaded artifacts.
const ChecksumFunction crypto.Hash = crypto.SHA256

var (
	errMissingSource   = errors.New("artifact source URL is required")
	errEmptyArtifact   = errors.New("downloaded artifact is empty")
	errBadHTTPStatus   = errors.New("unexpected http status")
	errHashUnavailable = errors.New("hash function unavailable")
)

// publisher holds the state for a single publish execution.
type publisher struct {
	// cfg holds the repository layout configuration.
	cfg *config.Config
	// repo persists records, artifacts and pointers under the targets directory.
	repo *targets.FileRepository
	// version is the normalized release version.
	version string
	// channel is the validated release track.
	channel release.Channel
	// sources maps platform identifiers to artifact source URLs.
	sources map[string]string
}

// Run executes the publish workflow and returns the persisted release record.
//
// No record or pointer is written until all three platform artifacts have
// been downloaded successfully, so a failed publish is never observable as
// a published release. Artifacts downloaded before the failure are left in
// the version directory.
func Run(ctx context.Context, opts *Options) (*release.Record, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "synodic-publisher")

	pub, err := newPublisher(opts)
	if err != nil {
		return nil, fmt.Errorf("initialize publisher: %w", err)
	}

	unlock, err := pub.acquireLock(ctx)
	if err != nil {
		return nil, err
	}

	defer unlock()

	record, err := pub.publish(ctx)
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", pub.version, err)
	}

	logger.InfoKV(ctx, "Publisher completed successfully",
		"version", record.Version, "channel", record.Channel)

	return record, nil
}

// newPublisher validates the options and loads repository settings.
func newPublisher(opts *Options) (*publisher, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	channel, err := release.ParseChannel(opts.Channel)
	if err != nil {
		return nil, err
	}

	sources := map[string]string{
		release.PlatformWindows: opts.WindowsURL,
		release.PlatformLinux:   opts.LinuxURL,
		release.PlatformMacOS:   opts.MacOSURL,
	}

	for _, platform := range release.Platforms() {
		if sources[platform] == "" {
			return nil, fmt.Errorf("%s: %w", platform, errMissingSource)
		}
	}

	if !ChecksumFunction.Available() {
		return nil, errHashUnavailable
	}

	return &publisher{
		cfg:     cfg,
		repo:    targets.NewFileRepository(cfg.TargetsDir),
		version: release.NormalizeVersion(opts.Version),
		channel: channel,
		sources: sources,
	}, nil
}

// loadConfig reads settings from the provided path, falling back to the
// conventional layout when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// publish downloads all artifacts, persists the record and moves pointers.
func (p *publisher) publish(ctx context.Context) (*release.Record, error) {
	if err := os.MkdirAll(p.repo.VersionDir(p.version), targets.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create version directory: %w", err)
	}

	artifacts := make(map[string]release.Artifact, len(p.sources))

	// Downloads are sequential so a failure names exactly one platform.
	for _, platform := range release.Platforms() {
		filename := release.ArtifactFilename(platform)
		destination := p.repo.ArtifactPath(p.version, filename)

		logger.InfoKV(ctx, "Downloading artifact", "platform", platform, "file", filename)

		digest, size, err := p.download(ctx, p.sources[platform], destination)
		if err != nil {
			return nil, fmt.Errorf("%s artifact: %w", platform, err)
		}

		logger.InfoKV(ctx, "Downloaded artifact",
			"platform", platform, "bytes", size, "sha256", digest)

		artifacts[platform] = release.Artifact{
			Filename: filename,
			SHA256:   digest,
		}
	}

	record := &release.Record{
		Version:     p.version,
		Channel:     p.channel,
		ReleaseDate: time.Now().UTC().Format(release.DateLayout),
		Artifacts:   artifacts,
	}

	if err := p.repo.SaveRecord(ctx, record); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Saved release record",
		"path", filepath.Join(p.repo.VersionDir(p.version), release.RecordFilename))

	if err := p.updatePointers(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// updatePointers moves the channel pointer, and the global pointer for
// stable releases only. Development releases never touch latest.txt.
func (p *publisher) updatePointers(ctx context.Context, record *release.Record) error {
	pointer := p.channel.PointerFilename()
	if err := p.repo.WritePointer(ctx, pointer, record.Version); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Updated channel pointer", "pointer", pointer, "version", record.Version)

	if p.channel != release.ChannelStable {
		return nil
	}

	if err := p.repo.WritePointer(ctx, release.GlobalPointerFilename, record.Version); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Updated global pointer",
		"pointer", release.GlobalPointerFilename, "version", record.Version)

	return nil
}

// download streams the artifact at sourceURL into destination while
// digesting it, and rejects empty results. The whole file is never held
// in memory. Each download carries its own deadline so a hung artifact
// host cannot stall the publish forever.
func (p *publisher) download(ctx context.Context, sourceURL, destination string) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, http.NoBody)
	if err != nil {
		return "", 0, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%s, %s: %w", sourceURL, response.Status, errBadHTTPStatus)
	}

	output, err := os.OpenFile(filepath.Clean(destination),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, targets.DefaultFileMode)
	if err != nil {
		return "", 0, err
	}

	hasher := ChecksumFunction.New()

	written, err := io.Copy(io.MultiWriter(output, hasher), response.Body)
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return "", 0, err
	}

	if written == 0 {
		return "", 0, fmt.Errorf("%s: %w", destination, errEmptyArtifact)
	}

	return hex.EncodeToString(hasher.Sum(nil)), written, nil
}
