package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/synodic/release-repo/internal/logger"
)

const (
	// MarkerFilename marks that a publish is running right now to avoid
	// two operators interleaving writes to the same version directory.
	MarkerFilename = "synodic-publish-marker.bin"

	// markerLifetime is the period after which a stale publish marker may
	// be reclaimed. Publishes download large artifacts, so it is generous.
	markerLifetime = 30 * time.Minute

	// basePublisherExecutable is the publisher binary name without extension.
	basePublisherExecutable = "synodic-publisher"
)

// errPublishInProgress indicates another publish currently holds the marker.
var errPublishInProgress = errors.New("another publish is in progress")

// markerPath returns the advisory marker location next to the targets
// directory, so concurrent publishers against one repository see it.
func (p *publisher) markerPath() string {
	return filepath.Join(filepath.Dir(p.repo.Dir()), MarkerFilename)
}

// acquireLock writes the advisory publish marker and returns a release
// function. It refuses to run while a fresh marker exists.
func (p *publisher) acquireLock(ctx context.Context) (func(), error) {
	if isPublishRunningNow(ctx, p.markerPath()) {
		return nil, errPublishInProgress
	}

	marker, err := os.Create(p.markerPath())
	if err != nil {
		return nil, err
	}

	if err = marker.Close(); err != nil {
		// Leaving the marker behind would refuse publishes until it goes
		// stale, so take it back out before failing.
		_ = os.Remove(p.markerPath())

		return nil, err
	}

	path := p.markerPath()

	return func() {
		if err := os.Remove(path); err != nil {
			logger.Warnf(ctx, "Unable to remove publish marker: %v", err)
		}
	}, nil
}

// isPublishRunningNow checks presence of the marker file and attempts
// recovery if it looks stale.
func isPublishRunningNow(ctx context.Context, markerPath string) bool {
	logger.Info(ctx, "Checking for the presence of a publish marker")

	fileInfo, err := os.Stat(markerPath)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The publish marker is too old, attempting cleanup")

		if anotherPublisherAlive() {
			return true
		}

		if err = os.Remove(markerPath); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Publish marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read publish marker: %v", err)

	return false
}

// anotherPublisherAlive reports whether a different publisher process is
// still running. Errors listing processes count as alive so a live publish
// is never interrupted on shaky evidence.
func anotherPublisherAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		return true
	}

	thisProcessID := os.Getpid()
	executable := publisherExecutable()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return true
		}
	}

	return false
}

// publisherExecutable returns the platform-specific publisher binary name.
func publisherExecutable() string {
	if runtime.GOOS == "windows" {
		return basePublisherExecutable + ".exe"
	}

	return basePublisherExecutable
}
