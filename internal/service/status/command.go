package status

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/synodic/release-repo/internal/config"
	"github.com/synodic/release-repo/internal/domain/release"
	"github.com/synodic/release-repo/internal/domain/trust"
	"github.com/synodic/release-repo/internal/logger"
	"github.com/synodic/release-repo/internal/repository/metadata"
	"github.com/synodic/release-repo/internal/repository/targets"
)

// Options contains inputs for the status entry point.
type Options struct {
	// ConfigPath is an optional path to repository settings YAML.
	ConfigPath string
}

// Health classifies how close a role's metadata is to expiry.
type Health string

const (
	// HealthOK means at least thirty days remain.
	HealthOK Health = "healthy"
	// HealthExpiringSoon means less than thirty days remain.
	HealthExpiringSoon Health = "expiring-soon"
	// HealthExpired means the expiry is in the past.
	HealthExpired Health = "expired"
	// HealthUnknown means the expiry string could not be interpreted;
	// it is displayed as-is instead.
	HealthUnknown Health = "unknown"
)

const (
	// expiringSoonDays is the review window before expiry.
	expiringSoonDays = 30

	// maxRecentVersions bounds the version list in the summary.
	maxRecentVersions = 5
)

// RoleStatus summarizes one trust document.
type RoleStatus struct {
	// Role is the trust role name.
	Role string
	// Present is false when the document is missing or unreadable.
	Present bool
	// Version is the document version, zero when absent from the document.
	Version int
	// Expires is the raw expiry string from the document.
	Expires string
	// Health classifies the expiry.
	Health Health
	// DaysLeft is days until expiry, negative when expired.
	// Meaningless unless Health is based on a parsed expiry.
	DaysLeft int
}

// Pointer is one latest pointer file and the version it names.
type Pointer struct {
	Name    string
	Version string
}

// Summary is the human-facing repository overview. It is always best-effort:
// missing pieces are reported as absent, never raised as errors.
type Summary struct {
	// Roles holds one entry per required role, in reporting order.
	Roles []RoleStatus
	// TargetsPresent is false when the targets directory does not exist.
	TargetsPresent bool
	// VersionCount is the number of version subdirectories.
	VersionCount int
	// Pointers lists the pointer files that exist, with their values.
	Pointers []Pointer
	// RecentVersions holds up to five versions in descending order.
	RecentVersions []string
	// RemainderCount is how many older versions were elided.
	RemainderCount int
}

// reporter derives the summary from the two repositories.
type reporter struct {
	meta  *metadata.FileRepository
	store *targets.FileRepository
}

// Run builds the repository summary. The only errors it returns are
// configuration problems; a degraded store still produces a summary.
func Run(ctx context.Context, opts *Options) (*Summary, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "synodic-status")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("initialize status reporter: %w", err)
	}

	rep := &reporter{
		meta:  metadata.NewFileRepository(cfg.MetadataDir),
		store: targets.NewFileRepository(cfg.TargetsDir),
	}

	summary := rep.summarize(ctx)

	logger.InfoKV(ctx, "Status summary built",
		"versions", summary.VersionCount, "pointers", len(summary.Pointers))

	return summary, nil
}

// loadConfig reads settings from the provided path, falling back to the
// conventional layout when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// summarize walks roles, versions and pointers, degrading gracefully.
func (r *reporter) summarize(ctx context.Context) *Summary {
	summary := &Summary{
		Roles: make([]RoleStatus, 0, len(trust.RequiredRoles())),
	}

	now := time.Now().UTC()

	for _, role := range trust.RequiredRoles() {
		summary.Roles = append(summary.Roles, r.roleStatus(ctx, role, now))
	}

	if _, err := os.Stat(r.store.Dir()); err != nil {
		return summary
	}

	summary.TargetsPresent = true

	versions, err := r.store.Versions(ctx)
	if err != nil {
		logger.Warnf(ctx, "Unable to list versions: %v", err)
	}

	summary.VersionCount = len(versions)

	sort.Sort(sort.Reverse(sort.StringSlice(versions)))

	if len(versions) > maxRecentVersions {
		summary.RecentVersions = versions[:maxRecentVersions]
		summary.RemainderCount = len(versions) - maxRecentVersions
	} else {
		summary.RecentVersions = versions
	}

	pointerNames := []string{
		release.GlobalPointerFilename,
		release.ChannelStable.PointerFilename(),
		release.ChannelDevelopment.PointerFilename(),
	}

	for _, name := range pointerNames {
		value, err := r.store.ReadPointer(ctx, name)
		if err != nil {
			continue
		}

		summary.Pointers = append(summary.Pointers, Pointer{Name: name, Version: value})
	}

	return summary
}

// roleStatus summarizes one role's document, treating any read failure as absence.
func (r *reporter) roleStatus(ctx context.Context, role string, now time.Time) RoleStatus {
	info, err := r.meta.LoadSigningInfo(ctx, role)
	if err != nil {
		return RoleStatus{Role: role}
	}

	health, daysLeft := classifyExpiry(info.Signed.Expires, now)

	return RoleStatus{
		Role:     role,
		Present:  true,
		Version:  info.Signed.Version,
		Expires:  info.Signed.Expires,
		Health:   health,
		DaysLeft: daysLeft,
	}
}

// classifyExpiry buckets an expiry string relative to now. Unparsable
// strings are HealthUnknown so they can be shown as-is.
func classifyExpiry(expires string, now time.Time) (Health, int) {
	if expires == "" {
		return HealthUnknown, 0
	}

	expiry, err := time.Parse(time.RFC3339, expires)
	if err != nil {
		return HealthUnknown, 0
	}

	daysLeft := int(math.Floor(expiry.Sub(now).Hours() / 24))

	switch {
	case daysLeft < 0:
		return HealthExpired, daysLeft
	case daysLeft < expiringSoonDays:
		return HealthExpiringSoon, daysLeft
	default:
		return HealthOK, daysLeft
	}
}
