package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/synodic/release-repo/internal/config"
	"github.com/synodic/release-repo/internal/domain/release"
	"github.com/synodic/release-repo/internal/domain/trust"
	"github.com/synodic/release-repo/internal/logger"
	"github.com/synodic/release-repo/internal/repository/metadata"
	"github.com/synodic/release-repo/internal/repository/targets"
)

// Options contains inputs for the verifier entry point.
type Options struct {
	// ConfigPath is an optional path to repository settings YAML.
	ConfigPath string
}

// keyIDDisplayLength bounds key identifiers in messages to keep them readable.
const keyIDDisplayLength = 16

// checker walks the structural invariants of the repository.
// It is read-only: nothing in the store is ever mutated by a verification.
type checker struct {
	// meta reads the four trust documents.
	meta *metadata.FileRepository
	// store reads the targets directory.
	store *targets.FileRepository
	// report accumulates every violation; checks never fail fast.
	report *Report
}

// Run audits the repository and returns the classified report.
// The returned error covers operational failures (unreadable store) only;
// structural violations land in the report.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "synodic-verifier")

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("initialize verifier: %w", err)
	}

	chk := &checker{
		meta:   metadata.NewFileRepository(cfg.MetadataDir),
		store:  targets.NewFileRepository(cfg.TargetsDir),
		report: new(Report),
	}

	if err = chk.run(ctx); err != nil {
		return nil, fmt.Errorf("verification aborted: %w", err)
	}

	if chk.report.Passed() {
		logger.InfoKV(ctx, "Verification passed", "warnings", len(chk.report.Warnings))
	} else {
		logger.InfoKV(ctx, "Verification failed",
			"errors", len(chk.report.Errors), "warnings", len(chk.report.Warnings))
	}

	return chk.report, nil
}

// loadConfig reads settings from the provided path, falling back to the
// conventional layout when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

// run executes the check sequence. Nothing deeper is load-bearing without
// the four base documents, so their absence stops the structural checks.
func (c *checker) run(ctx context.Context) error {
	if !c.checkDocumentsPresent(ctx) {
		return nil
	}

	root, targetsDoc, ok := c.loadDocuments(ctx)
	if !ok {
		return nil
	}

	c.checkRoot(root)

	if err := c.checkTargetsTree(ctx, targetsDoc); err != nil {
		return err
	}

	return c.checkReleaseRecords(ctx)
}

// checkDocumentsPresent requires all four trust documents on disk,
// reporting every missing one.
func (c *checker) checkDocumentsPresent(ctx context.Context) bool {
	present := true

	for _, role := range trust.RequiredRoles() {
		if !c.meta.Exists(ctx, role) {
			c.report.addErrorf("Missing required file: %s", metadata.DocumentFilename(role))

			present = false
		}
	}

	return present
}

// loadDocuments decodes the four documents, validating the snapshot and
// timestamp references as it goes. Undecodable documents are reported and
// stop the deeper checks, like missing ones do.
func (c *checker) loadDocuments(ctx context.Context) (*trust.Root, *trust.Targets, bool) {
	decodable := true

	root, err := c.meta.LoadRoot(ctx)
	if err != nil {
		c.report.addErrorf("Unparsable metadata document: %v", err)

		decodable = false
	}

	targetsDoc, err := c.meta.LoadTargets(ctx)
	if err != nil {
		c.report.addErrorf("Unparsable metadata document: %v", err)

		decodable = false
	}

	snapshot, err := c.meta.LoadSnapshot(ctx)
	if err != nil {
		c.report.addErrorf("Unparsable metadata document: %v", err)

		decodable = false
	}

	timestamp, err := c.meta.LoadTimestamp(ctx)
	if err != nil {
		c.report.addErrorf("Unparsable metadata document: %v", err)

		decodable = false
	}

	if !decodable {
		return nil, nil, false
	}

	// Snapshot may momentarily trail the registry, so a missing reference
	// only degrades freshness guarantees.
	if _, ok := snapshot.Signed.Meta[trust.TargetsFilename]; !ok {
		c.report.addWarningf("Snapshot doesn't reference targets.json")
	}

	// A timestamp that does not point to a snapshot breaks the freshness
	// chain clients rely on against rollback and freeze attacks.
	if _, ok := timestamp.Signed.Meta[trust.SnapshotFilename]; !ok {
		c.report.addErrorf("Timestamp doesn't reference snapshot.json")
	}

	return root, targetsDoc, true
}

// checkRoot validates role declarations, thresholds and key resolution.
// Each violation is reported independently.
func (c *checker) checkRoot(root *trust.Root) {
	signed := root.Signed

	for _, role := range trust.RequiredRoles() {
		roleKeys, ok := signed.Roles[role]
		if !ok {
			c.report.addErrorf("Root missing role definition: %s", role)

			continue
		}

		if len(roleKeys.KeyIDs) == 0 {
			c.report.addErrorf("Role '%s' has no keyids", role)
		}

		if roleKeys.Threshold < 1 {
			c.report.addErrorf("Role '%s' has invalid threshold", role)
		}
	}

	for _, role := range trust.RequiredRoles() {
		roleKeys, ok := signed.Roles[role]
		if !ok {
			continue
		}

		for _, keyID := range roleKeys.KeyIDs {
			if _, found := signed.Keys[keyID]; !found {
				c.report.addErrorf("Role '%s' references undefined key: %s...",
					role, truncateKeyID(keyID))
			}
		}
	}
}

// checkTargetsTree audits the registry against the filesystem in both
// directions. The two directions are separate named checks with their own
// messages: files the registry never mentions may be registry lag, while a
// registered target with no backing file may be an upload still in flight.
// Both stay warnings so operators decide their severity.
func (c *checker) checkTargetsTree(ctx context.Context, targetsDoc *trust.Targets) error {
	files, err := c.store.Files(ctx)
	if err != nil {
		return err
	}

	registry := targetsDoc.Signed.Targets

	onDisk := make(map[string]struct{}, len(files))

	for _, path := range files {
		onDisk[path] = struct{}{}

		if _, registered := registry[path]; !registered {
			c.report.addWarningf("Unregistered target file: %s", path)
		}
	}

	registered := make([]string, 0, len(registry))
	for path := range registry {
		registered = append(registered, path)
	}

	// Deterministic report order; map iteration is not.
	sort.Strings(registered)

	for _, path := range registered {
		if _, found := onDisk[path]; !found {
			c.report.addWarningf("Registered target missing from disk: %s", path)
		}
	}

	return nil
}

// checkReleaseRecords validates every persisted release record against the
// record schema. A version directory without a record is skipped: the
// publisher may not have finished, and the registry checks already cover
// its files.
func (c *checker) checkReleaseRecords(ctx context.Context) error {
	versions, err := c.store.Versions(ctx)
	if err != nil {
		return err
	}

	sort.Strings(versions)

	for _, version := range versions {
		path := filepath.Join(c.store.VersionDir(version), release.RecordFilename)

		contents, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return err
		}

		var instance any
		if err = json.Unmarshal(contents, &instance); err != nil {
			c.report.addErrorf("Release record %s/%s is not valid JSON",
				version, release.RecordFilename)

			continue
		}

		if err = recordSchema.Validate(instance); err != nil {
			c.report.addErrorf("Release record %s/%s violates the record schema",
				version, release.RecordFilename)
		}
	}

	return nil
}

// truncateKeyID bounds a key identifier for display.
func truncateKeyID(keyID string) string {
	if len(keyID) > keyIDDisplayLength {
		return keyID[:keyIDDisplayLength]
	}

	return keyID
}
