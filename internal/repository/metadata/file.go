package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/synodic/release-repo/internal/domain/trust"
)

// Repository defines read operations over the four trust documents.
type Repository interface {
	Exists(ctx context.Context, role string) bool
	LoadRoot(ctx context.Context) (*trust.Root, error)
	LoadTargets(ctx context.Context) (*trust.Targets, error)
	LoadSnapshot(ctx context.Context) (*trust.Snapshot, error)
	LoadTimestamp(ctx context.Context) (*trust.Timestamp, error)
	LoadSigningInfo(ctx context.Context, role string) (*trust.SigningInfo, error)
}

// FileRepository reads trust documents from a metadata directory where each
// role is persisted as <role>.json. It never writes: trust documents are
// produced by the external signing service.
type FileRepository struct {
	// dir is the metadata directory.
	dir string
}

// ErrNotFound is returned when a trust document does not exist on disk.
var ErrNotFound = errors.New("metadata document not found")

// DocumentFilename returns the on-disk filename for a role.
func DocumentFilename(role string) string {
	return role + ".json"
}

// NewFileRepository creates a repository reading from the provided directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{
		dir: filepath.Clean(dir),
	}
}

// Exists reports whether the role's document is present on disk.
func (r *FileRepository) Exists(_ context.Context, role string) bool {
	_, err := os.Stat(filepath.Join(r.dir, DocumentFilename(role)))

	return err == nil
}

// LoadRoot reads and decodes the root document.
func (r *FileRepository) LoadRoot(_ context.Context) (*trust.Root, error) {
	var doc trust.Root
	if err := r.readDocument(trust.RoleRoot, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadTargets reads and decodes the targets registry document.
func (r *FileRepository) LoadTargets(_ context.Context) (*trust.Targets, error) {
	var doc trust.Targets
	if err := r.readDocument(trust.RoleTargets, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadSnapshot reads and decodes the snapshot document.
func (r *FileRepository) LoadSnapshot(_ context.Context) (*trust.Snapshot, error) {
	var doc trust.Snapshot
	if err := r.readDocument(trust.RoleSnapshot, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadTimestamp reads and decodes the timestamp document.
func (r *FileRepository) LoadTimestamp(_ context.Context) (*trust.Timestamp, error) {
	var doc trust.Timestamp
	if err := r.readDocument(trust.RoleTimestamp, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadSigningInfo reads only the version and expiry of any role's document.
func (r *FileRepository) LoadSigningInfo(_ context.Context, role string) (*trust.SigningInfo, error) {
	var info trust.SigningInfo
	if err := r.readDocument(role, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// readDocument reads <role>.json from the metadata directory into out.
func (r *FileRepository) readDocument(role string, out any) error {
	filename := DocumentFilename(role)

	contents, err := os.ReadFile(filepath.Join(r.dir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", filename, ErrNotFound)
		}

		return fmt.Errorf("read %s: %w", filename, err)
	}

	if err = json.Unmarshal(contents, out); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	return nil
}
