package targets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/synodic/release-repo/internal/domain/release"
)

// Repository defines persistence operations over the targets directory.
type Repository interface {
	SaveRecord(ctx context.Context, record *release.Record) error
	LoadRecord(ctx context.Context, version string) (*release.Record, error)
	WritePointer(ctx context.Context, name, version string) error
	ReadPointer(ctx context.Context, name string) (string, error)
	Versions(ctx context.Context) ([]string, error)
	Files(ctx context.Context) ([]string, error)
}

// FileRepository persists release records, artifacts and latest pointers
// under a single targets directory:
//
//	<dir>/<version>/<artifact files>
//	<dir>/<version>/metadata.json
//	<dir>/latest.txt, <dir>/latest-<channel>.txt
type FileRepository struct {
	// dir is the targets directory.
	dir string
	// mu protects concurrent writes from within one process.
	mu sync.Mutex
}

const (
	// DefaultFileMode is used for release records and pointer files.
	DefaultFileMode os.FileMode = 0o644

	// DefaultDirMode is used when creating version directories.
	DefaultDirMode os.FileMode = 0o755
)

// ErrNotFound is returned when a record or pointer does not exist yet.
var ErrNotFound = errors.New("not found in targets directory")

// NewFileRepository creates a repository over the provided targets directory.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{
		dir: filepath.Clean(dir),
	}
}

// Dir returns the targets directory path.
func (r *FileRepository) Dir() string {
	return r.dir
}

// VersionDir returns the directory holding one version's files.
func (r *FileRepository) VersionDir(version string) string {
	return filepath.Join(r.dir, version)
}

// ArtifactPath returns the path of an artifact inside a version directory.
func (r *FileRepository) ArtifactPath(version, filename string) string {
	return filepath.Join(r.dir, version, filename)
}

// SaveRecord validates and writes the version's release record document.
// The record is the durable proof of a successful publish and is written once.
func (r *FileRepository) SaveRecord(_ context.Context, record *release.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validate release record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.VersionDir(record.Version), DefaultDirMode); err != nil {
		return fmt.Errorf("create version directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode release record: %w", err)
	}

	path := filepath.Join(r.VersionDir(record.Version), release.RecordFilename)
	if err = os.WriteFile(path, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write release record: %w", err)
	}

	return nil
}

// LoadRecord reads one version's release record from disk.
func (r *FileRepository) LoadRecord(_ context.Context, version string) (*release.Record, error) {
	path := filepath.Join(r.VersionDir(version), release.RecordFilename)

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("record for %s: %w", version, ErrNotFound)
		}

		return nil, fmt.Errorf("read release record: %w", err)
	}

	var record release.Record
	if err = json.Unmarshal(contents, &record); err != nil {
		return nil, fmt.Errorf("decode release record: %w", err)
	}

	return &record, nil
}

// WritePointer overwrites a latest pointer file with the version string.
// Pointers only move forward to whatever was published last; there is no
// rollback operation.
func (r *FileRepository) WritePointer(_ context.Context, name, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents := []byte(version + "\n")
	if err := os.WriteFile(filepath.Join(r.dir, name), contents, DefaultFileMode); err != nil {
		return fmt.Errorf("write pointer %s: %w", name, err)
	}

	return nil
}

// ReadPointer returns the version a latest pointer file currently names.
func (r *FileRepository) ReadPointer(_ context.Context, name string) (string, error) {
	contents, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("pointer %s: %w", name, ErrNotFound)
		}

		return "", fmt.Errorf("read pointer %s: %w", name, err)
	}

	return strings.TrimSpace(string(contents)), nil
}

// Versions lists the version subdirectories of the targets directory.
func (r *FileRepository) Versions(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("list targets directory: %w", err)
	}

	var versions []string

	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}

	return versions, nil
}

// Files recursively lists every regular file under the targets directory
// as a posix-style path relative to it. A missing directory yields no files.
func (r *FileRepository) Files(_ context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(r.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}

		files = append(files, filepath.ToSlash(relative))

		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("walk targets directory: %w", err)
	}

	return files, nil
}
