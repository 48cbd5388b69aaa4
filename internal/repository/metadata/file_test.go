package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synodic/release-repo/internal/domain/trust"
)

// TestFileRepository_NotFound verifies loads return ErrNotFound for missing documents.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(t.TempDir())

	require.False(t, repo.Exists(context.Background(), trust.RoleRoot))

	_, err := repo.LoadRoot(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.LoadSigningInfo(context.Background(), trust.RoleTimestamp)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_LoadRoot decodes a realistic root document from disk.
func TestFileRepository_LoadRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "root.json", `{
		"signed": {
			"version": 2,
			"expires": "2027-03-01T00:00:00Z",
			"roles": {"root": {"keyids": ["aa"], "threshold": 1}},
			"keys": {"aa": {"keytype": "ed25519"}}
		}
	}`)

	repo := NewFileRepository(dir)
	require.True(t, repo.Exists(context.Background(), trust.RoleRoot))

	root, err := repo.LoadRoot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, root.Signed.Version)
	require.Equal(t, 1, root.Signed.Roles["root"].Threshold)
}

// TestFileRepository_LoadSigningInfo reads the shared version/expiry slice.
func TestFileRepository_LoadSigningInfo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "snapshot.json",
		`{"signed": {"version": 9, "expires": "2026-10-01T00:00:00Z", "meta": {}}}`)

	repo := NewFileRepository(dir)

	info, err := repo.LoadSigningInfo(context.Background(), trust.RoleSnapshot)
	require.NoError(t, err)
	require.Equal(t, 9, info.Signed.Version)
	require.Equal(t, "2026-10-01T00:00:00Z", info.Signed.Expires)
}

// TestFileRepository_DecodeError surfaces malformed JSON as a decode failure.
func TestFileRepository_DecodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDocument(t, dir, "timestamp.json", `{"signed": `)

	repo := NewFileRepository(dir)

	_, err := repo.LoadTimestamp(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

// writeDocument writes one metadata document into the test directory.
func writeDocument(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}
