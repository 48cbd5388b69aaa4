package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synodic/release-repo/internal/config"
	"github.com/synodic/release-repo/internal/domain/trust"
	"github.com/synodic/release-repo/internal/repository/targets"
	"github.com/synodic/release-repo/internal/service/publisher"
)

// testRepository is a repository rooted in a temp directory plus an
// artifact server publishing canned platform files.
type testRepository struct {
	dir        string
	configPath string
	serverURL  string
}

// setupRepository creates the repository layout and artifact server.
func setupRepository(t *testing.T) *testRepository {
	t.Helper()

	dir := t.TempDir()

	configPath := filepath.Join(dir, "settings.yaml")
	cfg := &config.Config{
		MetadataDir: filepath.Join(dir, "metadata"),
		TargetsDir:  filepath.Join(dir, "targets"),
	}
	require.NoError(t, config.Save(configPath, cfg))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Body depends on the path so per-platform digests differ.
		_, _ = w.Write([]byte("artifact payload for " + r.URL.Path))
	}))
	t.Cleanup(server.Close)

	return &testRepository{
		dir:        dir,
		configPath: configPath,
		serverURL:  server.URL,
	}
}

// publishOptions builds publisher options against the artifact server.
func (r *testRepository) publishOptions(version, channel string) *publisher.Options {
	return &publisher.Options{
		ConfigPath: r.configPath,
		Version:    version,
		Channel:    channel,
		WindowsURL: r.serverURL + "/" + version + "/win.zip",
		LinuxURL:   r.serverURL + "/" + version + "/linux.tar.gz",
		MacOSURL:   r.serverURL + "/" + version + "/macos.tar.gz",
	}
}

// store returns a repository over the targets directory.
func (r *testRepository) store() *targets.FileRepository {
	return targets.NewFileRepository(filepath.Join(r.dir, "targets"))
}

// writeTrustDocuments persists a consistent set of trust documents whose
// registry matches the files currently on disk.
func (r *testRepository) writeTrustDocuments(t *testing.T) {
	t.Helper()

	keyID := strings.Repeat("ef", 20)

	roles := make(map[string]any, 4)
	for _, role := range trust.RequiredRoles() {
		roles[role] = map[string]any{"keyids": []string{keyID}, "threshold": 1}
	}

	files, err := r.store().Files(context.Background())
	require.NoError(t, err)

	registry := make(map[string]any, len(files))
	for _, path := range files {
		registry[path] = map[string]any{}
	}

	docs := map[string]any{
		trust.RoleRoot: map[string]any{"signed": map[string]any{
			"version": 1,
			"expires": "2099-01-01T00:00:00Z",
			"roles":   roles,
			"keys":    map[string]any{keyID: map[string]any{"keytype": "ed25519"}},
		}},
		trust.RoleTargets: map[string]any{"signed": map[string]any{
			"version": 1,
			"expires": "2099-01-01T00:00:00Z",
			"targets": registry,
		}},
		trust.RoleSnapshot: map[string]any{"signed": map[string]any{
			"version": 1,
			"expires": "2099-01-01T00:00:00Z",
			"meta":    map[string]any{"targets.json": map[string]any{"version": 1}},
		}},
		trust.RoleTimestamp: map[string]any{"signed": map[string]any{
			"version": 1,
			"expires": "2099-01-01T00:00:00Z",
			"meta":    map[string]any{"snapshot.json": map[string]any{"version": 1}},
		}},
	}

	metadataDir := filepath.Join(r.dir, "metadata")
	require.NoError(t, os.MkdirAll(metadataDir, 0o755))

	for role, doc := range docs {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t,
			os.WriteFile(filepath.Join(metadataDir, role+".json"), data, 0o600))
	}
}
