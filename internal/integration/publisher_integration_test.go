package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/synodic/release-repo/internal/domain/release"
	"github.com/synodic/release-repo/internal/service/publisher"
)

// TestPublish_StableEndToEnd publishes a stable release and verifies the
// durable state: record, pointers, and artifact files.
func TestPublish_StableEndToEnd(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	record, err := publisher.Run(ctx, repo.publishOptions("2.1.0", "stable"))
	require.NoError(t, err)

	require.Equal(t, "2.1.0", record.Version)
	require.Equal(t, release.ChannelStable, record.Channel)
	require.Len(t, record.Artifacts, 3)

	// Release date is well-formed strict UTC.
	_, err = time.Parse(release.DateLayout, record.ReleaseDate)
	require.NoError(t, err)

	store := repo.store()

	reloaded, err := store.LoadRecord(ctx, "2.1.0")
	require.NoError(t, err)
	require.Equal(t, record, reloaded)

	for _, name := range []string{
		release.GlobalPointerFilename,
		release.ChannelStable.PointerFilename(),
	} {
		value, err := store.ReadPointer(ctx, name)
		require.NoError(t, err)
		require.Equal(t, "2.1.0", value, name)
	}

	files, err := store.Files(ctx)
	require.NoError(t, err)
	require.Contains(t, files, "2.1.0/synodic-windows-x64.zip")
	require.Contains(t, files, "2.1.0/synodic-linux-x64.tar.gz")
	require.Contains(t, files, "2.1.0/synodic-macos-x64.tar.gz")
	require.Contains(t, files, "2.1.0/metadata.json")
}

// TestPublish_DevelopmentLeavesGlobalPointer publishes to both channels and
// checks the global pointer only ever follows stable.
func TestPublish_DevelopmentLeavesGlobalPointer(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := publisher.Run(ctx, repo.publishOptions("2.0.0", "stable"))
	require.NoError(t, err)

	_, err = publisher.Run(ctx, repo.publishOptions("2.1.0-dev.3", "development"))
	require.NoError(t, err)

	store := repo.store()

	global, err := store.ReadPointer(ctx, release.GlobalPointerFilename)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", global)

	development, err := store.ReadPointer(ctx, release.ChannelDevelopment.PointerFilename())
	require.NoError(t, err)
	require.Equal(t, "2.1.0-dev.3", development)
}

// TestPublish_PointersAlwaysMoveForward republishes an older version and
// confirms the pointer simply follows the most recent publish.
func TestPublish_PointersAlwaysMoveForward(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := publisher.Run(ctx, repo.publishOptions("2.1.0", "stable"))
	require.NoError(t, err)

	_, err = publisher.Run(ctx, repo.publishOptions("2.0.0", "stable"))
	require.NoError(t, err)

	global, err := repo.store().ReadPointer(ctx, release.GlobalPointerFilename)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", global)
}
