package trust

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootDecode verifies the signed envelope and role/key maps decode as expected.
func TestRootDecode(t *testing.T) {
	t.Parallel()

	payload := `{
		"signed": {
			"version": 3,
			"expires": "2027-01-01T00:00:00Z",
			"roles": {
				"root": {"keyids": ["aa11"], "threshold": 1},
				"targets": {"keyids": ["bb22", "cc33"], "threshold": 2}
			},
			"keys": {
				"aa11": {"keytype": "ed25519"},
				"bb22": {"keytype": "ed25519"},
				"cc33": {"keytype": "ed25519"}
			}
		}
	}`

	var root Root
	require.NoError(t, json.Unmarshal([]byte(payload), &root))

	require.Equal(t, 3, root.Signed.Version)
	require.Equal(t, "2027-01-01T00:00:00Z", root.Signed.Expires)
	require.Equal(t, []string{"bb22", "cc33"}, root.Signed.Roles["targets"].KeyIDs)
	require.Equal(t, 2, root.Signed.Roles["targets"].Threshold)
	require.Contains(t, root.Signed.Keys, "aa11")
}

// TestTimestampDecode checks the meta reference map of the timestamp document.
func TestTimestampDecode(t *testing.T) {
	t.Parallel()

	payload := `{"signed": {"version": 12, "expires": "2026-09-07T00:00:00Z",
		"meta": {"snapshot.json": {"version": 12}}}}`

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(payload), &ts))

	entry, ok := ts.Signed.Meta[SnapshotFilename]
	require.True(t, ok)
	require.Equal(t, 12, entry.Version)
}

// TestSigningInfoDecode ensures the role-agnostic slice decodes from any document.
func TestSigningInfoDecode(t *testing.T) {
	t.Parallel()

	payload := `{"signed": {"version": 7, "expires": "2026-12-01T00:00:00Z", "targets": {}}}`

	var info SigningInfo
	require.NoError(t, json.Unmarshal([]byte(payload), &info))

	require.Equal(t, 7, info.Signed.Version)
	require.Equal(t, "2026-12-01T00:00:00Z", info.Signed.Expires)
}

// TestRequiredRoles pins the role set and reporting order.
func TestRequiredRoles(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"root", "targets", "snapshot", "timestamp"}, RequiredRoles())
}
