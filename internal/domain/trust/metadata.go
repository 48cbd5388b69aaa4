package trust

import "encoding/json"

// Role names required in every root document.
const (
	RoleRoot      = "root"
	RoleTargets   = "targets"
	RoleSnapshot  = "snapshot"
	RoleTimestamp = "timestamp"
)

// Metadata document filenames referenced across the trust chain.
const (
	TargetsFilename  = "targets.json"
	SnapshotFilename = "snapshot.json"
)

// RequiredRoles returns the roles every repository must declare, in the
// order they are reported.
func RequiredRoles() []string {
	return []string{RoleRoot, RoleTargets, RoleSnapshot, RoleTimestamp}
}

// Root is the root-of-trust document: which roles exist, which keys may
// sign for them, and how many signatures each role needs.
type Root struct {
	Signed RootSigned `json:"signed"`
}

// RootSigned is the signed payload of the root document.
type RootSigned struct {
	Version int    `json:"version"`
	Expires string `json:"expires"`
	// Roles maps role names to their key requirements.
	Roles map[string]RoleKeys `json:"roles"`
	// Keys maps key identifiers to opaque key material descriptors.
	// Key material is never interpreted here, only resolved by identifier.
	Keys map[string]json.RawMessage `json:"keys"`
}

// RoleKeys declares which keys may sign a role and the signature threshold.
type RoleKeys struct {
	KeyIDs    []string `json:"keyids"`
	Threshold int      `json:"threshold"`
}

// Targets is the authoritative registry of distributable artifacts.
type Targets struct {
	Signed TargetsSigned `json:"signed"`
}

// TargetsSigned is the signed payload of the targets document.
type TargetsSigned struct {
	Version int    `json:"version"`
	Expires string `json:"expires"`
	// Targets maps posix-style relative paths to integrity descriptors.
	Targets map[string]TargetDescriptor `json:"targets"`
}

// TargetDescriptor carries integrity information for one registered target.
type TargetDescriptor struct {
	Length int64             `json:"length,omitempty"`
	Hashes map[string]string `json:"hashes,omitempty"`
}

// Snapshot captures a consistent reference to the current targets registry.
type Snapshot struct {
	Signed SnapshotSigned `json:"signed"`
}

// SnapshotSigned is the signed payload of the snapshot document.
type SnapshotSigned struct {
	Version int    `json:"version"`
	Expires string `json:"expires"`
	// Meta maps metadata filenames to their reference entries.
	Meta map[string]MetaEntry `json:"meta"`
}

// Timestamp is the freshness pointer to the current snapshot.
type Timestamp struct {
	Signed TimestampSigned `json:"signed"`
}

// TimestampSigned is the signed payload of the timestamp document.
type TimestampSigned struct {
	Version int    `json:"version"`
	Expires string `json:"expires"`
	// Meta maps metadata filenames to their reference entries.
	Meta map[string]MetaEntry `json:"meta"`
}

// MetaEntry references another metadata document from snapshot or timestamp.
type MetaEntry struct {
	Version int               `json:"version,omitempty"`
	Length  int64             `json:"length,omitempty"`
	Hashes  map[string]string `json:"hashes,omitempty"`
}

// SigningInfo is the version and expiry common to every signed document.
// The status reporter decodes only this slice of a document so a document
// of any role can be summarized uniformly.
type SigningInfo struct {
	Signed struct {
		Version int    `json:"version"`
		Expires string `json:"expires"`
	} `json:"signed"`
}
