// Package metadata persists access to the root-level trust documents.
//
// The FileRepository reads root.json, targets.json, snapshot.json and
// timestamp.json from the metadata directory. Documents are reloaded from
// disk on every call: the store is the single source of truth and nothing
// is cached between invocations.
package metadata
