// Package targets persists the release side of the repository: per-version
// artifact directories, release record documents, and the latest pointer
// files. Like the metadata repository, nothing is cached between calls.
package targets
