// Package release contains core domain types for published releases.
//
// It defines the Record written once per published version, the Channel
// release tracks with their latest-pointer filenames, and the fixed set of
// supported platforms with their distribution filenames.
package release
