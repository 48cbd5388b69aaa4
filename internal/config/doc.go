// Package config defines repository layout settings used by the binaries
// and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the metadata and targets directory paths.
package config
