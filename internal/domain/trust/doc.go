// Package trust defines typed models for the four root-level trust
// documents: root, targets, snapshot, and timestamp.
//
// The types mirror the on-disk {signed: {...}} envelope. Signatures are
// never validated here; only the structural relationships between roles,
// keys, registries, and references are modeled.
package trust
