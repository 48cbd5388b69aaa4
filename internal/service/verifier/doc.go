// Package verifier implements the read-only consistency audit over the
// trust documents and the targets directory.
//
// Violations are collected, never failed fast, and classified into errors
// (break the trust chain) and warnings (may reflect registry lag). No
// cryptographic signatures are checked here; signing happens in an
// external service and only the structural chain is auditable locally.
package verifier
