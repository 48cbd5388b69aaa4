// Package status derives a human-facing summary of repository health:
// per-role expiry countdowns, version counts, pointer values and recent
// versions. It is strictly read-only and never fails on a degraded store.
package status
