// Package publisher implements the release publish workflow: download the
// three platform artifacts, digest them, persist the release record and
// move the latest pointers.
//
// The workflow is guarded by an advisory marker file so two operators do
// not interleave writes to the same version directory.
package publisher
