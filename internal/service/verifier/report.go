package verifier

import "fmt"

// Report is the classified outcome of one verification pass.
// Errors must be fixed before the repository can be trusted; warnings are
// surfaced for review but do not fail verification.
type Report struct {
	// Errors are hard violations of the trust-chain structure.
	Errors []string
	// Warnings are soft findings that may reflect registry lag.
	Warnings []string
}

// Passed reports whether verification succeeded. Warnings alone never fail it.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

// addErrorf records one hard violation.
func (r *Report) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// addWarningf records one soft finding.
func (r *Report) addWarningf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
