package bagsplit

import (
	"errors"
	"strings"
)

var (
	ErrDialogOpen         = errors.New("sub-bag dialog is already open")
	ErrDialogClosed       = errors.New("sub-bag dialog is not open")
	ErrSubmissionInFlight = errors.New("a sub-bag submission is already in flight")
	ErrUnknownPackage     = errors.New("package is not in the source bag")
	ErrSubmitFailed       = errors.New("sub-bag submission failed")
)

// ValidationError lists every missing field, not just the first one.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in: " + strings.Join(e.Missing, ", ")
}

// SubmitError carries the operator-facing message of a failed submission.
// It matches ErrSubmitFailed and, for transport failures, the cause.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubmitFailed}
	}
	return []error{ErrSubmitFailed, e.Err}
}
