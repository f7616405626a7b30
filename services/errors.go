package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the submission lifecycle services. Controllers
// match these with errors.Is to pick the HTTP status.
var (
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrPayrollRunNotFound     = errors.New("payroll run not found")
	ErrRunNotReady            = errors.New("payroll run is not locked or paid")
	ErrDuplicateSubmission    = errors.New("a submission already exists for this payroll run and type")
	ErrAcceptedImmutable      = errors.New("cannot modify an accepted submission")
	ErrDeleteNotPending       = errors.New("cannot delete a submitted record")
	ErrMissingRejectionReason = errors.New("a rejection reason is required")
	ErrMissingFailureReason   = errors.New("a failure reason is required")
	ErrMissingFileHash        = errors.New("a file url and content hash are required")
	ErrStaleStatus            = errors.New("submission was modified concurrently, reload and retry")
	ErrUnknownChannel         = errors.New("unknown submission channel")
	ErrUnknownStatus          = errors.New("unknown submission status")
)

// IllegalTransitionError reports a status change that is not in the
// channel's transition table, together with the legal alternatives so the
// caller can self-correct.
type IllegalTransitionError struct {
	Channel string
	From    string
	To      string
	Allowed []string
}

func (e *IllegalTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s status %s is final, no further transitions are allowed (attempted %s)",
			e.Channel, e.From, e.To)
	}
	return fmt.Sprintf("illegal %s transition %s -> %s, allowed: %s",
		e.Channel, e.From, e.To, strings.Join(e.Allowed, ", "))
}
