// Package errs holds the sentinel errors shared by the snapshot boundary.
//
// The values mirror the classic errno triple a process-listing syscall can
// fail with: EINVAL, ENOMEM and EFAULT. Callers are expected to classify
// failures with errors.Is rather than string matching.
package errs

import "errors"

var (
	// ErrInvalidArgument is returned for a nil buffer or count argument,
	// an unreadable count value, or a requested maximum below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfMemory is returned when the staging buffer for the snapshot
	// cannot be allocated.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrBoundaryFault is returned when copying records or the stored
	// count back into caller memory fails.
	ErrBoundaryFault = errors.New("bad address in caller memory")
)
