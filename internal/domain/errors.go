package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparsableVersion means a version string does not fit major.minor[.patch].
	ErrUnparsableVersion = errors.New("unparsable version")
	// ErrFeedUnavailable means the upstream latest-version feed is unreachable or malformed.
	ErrFeedUnavailable = errors.New("version feed unavailable")
	// ErrQuery means the device query failed or returned no usable value.
	ErrQuery = errors.New("device query failed")
	// ErrUsage means the invocation is malformed.
	ErrUsage = errors.New("usage error")
)

// CheckError captures contextual information for a failed check step.
type CheckError struct {
	Op  string
	Msg string
	Err error
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }

// E constructs a CheckError with the provided context.
func E(op, msg string, err error) error {
	return &CheckError{Op: op, Msg: msg, Err: err}
}
