package services

import "errors"

// Common service errors. Validation failures are detected before the
// mutating transaction opens and returned as these typed values; store
// failures are wrapped and propagated as-is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate request")
	ErrIneligible   = errors.New("leave type not eligible for employee")
	ErrNoManager    = errors.New("no reporting manager assigned")
	ErrInvalidState = errors.New("invalid state transition")
	ErrInvalidRange = errors.New("invalid date range")
)
