package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent extraction failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange indicates a cursor was asked for an item past its end.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMisalignedExtraction indicates an extracted stream is shorter than the fetch bound.
	ErrMisalignedExtraction = errors.New("misaligned extraction")

	// ErrMalformedRecord indicates a record is missing a field the extractors require.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthRequired indicates no usable credentials were found.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")
)

// RateLimitError reports that the remote quota is exhausted.
// ResetAt is the reset time reported with the failing response and may be zero
// when the response did not carry one.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is lets errors.Is(err, ErrRateLimited) match any RateLimitError.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// MalformedRecordError names the record and field that could not be read.
type MalformedRecordError struct {
	Entity string
	Index  int
	Field  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record at index %d: missing %s", e.Entity, e.Index, e.Field)
}

// Is lets errors.Is(err, ErrMalformedRecord) match any MalformedRecordError.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
