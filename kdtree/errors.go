package kdtree

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kdgo/persistence"
)

var (
	// ErrEmptyTree is returned by NearestOne on a tree without entries.
	ErrEmptyTree = errors.New("kdtree: tree is empty")

	// ErrNotFound is returned by NearestOne when entries exist but none
	// passes the query options.
	ErrNotFound = errors.New("kdtree: no matching entry")

	// ErrBucketOverflow is returned when more than bucket-size entries share
	// identical coordinates and therefore cannot be split.
	ErrBucketOverflow = errors.New("kdtree: bucket overflow: too many identical points")

	// ErrCapacityExceeded is returned when an allocation would exceed the
	// handle space of the index type.
	ErrCapacityExceeded = errors.New("kdtree: capacity exceeded")

	// ErrInvalidDimension is returned for a dimension outside [1, 65535].
	ErrInvalidDimension = errors.New("kdtree: invalid dimension")

	// ErrInvalidBucketSize is returned for a bucket size below 1.
	ErrInvalidBucketSize = errors.New("kdtree: invalid bucket size")

	// ErrLengthMismatch is returned by Build when points and items differ in
	// length.
	ErrLengthMismatch = errors.New("kdtree: points and items differ in length")

	// ErrFormatMismatch is returned when encoded data does not describe a
	// tree of the requested type or shape, or is structurally corrupt.
	ErrFormatMismatch = errors.New("kdtree: format mismatch")

	// ErrTruncated is returned when encoded data ends early.
	ErrTruncated = persistence.ErrTruncated

	// ErrUnsupportedPlatform is returned when the fixed layout cannot be
	// used on this platform.
	ErrUnsupportedPlatform = errors.New("kdtree: unsupported platform")
)

// ErrDimensionMismatch indicates a point or query of the wrong arity.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func checkDim(expected, actual int) error {
	if expected != actual {
		return &ErrDimensionMismatch{Expected: expected, Actual: actual}
	}

	return nil
}

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormatMismatch, fmt.Sprintf(format, args...))
}

func platformError() error {
	if err := persistence.ValidatePlatform(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedPlatform, err)
	}

	return nil
}
