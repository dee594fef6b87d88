package kdgo

import (
	"errors"

	"github.com/hupe1980/kdgo/kdtree"
	"github.com/hupe1980/kdgo/persistence"
)

var (
	// ErrEmptyTree is returned by NearestOne on a tree without entries.
	ErrEmptyTree = kdtree.ErrEmptyTree

	// ErrNotFound is returned by NearestOne when no entry passes the query
	// options.
	ErrNotFound = kdtree.ErrNotFound

	// ErrBucketOverflow is returned when more than bucket-size entries
	// share identical coordinates.
	ErrBucketOverflow = kdtree.ErrBucketOverflow

	// ErrCapacityExceeded is returned when the handle type runs out of
	// nodes.
	ErrCapacityExceeded = kdtree.ErrCapacityExceeded

	// ErrInvalidDimension is returned for a dimension outside [1, 65535].
	ErrInvalidDimension = kdtree.ErrInvalidDimension

	// ErrInvalidBucketSize is returned for a bucket size below 1.
	ErrInvalidBucketSize = kdtree.ErrInvalidBucketSize

	// ErrLengthMismatch is returned when points and items differ in length.
	ErrLengthMismatch = kdtree.ErrLengthMismatch

	// ErrFormatMismatch is returned for encoded data of another type,
	// shape or format.
	ErrFormatMismatch = kdtree.ErrFormatMismatch

	// ErrTruncated is returned when encoded data ends early.
	ErrTruncated = kdtree.ErrTruncated

	// ErrUnsupportedPlatform is returned when the fixed layout cannot be
	// used on this platform.
	ErrUnsupportedPlatform = kdtree.ErrUnsupportedPlatform
)

// ErrDimensionMismatch indicates a point or query of the wrong arity.
type ErrDimensionMismatch = kdtree.ErrDimensionMismatch

// IsDimensionMismatch reports whether err is or wraps an
// ErrDimensionMismatch.
func IsDimensionMismatch(err error) bool {
	var dm *ErrDimensionMismatch
	return errors.As(err, &dm)
}

// IsCorrupt reports whether err indicates encoded data that cannot be
// used: a format mismatch, truncation or checksum failure.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrFormatMismatch) || errors.Is(err, ErrTruncated) || persistence.IsChecksumMismatch(err)
}
