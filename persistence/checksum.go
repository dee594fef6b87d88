package persistence

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kdgo/internal/hash"
)

// ChecksumWriter wraps an io.Writer and computes a running CRC32C checksum.
type ChecksumWriter struct {
	w   io.Writer
	crc uint32
}

// NewChecksumWriter creates a new checksumming writer. A nil writer only
// computes the checksum.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	if w == nil {
		w = io.Discard
	}

	return &ChecksumWriter{w: w}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.crc = hash.UpdateCRC32C(cw.crc, p[:n])
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.crc
}

// Verify checks data against an expected CRC32C.
func Verify(data []byte, expected uint32) error {
	if actual := hash.CRC32C(data); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	return nil
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is or wraps a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var target *ChecksumMismatchError
	return errors.As(err, &target)
}
