package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SliceReader provides bounds-checked reads from a byte slice. Sections are
// returned as views into the slice, never copies.
type SliceReader struct {
	b   []byte
	off int
}

// NewSliceReader creates a reader over b.
func NewSliceReader(b []byte) *SliceReader {
	return &SliceReader{b: b}
}

// Offset returns the current read offset.
func (r *SliceReader) Offset() int {
	if r == nil {
		return 0
	}
	return r.off
}

// Len returns the size of the underlying slice.
func (r *SliceReader) Len() int {
	return len(r.b)
}

// ReadBytes returns the next n bytes.
func (r *SliceReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.b)-r.off {
		return nil, fmt.Errorf("%w: %d bytes at %d, len=%d", ErrTruncated, n, r.off, len(r.b))
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out, nil
}

// ReadHeader decodes a fixed-size little-endian header struct into dst.
func (r *SliceReader) ReadHeader(dst any) error {
	sz := binary.Size(dst)
	if sz <= 0 {
		return fmt.Errorf("sliceReader: invalid header size: %d", sz)
	}

	b, err := r.ReadBytes(sz)
	if err != nil {
		return err
	}

	return binary.Read(bytes.NewReader(b), binary.LittleEndian, dst)
}

// Align advances to the next multiple of align.
func (r *SliceReader) Align(align int) error {
	next := AlignUp(r.off, align)
	if next > len(r.b) {
		return fmt.Errorf("%w: align to %d, len=%d", ErrTruncated, next, len(r.b))
	}
	r.off = next
	return nil
}

// Remaining returns the unread part of the slice.
func (r *SliceReader) Remaining() []byte {
	if r.off >= len(r.b) {
		return nil
	}
	return r.b[r.off:]
}

// ReadSection aligns to SectionAlign and returns a zero-copy view of the
// next n elements of E.
func ReadSection[E any](r *SliceReader, n int) ([]E, error) {
	if n == 0 {
		return []E{}, nil
	}

	if err := r.Align(SectionAlign); err != nil {
		return nil, err
	}

	out, err := ViewAs[E](r.b[r.off:], n)
	if err != nil {
		return nil, err
	}

	r.off += len(AsBytes(out))
	return out, nil
}
