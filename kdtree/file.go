package kdtree

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/internal/mmap"
	"github.com/hupe1980/kdgo/persistence"
)

// Format identifies an encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatFixed
	FormatPortable
)

func (f Format) String() string {
	switch f {
	case FormatFixed:
		return formatFixed
	case FormatPortable:
		return formatPortable
	default:
		return "unknown"
	}
}

// DetectFormat reports the encoding of data from its magic number.
func DetectFormat(data []byte) (Format, error) {
	if len(data) < 4 {
		return FormatUnknown, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	switch binary.LittleEndian.Uint32(data) {
	case persistence.MagicFixed:
		return FormatFixed, nil
	case persistence.MagicPortable:
		return FormatPortable, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %w", ErrFormatMismatch, persistence.ErrInvalidMagic)
	}
}

// SaveFile atomically writes the tree to path in the fixed layout.
func (x *index[A, T, I]) SaveFile(path string) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := x.WriteTo(w)
		return err
	})
}

// SavePortableFile atomically writes the tree to path in the portable
// format.
func (x *index[A, T, I]) SavePortableFile(path string, c persistence.Compression) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := x.WritePortableTo(w, c)
		return err
	})
}

// OpenFile opens a tree file of either format. Fixed-layout files are
// memory mapped and viewed in place until Close; portable files are
// decoded into memory.
func OpenFile[A axis.Axis, T axis.Content, I axis.Index](path string, opts ...Option) (*ImmutableTree[A, T, I], error) {
	m, err := mmap.Open(path, mmap.AccessRandom)
	if err != nil {
		return nil, err
	}

	data := m.Bytes()
	format, err := DetectFormat(data)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("kdtree: open %s: %w", path, err)
	}

	if format == FormatPortable {
		defer m.Close()
		return DecodePortableImmutable[A, T, I](data, opts...)
	}

	t, err := View[A, T, I](data, append(opts[:len(opts):len(opts)], WithCloser(m))...)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("kdtree: open %s: %w", path, err)
	}

	return t, nil
}

// LoadFile reads a tree file of either format into a mutable tree.
func LoadFile[A axis.Axis, T axis.Content, I axis.Index](path string, opts ...Option) (*Tree[A, T, I], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, fmt.Errorf("kdtree: load %s: %w", path, err)
	}

	if format == FormatPortable {
		return DecodePortable[A, T, I](data, opts...)
	}

	return Decode[A, T, I](data, opts...)
}
