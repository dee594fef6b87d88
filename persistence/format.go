package persistence

import "errors"

const (
	// MagicFixed identifies fixed-layout tree files (ASCII: "KDT1").
	MagicFixed = 0x3154444B
	// MagicPortable identifies portable tree files (ASCII: "KDTP").
	MagicPortable = 0x5054444B
	// Version is the current file format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader.
	HeaderSize = 128
	// PortableHeaderSize is the encoded size of PortableHeader.
	PortableHeaderSize = 40
	// SectionAlign is the alignment of every fixed-layout section.
	SectionAlign = 64
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrTruncated      = errors.New("truncated data")
)

// FileHeader is the 128-byte header at the start of every fixed-layout
// tree file. All counts are in elements, not bytes.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	AxisKind    uint8
	ContentKind uint8
	IndexKind   uint8
	Padding1    uint8
	Dimension   uint32
	BucketSize  uint32
	Stride      uint32
	Root        uint64
	Size        uint64 // number of stored points
	Stems       uint64
	Leaves      uint64
	FreeStems   uint64
	FreeLeaves  uint64
	Checksum    uint32 // CRC32C of everything after the header
	Flags       uint32
	Reserved    [48]byte
}

// PortableHeader precedes the portable payload.
type PortableHeader struct {
	Magic       uint32
	Version     uint32
	Compression Compression
	Padding     [3]byte
	RawSize     uint64 // payload size before compression
	StoredSize  uint64 // payload size as stored
	Checksum    uint32 // CRC32C of the stored payload
	Reserved    [4]byte
}

// AlignUp rounds n up to a multiple of align (a power of two).
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
