package kdtree

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/internal/conv"
	"github.com/hupe1980/kdgo/internal/hash"
	"github.com/hupe1980/kdgo/metrics"
	"github.com/hupe1980/kdgo/persistence"
)

// portableTree is the msgpack body of the portable format.
type portableTree[A axis.Axis, T axis.Content, I axis.Index] struct {
	AxisKind    uint8    `msgpack:"axis"`
	ContentKind uint8    `msgpack:"content"`
	IndexKind   uint8    `msgpack:"index"`
	Dimension   uint64   `msgpack:"dim"`
	BucketSize  uint64   `msgpack:"bucket"`
	Stride      uint64   `msgpack:"stride"`
	Root        uint64   `msgpack:"root"`
	Size        uint64   `msgpack:"size"`
	SplitVals   []A      `msgpack:"split_vals"`
	SplitDims   []uint16 `msgpack:"split_dims"`
	Lefts       []I      `msgpack:"lefts"`
	Rights      []I      `msgpack:"rights"`
	Sizes       []uint32 `msgpack:"sizes"`
	Items       []T      `msgpack:"items"`
	Coords      []A      `msgpack:"coords"`
	FreeStems   []I      `msgpack:"free_stems"`
	FreeLeaves  []I      `msgpack:"free_leaves"`
}

func nilIfEmpty[E any](s []E) []E {
	if len(s) == 0 {
		return nil
	}

	return s
}

// WritePortableTo writes the tree in the portable format: a small
// little-endian prelude followed by a msgpack map, optionally compressed.
// The output does not depend on the platform's endianness or alignment.
func (x *index[A, T, I]) WritePortableTo(w io.Writer, c persistence.Compression) (int64, error) {
	start := x.now()
	n, err := x.writePortable(w, c)
	if x.observed {
		x.opts.metrics.RecordCodec(metrics.OpEncode, formatPortable, n, since(start), err)
	}

	return n, err
}

func (x *index[A, T, I]) writePortable(w io.Writer, c persistence.Compression) (int64, error) {
	a := x.a
	pt := portableTree[A, T, I]{
		AxisKind:    uint8(axis.KindOf[A]()),
		ContentKind: uint8(axis.KindOf[T]()),
		IndexKind:   uint8(axis.KindOf[I]()),
		Dimension:   uint64(a.dim),
		BucketSize:  uint64(a.bucket),
		Stride:      uint64(a.stride),
		Root:        uint64(a.root),
		Size:        uint64(a.size),
		SplitVals:   nilIfEmpty(a.splitVals),
		SplitDims:   nilIfEmpty(a.splitDims),
		Lefts:       nilIfEmpty(a.lefts),
		Rights:      nilIfEmpty(a.rights),
		Sizes:       nilIfEmpty(a.sizes),
		Items:       nilIfEmpty(a.items),
		Coords:      nilIfEmpty(a.coords),
		FreeStems:   nilIfEmpty(a.freeStems),
		FreeLeaves:  nilIfEmpty(a.freeLeaves),
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(&pt); err != nil {
		return 0, fmt.Errorf("kdtree: encode portable: %w", err)
	}
	raw := buf.Bytes()

	applied, payload, err := persistence.Compress(c, raw)
	if err != nil {
		return 0, fmt.Errorf("kdtree: compress portable: %w", err)
	}

	h := persistence.PortableHeader{
		Magic:       persistence.MagicPortable,
		Version:     persistence.Version,
		Compression: applied,
		RawSize:     uint64(len(raw)),
		StoredSize:  uint64(len(payload)),
		Checksum:    hash.CRC32C(payload),
	}

	bw := persistence.NewBinaryWriter(w)
	if err := bw.WriteHeader(&h); err != nil {
		return bw.Written(), err
	}
	if _, err := bw.Write(payload); err != nil {
		return bw.Written(), err
	}

	return bw.Written(), nil
}

// DecodePortable reads portable data into a mutable tree.
func DecodePortable[A axis.Axis, T axis.Content, I axis.Index](data []byte, opts ...Option) (*Tree[A, T, I], error) {
	o := newOptions(opts)
	a, err := decodePortable[A, T, I](data, o)
	if err != nil {
		return nil, err
	}

	return &Tree[A, T, I]{index: newIndex(a, o)}, nil
}

// DecodePortableImmutable reads portable data into an immutable tree.
func DecodePortableImmutable[A axis.Axis, T axis.Content, I axis.Index](data []byte, opts ...Option) (*ImmutableTree[A, T, I], error) {
	o := newOptions(opts)
	a, err := decodePortable[A, T, I](data, o)
	if err != nil {
		return nil, err
	}

	return &ImmutableTree[A, T, I]{index: newIndex(a, o)}, nil
}

func decodePortable[A axis.Axis, T axis.Content, I axis.Index](data []byte, o options) (*arena[A, T, I], error) {
	start := time.Now()
	a, err := readPortable[A, T, I](data, o)
	o.metrics.RecordCodec(metrics.OpDecode, formatPortable, int64(len(data)), time.Since(start), err)
	if err != nil {
		o.logger.Warn("kdtree: portable decode failed", "bytes", len(data), "error", err)
	}

	return a, err
}

func readPortable[A axis.Axis, T axis.Content, I axis.Index](data []byte, o options) (*arena[A, T, I], error) {
	r := persistence.NewSliceReader(data)
	var h persistence.PortableHeader
	if err := r.ReadHeader(&h); err != nil {
		return nil, err
	}

	if h.Magic != persistence.MagicPortable {
		return nil, fmt.Errorf("%w: %w: 0x%08x", ErrFormatMismatch, persistence.ErrInvalidMagic, h.Magic)
	}
	if h.Version != persistence.Version {
		return nil, fmt.Errorf("%w: %w: %d", ErrFormatMismatch, persistence.ErrInvalidVersion, h.Version)
	}

	if h.Padding != [3]byte{} || h.Reserved != [4]byte{} {
		return nil, formatErrorf("non-zero reserved header bytes")
	}

	stored, err := conv.Uint64ToInt(h.StoredSize)
	if err != nil {
		return nil, formatErrorf("payload size %d", h.StoredSize)
	}
	rawSize, err := conv.Uint64ToInt(h.RawSize)
	if err != nil {
		return nil, formatErrorf("raw size %d", h.RawSize)
	}

	payload, err := r.ReadBytes(stored)
	if err != nil {
		return nil, err
	}
	if err := persistence.Verify(payload, h.Checksum); err != nil {
		return nil, err
	}

	raw, err := persistence.Decompress(h.Compression, payload, rawSize)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrFormatMismatch, err)
	}

	var pt portableTree[A, T, I]
	if err := msgpack.NewDecoder(bytes.NewReader(raw)).Decode(&pt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}

	dim, bucket, err := checkShape[A, T, I](shape{
		axisKind:    pt.AxisKind,
		contentKind: pt.ContentKind,
		indexKind:   pt.IndexKind,
		dim:         pt.Dimension,
		bucket:      pt.BucketSize,
		stride:      pt.Stride,
	}, o)
	if err != nil {
		return nil, err
	}

	a := newArena[A, T, I](dim, bucket)
	a.splitVals = pt.SplitVals
	a.splitDims = pt.SplitDims
	a.lefts = pt.Lefts
	a.rights = pt.Rights
	a.sizes = pt.Sizes
	a.items = pt.Items
	a.coords = pt.Coords
	a.freeStems = pt.FreeStems
	a.freeLeaves = pt.FreeLeaves

	if err := a.setRoot(pt.Root, pt.Size); err != nil {
		return nil, err
	}
	if err := a.checkStructure(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}

	return a, nil
}
