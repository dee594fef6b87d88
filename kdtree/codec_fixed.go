package kdtree

import (
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/internal/conv"
	"github.com/hupe1980/kdgo/metrics"
	"github.com/hupe1980/kdgo/persistence"
)

const (
	formatFixed    = "fixed"
	formatPortable = "portable"
)

// WriteTo writes the tree in the fixed layout: a 128-byte header followed
// by 64-byte aligned sections in native memory order. The output can be
// opened without copying by View or OpenFile.
func (x *index[A, T, I]) WriteTo(w io.Writer) (int64, error) {
	start := x.now()
	n, err := x.writeFixed(w)
	if x.observed {
		x.opts.metrics.RecordCodec(metrics.OpEncode, formatFixed, n, since(start), err)
	}

	return n, err
}

func (x *index[A, T, I]) writeFixed(w io.Writer) (int64, error) {
	if err := platformError(); err != nil {
		return 0, err
	}

	a := x.a
	cw := persistence.NewChecksumWriter(nil)
	if err := a.writeSections(persistence.NewBinaryWriter(cw)); err != nil {
		return 0, err
	}

	h := persistence.FileHeader{
		Magic:       persistence.MagicFixed,
		Version:     persistence.Version,
		AxisKind:    uint8(axis.KindOf[A]()),
		ContentKind: uint8(axis.KindOf[T]()),
		IndexKind:   uint8(axis.KindOf[I]()),
		Dimension:   uint32(a.dim),
		BucketSize:  uint32(a.bucket),
		Stride:      uint32(a.stride),
		Root:        uint64(a.root),
		Size:        uint64(a.size),
		Stems:       uint64(a.numStems()),
		Leaves:      uint64(a.numLeaves()),
		FreeStems:   uint64(len(a.freeStems)),
		FreeLeaves:  uint64(len(a.freeLeaves)),
		Checksum:    cw.Sum(),
	}

	bw := persistence.NewBinaryWriter(w)
	if err := bw.WriteHeader(&h); err != nil {
		return bw.Written(), err
	}
	if err := a.writeSections(bw); err != nil {
		return bw.Written(), err
	}

	return bw.Written(), nil
}

func (a *arena[A, T, I]) writeSections(bw *persistence.BinaryWriter) error {
	if err := persistence.WriteSection(bw, a.splitVals); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.splitDims); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.lefts); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.rights); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.sizes); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.items); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.coords); err != nil {
		return err
	}
	if err := persistence.WriteSection(bw, a.freeStems); err != nil {
		return err
	}

	return persistence.WriteSection(bw, a.freeLeaves)
}

// View opens fixed-layout data without copying. The header, section bounds,
// alignment and tree structure are validated; the body checksum only with
// WithVerifyChecksum. data must stay valid and unmodified while the tree is
// in use. Unaligned data fails with persistence.ErrUnalignedAccess.
func View[A axis.Axis, T axis.Content, I axis.Index](data []byte, opts ...Option) (*ImmutableTree[A, T, I], error) {
	o := newOptions(opts)
	start := time.Now()

	a, err := viewFixed[A, T, I](data, o)
	o.metrics.RecordCodec(metrics.OpDecode, formatFixed, int64(len(data)), time.Since(start), err)
	if err != nil {
		o.logger.Warn("kdtree: view failed", "bytes", len(data), "error", err)
		return nil, err
	}

	return &ImmutableTree[A, T, I]{index: newIndex(a, o), closer: o.closer}, nil
}

// Decode reads fixed-layout data into a mutable tree. The checksum is
// always verified and data may be released afterwards.
func Decode[A axis.Axis, T axis.Content, I axis.Index](data []byte, opts ...Option) (*Tree[A, T, I], error) {
	o := newOptions(opts)
	o.verifyChecksum = true
	start := time.Now()

	a, err := viewFixed[A, T, I](persistence.AlignedCopy(data), o)
	o.metrics.RecordCodec(metrics.OpDecode, formatFixed, int64(len(data)), time.Since(start), err)
	if err != nil {
		o.logger.Warn("kdtree: decode failed", "bytes", len(data), "error", err)
		return nil, err
	}

	return &Tree[A, T, I]{index: newIndex(a.clone(), o)}, nil
}

type shape struct {
	axisKind, contentKind, indexKind uint8
	dim, bucket, stride             uint64
}

// checkShape verifies that an encoded tree matches the requested types and
// the expectations in o.
func checkShape[A axis.Axis, T axis.Content, I axis.Index](s shape, o options) (int, int, error) {
	if want := axis.KindOf[A](); axis.Kind(s.axisKind) != want {
		return 0, 0, formatErrorf("axis kind %s, want %s", axis.Kind(s.axisKind), want)
	}
	if want := axis.KindOf[T](); axis.Kind(s.contentKind) != want {
		return 0, 0, formatErrorf("content kind %s, want %s", axis.Kind(s.contentKind), want)
	}
	if want := axis.KindOf[I](); axis.Kind(s.indexKind) != want {
		return 0, 0, formatErrorf("index kind %s, want %s", axis.Kind(s.indexKind), want)
	}

	if s.dim < 1 || s.dim > maxDimension {
		return 0, 0, formatErrorf("dimension %d", s.dim)
	}
	if s.bucket < 1 || s.bucket > 1<<20 {
		return 0, 0, formatErrorf("bucket size %d", s.bucket)
	}
	dim, bucket := int(s.dim), int(s.bucket)

	if s.stride != uint64(strideFor(bucket)) {
		return 0, 0, formatErrorf("stride %d for bucket size %d", s.stride, bucket)
	}
	if o.expectDimension > 0 && dim != o.expectDimension {
		return 0, 0, formatErrorf("dimension %d, want %d", dim, o.expectDimension)
	}
	if o.expectBucketSize > 0 && bucket != o.expectBucketSize {
		return 0, 0, formatErrorf("bucket size %d, want %d", bucket, o.expectBucketSize)
	}

	return dim, bucket, nil
}

func viewFixed[A axis.Axis, T axis.Content, I axis.Index](data []byte, o options) (*arena[A, T, I], error) {
	if err := platformError(); err != nil {
		return nil, err
	}

	r := persistence.NewSliceReader(data)
	var h persistence.FileHeader
	if err := r.ReadHeader(&h); err != nil {
		return nil, err
	}

	if h.Magic != persistence.MagicFixed {
		return nil, fmt.Errorf("%w: %w: 0x%08x", ErrFormatMismatch, persistence.ErrInvalidMagic, h.Magic)
	}
	if h.Version != persistence.Version {
		return nil, fmt.Errorf("%w: %w: %d", ErrFormatMismatch, persistence.ErrInvalidVersion, h.Version)
	}

	dim, bucket, err := checkShape[A, T, I](shape{
		axisKind:    h.AxisKind,
		contentKind: h.ContentKind,
		indexKind:   h.IndexKind,
		dim:         uint64(h.Dimension),
		bucket:      uint64(h.BucketSize),
		stride:      uint64(h.Stride),
	}, o)
	if err != nil {
		return nil, err
	}

	a := newArena[A, T, I](dim, bucket)

	counts, err := sectionCounts(&h, dim, a.stride)
	if err != nil {
		return nil, err
	}

	if a.splitVals, err = persistence.ReadSection[A](r, counts.stems); err != nil {
		return nil, err
	}
	if a.splitDims, err = persistence.ReadSection[uint16](r, counts.stems); err != nil {
		return nil, err
	}
	if a.lefts, err = persistence.ReadSection[I](r, counts.stems); err != nil {
		return nil, err
	}
	if a.rights, err = persistence.ReadSection[I](r, counts.stems); err != nil {
		return nil, err
	}
	if a.sizes, err = persistence.ReadSection[uint32](r, counts.leaves); err != nil {
		return nil, err
	}
	if a.items, err = persistence.ReadSection[T](r, counts.items); err != nil {
		return nil, err
	}
	if a.coords, err = persistence.ReadSection[A](r, counts.coords); err != nil {
		return nil, err
	}
	if a.freeStems, err = persistence.ReadSection[I](r, counts.freeStems); err != nil {
		return nil, err
	}
	if a.freeLeaves, err = persistence.ReadSection[I](r, counts.freeLeaves); err != nil {
		return nil, err
	}

	if o.verifyChecksum {
		if err := persistence.Verify(data[persistence.HeaderSize:r.Offset()], h.Checksum); err != nil {
			return nil, err
		}
	}

	if err := a.setRoot(h.Root, h.Size); err != nil {
		return nil, err
	}

	if err := a.checkStructure(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}

	return a, nil
}

func (a *arena[A, T, I]) setRoot(root, size uint64) error {
	if uint64(I(root)) != root {
		return formatErrorf("root handle %d overflows index type", root)
	}
	n, err := conv.Uint64ToInt(size)
	if err != nil {
		return formatErrorf("size %d", size)
	}

	a.root = I(root)
	a.size = n

	return nil
}

type counts struct {
	stems, leaves, items, coords, freeStems, freeLeaves int
}

func sectionCounts(h *persistence.FileHeader, dim, stride int) (counts, error) {
	var c counts
	var err error

	if c.stems, err = conv.Uint64ToInt(h.Stems); err != nil {
		return c, formatErrorf("stem count %d", h.Stems)
	}
	if c.leaves, err = conv.Uint64ToInt(h.Leaves); err != nil {
		return c, formatErrorf("leaf count %d", h.Leaves)
	}
	if c.freeStems, err = conv.Uint64ToInt(h.FreeStems); err != nil {
		return c, formatErrorf("free stem count %d", h.FreeStems)
	}
	if c.freeLeaves, err = conv.Uint64ToInt(h.FreeLeaves); err != nil {
		return c, formatErrorf("free leaf count %d", h.FreeLeaves)
	}
	if c.items, err = conv.MulInt(c.leaves, stride); err != nil {
		return c, formatErrorf("leaf count %d", h.Leaves)
	}
	if c.coords, err = conv.MulInt(c.items, dim); err != nil {
		return c, formatErrorf("leaf count %d", h.Leaves)
	}

	return c, nil
}
