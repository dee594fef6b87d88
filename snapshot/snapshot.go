package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kdgo/axis"
	"github.com/hupe1980/kdgo/blobstore"
	"github.com/hupe1980/kdgo/kdtree"
	"github.com/hupe1980/kdgo/persistence"
)

// PortableWriter is implemented by trees that support the portable
// encoding.
type PortableWriter interface {
	WritePortableTo(w io.Writer, c persistence.Compression) (int64, error)
}

// Save writes src in the fixed layout to name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, src io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", name, err)
	}
	return put(ctx, store, name, buf.Bytes())
}

// SavePortable writes src in the portable encoding with compression c.
func SavePortable(ctx context.Context, store blobstore.BlobStore, name string, src PortableWriter, c persistence.Compression) error {
	var buf bytes.Buffer
	if _, err := src.WritePortableTo(&buf, c); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", name, err)
	}
	return put(ctx, store, name, buf.Bytes())
}

func put(ctx context.Context, store blobstore.BlobStore, name string, data []byte) error {
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("snapshot: put %s: %w", name, err)
	}
	return nil
}

// Open returns a read-only tree for the blob name. Fixed-layout blobs are
// viewed without copying when the store exposes their bytes; the blob then
// stays open until the tree is closed.
func Open[A axis.Axis, T axis.Content, I axis.Index](ctx context.Context, store blobstore.BlobStore, name string, opts ...kdtree.Option) (*kdtree.ImmutableTree[A, T, I], error) {
	blob, data, format, err := read(ctx, store, name)
	if err != nil {
		return nil, err
	}

	if format == kdtree.FormatPortable {
		defer blob.Close()
		t, err := kdtree.DecodePortableImmutable[A, T, I](data, opts...)
		if err != nil {
			return nil, fmt.Errorf("snapshot: open %s: %w", name, err)
		}
		return t, nil
	}

	t, err := kdtree.View[A, T, I](data, append(opts[:len(opts):len(opts)], kdtree.WithCloser(blob))...)
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	return t, nil
}

// Load reads the blob name into a mutable tree.
func Load[A axis.Axis, T axis.Content, I axis.Index](ctx context.Context, store blobstore.BlobStore, name string, opts ...kdtree.Option) (*kdtree.Tree[A, T, I], error) {
	blob, data, format, err := read(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	var t *kdtree.Tree[A, T, I]
	if format == kdtree.FormatPortable {
		t, err = kdtree.DecodePortable[A, T, I](data, opts...)
	} else {
		t, err = kdtree.Decode[A, T, I](data, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	return t, nil
}

// Format reports the encoding of the blob name.
func Format(ctx context.Context, store blobstore.BlobStore, name string) (kdtree.Format, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return kdtree.FormatUnknown, err
	}
	defer blob.Close()

	var magic [4]byte
	n, err := blob.ReadAt(ctx, magic[:], 0)
	if n < len(magic) {
		if err == nil || errors.Is(err, io.EOF) {
			err = kdtree.ErrTruncated
		}
		return kdtree.FormatUnknown, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	return kdtree.DetectFormat(magic[:])
}

// read opens name and returns its content with the detected format. The
// caller owns the returned blob.
func read(ctx context.Context, store blobstore.BlobStore, name string) (blobstore.Blob, []byte, kdtree.Format, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, nil, kdtree.FormatUnknown, fmt.Errorf("snapshot: open %s: %w", name, err)
	}

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		_ = blob.Close()
		return nil, nil, kdtree.FormatUnknown, fmt.Errorf("snapshot: read %s: %w", name, err)
	}

	format, err := kdtree.DetectFormat(data)
	if err != nil {
		_ = blob.Close()
		return nil, nil, kdtree.FormatUnknown, fmt.Errorf("snapshot: %s: %w", name, err)
	}

	return blob, data, format, nil
}
