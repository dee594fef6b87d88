package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps a BlobStore and limits the bytes per second read from and
// written to it. Opened blobs never expose Mappable so every access is
// metered.
type Throttled struct {
	store   BlobStore
	limiter *rate.Limiter
}

// NewThrottled limits store to bytesPerSec. Bursts of up to one second of
// traffic are allowed.
func NewThrottled(store BlobStore, bytesPerSec int) *Throttled {
	if bytesPerSec < 1 {
		bytesPerSec = 1
	}
	return &Throttled{
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// wait blocks until n bytes worth of tokens are available. Requests larger
// than the burst are split.
func (t *Throttled) wait(ctx context.Context, n int) error {
	burst := t.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := t.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Open opens a metered blob.
func (t *Throttled) Open(ctx context.Context, name string) (Blob, error) {
	b, err := t.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{Blob: b, t: t}, nil
}

// Put writes data after waiting for its byte budget.
func (t *Throttled) Put(ctx context.Context, name string, data []byte) error {
	if err := t.wait(ctx, len(data)); err != nil {
		return err
	}
	return t.store.Put(ctx, name, data)
}

// Delete removes a blob. Deletes are not metered.
func (t *Throttled) Delete(ctx context.Context, name string) error {
	return t.store.Delete(ctx, name)
}

// List lists blobs. Listings are not metered.
func (t *Throttled) List(ctx context.Context, prefix string) ([]string, error) {
	return t.store.List(ctx, prefix)
}

type throttledBlob struct {
	Blob
	t *Throttled
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.t.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.Blob.ReadAt(ctx, p, off)
}
