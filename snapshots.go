package kdgo

import (
	"context"
	"io"
	"time"

	"github.com/hupe1980/kdgo/blobstore"
	"github.com/hupe1980/kdgo/persistence"
	"github.com/hupe1980/kdgo/snapshot"
)

// Snapshots stores trees in a blob store and logs every operation.
type Snapshots struct {
	store  blobstore.BlobStore
	logger *Logger
}

// NewSnapshots returns Snapshots over store. A nil logger discards logs.
func NewSnapshots(store blobstore.BlobStore, logger *Logger) *Snapshots {
	if logger == nil {
		logger = NoopLogger()
	}

	return &Snapshots{store: store, logger: logger}
}

// Save writes tree in the fixed layout.
func (s *Snapshots) Save(ctx context.Context, name string, tree io.WriterTo) error {
	start := time.Now()
	err := snapshot.Save(ctx, s.store, name, tree)
	s.logger.LogSnapshot(ctx, "saved", name, time.Since(start), err)
	return err
}

// SavePortable writes tree in the portable encoding with compression c.
func (s *Snapshots) SavePortable(ctx context.Context, name string, tree snapshot.PortableWriter, c persistence.Compression) error {
	start := time.Now()
	err := snapshot.SavePortable(ctx, s.store, name, tree, c)
	s.logger.LogSnapshot(ctx, "saved", name, time.Since(start), err)
	return err
}

// OpenFloat64 opens a read-only float64 tree.
func (s *Snapshots) OpenFloat64(ctx context.Context, name string, opts ...Option) (*Float64Frozen, error) {
	start := time.Now()
	t, err := snapshot.Open[float64, uint64, uint32](ctx, s.store, name, opts...)
	s.logger.LogSnapshot(ctx, "opened", name, time.Since(start), err)
	return t, err
}

// LoadFloat64 reads a mutable float64 tree.
func (s *Snapshots) LoadFloat64(ctx context.Context, name string, opts ...Option) (*Float64Tree, error) {
	start := time.Now()
	t, err := snapshot.Load[float64, uint64, uint32](ctx, s.store, name, opts...)
	s.logger.LogSnapshot(ctx, "loaded", name, time.Since(start), err)
	return t, err
}

// OpenFloat32 opens a read-only float32 tree.
func (s *Snapshots) OpenFloat32(ctx context.Context, name string, opts ...Option) (*Float32Frozen, error) {
	start := time.Now()
	t, err := snapshot.Open[float32, uint32, uint32](ctx, s.store, name, opts...)
	s.logger.LogSnapshot(ctx, "opened", name, time.Since(start), err)
	return t, err
}

// LoadFloat32 reads a mutable float32 tree.
func (s *Snapshots) LoadFloat32(ctx context.Context, name string, opts ...Option) (*Float32Tree, error) {
	start := time.Now()
	t, err := snapshot.Load[float32, uint32, uint32](ctx, s.store, name, opts...)
	s.logger.LogSnapshot(ctx, "loaded", name, time.Since(start), err)
	return t, err
}

// Delete removes the snapshot name.
func (s *Snapshots) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.store.Delete(ctx, name)
	s.logger.LogSnapshot(ctx, "deleted", name, time.Since(start), err)
	return err
}
