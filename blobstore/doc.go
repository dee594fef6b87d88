// Package blobstore provides the storage abstraction for tree snapshots.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-process map, useful in tests
//   - Throttled: Byte-rate limiting wrapper around any store
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Blobs that are already resident in memory implement Mappable; ReadAll
// returns their bytes without copying, which lets the snapshot package
// view fixed-layout trees in place.
package blobstore
