// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("trees/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = snapshot.Save(ctx, store, "cities.kdt", tree)
//
// # Features
//
//   - Range reads for lazy partial fetches
//   - Single-request puts with CRC32C below the part size, multipart above
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
