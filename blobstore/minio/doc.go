// Package minio stores tree snapshots in MinIO and other S3-compatible
// servers (Ceph, Garage, SeaweedFS) through the MinIO Go client.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "my-bucket", "trees/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = snapshot.Save(ctx, store, "cities.kdt", tree)
//
// NewStore wraps an existing *minio.Client when more control over the
// client options is needed.
//
// Blobs are read with ranged GETs, so snapshot.Open copies the object
// into memory once and views it from there.
package minio
