// Package snapshot stores k-d trees in a blobstore.BlobStore.
//
// Save writes the fixed layout and SavePortable the portable encoding. Open
// and Load detect the format from the blob's magic number. Open views a
// fixed-layout blob in place when the store exposes its bytes
// (blobstore.Mappable), so a tree on local disk is queried straight from
// the page cache:
//
//	store := blobstore.NewLocalStore("/var/lib/trees")
//	if err := snapshot.Save(ctx, store, "cities.kdt", tree); err != nil {
//		return err
//	}
//
//	view, err := snapshot.Open[float64, uint64, uint32](ctx, store, "cities.kdt")
//	if err != nil {
//		return err
//	}
//	defer view.Close()
package snapshot
