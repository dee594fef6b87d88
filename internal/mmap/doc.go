// Package mmap maps persisted trees into memory read-only so that they can
// be queried in place without a deserialization pass.
//
//	m, err := mmap.Open("points.kdt", mmap.AccessRandom)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
//
// Unix uses mmap(2) with madvise(2) hints; Windows uses
// CreateFileMapping/MapViewOfFile and ignores hints.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch Bytes (or anything viewing it) after Close returns.
package mmap
