// Package persistence provides the low-level building blocks of the tree
// file formats: headers, aligned little-endian section writers, a
// bounds-checked zero-copy reader, CRC32C checksums, block compression
// and crash-safe file replacement.
//
// # Fixed layout
//
//	[FileHeader 128 bytes][section 0]pad[section 1]pad...
//
// Every section starts at a multiple of SectionAlign bytes from the start
// of the file so that it can be viewed in place from an mmap'ed file.
// Slices are written in native memory order, which the package requires to
// be little-endian.
//
// # Portable layout
//
//	[PortableHeader 40 bytes][payload]
//
// The payload is an optionally compressed, self-describing document.
package persistence
