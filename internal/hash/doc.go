// Package hash provides the CRC32-Castagnoli checksums that protect
// persisted trees.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For sections written one after another:
//
//	crc := hash.UpdateCRC32C(0, header)
//	crc = hash.UpdateCRC32C(crc, body)
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash
