// Package simd provides the bucket distance kernels used by the tree.
//
// Buckets store their coordinates as one contiguous column per dimension
// (structure of arrays), padded to a multiple of [BlockWidth]. The block
// kernels make one pass per dimension over a whole column, processing
// [BlockWidth] slots per unrolled step so the compiler can drop bounds
// checks and keep independent accumulators in registers. The scalar
// kernels walk the bucket entry by entry.
//
// # ISA selection
//
// Runtime CPU feature detection (golang.org/x/sys/cpu) selects the block
// kernels on any platform with wide arithmetic (AVX2, AVX-512, NEON, SVE2)
// and the scalar kernels otherwise. Set KDGO_SIMD=generic to force the
// scalar path.
//
// Both paths accumulate each entry's terms in dimension order and round
// every term explicitly, so they return bit-identical results.
package simd
