package persistence

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

var (
	// ErrUnsupportedArchitecture is returned when running on unsupported CPU architecture
	ErrUnsupportedArchitecture = errors.New("unsupported architecture: only amd64 and arm64 are supported")

	// ErrBigEndian is returned when running on big-endian systems
	ErrBigEndian = errors.New("big-endian systems are not supported")

	// ErrUnalignedAccess is returned when attempting unaligned memory access
	ErrUnalignedAccess = errors.New("unaligned memory access detected")
)

// ValidatePlatform checks that the fixed layout can be read and written in
// native memory order on this platform.
func ValidatePlatform() error {
	arch := runtime.GOARCH
	if arch != "amd64" && arch != "arm64" {
		return fmt.Errorf("%w: %s", ErrUnsupportedArchitecture, arch)
	}

	if !isLittleEndian() {
		return ErrBigEndian
	}

	return nil
}

func isLittleEndian() bool {
	var test uint16 = 0x0001
	firstByte := *(*byte)(unsafe.Pointer(&test))
	return firstByte == 1
}

// AsBytes returns the memory of s as a byte slice without copying.
func AsBytes[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}

	var zero E
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// ViewAs reinterprets b as n elements of E without copying. b must hold at
// least n elements and be aligned for E.
func ViewAs[E any](b []byte, n int) ([]E, error) {
	if n == 0 {
		return []E{}, nil
	}

	var zero E
	size := int(unsafe.Sizeof(zero))
	if n < 0 || len(b)/size < n {
		return nil, fmt.Errorf("%w: %d elements of %d bytes in %d bytes", ErrTruncated, n, size, len(b))
	}

	ptr := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("%w: %T slice at address 0x%x", ErrUnalignedAccess, zero, uintptr(ptr))
	}

	return unsafe.Slice((*E)(ptr), n), nil
}

// IsAligned reports whether b starts at a multiple of align bytes.
func IsAligned(b []byte, align uintptr) bool {
	if len(b) == 0 {
		return true
	}

	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%align == 0
}

// PlatformInfo returns information about the current platform
func PlatformInfo() string {
	endian := "little-endian"
	if !isLittleEndian() {
		endian = "big-endian"
	}
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=%s", runtime.GOOS, runtime.GOARCH, endian)
}

// AlignedCopy returns b unchanged when it is 8-byte aligned, otherwise a
// copy backed by aligned memory.
func AlignedCopy(b []byte) []byte {
	if IsAligned(b, 8) {
		return b
	}

	out := AlignedBuffer(len(b))
	copy(out, b)
	return out
}

// AlignedBuffer returns a zeroed n-byte slice backed by 8-byte aligned
// memory.
func AlignedBuffer(n int) []byte {
	backing := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(backing))), n)
}
