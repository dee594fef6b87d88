package conv

import (
	"fmt"
	"math"
)

// Unsigned is the set of unsigned integer types handled by the checked casts.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// IntToUnsigned converts a non-negative int to U if it does not exceed limit.
func IntToUnsigned[U Unsigned](v int, limit uint64) (U, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d is negative", v)
	}
	if uint64(v) > limit {
		return 0, fmt.Errorf("integer overflow: %d exceeds %d", v, limit)
	}
	return U(v), nil
}

// MulInt multiplies non-negative ints, failing on overflow.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("integer overflow: negative operand %d * %d", a, b)
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}
