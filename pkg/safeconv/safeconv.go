// Package safeconv converts between parser, engine and protocol integer
// widths, panicking where a value cannot be represented.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// MustToInt converts an unsigned value to int, panics on overflow.
// Use only when overflow is logically impossible.
func MustToInt[T ~uint | ~uint32 | ~uint64](v T) int {
	if uint64(v) > uint64(MaxInt) {
		panic("safeconv: unsigned to int overflow")
	}

	return int(v)
}

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || uint64(v) > uint64(MaxUint32) {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}
