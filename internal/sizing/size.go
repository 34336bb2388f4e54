// Package sizing provides safe size arithmetic for fixed-offset fields.
package sizing

import "math"

// Pow2 returns 2^n, or overflowErr if the result does not fit in an int64.
func Pow2(n uint16, overflowErr error) (int64, error) {
	if n >= 63 {
		return 0, overflowErr
	}
	return int64(1) << n, nil
}

// AddInt64 adds two non-negative int64 values, returning (result, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// InRange reports whether [off, off+length) lies within [0, total).
func InRange(off, length, total int64) bool {
	if off < 0 || length < 0 {
		return false
	}
	end, ok := AddInt64(off, length)
	if !ok {
		return false
	}
	return end <= total
}
