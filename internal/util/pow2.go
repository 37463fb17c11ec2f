// Package util contains internal helpers (hashing, power-of-two sizing).
package util

// NextPow2 returns the smallest power of two >= x.
// Special cases:
//   - x == 0  -> 1
//   - if the exact next power would overflow 64 bits, the result is clamped to 1<<63
//
// Used to turn capacity estimates into hash-index sizing hints.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	// If overflow occurred (wrap to 0), clamp to the highest 64-bit power of two.
	if x == 0 {
		return 1 << 63
	}
	return x
}
