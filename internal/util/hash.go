package util

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

// Fnv64a hashes the 8 little-endian bytes of u with 64-bit FNV-1a without
// allocating. The synthetic trace generator uses it to scramble popularity
// ranks into identities, so identity order carries no popularity signal.
func Fnv64a(u uint64) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
