package kernel

// Hash-based pseudo randomness. There is no RNG object: every random
// decision hashes an explicit seed pair built from pixel coordinates, the
// frame index and (for bounce sampling) the hit point bits, so the same
// inputs always reproduce the same sample stream.

// Mix a pair of unsigned integers into a well distributed hash.
func mix(x, y uint32) uint32 {
	h := x*0x85ebca6b ^ y*0xc2b2ae35
	h ^= h >> 13
	h *= 0x27d4eb2f
	h ^= h >> 15
	return h
}

// Map a seed pair to a float in [0, 0.999999]. The upper clamp keeps
// expressions like sqrt(1-u) defined even when float rounding would
// otherwise push the value to 1.0.
func randFloat(x, y uint32) float32 {
	v := float32(mix(x, y)) * (1.0 / 4294967296.0)
	if v > 0.999999 {
		v = 0.999999
	}
	return v
}
