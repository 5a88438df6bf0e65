package hashset

import "github.com/cespare/xxhash/v2"

// Mixer maps a 64-bit key to a table index candidate. It must satisfy
// Mixer(0) == 0, since 0 is the reserved "empty cell" sentinel and the
// zero-key convention depends on the identity of the hash of the zero key
// being predictable.
type Mixer func(uint64) uint64

// IdentityMixer is the default: h = key & (capacity-1) is applied by the
// table itself, so the mixer is the identity. This relies on the tree
// layer's keys (pairs of surrogates) already being close to uniformly
// distributed, since surrogates are assigned densely and pairs combine two
// of them.
func IdentityMixer(key uint64) uint64 {
	return key
}

// XXHashMixer substitutes a known-good 64-bit mixer, as permitted by the
// hash set's contract, for workloads whose keys are not already
// well-distributed (e.g. heavily duplicated small vectors).
func XXHashMixer(key uint64) uint64 {
	if key == 0 {
		return 0
	}
	var buf [8]byte
	buf[0] = byte(key)
	buf[1] = byte(key >> 8)
	buf[2] = byte(key >> 16)
	buf[3] = byte(key >> 24)
	buf[4] = byte(key >> 32)
	buf[5] = byte(key >> 40)
	buf[6] = byte(key >> 48)
	buf[7] = byte(key >> 56)
	return xxhash.Sum64(buf[:])
}
