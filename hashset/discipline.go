package hashset

import "math/bits"

// Discipline selects the probe sequence a table uses to resolve collisions.
// Only QuadLinear is required to be correct under delta/get round-tripping;
// the other two exist so the probing cost of each scheme can be measured
// against the others, per the "must be selectable at compile-time to permit
// measurement" requirement.
type Discipline int

const (
	// QuadLinear steps by 1 within an 8-slot block, then jumps to a new
	// block whose offset grows triangularly. The default, and the only
	// discipline the dtree tests run under.
	QuadLinear Discipline = iota
	// PureLinear steps by 1 across the whole table, wrapping at capacity.
	PureLinear
	// LinearBlocks steps by 1 within an 8-slot block, then advances to
	// the next block in table order (no triangular growth).
	LinearBlocks
)

const (
	blockSize = 8
	maxJumps  = 1000
)

// skipZero remaps candidate slot 0 to slot 1, matching the original's
// `e += e==0` guard: index 0 is reserved so a zero key is never
// indistinguishable from an empty cell there, and is never returned by a
// probe. This can visit slot 1 twice in a row when the sequence would
// otherwise have landed on 0 then 1; that's harmless for open addressing
// and matches the ground truth exactly.
func skipZero(slot uint64) uint64 {
	if slot == 0 {
		return 1
	}
	return slot
}

// probeSlots calls visit(slot) for each candidate slot in turn, in the
// order dictated by disc, until visit returns true (found or claimed) or
// the probe budget is exhausted. capMask is capacity-1; capacity is a
// power of two. Slot 0 is never offered to visit. It returns false if the
// budget was exhausted with no hit.
func probeSlots(disc Discipline, hash, capMask uint64, visit func(slot uint64) bool) bool {
	switch disc {
	case PureLinear:
		start := hash & capMask
		for i := uint64(0); i <= capMask; i++ {
			if visit(skipZero((start + i) & capMask)) {
				return true
			}
		}
		return false
	case LinearBlocks:
		start := hash & capMask
		blockStart := start &^ uint64(blockSize-1)
		blocks := (capMask + 1) / blockSize
		for jump := uint64(0); jump < blocks; jump++ {
			for i := uint64(0); i < blockSize; i++ {
				if visit(skipZero((blockStart + i) & capMask)) {
					return true
				}
			}
			blockStart = (blockStart + blockSize) & capMask
		}
		return false
	default: // QuadLinear
		start := hash & capMask
		blockStart := start &^ uint64(blockSize-1)
		for jump := uint64(0); jump < maxJumps; jump++ {
			for i := uint64(0); i < blockSize; i++ {
				if visit(skipZero((blockStart + i) & capMask)) {
					return true
				}
			}
			inc := jump + 1
			step := inc*2 - uint64(bits.OnesCount64(inc*2))
			blockStart = (blockStart + step*blockSize) & capMask
		}
		return false
	}
}
