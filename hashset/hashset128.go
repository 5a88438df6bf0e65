package hashset

import (
	"runtime"
	"sync/atomic"

	"github.com/bergfi/dtree/d"
)

// Key128 is a 128-bit interning key: the pair of surrogates being
// compared, split as (hi, lo). Root-table callers pack (pair, length)
// with the zero-tag convention described on HashSet128.
type Key128 struct {
	Hi, Lo uint64
}

func (k Key128) isEmpty() bool { return k.Hi == 0 && k.Lo == 0 }

// HashSet128 is the root-node counterpart of HashSet64: a lock-free
// open-addressed set of 128-bit records, stored as two adjacent 64-bit
// words per slot. Writers publish the high word with a release CAS and
// then store the low word with a relaxed write; a reader that observes a
// nonzero high word but a still-zero low word spins until the low word
// becomes visible.
//
// Root keys are (pair, length_with_zero_tag): the MSB of the low word is
// a tag meaning "the root's pair is literally zero", which lets a cell
// with Hi==0 still be told apart from a genuinely empty cell (whose low
// word is also 0). Without the tag, "zero pair, length L" would be
// indistinguishable from "unclaimed slot".
type HashSet128 struct {
	cells   []uint64 // 2*capacity words: cells[2*slot], cells[2*slot+1]
	scale   uint
	capMask uint64
	disc    Discipline
	mixer   Mixer

	population atomic.Uint64
	probes     probeCounters
}

// ZeroTag marks a root key whose pair is the literal zero surrogate.
const ZeroTag = uint64(1) << 63

// New128 allocates a root table with 2^scale slots.
func New128(scale uint, disc Discipline, mixer Mixer) *HashSet128 {
	d.PanicIfTrue(scale == 0 || scale >= 63, "scale must be in [1,63)")
	if mixer == nil {
		mixer = IdentityMixer
	}
	capacity := uint64(1) << scale
	return &HashSet128{
		cells:   allocTable(int(capacity) * 16),
		scale:   scale,
		capMask: capacity - 1,
		disc:    disc,
		mixer:   mixer,
	}
}

// Close releases the table's backing storage.
func (h *HashSet128) Close() {
	freeTable(h.cells)
	h.cells = nil
}

func (h *HashSet128) hiPtr(slot uint64) *uint64 { return &h.cells[2*slot] }
func (h *HashSet128) loPtr(slot uint64) *uint64 { return &h.cells[2*slot+1] }

// spinYieldLo waits for a slot's low word to become visible after its
// high word was already observed nonzero. Bounded only by the writer
// eventually completing its relaxed store; per spec this suspension is
// the sole scheduling wait in the whole system.
func spinYieldLo(p *uint64) uint64 {
	for {
		if lo := atomic.LoadUint64(p); lo != 0 {
			return lo
		}
		runtime.Gosched()
	}
}

// Insert returns the existing slot for key if already present, claims a
// fresh slot and returns it with FreshFlag set, or returns NotFound if
// the probe budget is exhausted. key must not be the empty record
// {0, 0}; the zero-pair root key is represented as {Hi: 0, Lo: length |
// ZeroTag}.
func (h *HashSet128) Insert(key Key128) uint64 {
	d.PanicIfTrue(key.isEmpty(), "hashset128: cannot insert the empty record")

	var steps, jumps uint64
	var result uint64 = NotFound

	probeSlots(h.disc, h.mixer(key.Hi), h.capMask, func(slot uint64) bool {
		steps++
		if steps > blockSize && (steps-1)%blockSize == 0 {
			jumps++
		}

		hiPtr, loPtr := h.hiPtr(slot), h.loPtr(slot)
		for {
			curHi := atomic.LoadUint64(hiPtr)

			if curHi != 0 {
				if curHi != key.Hi {
					return false // occupied by another key
				}
				curLo := spinYieldLo(loPtr)
				if curLo == key.Lo {
					result = slot
					return true
				}
				return false // same hi, different lo: distinct key, keep probing
			}

			// curHi == 0: either genuinely empty, or a zero-pair entry.
			curLo := atomic.LoadUint64(loPtr)
			if curLo != 0 {
				if key.Hi == 0 && curLo == key.Lo {
					result = slot
					return true
				}
				return false // occupied zero-pair entry with a different length/tag
			}

			// Appears empty. Claim it.
			if key.Hi != 0 {
				if atomic.CompareAndSwapUint64(hiPtr, 0, key.Hi) {
					atomic.StoreUint64(loPtr, key.Lo)
					h.population.Add(1)
					result = slot | FreshFlag
					return true
				}
				continue // lost the hi race, reload and recheck
			}
			if atomic.CompareAndSwapUint64(loPtr, 0, key.Lo) {
				h.population.Add(1)
				result = slot | FreshFlag
				return true
			}
			continue // lost the lo race, reload and recheck
		}
	})

	h.probes.recordProbe(steps, jumps)
	if result != NotFound {
		h.probes.hits.Add(1)
	}
	return result
}

// Find returns the slot holding key, or NotFound.
func (h *HashSet128) Find(key Key128) uint64 {
	d.PanicIfTrue(key.isEmpty(), "hashset128: cannot look up the empty record")

	var result uint64 = NotFound
	probeSlots(h.disc, h.mixer(key.Hi), h.capMask, func(slot uint64) bool {
		hiPtr, loPtr := h.hiPtr(slot), h.loPtr(slot)
		curHi := atomic.LoadUint64(hiPtr)

		if curHi != 0 {
			if curHi != key.Hi {
				return false
			}
			curLo := spinYieldLo(loPtr)
			if curLo == key.Lo {
				result = slot
				return true
			}
			return false
		}

		curLo := atomic.LoadUint64(loPtr)
		if curLo == 0 {
			result = NotFound
			return true // empty cell terminates the probe
		}
		if key.Hi == 0 && curLo == key.Lo {
			result = slot
			return true
		}
		return false
	})
	return result
}

// Get returns the record stored at slot. slot must come from a prior
// successful Insert or Find.
func (h *HashSet128) Get(slot uint64) Key128 {
	slot &= slotMask
	return Key128{Hi: atomic.LoadUint64(h.hiPtr(slot)), Lo: atomic.LoadUint64(h.loPtr(slot))}
}

// Stats reports capacity and current population.
func (h *HashSet128) Stats() MapStats {
	return MapStats{Capacity: h.capMask + 1, Population: h.population.Load()}
}

// ProbeStats reports accumulated probing counters.
func (h *HashSet128) ProbeStats() ProbeStats {
	return h.probes.snapshot()
}
