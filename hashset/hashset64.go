// Package hashset implements the lock-free, open-addressed interning
// tables that back the compression tree: a fixed-capacity set of non-zero
// 64-bit keys (HashSet64) and its 128-bit counterpart for root nodes
// (HashSet128). Entries are write-once — once a key claims a slot it is
// never moved or overwritten — which is what makes concurrent reads safe
// without any per-entry locking.
package hashset

import (
	"sync/atomic"

	"github.com/bergfi/dtree/d"
)

const (
	// FreshFlag is set in the high bit of a successful Insert result when
	// this call was the one that claimed the slot.
	FreshFlag = uint64(1) << 63
	// NotFound is returned when Find has no match, or when Insert
	// exhausts its probe budget without placing the key.
	NotFound = ^uint64(0)

	slotMask = uint64(1)<<40 - 1
)

// HashSet64 is a fixed-capacity, lock-free open-addressed set of non-zero
// 64-bit keys. A cell holding the value 0 is the "empty" sentinel. Slot
// index 0 is never claimed or returned either, so a slot number is never
// confusable with the zero surrogate the compression tree reserves for
// its own zero-as-sentinel-and-value convention.
type HashSet64 struct {
	cells   []uint64
	scale   uint
	capMask uint64
	disc    Discipline
	mixer   Mixer

	population atomic.Uint64
	probes     probeCounters
}

// New allocates a table with 2^scale slots.
func New(scale uint, disc Discipline, mixer Mixer) *HashSet64 {
	d.PanicIfTrue(scale == 0 || scale >= 63, "scale must be in [1,63)")
	if mixer == nil {
		mixer = IdentityMixer
	}
	capacity := uint64(1) << scale
	return &HashSet64{
		cells:   allocTable(int(capacity) * 8),
		scale:   scale,
		capMask: capacity - 1,
		disc:    disc,
		mixer:   mixer,
	}
}

// Close releases the table's backing storage.
func (h *HashSet64) Close() {
	freeTable(h.cells)
	h.cells = nil
}

// Scale returns log2 of the table's capacity.
func (h *HashSet64) Scale() uint { return h.scale }

// Insert returns the existing slot for key if key is already present, or
// atomically claims a fresh slot for it and returns that slot with
// FreshFlag set, or returns NotFound if the probe budget is exhausted.
// key must be non-zero.
func (h *HashSet64) Insert(key uint64) uint64 {
	d.PanicIfTrue(key == 0, "hashset64: cannot insert the zero key")

	var steps, jumps uint64
	var result uint64 = NotFound

	probeSlots(h.disc, h.mixer(key), h.capMask, func(slot uint64) bool {
		steps++
		if steps > blockSize && (steps-1)%blockSize == 0 {
			jumps++
		}

		for {
			cur := atomic.LoadUint64(&h.cells[slot])
			if cur == key {
				result = slot
				return true
			}
			if cur != 0 {
				return false // occupied by another key, keep probing
			}
			if atomic.CompareAndSwapUint64(&h.cells[slot], 0, key) {
				h.population.Add(1)
				result = slot | FreshFlag
				return true
			}
			// lost the race; reload and check again
		}
	})

	h.probes.recordProbe(steps, jumps)
	if result != NotFound {
		h.probes.hits.Add(1)
	}
	return result
}

// Find returns the slot holding key, or NotFound.
func (h *HashSet64) Find(key uint64) uint64 {
	d.PanicIfTrue(key == 0, "hashset64: cannot look up the zero key")

	var result uint64 = NotFound
	probeSlots(h.disc, h.mixer(key), h.capMask, func(slot uint64) bool {
		cur := atomic.LoadUint64(&h.cells[slot])
		if cur == key {
			result = slot
			return true
		}
		if cur == 0 {
			result = NotFound
			return true // empty cell terminates the probe: key isn't present
		}
		return false
	})
	return result
}

// Get returns the key stored at slot. slot must come from a prior
// successful Insert or Find.
func (h *HashSet64) Get(slot uint64) uint64 {
	return atomic.LoadUint64(&h.cells[slot&slotMask])
}

// Stats reports capacity and current population.
func (h *HashSet64) Stats() MapStats {
	return MapStats{Capacity: h.capMask + 1, Population: h.population.Load()}
}

// ProbeStats reports accumulated probing counters.
func (h *HashSet64) ProbeStats() ProbeStats {
	return h.probes.snapshot()
}
