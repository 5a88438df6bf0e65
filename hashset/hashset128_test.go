package hashset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSet128_InsertThenFind(t *testing.T) {
	h := New128(10, QuadLinear, IdentityMixer)
	defer h.Close()

	key := Key128{Hi: 0xABCD, Lo: 7}
	slot := h.Insert(key)
	assert.NotEqual(t, NotFound, slot)
	assert.NotZero(t, slot&FreshFlag)

	again := h.Insert(key)
	assert.Equal(t, slot&slotMask, again&slotMask)
	assert.Zero(t, again&FreshFlag)

	found := h.Find(key)
	require.NotEqual(t, NotFound, found)
	assert.Equal(t, key, h.Get(found))
}

func TestHashSet128_ZeroPairRootDistinctFromEmptyCell(t *testing.T) {
	h := New128(8, QuadLinear, IdentityMixer)
	defer h.Close()

	zeroRootLenTwo := Key128{Hi: 0, Lo: 2 | ZeroTag}
	slot := h.Insert(zeroRootLenTwo)
	require.NotEqual(t, NotFound, slot)
	assert.NotZero(t, slot&FreshFlag)

	found := h.Find(zeroRootLenTwo)
	require.NotEqual(t, NotFound, found)
	assert.Equal(t, zeroRootLenTwo, h.Get(found))

	// A different zero-pair root, distinguished only by length, must not
	// collide with the first.
	zeroRootLenFive := Key128{Hi: 0, Lo: 5 | ZeroTag}
	assert.Equal(t, NotFound, h.Find(zeroRootLenFive))
	slot2 := h.Insert(zeroRootLenFive)
	assert.NotZero(t, slot2&FreshFlag)
	assert.NotEqual(t, slot&slotMask, slot2&slotMask)
}

func TestHashSet128_FindMissing(t *testing.T) {
	h := New128(8, QuadLinear, IdentityMixer)
	defer h.Close()

	h.Insert(Key128{Hi: 1, Lo: 1})
	assert.Equal(t, NotFound, h.Find(Key128{Hi: 2, Lo: 2}))
}

func TestHashSet128_InsertPanicsOnEmptyRecord(t *testing.T) {
	h := New128(8, QuadLinear, IdentityMixer)
	defer h.Close()

	assert.Panics(t, func() { h.Insert(Key128{}) })
}

func TestHashSet128_ConcurrentInsertSameKeyYieldsOneFreshWinner(t *testing.T) {
	h := New128(12, QuadLinear, IdentityMixer)
	defer h.Close()

	key := Key128{Hi: 999, Lo: 3}
	const goroutines = 64
	results := make([]uint64, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = h.Insert(key)
		}(i)
	}
	wg.Wait()

	freshCount := 0
	var slot uint64
	for _, r := range results {
		require.NotEqual(t, NotFound, r)
		if r&FreshFlag != 0 {
			freshCount++
		}
		if slot == 0 {
			slot = r & slotMask
		}
		assert.Equal(t, slot, r&slotMask)
	}
	assert.Equal(t, 1, freshCount)
}

func TestHashSet128_KeyHashingToSlotZeroIsProbedForward(t *testing.T) {
	h := New128(8, QuadLinear, IdentityMixer)
	defer h.Close()

	// capacity is 256; the mixer runs over Hi, so IdentityMixer(256) & 255
	// == 0, landing this key's natural home on the reserved slot.
	key := Key128{Hi: 256, Lo: 3}
	slot := h.Insert(key) & slotMask
	assert.NotZero(t, slot, "slot 0 must never be claimed")
	assert.Equal(t, key, h.Get(slot))

	found := h.Find(key) & slotMask
	assert.Equal(t, slot, found)
}

func TestHashSet128_DistinctKeysGetDistinctSlots(t *testing.T) {
	h := New128(10, QuadLinear, IdentityMixer)
	defer h.Close()

	seen := map[uint64]Key128{}
	for i := uint64(1); i <= 200; i++ {
		key := Key128{Hi: i, Lo: i + 1}
		slot := h.Insert(key) & slotMask
		if other, ok := seen[slot]; ok {
			t.Fatalf("keys %v and %v collided into the same slot %d", other, key, slot)
		}
		seen[slot] = key
	}
}
