package hashset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSet64_InsertThenFind(t *testing.T) {
	h := New(10, QuadLinear, IdentityMixer)
	defer h.Close()

	slot := h.Insert(42)
	assert.NotEqual(t, NotFound, slot)
	assert.NotZero(t, slot&FreshFlag)

	again := h.Insert(42)
	assert.Equal(t, slot&slotMask, again&slotMask)
	assert.Zero(t, again&FreshFlag, "second insert of the same key must not be fresh")

	found := h.Find(42)
	require.NotEqual(t, NotFound, found)
	assert.Equal(t, slot&slotMask, found)
	assert.Equal(t, uint64(42), h.Get(found))
}

func TestHashSet64_FindMissing(t *testing.T) {
	h := New(8, QuadLinear, IdentityMixer)
	defer h.Close()

	h.Insert(7)
	assert.Equal(t, NotFound, h.Find(99))
}

func TestHashSet64_ConcurrentInsertSameKeyYieldsOneFreshWinner(t *testing.T) {
	h := New(12, QuadLinear, IdentityMixer)
	defer h.Close()

	const goroutines = 64
	results := make([]uint64, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = h.Insert(555)
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
		assert.Equal(t, slot, r&slotMask, "all callers must agree on the same slot")
	}
	assert.Equal(t, 1, freshCount, "exactly one caller should observe FreshFlag")
}

func TestHashSet64_DistinctKeysGetDistinctSlots(t *testing.T) {
	h := New(10, QuadLinear, IdentityMixer)
	defer h.Close()

	seen := map[uint64]uint64{}
	for key := uint64(1); key <= 200; key++ {
		slot := h.Insert(key) & slotMask
		if other, ok := seen[slot]; ok {
			t.Fatalf("keys %d and %d collided into the same slot %d", other, key, slot)
		}
		seen[slot] = key
	}
}

func TestHashSet64_StatsTrackPopulation(t *testing.T) {
	h := New(8, QuadLinear, IdentityMixer)
	defer h.Close()

	for key := uint64(1); key <= 10; key++ {
		h.Insert(key)
	}
	h.Insert(1) // duplicate, must not grow population

	stats := h.Stats()
	assert.Equal(t, uint64(10), stats.Population)
	assert.Equal(t, uint64(256), stats.Capacity)
}

func TestHashSet64_InsertPanicsOnZeroKey(t *testing.T) {
	h := New(8, QuadLinear, IdentityMixer)
	defer h.Close()

	assert.Panics(t, func() { h.Insert(0) })
}

func TestHashSet64_KeyHashingToSlotZeroIsProbedForward(t *testing.T) {
	h := New(8, QuadLinear, IdentityMixer)
	defer h.Close()

	// capacity is 256; IdentityMixer(256) & 255 == 0, so this key's
	// natural home is the reserved slot.
	slot := h.Insert(256) & slotMask
	assert.NotZero(t, slot, "slot 0 must never be claimed")
	assert.Equal(t, uint64(256), h.Get(slot))

	found := h.Find(256) & slotMask
	assert.Equal(t, slot, found)
}

func TestHashSet64_AllDisciplinesAgreeOnRoundTrip(t *testing.T) {
	for _, disc := range []Discipline{QuadLinear, PureLinear, LinearBlocks} {
		h := New(10, disc, IdentityMixer)
		for key := uint64(1); key <= 100; key++ {
			h.Insert(key)
		}
		for key := uint64(1); key <= 100; key++ {
			slot := h.Find(key)
			require.NotEqual(t, NotFound, slot, "discipline %v lost key %d", disc, key)
			assert.Equal(t, key, h.Get(slot))
		}
		h.Close()
	}
}
