package hashset

import "sync/atomic"

// ProbeStats accumulates per-discipline probing counters for a table,
// exposed to the surrounding test harness via Store.ProbeStats. Counters
// are read, never reset, matching the original harness's -T measurement
// mode described in the historical dtree.sr sources.
type ProbeStats struct {
	Hits        uint64 // successful Insert calls (Find is not counted)
	BlockSteps  uint64 // total within-block probe steps taken
	Jumps       uint64 // total block-to-block jumps taken
	MaxProbeLen uint64 // longest probe sequence observed, in slots
}

// Add merges other into s.
func (s *ProbeStats) Add(other ProbeStats) {
	s.Hits += other.Hits
	s.BlockSteps += other.BlockSteps
	s.Jumps += other.Jumps
	if other.MaxProbeLen > s.MaxProbeLen {
		s.MaxProbeLen = other.MaxProbeLen
	}
}

type probeCounters struct {
	hits        atomic.Uint64
	blockSteps  atomic.Uint64
	jumps       atomic.Uint64
	maxProbeLen atomic.Uint64
}

func (c *probeCounters) recordProbe(steps, jumps uint64) {
	c.blockSteps.Add(steps)
	c.jumps.Add(jumps)
	for {
		cur := c.maxProbeLen.Load()
		if steps <= cur || c.maxProbeLen.CompareAndSwap(cur, steps) {
			return
		}
	}
}

func (c *probeCounters) snapshot() ProbeStats {
	return ProbeStats{
		Hits:        c.hits.Load(),
		BlockSteps:  c.blockSteps.Load(),
		Jumps:       c.jumps.Load(),
		MaxProbeLen: c.maxProbeLen.Load(),
	}
}

// MapStats summarizes a table's occupancy.
type MapStats struct {
	Capacity   uint64
	Population uint64
}

// Add merges other into s.
func (s *MapStats) Add(other MapStats) {
	s.Capacity += other.Capacity
	s.Population += other.Population
}
