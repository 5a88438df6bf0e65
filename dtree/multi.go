package dtree

import "github.com/bergfi/dtree/d"

// Multi-projection traversal batches several chained reads or writes into
// one call. Each SingleProjection's Offsets chain follows a path of
// references: every hop but the last reads a two-word reference pair out
// of the current tree and treats it as the root Handle of another,
// independently interned vector; the final hop addresses the actual
// window to read or write within the tree reached that way.
//
// The historical source leaves this traversal effectively unimplemented
// (commented out, no wire format for the inter-vector reference). The
// reference encoding used here is this implementation's own resolution
// of that gap, chosen to reuse GetPartial and DeltaPoint unchanged at
// every hop rather than inventing a second tree-walking algorithm. A
// reference is stored as the referenced Handle's own 64-bit packing
// split across two words via loWord/hiWord (the same split tree pairs
// already use), not as a separate id/length pair — a bare uint32 id
// word would truncate the 40-bit surrogate space, so the full 64-bit
// Handle is round-tripped intact through makePair/loWord/hiWord.
//
// Each MultiOffset.Options tag gates what a hop is allowed to do: a hop
// that is followed through to reach a deeper vector must be tagged
// OptRead or OptReadWrite, and a projection's final hop must additionally
// carry OptWrite or OptReadWrite to accept a MultiDelta write, or OptRead
// or OptReadWrite to serve a MultiGetPartial read. A mistagged hop panics
// through d.PanicIfFalse rather than silently reading or writing past
// what the caller declared.

// canRead and canWrite interpret a hop's option_tag: every hop the chain
// actually follows through to reach a deeper vector is a read of that
// hop's reference pair, regardless of what happens once the chain
// reaches its target.
func canRead(opt ProjectionOption) bool {
	return opt == OptRead || opt == OptReadWrite
}

func canWrite(opt ProjectionOption) bool {
	return opt == OptWrite || opt == OptReadWrite
}

// resolveChain follows a projection's offset chain from outer, reading a
// two-word Handle reference at every hop but the last. The returned
// slice has the same length as offsets; entry i is the handle whose tree
// offsets[i] is interpreted against. Every non-final hop must be tagged
// OptRead or OptReadWrite, since following it means reading the
// reference pair it names.
func (s *Store) resolveChain(outer Handle, offsets []MultiOffset) []Handle {
	chain := make([]Handle, len(offsets))
	cur := outer
	for i := 0; i < len(offsets)-1; i++ {
		d.PanicIfFalse(canRead(offsets[i].Options), "dtree: multi-projection hop", i, "is not tagged for read")
		chain[i] = cur
		ref := s.GetPartial(cur, uint64(offsets[i].Offset), 2)
		cur = Handle(makePair(ref[0], ref[1]))
	}
	chain[len(offsets)-1] = cur
	return chain
}

// MultiGetPartial resolves every projection's chain and reads its final
// window, returning one result slice per projection in mp.Projections.
func (s *Store) MultiGetPartial(outer Handle, mp MultiProjection) [][]uint32 {
	results := make([][]uint32, len(mp.Projections))
	for i, p := range mp.Projections {
		if len(p.Offsets) == 0 {
			results[i] = nil
			continue
		}
		chain := s.resolveChain(outer, p.Offsets)
		last := len(p.Offsets) - 1
		d.PanicIfFalse(canRead(p.Offsets[last].Options), "dtree: multi-projection final hop is not tagged for read")
		results[i] = s.GetPartial(chain[last], uint64(p.Offsets[last].Offset), uint64(p.Length))
	}
	return results
}

// MultiDelta applies deltas[i] to the window described by
// mp.Projections[i], cascading the resulting reference updates back up
// each chain and re-interning every touched level, and folds the
// projections through outer in order (so a later projection sees any
// earlier one's effect on shared structure). Returns the final outer
// handle.
func (s *Store) MultiDelta(outer Handle, mp MultiProjection, deltas [][]uint32) InsertResult {
	result := InsertResult{Handle: outer}
	for i, p := range mp.Projections {
		if len(p.Offsets) == 0 {
			continue
		}
		result = s.applyProjectionDelta(result.Handle, p, deltas[i])
	}
	return result
}

func (s *Store) applyProjectionDelta(outer Handle, p SingleProjection, delta []uint32) InsertResult {
	chain := s.resolveChain(outer, p.Offsets)
	last := len(chain) - 1
	d.PanicIfFalse(canWrite(p.Offsets[last].Options), "dtree: multi-projection final hop is not tagged for write")

	cur := s.deltaPoint(chain[last], uint64(p.Offsets[last].Offset), delta, true)
	for i := last - 1; i >= 0; i-- {
		ref := []uint32{loWord(uint64(cur.Handle)), hiWord(uint64(cur.Handle))}
		cur = s.deltaPoint(chain[i], uint64(p.Offsets[i].Offset), ref, true)
	}
	return cur
}
