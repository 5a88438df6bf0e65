package dtree

import "github.com/bergfi/dtree/d"

// zeroPrependedInsert builds the vector consisting of offset zero words
// followed by delta, and inserts it fresh. Used when the handle being
// extended is empty, so there is no existing content to splice around.
func (s *Store) zeroPrependedInsert(offset uint64, delta []uint32, isRoot bool) InsertResult {
	buf := make([]uint32, offset+uint64(len(delta)))
	copy(buf[offset:], delta)
	return s.insert(buf, isRoot)
}

// zeroExtendTo returns a handle for h's content padded on the right with
// zeros out to newLength.
func (s *Store) zeroExtendTo(h Handle, newLength uint64, isRoot bool) InsertResult {
	if newLength <= h.Length() {
		return InsertResult{Handle: h}
	}
	buf := make([]uint32, newLength)
	s.get(h, buf[:h.Length()], isRoot)
	return s.insert(buf, isRoot)
}

// extendRecursive materializes h's content, splices delta in at offset
// (which may lie past h's current end, leaving a zero gap), and reinserts
// the result. This trades the source's O(log N) tree-splicing extend for
// a simpler O(newLength) reconstruction; content addressing guarantees
// the resulting handle is identical to whatever a splicing implementation
// would have produced.
func (s *Store) extendRecursive(h Handle, newLength uint64, offset uint64, delta []uint32, isRoot bool) InsertResult {
	buf := make([]uint32, newLength)
	s.get(h, buf[:h.Length()], isRoot)
	copy(buf[offset:offset+uint64(len(delta))], delta)
	return s.insert(buf, isRoot)
}

func (s *Store) extendAtOffset(h Handle, offset uint64, delta []uint32, isRoot bool) InsertResult {
	n := uint64(len(delta))
	if n == 0 {
		return s.zeroExtendTo(h, offset, isRoot)
	}
	if h.Length() == 0 {
		return s.zeroPrependedInsert(offset, delta, isRoot)
	}
	newLength := offset + n
	if newLength <= h.Length() {
		return s.deltaPoint(h, offset, delta, isRoot)
	}
	return s.extendRecursive(h, newLength, offset, delta, isRoot)
}

func roundUpPow2(length, alignment uint64) uint64 {
	if length == 0 {
		return 0
	}
	return (length + alignment - 1) &^ (alignment - 1)
}

// Extend zero-pads h's vector up to the next multiple of alignmentWords
// (which must be a nonzero power of two) and appends delta after the
// padding.
func (s *Store) Extend(h Handle, alignmentWords uint64, delta []uint32) InsertResult {
	d.PanicIfTrue(alignmentWords == 0 || alignmentWords&(alignmentWords-1) != 0,
		"dtree: extend alignment must be a nonzero power of two")
	offset := roundUpPow2(h.Length(), alignmentWords)
	return s.extendAtOffset(h, offset, delta, true)
}

// ExtendAt zero-pads h's vector by padding words and appends delta
// immediately after.
func (s *Store) ExtendAt(h Handle, padding uint64, delta []uint32) InsertResult {
	return s.extendAtOffset(h, h.Length()+padding, delta, true)
}
