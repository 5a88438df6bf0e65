package dtree

import "math/bits"

// splitPoint returns P for a vector of length >= 3: the left subtree
// spans [0, P) and is always power-of-two sized, the right subtree spans
// [P, L) and is recursively shaped the same way. The formula collapses to
// L/2 when L is itself a power of two.
func splitPoint(length uint64) uint64 {
	return uint64(1) << (bits.Len64(length-1) - 1)
}

// Insert deconstructs words into the implicit tree, interning every
// distinct pair along the way, and returns the resulting handle.
func (s *Store) Insert(words []uint32) InsertResult {
	return s.insert(words, true)
}

func (s *Store) insert(words []uint32, isRoot bool) InsertResult {
	length := uint64(len(words))
	switch {
	case length == 0:
		return InsertResult{Handle: EmptyHandle}
	case length == 1:
		return InsertResult{Handle: NewHandle(uint64(words[0]), 1)}
	case length == 2:
		return s.intern(makePair(words[0], words[1]), 2, isRoot)
	default:
		p := splitPoint(length)
		left := s.insert(words[:p], false)
		right := s.insert(words[p:], false)
		pair := makePair(uint32(left.Handle.Id()), uint32(right.Handle.Id()))
		return s.intern(pair, length, isRoot)
	}
}

// Find mirrors Insert using lookups only: if any sub-pair is missing the
// whole search fails, with no partial insertion.
func (s *Store) Find(words []uint32) (Handle, bool) {
	return s.find(words, true)
}

func (s *Store) find(words []uint32, isRoot bool) (Handle, bool) {
	length := uint64(len(words))
	switch {
	case length == 0:
		return EmptyHandle, true
	case length == 1:
		return NewHandle(uint64(words[0]), 1), true
	case length == 2:
		return s.lookup(makePair(words[0], words[1]), 2, isRoot)
	default:
		p := splitPoint(length)
		left, ok := s.find(words[:p], false)
		if !ok {
			return Handle(0), false
		}
		right, ok := s.find(words[p:], false)
		if !ok {
			return Handle(0), false
		}
		pair := makePair(uint32(left.Id()), uint32(right.Id()))
		return s.lookup(pair, length, isRoot)
	}
}
