package dtree

import "github.com/bergfi/dtree/d"

// DeltaPoint returns a handle for h's vector with delta overwriting
// [offset, offset+len(delta)). Requires offset+len(delta) <= h.Length().
// Returns h unchanged (Fresh=false) whenever the reconstructed content is
// bit-for-bit identical to the original, so an update that writes back
// what was already there costs no new surrogates.
func (s *Store) DeltaPoint(h Handle, offset uint64, delta []uint32) InsertResult {
	d.PanicIfTrue(offset+uint64(len(delta)) > h.Length(), "dtree: deltaPoint window exceeds handle length")
	return s.deltaPoint(h, offset, delta, true)
}

func (s *Store) deltaPoint(h Handle, offset uint64, delta []uint32, isRoot bool) InsertResult {
	n := uint64(len(delta))
	length := h.Length()

	switch {
	case n == 0:
		return InsertResult{Handle: h}
	case length <= 1:
		if uint64(delta[0]) == h.Id() {
			return InsertResult{Handle: h}
		}
		return InsertResult{Handle: NewHandle(uint64(delta[0]), 1)}
	case length == 2:
		pair := s.readPair(h.Id(), isRoot)
		words := [2]uint32{loWord(pair), hiWord(pair)}
		copy(words[offset:offset+n], delta)
		newPair := makePair(words[0], words[1])
		if newPair == pair {
			return InsertResult{Handle: h}
		}
		return s.intern(newPair, 2, isRoot)
	default:
		p := splitPoint(length)
		pair := s.readPair(h.Id(), isRoot)
		leftHandle := NewHandle(uint64(loWord(pair)), p)
		rightHandle := NewHandle(uint64(hiWord(pair)), length-p)

		var leftRes, rightRes InsertResult
		switch {
		case offset+n <= p:
			leftRes = s.deltaPoint(leftHandle, offset, delta, false)
			rightRes = InsertResult{Handle: rightHandle}
		case offset >= p:
			leftRes = InsertResult{Handle: leftHandle}
			rightRes = s.deltaPoint(rightHandle, offset-p, delta, false)
		default:
			leftSpan := p - offset
			leftRes = s.deltaPoint(leftHandle, offset, delta[:leftSpan], false)
			rightRes = s.deltaPoint(rightHandle, 0, delta[leftSpan:], false)
		}

		newPair := makePair(uint32(leftRes.Handle.Id()), uint32(rightRes.Handle.Id()))
		if newPair == pair {
			return InsertResult{Handle: h}
		}
		return s.intern(newPair, length, isRoot)
	}
}

// DeltaMayExtend behaves like DeltaPoint but allows offset+len(delta) to
// exceed h.Length(); the result vector's length is
// max(h.Length(), offset+len(delta)). If delta is empty, returns h
// unchanged. If h is the empty handle, the result is a zero-prepended
// insert of delta at offset.
func (s *Store) DeltaMayExtend(h Handle, offset uint64, delta []uint32) InsertResult {
	n := uint64(len(delta))
	if n == 0 {
		return InsertResult{Handle: h}
	}
	newLength := offset + n
	if h.Length() > newLength {
		newLength = h.Length()
	}

	if h.Length() == 0 {
		return s.zeroPrependedInsert(offset, delta, true)
	}
	if newLength == h.Length() {
		return s.deltaPoint(h, offset, delta, true)
	}
	return s.extendRecursive(h, newLength, offset, delta, true)
}
