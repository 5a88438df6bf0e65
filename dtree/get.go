package dtree

// Get reconstructs the full vector named by h.
func (s *Store) Get(h Handle) []uint32 {
	buf := make([]uint32, h.Length())
	s.get(h, buf, true)
	return buf
}

// get performs the top-down expansion driven purely by the handle's
// length, never by any per-node shape stored in the tables.
func (s *Store) get(h Handle, buffer []uint32, isRoot bool) {
	length := h.Length()
	switch {
	case length == 0:
		return
	case length == 1:
		buffer[0] = uint32(h.Id())
	case length == 2:
		if h.IsZero() {
			buffer[0], buffer[1] = 0, 0
			return
		}
		pair := s.readPair(h.Id(), isRoot)
		buffer[0], buffer[1] = loWord(pair), hiWord(pair)
	default:
		if h.IsZero() {
			zeroFill(buffer)
			return
		}
		p := splitPoint(length)
		pair := s.readPair(h.Id(), isRoot)
		left := NewHandle(uint64(loWord(pair)), p)
		right := NewHandle(uint64(hiWord(pair)), length-p)
		s.get(left, buffer[:p], false)
		s.get(right, buffer[p:], false)
	}
}

func zeroFill(buffer []uint32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// GetPartial reconstructs the words in [offset, offset+span) of the
// vector named by h without materializing the whole vector.
func (s *Store) GetPartial(h Handle, offset, span uint64) []uint32 {
	buf := make([]uint32, span)
	s.getPartial(h, offset, span, buf, true)
	return buf
}

func (s *Store) getPartial(h Handle, offset, span uint64, buffer []uint32, isRoot bool) {
	if span == 0 {
		return
	}
	length := h.Length()
	if length <= 2 {
		full := make([]uint32, length)
		s.get(h, full, isRoot)
		copy(buffer, full[offset:offset+span])
		return
	}
	if h.IsZero() {
		zeroFill(buffer)
		return
	}
	p := splitPoint(length)
	pair := s.readPair(h.Id(), isRoot)
	left := NewHandle(uint64(loWord(pair)), p)
	right := NewHandle(uint64(hiWord(pair)), length-p)

	switch {
	case offset+span <= p:
		s.getPartial(left, offset, span, buffer, false)
	case offset >= p:
		s.getPartial(right, offset-p, span, buffer, false)
	default:
		leftSpan := p - offset
		s.getPartial(left, offset, leftSpan, buffer[:leftSpan], false)
		s.getPartial(right, 0, span-leftSpan, buffer[leftSpan:], false)
	}
}
