package dtree

import (
	"github.com/pkg/errors"

	"github.com/bergfi/dtree/d"
)

// ErrLengthOverflow is returned when a caller-supplied length would not
// fit in a Handle's 24-bit length field. NewHandle panics on such a
// length; callers that want an error value instead go through
// TryNewHandle.
var ErrLengthOverflow = errors.New("dtree: length exceeds handle's 24-bit field")

// TryNewHandle validates length before packing a Handle, returning a
// wrapped ErrLengthOverflow instead of the panic NewHandle raises.
func TryNewHandle(id, length uint64) (Handle, error) {
	if length > maxLength {
		return 0, errors.Wrapf(ErrLengthOverflow, "length=%d exceeds %d bits", length, lengthBits)
	}
	return NewHandle(id, length), nil
}

// SafeInsert runs Insert through d.Try for symmetry with SafeDeltaSparse
// and the rest of the boundary API. Insert currently has no d.Exp panic
// surface of its own — it only ever raises the fatal, non-recoverable
// d.Chk panic on table exhaustion — so err is always nil today; this
// wrapper exists so callers have one recoverable entry point per
// operation even where the operation can't yet fail recoverably.
func (s *Store) SafeInsert(words []uint32) (res InsertResult, err error) {
	err = d.Try(func() { res = s.Insert(words) })
	return res, err
}

// SafeDeltaSparse runs DeltaSparse, recovering any d.Exp-raised panic
// (e.g. an out-of-bounds or overlapping SparseOffset) into an error.
func (s *Store) SafeDeltaSparse(h Handle, deltaWords []uint32, offsets []SparseOffset) (res InsertResult, err error) {
	err = d.Try(func() { res = s.DeltaSparse(h, deltaWords, offsets) })
	return res, err
}
