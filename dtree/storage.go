package dtree

import (
	"github.com/bergfi/dtree/d"
	"github.com/bergfi/dtree/hashset"
)

// FullHandler is invoked when a hash set's probe budget is exhausted. Per
// the full-handler contract, invocation aborts the operation in progress;
// there is no retry path, so implementations should treat it as fatal.
type FullHandler func(pair uint64, isRoot bool)

func defaultFullHandler(pair uint64, isRoot bool) {
	d.Chk.Fail("dtree: hash table exhausted", "pair", pair, "isRoot", isRoot)
}

// storage presents insert/find/get over the interning tables with a
// single is_root switch, hiding whether roots and interior nodes share a
// table or not.
type storage interface {
	fop(pair uint64, length uint64, isRoot bool) (slot uint64, fresh bool)
	find(pair uint64, length uint64, isRoot bool) (slot uint64, found bool)
	get(slot uint64, isRoot bool) (pair uint64, length uint64)
	stats() (root, data hashset.MapStats)
	probeStats() (root, data hashset.ProbeStats)
	setFullHandler(FullHandler)
	close()
}

// separateRootStorage routes root nodes to a HashSet128 keyed on
// (pair, length) and interior nodes to a HashSet64 keyed on pair alone.
// This is the canonical, root/data-separated form.
type separateRootStorage struct {
	root        *hashset.HashSet128
	data        *hashset.HashSet64
	fullHandler FullHandler
}

func newSeparateRootStorage(scale uint, disc hashset.Discipline, mixer hashset.Mixer) *separateRootStorage {
	return &separateRootStorage{
		root:        hashset.New128(scale, disc, mixer),
		data:        hashset.New(scale, disc, mixer),
		fullHandler: defaultFullHandler,
	}
}

func rootKey(pair, length uint64) hashset.Key128 {
	if pair == 0 {
		return hashset.Key128{Hi: 0, Lo: length | hashset.ZeroTag}
	}
	return hashset.Key128{Hi: pair, Lo: length}
}

func (s *separateRootStorage) fop(pair uint64, length uint64, isRoot bool) (uint64, bool) {
	if isRoot {
		res := s.root.Insert(rootKey(pair, length))
		if res == hashset.NotFound {
			s.fullHandler(pair, true)
			return hashset.NotFound, false
		}
		return res &^ hashset.FreshFlag, res&hashset.FreshFlag != 0
	}
	res := s.data.Insert(pair)
	if res == hashset.NotFound {
		s.fullHandler(pair, false)
		return hashset.NotFound, false
	}
	return res &^ hashset.FreshFlag, res&hashset.FreshFlag != 0
}

func (s *separateRootStorage) find(pair uint64, length uint64, isRoot bool) (uint64, bool) {
	if isRoot {
		res := s.root.Find(rootKey(pair, length))
		return res, res != hashset.NotFound
	}
	res := s.data.Find(pair)
	return res, res != hashset.NotFound
}

func (s *separateRootStorage) get(slot uint64, isRoot bool) (uint64, uint64) {
	if isRoot {
		rec := s.root.Get(slot)
		if rec.Hi == 0 {
			return 0, rec.Lo &^ hashset.ZeroTag
		}
		return rec.Hi, rec.Lo
	}
	return s.data.Get(slot), 0
}

func (s *separateRootStorage) stats() (hashset.MapStats, hashset.MapStats) {
	return s.root.Stats(), s.data.Stats()
}

func (s *separateRootStorage) probeStats() (hashset.ProbeStats, hashset.ProbeStats) {
	return s.root.ProbeStats(), s.data.ProbeStats()
}

func (s *separateRootStorage) setFullHandler(h FullHandler) { s.fullHandler = h }

func (s *separateRootStorage) close() {
	s.root.Close()
	s.data.Close()
}

// singleLevelStorage routes both roots and interior nodes to one
// HashSet64. Roots lose their independent length binding: two vectors
// whose root pairs happen to collide numerically but differ in length
// share a data-table slot, which is safe only because every consumer of
// a Handle already carries that vector's own length and reconstructs
// top-down from it rather than trusting anything the table remembers.
type singleLevelStorage struct {
	data        *hashset.HashSet64
	fullHandler FullHandler
}

func newSingleLevelStorage(scale uint, disc hashset.Discipline, mixer hashset.Mixer) *singleLevelStorage {
	return &singleLevelStorage{
		data:        hashset.New(scale, disc, mixer),
		fullHandler: defaultFullHandler,
	}
}

func (s *singleLevelStorage) fop(pair uint64, _ uint64, isRoot bool) (uint64, bool) {
	res := s.data.Insert(pair)
	if res == hashset.NotFound {
		s.fullHandler(pair, isRoot)
		return hashset.NotFound, false
	}
	return res &^ hashset.FreshFlag, res&hashset.FreshFlag != 0
}

func (s *singleLevelStorage) find(pair uint64, _ uint64, isRoot bool) (uint64, bool) {
	res := s.data.Find(pair)
	return res, res != hashset.NotFound
}

func (s *singleLevelStorage) get(slot uint64, _ bool) (uint64, uint64) {
	return s.data.Get(slot), 0
}

func (s *singleLevelStorage) stats() (hashset.MapStats, hashset.MapStats) {
	empty := hashset.MapStats{}
	return empty, s.data.Stats()
}

func (s *singleLevelStorage) probeStats() (hashset.ProbeStats, hashset.ProbeStats) {
	empty := hashset.ProbeStats{}
	return empty, s.data.ProbeStats()
}

func (s *singleLevelStorage) setFullHandler(h FullHandler) { s.fullHandler = h }

func (s *singleLevelStorage) close() { s.data.Close() }
