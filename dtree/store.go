package dtree

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/bergfi/dtree/hashset"
)

// Variant selects how root and interior surrogates are stored.
type Variant int

const (
	// SeparateRoot routes roots to a HashSet128 keyed on (pair, length)
	// and interior nodes to a HashSet64. Canonical, default variant.
	SeparateRoot Variant = iota
	// SingleLevel routes both to one HashSet64; roots lose their
	// independent length binding.
	SingleLevel
)

// Config configures a Store at construction time.
type Config struct {
	// Scale sets each table to 2^Scale slots.
	Scale uint
	// Variant selects the storage routing policy. Zero value is
	// SeparateRoot.
	Variant Variant
	// Discipline selects the probe sequence. Zero value is QuadLinear.
	Discipline hashset.Discipline
	// Mixer remaps keys before probing. Nil defaults to the identity
	// mixer, matching the "pre-mixed by construction" assumption.
	Mixer hashset.Mixer
	// Logger receives structured diagnostics. Nil installs a
	// logrus.StandardLogger-backed entry.
	Logger *logrus.Logger
}

// Store is the compression tree's public façade: it owns the interning
// tables and the process-wide "zeros seen" flag, and dispatches the tree
// operations declared in tree.go, get.go, delta.go, extend.go, sparse.go
// and multi.go.
type Store struct {
	storage storage
	log     *logrus.Entry

	// zerosSeen guards the zero-as-sentinel-and-value hazard: the first
	// top-level operation to produce a literal zero result sets this
	// flag and reports FRESH; later ones see it already set.
	zerosSeen atomic.Bool
}

// New constructs and initializes a Store per cfg.
func New(cfg Config) *Store {
	if cfg.Scale == 0 {
		cfg.Scale = 20
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var st storage
	switch cfg.Variant {
	case SingleLevel:
		st = newSingleLevelStorage(cfg.Scale, cfg.Discipline, cfg.Mixer)
	default:
		st = newSeparateRootStorage(cfg.Scale, cfg.Discipline, cfg.Mixer)
	}

	s := &Store{
		storage: st,
		log:     logger.WithField("component", "dtree"),
	}
	s.log.WithField("scale", cfg.Scale).Info("compression tree store initialized")
	return s
}

// SetFullHandler installs a callback invoked when a hash table's probe
// budget is exhausted. The default handler panics through d.Chk; it does
// not log.
func (s *Store) SetFullHandler(h FullHandler) {
	s.storage.setFullHandler(h)
}

// Close releases the store's backing tables.
func (s *Store) Close() {
	s.storage.close()
}

// StoreStats reports occupancy of the root and data tables.
type StoreStats struct {
	Root hashset.MapStats
	Data hashset.MapStats
}

// Stats reports current table occupancy.
func (s *Store) Stats() StoreStats {
	root, data := s.storage.stats()
	return StoreStats{Root: root, Data: data}
}

// StoreProbeStats reports accumulated probing counters for both tables.
type StoreProbeStats struct {
	Root hashset.ProbeStats
	Data hashset.ProbeStats
}

// ProbeStats reports accumulated probing counters.
func (s *Store) ProbeStats() StoreProbeStats {
	root, data := s.storage.probeStats()
	return StoreProbeStats{Root: root, Data: data}
}

// zeroResult reports the fresh bit for a top-level result whose id is the
// zero surrogate, per the "zero as both sentinel and value" design: the
// first caller to observe a zero result at the top level claims FRESH via
// a single global CAS, independent of which table would have stored it.
func (s *Store) zeroResult() bool {
	return s.zerosSeen.CompareAndSwap(false, true)
}

// intern interns pair at the appropriate table for isRoot, taking the
// zero-pair shortcut described in §4.1: pair 0 never touches a table,
// since key 0 is indistinguishable from an empty cell there.
func (s *Store) intern(pair uint64, length uint64, isRoot bool) InsertResult {
	if pair == 0 {
		fresh := false
		if isRoot {
			fresh = s.zeroResult()
		}
		return InsertResult{Handle: NewHandle(0, length), Fresh: fresh}
	}
	slot, fresh := s.storage.fop(pair, length, isRoot)
	return InsertResult{Handle: NewHandle(slot, length), Fresh: fresh}
}

// lookup mirrors intern using find instead of insert.
func (s *Store) lookup(pair uint64, length uint64, isRoot bool) (Handle, bool) {
	if pair == 0 {
		if isRoot && !s.zerosSeen.Load() {
			return Handle(0), false
		}
		return NewHandle(0, length), true
	}
	slot, found := s.storage.find(pair, length, isRoot)
	if !found {
		return Handle(0), false
	}
	return NewHandle(slot, length), true
}

// readPair returns the pair named by a surrogate id; the length a root
// table remembers is discarded. A zero id names the all-zeros pair
// directly, with no table access.
func (s *Store) readPair(id uint64, isRoot bool) uint64 {
	if id == 0 {
		return 0
	}
	pair, _ := s.storage.get(id, isRoot)
	return pair
}

func loWord(pair uint64) uint32  { return uint32(pair) }
func hiWord(pair uint64) uint32  { return uint32(pair >> 32) }
func makePair(lo, hi uint32) uint64 { return uint64(lo) | uint64(hi)<<32 }
