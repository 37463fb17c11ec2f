// Package watt implements the WATT eviction policy: a sampling-based
// recency/frequency hybrid. Each object carries a ring of its last eight
// access times in virtual time; eviction scores a random sample with a
// decaying-weight formula and removes the lowest-scoring object, so no global
// order is maintained between evictions.
package watt

import (
	"math"

	"github.com/IvanBrykalov/cachesim/policy"
)

const (
	ringSlots = 8

	// Pre-seeded ring slots start this far in the virtual past so a freshly
	// admitted object does not look hot before it has real history.
	coldOffset = 3_000_000

	// noCandidate marks the candidate freshness cache as invalid.
	noCandidate = -1
)

// meta is the per-object state: a ring of the last eight access vtimes.
// lastPos indexes the most recently written slot; the ring overwrites the
// oldest entry, it is not a full history.
type meta struct {
	accesses [ringSlots]int64
	lastPos  int
}

// WATT is one policy instance. It serves exactly one cache instance.
type WATT struct {
	nSample int

	// Freshness cache for a computed eviction candidate: the candidate's
	// identity plus the vtime it was computed at. The candidate is reused
	// only while vtime is unchanged and the identity is still live;
	// identities, not references, are cached so a stale sample can never be
	// acted on.
	candID    uint64
	candVTime int64
}

// New returns a WATT policy with the given parameters. A non-positive
// NSample falls back to DefaultNSample.
func New(p Params) *WATT {
	n := p.NSample
	if n <= 0 {
		n = DefaultNSample
	}
	return &WATT{nSample: n, candVTime: noCandidate}
}

func (w *WATT) Name() string { return "watt" }

// MetadataSize is the accounted per-object overhead: frequency plus age,
// eight bytes each.
func (w *WATT) MetadataSize() int64 { return 16 }

// IndexHashpower undersizes the index relative to the capacity hint.
// Sampling eviction needs a representative random object, not uniform
// coverage of the whole key space, and a smaller table keeps draws cheap.
func (w *WATT) IndexHashpower(hint int) int {
	if hint-8 > 12 {
		return hint - 8
	}
	return 12
}

// Find records the access in the object's ring when update is set.
func (w *WATT) Find(s policy.Store, id uint64, update bool) policy.Object {
	obj := s.Lookup(id)
	if obj == nil {
		return nil
	}
	if update {
		m := obj.Meta().(*meta)
		m.lastPos = (m.lastPos + 1) % ringSlots
		m.accesses[m.lastPos] = s.VTime()
	}
	return obj
}

// Insert admits the object with slot 0 at the current vtime and the other
// seven slots pre-seeded into the cold past.
func (w *WATT) Insert(s policy.Store, id uint64, size int64) policy.Object {
	obj := s.Admit(id, size)
	now := s.VTime()
	m := &meta{}
	m.accesses[0] = now
	for i := 1; i < ringSlots; i++ {
		m.accesses[i] = now - coldOffset
	}
	obj.SetMeta(m)
	return obj
}

// score is the object's value under the decaying-weight formula: the maximum
// over the eight ages of weight/(now - access), where the most recent access
// is discounted to 0.2 and an access i steps back weighs i+1. Higher score
// means more valuable, less eligible for eviction.
func score(m *meta, now int64) float64 {
	best := weight(0.2, now-m.accesses[m.lastPos])
	for i := 1; i < ringSlots; i++ {
		v := weight(float64(i+1), now-m.accesses[(m.lastPos+ringSlots-i)%ringSlots])
		if v > best {
			best = v
		}
	}
	return best
}

// weight handles the same-tick edge case: an object accessed at the current
// vtime scores +Inf ("infinitely valuable") instead of dividing by zero, so
// it is never chosen over any finitely-scored object.
func weight(num float64, age int64) float64 {
	if age <= 0 {
		return math.Inf(1)
	}
	return num / float64(age)
}

// ToEvict draws nSample objects uniformly at random and returns the one with
// the lowest score. Strict comparison keeps the earliest minimum, so ties
// resolve first-seen-wins; the first sample seeds the candidate, so a
// non-empty store always yields one. A candidate computed earlier at the
// same vtime is returned without new draws, which keeps back-to-back calls
// deterministic and free of population side effects.
func (w *WATT) ToEvict(s policy.Store) policy.Object {
	if s.Len() == 0 {
		return nil
	}
	now := s.VTime()
	if w.candVTime == now {
		if obj := s.Lookup(w.candID); obj != nil {
			return obj
		}
	}

	var best policy.Object
	bestScore := 0.0
	for i := 0; i < w.nSample; i++ {
		obj := s.Sample()
		sc := score(obj.Meta().(*meta), now)
		if best == nil || sc < bestScore {
			best, bestScore = obj, sc
		}
	}
	w.candID, w.candVTime = best.ID(), now
	return best
}

// Evict detaches the current candidate, recomputing it if the cached one is
// stale. The freshness cache is invalidated after use either way, so a later
// unrelated call can never reuse it.
func (w *WATT) Evict(s policy.Store) (uint64, bool) {
	obj := w.ToEvict(s)
	w.candVTime = noCandidate
	if obj == nil {
		if s.Len() > 0 {
			panic("watt: no eviction candidate on a non-empty store")
		}
		return 0, false
	}
	s.Detach(obj)
	return obj.ID(), true
}

// Remove deletes an identity on external request, dropping the cached
// candidate if it names the removed object.
func (w *WATT) Remove(s policy.Store, id uint64) bool {
	obj := s.Lookup(id)
	if obj == nil {
		return false
	}
	if w.candVTime != noCandidate && w.candID == id {
		w.candVTime = noCandidate
	}
	s.Detach(obj)
	return true
}

var (
	_ policy.Policy     = (*WATT)(nil)
	_ policy.IndexSizer = (*WATT)(nil)
)
