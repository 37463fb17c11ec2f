package cache

import (
	"fmt"

	"github.com/IvanBrykalov/cachesim/policy"
)

// store owns the object population and the bookkeeping every policy relies
// on: occupied bytes, object count, and virtual time. It implements
// policy.Store. Capacity is enforced by the engine's miss path, never here.
type store struct {
	ix *index

	occupied int64 // sum of live sizes plus accounted metadata overhead
	vtime    int64 // advanced once per top-level request
	mdSize   int64 // per-object metadata overhead included in occupied
}

func newStore(ix *index, mdSize int64) *store {
	return &store{ix: ix, mdSize: mdSize}
}

// tick advances virtual time. The engine calls it exactly once per request,
// before any policy callback, so every callback of one request observes the
// same VTime.
func (s *store) tick() { s.vtime++ }

// Lookup returns the live object with the given identity, or nil.
func (s *store) Lookup(id uint64) policy.Object {
	if r := s.ix.lookup(id); r != nil {
		return r
	}
	return nil
}

// Admit creates the record for a new identity and indexes it. The engine
// establishes absence via Find first, so a duplicate admit means broken
// policy bookkeeping and panics.
func (s *store) Admit(id uint64, size int64) policy.Object {
	r := &record{id: id, size: size}
	if !s.ix.insert(r) {
		panic(fmt.Sprintf("cache: duplicate admit of identity %d", id))
	}
	s.occupied += size + s.mdSize
	return r
}

// Detach removes the object from the index and the bookkeeping. The borrowed
// reference stays readable until the current policy call returns, then must
// be dropped.
func (s *store) Detach(obj policy.Object) {
	r := obj.(*record)
	s.ix.remove(r)
	s.occupied -= r.size + s.mdSize
}

// resize adjusts a live object's size in place (re-admission of a present
// identity with a changed size, when the engine is configured to track that).
func (s *store) resize(r *record, size int64) {
	s.occupied += size - r.size
	r.size = size
}

// Sample returns one uniformly random live object, or nil if empty.
func (s *store) Sample() policy.Object {
	if r := s.ix.sample(); r != nil {
		return r
	}
	return nil
}

// Len is the number of live objects.
func (s *store) Len() int { return s.ix.len() }

// OccupiedBytes is the sum of live sizes plus accounted metadata overhead.
func (s *store) OccupiedBytes() int64 { return s.occupied }

// VTime is the virtual time of the request being processed.
func (s *store) VTime() int64 { return s.vtime }

var _ policy.Store = (*store)(nil)
