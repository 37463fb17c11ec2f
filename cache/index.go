package cache

import "math/rand"

// index maps identity -> record and keeps a dense slice of live records for
// O(1) uniform sampling. Deleting swaps the victim with the last live record
// and fixes that record's slot, so draws stay uniform after arbitrary churn.
type index struct {
	m    map[uint64]*record
	live []*record
	rng  *rand.Rand
}

// newIndex sizes the table to 2^hashpower expected objects and seeds the
// sampling generator.
func newIndex(hashpower int, seed int64) *index {
	if hashpower > 30 {
		hashpower = 30
	}
	hint := 1 << uint(hashpower)
	return &index{
		m:    make(map[uint64]*record, hint),
		live: make([]*record, 0, hint),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// lookup returns the record for id, or nil.
func (ix *index) lookup(id uint64) *record { return ix.m[id] }

// insert indexes a new record. Returns false if the identity is already
// present (the record is not inserted).
func (ix *index) insert(r *record) bool {
	if _, ok := ix.m[r.id]; ok {
		return false
	}
	r.slot = len(ix.live)
	ix.live = append(ix.live, r)
	ix.m[r.id] = r
	return true
}

// remove deletes a live record in O(1) via swap-delete.
func (ix *index) remove(r *record) {
	last := len(ix.live) - 1
	moved := ix.live[last]
	ix.live[r.slot] = moved
	moved.slot = r.slot
	ix.live[last] = nil
	ix.live = ix.live[:last]
	delete(ix.m, r.id)
	r.slot = -1
}

// sample returns one uniformly random live record, or nil if empty.
func (ix *index) sample() *record {
	if len(ix.live) == 0 {
		return nil
	}
	return ix.live[ix.rng.Intn(len(ix.live))]
}

func (ix *index) len() int { return len(ix.live) }
