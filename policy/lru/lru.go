// Package lru implements the exact LRU eviction policy.
package lru

import (
	"container/list"

	"github.com/IvanBrykalov/cachesim/policy"
)

// lru keeps its own recency order over identities (MRU at Front). The list
// stores identities rather than object references, so nothing borrowed from
// the store outlives a call.
type lru struct {
	order *list.List // element values are uint64 identities
	byID  map[uint64]*list.Element
}

// New returns an exact LRU policy.
func New() policy.Policy {
	return &lru{
		order: list.New(),
		byID:  make(map[uint64]*list.Element),
	}
}

func (p *lru) Name() string { return "lru" }

// MetadataSize is zero: LRU keeps no per-object metadata beyond list links.
func (p *lru) MetadataSize() int64 { return 0 }

// Find promotes a present identity to MRU when update is set.
func (p *lru) Find(s policy.Store, id uint64, update bool) policy.Object {
	obj := s.Lookup(id)
	if obj == nil {
		return nil
	}
	if update {
		p.order.MoveToFront(p.byID[id])
	}
	return obj
}

// Insert admits the object at MRU.
func (p *lru) Insert(s policy.Store, id uint64, size int64) policy.Object {
	obj := s.Admit(id, size)
	p.byID[id] = p.order.PushFront(id)
	return obj
}

// ToEvict returns the LRU object without consuming any state; calling it
// repeatedly is safe.
func (p *lru) ToEvict(s policy.Store) policy.Object {
	back := p.order.Back()
	if back == nil {
		return nil
	}
	return s.Lookup(back.Value.(uint64))
}

// Evict detaches the LRU object.
func (p *lru) Evict(s policy.Store) (uint64, bool) {
	back := p.order.Back()
	if back == nil {
		return 0, false
	}
	id := back.Value.(uint64)
	s.Detach(s.Lookup(id))
	p.order.Remove(back)
	delete(p.byID, id)
	return id, true
}

// Remove deletes an identity regardless of its position in the order.
func (p *lru) Remove(s policy.Store, id uint64) bool {
	el, ok := p.byID[id]
	if !ok {
		return false
	}
	s.Detach(s.Lookup(id))
	p.order.Remove(el)
	delete(p.byID, id)
	return true
}

var _ policy.Policy = (*lru)(nil)
