package lru

import (
	"testing"

	"github.com/IvanBrykalov/cachesim/policy"
)

// --- test doubles ---

type fakeObj struct {
	id   uint64
	size int64
	meta any
}

func (o *fakeObj) ID() uint64    { return o.id }
func (o *fakeObj) Size() int64   { return o.size }
func (o *fakeObj) Meta() any     { return o.meta }
func (o *fakeObj) SetMeta(m any) { o.meta = m }

// fakeStore is a minimal policy.Store: a map plus the counters the real
// store maintains. Sample is unused by LRU and returns nil.
type fakeStore struct {
	objs     map[uint64]*fakeObj
	occupied int64
	vtime    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{objs: make(map[uint64]*fakeObj)}
}

func (s *fakeStore) Lookup(id uint64) policy.Object {
	if o, ok := s.objs[id]; ok {
		return o
	}
	return nil
}

func (s *fakeStore) Admit(id uint64, size int64) policy.Object {
	if _, ok := s.objs[id]; ok {
		panic("duplicate admit")
	}
	o := &fakeObj{id: id, size: size}
	s.objs[id] = o
	s.occupied += size
	return o
}

func (s *fakeStore) Detach(obj policy.Object) {
	o := obj.(*fakeObj)
	delete(s.objs, o.id)
	s.occupied -= o.size
}

func (s *fakeStore) Sample() policy.Object { return nil }
func (s *fakeStore) Len() int              { return len(s.objs) }
func (s *fakeStore) OccupiedBytes() int64  { return s.occupied }
func (s *fakeStore) VTime() int64          { return s.vtime }

// --- tests ---

// Evict removes objects in insertion order when nothing is promoted.
func TestLRU_EvictsInInsertionOrder(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	p := New()
	for id := uint64(1); id <= 3; id++ {
		p.Insert(s, id, 10)
	}

	for want := uint64(1); want <= 3; want++ {
		id, ok := p.Evict(s)
		if !ok || id != want {
			t.Fatalf("Evict = (%d, %v), want (%d, true)", id, ok, want)
		}
	}
	if _, ok := p.Evict(s); ok {
		t.Fatal("Evict on an empty store must report no victim")
	}
}

// Find with update promotes to MRU; without update the order is untouched.
func TestLRU_FindPromotion(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	p := New()
	p.Insert(s, 1, 10)
	p.Insert(s, 2, 10)

	if p.Find(s, 1, false) == nil {
		t.Fatal("expected hit for 1")
	}
	if got := p.ToEvict(s).ID(); got != 1 {
		t.Fatalf("read-only Find must not promote; victim = %d, want 1", got)
	}

	if p.Find(s, 1, true) == nil {
		t.Fatal("expected hit for 1")
	}
	if got := p.ToEvict(s).ID(); got != 2 {
		t.Fatalf("after promotion victim = %d, want 2", got)
	}
}

// Find on a missing identity returns nil and mutates nothing.
func TestLRU_FindMiss(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	p := New()
	p.Insert(s, 1, 10)

	if p.Find(s, 99, true) != nil {
		t.Fatal("miss must return nil")
	}
	if got := p.ToEvict(s).ID(); got != 1 {
		t.Fatalf("victim = %d after miss, want 1", got)
	}
}

// ToEvict is pure selection: repeated calls return the same victim and do
// not change the population.
func TestLRU_ToEvictIsReadOnly(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	p := New()
	p.Insert(s, 1, 10)
	p.Insert(s, 2, 10)

	first := p.ToEvict(s).ID()
	second := p.ToEvict(s).ID()
	if first != second {
		t.Fatalf("ToEvict not stable: %d then %d", first, second)
	}
	if s.Len() != 2 {
		t.Fatalf("ToEvict changed the population: len=%d", s.Len())
	}
}

func TestLRU_ToEvictEmpty(t *testing.T) {
	t.Parallel()

	if New().ToEvict(newFakeStore()) != nil {
		t.Fatal("ToEvict on an empty store must be nil")
	}
}

// Remove deletes from any position and keeps eviction order intact.
func TestLRU_RemoveMiddle(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	p := New()
	for id := uint64(1); id <= 3; id++ {
		p.Insert(s, id, 10)
	}

	if !p.Remove(s, 2) {
		t.Fatal("Remove of a present identity must be true")
	}
	if p.Remove(s, 2) {
		t.Fatal("second Remove of the same identity must be false")
	}

	if id, _ := p.Evict(s); id != 1 {
		t.Fatalf("victim = %d, want 1", id)
	}
	if id, _ := p.Evict(s); id != 3 {
		t.Fatalf("victim = %d, want 3 (2 was removed)", id)
	}
}
