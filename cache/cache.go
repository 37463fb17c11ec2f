package cache

import (
	"math/bits"
	"time"

	"github.com/IvanBrykalov/cachesim/internal/util"
	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/policy/lru"
)

// Request is one normalized access record handed to the engine by a trace
// reader. Size 0 means the trace carries no sizes; such objects are accounted
// as one byte each, which degrades byte capacity to an entry count.
type Request struct {
	ID   uint64
	Size int64

	// Time is the trace timestamp, carried through for external reporting.
	// The engine keeps its own virtual time and never reads it.
	Time int64
}

// Outcome reports how one request was served.
type Outcome struct {
	// Hit is true when the object was already resident.
	Hit bool

	// Admitted is false when the object could not fit even in an empty cache
	// and was refused; the request is "not cacheable".
	Admitted bool

	// Evicted lists identities evicted to make room, in eviction order.
	// Nil on hits and on misses that needed no eviction.
	Evicted []uint64
}

// Cache replays access requests against one eviction policy without storing
// object payloads. Instances are not safe for concurrent use: a replay is
// single-threaded by design, and one request is fully processed before the
// next begins. Run independent instances in parallel instead; they share no
// mutable state.
type Cache struct {
	st  *store
	pol policy.Policy
	opt Options
}

// New constructs a replay cache. Panics if Capacity <= 0; all other fields
// have usable defaults (see Options).
func New(opt Options) *Cache {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	if opt.Policy == nil {
		opt.Policy = lru.New()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	hp := opt.Hashpower
	if hp <= 0 {
		// No hint given: assume ~4KiB mean object size.
		hp = bits.TrailingZeros64(util.NextPow2(uint64(opt.Capacity)/4096 + 1))
		if hp < 12 {
			hp = 12
		}
	}
	if sz, ok := opt.Policy.(policy.IndexSizer); ok {
		hp = sz.IndexHashpower(hp)
	}

	var md int64
	if opt.ConsiderObjMetadata {
		md = opt.Policy.MetadataSize()
	}

	return &Cache{
		st:  newStore(newIndex(hp, seed), md),
		pol: opt.Policy,
		opt: opt,
	}
}

// Get processes one request: a lookup that records the access on hit, or the
// miss path that evicts until the incoming object fits and then inserts it.
func (c *Cache) Get(req Request) Outcome {
	c.st.tick()

	size := req.Size
	if size <= 0 {
		size = 1
	}

	if obj := c.pol.Find(c.st, req.ID, true); obj != nil {
		if c.opt.UpdateObjSize && size != obj.Size() {
			c.st.resize(obj.(*record), size)
		}
		c.opt.Metrics.Hit()
		c.reportSize()
		return Outcome{Hit: true, Admitted: true}
	}
	c.opt.Metrics.Miss()

	need := size + c.st.mdSize
	if need > c.opt.Capacity {
		// Refuse objects that cannot fit even in an empty cache. Evicting the
		// whole population would not help, so nothing is disturbed.
		c.opt.Metrics.Reject()
		c.reportSize()
		return Outcome{}
	}

	var evicted []uint64
	for c.st.occupied+need > c.opt.Capacity && c.st.Len() > 0 {
		id, ok := c.pol.Evict(c.st)
		if !ok {
			panic("cache: policy produced no eviction victim on a non-empty store")
		}
		evicted = append(evicted, id)
		c.opt.Metrics.Evict(EvictCapacity)
		if cb := c.opt.OnEvict; cb != nil {
			cb(id, EvictCapacity)
		}
	}

	c.pol.Insert(c.st, req.ID, size)
	c.reportSize()
	return Outcome{Admitted: true, Evicted: evicted}
}

// Remove deletes an identity on external request. Unlike eviction it carries
// no judgement about the object's value, and it does not advance virtual
// time. Returns false when the identity is absent.
func (c *Cache) Remove(id uint64) bool {
	if !c.pol.Remove(c.st, id) {
		return false
	}
	if cb := c.opt.OnEvict; cb != nil {
		cb(id, EvictExplicit)
	}
	c.reportSize()
	return true
}

// ToEvict peeks at the policy's current eviction candidate without evicting.
// Intended for diagnostics; selection is read-only.
func (c *Cache) ToEvict() (id uint64, ok bool) {
	obj := c.pol.ToEvict(c.st)
	if obj == nil {
		return 0, false
	}
	return obj.ID(), true
}

// Contains reports whether an identity is resident, without recording an
// access or advancing virtual time.
func (c *Cache) Contains(id uint64) bool {
	return c.st.Lookup(id) != nil
}

// Len returns the number of resident objects.
func (c *Cache) Len() int { return c.st.Len() }

// OccupiedBytes returns the occupied size, including accounted metadata.
func (c *Cache) OccupiedBytes() int64 { return c.st.OccupiedBytes() }

// Capacity returns the configured byte capacity.
func (c *Cache) Capacity() int64 { return c.opt.Capacity }

// VTime returns the virtual time: the number of requests processed so far.
func (c *Cache) VTime() int64 { return c.st.VTime() }

// Policy returns the active eviction policy.
func (c *Cache) Policy() policy.Policy { return c.pol }

func (c *Cache) reportSize() {
	c.opt.Metrics.Size(c.st.Len(), c.st.occupied)
}
