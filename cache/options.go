package cache

import "github.com/IvanBrykalov/cachesim/policy"

// EvictReason explains why an object left the cache.
type EvictReason int

const (
	// EvictCapacity — evicted by the policy to make room for an incoming object.
	EvictCapacity EvictReason = iota
	// EvictExplicit — removed by an explicit Remove call.
	EvictExplicit
)

// Metrics exposes replay-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	// Reject is reported for requests whose object cannot fit even in an
	// empty cache ("not cacheable").
	Reject()
	Size(objects int, bytes int64)
}

// Options configures one replay cache instance. Zero values are safe except
// Capacity; defaults are applied in New():
//   - nil Policy  => LRU
//   - nil Metrics => NoopMetrics
//   - Seed == 0   => derived from wall clock
type Options struct {
	// Capacity is the byte capacity of the cache. Required, > 0.
	Capacity int64

	// Policy is the eviction policy driving this instance; nil => LRU.
	Policy policy.Policy

	// Hashpower sizes the hash index for about 2^Hashpower objects.
	// 0 picks a heuristic from Capacity. Sampling policies may lower the
	// hint (see policy.IndexSizer).
	Hashpower int

	// Seed seeds the index's sampling generator. Replays are deterministic
	// given the same seed and request sequence; fix it for reproducible
	// runs, leave 0 for a wall-clock seed.
	Seed int64

	// ConsiderObjMetadata accounts the policy's per-object metadata overhead
	// (Policy.MetadataSize) into occupied bytes, for downstream consumers
	// that inspect metadata after the fact.
	ConsiderObjMetadata bool

	// UpdateObjSize tracks size changes on re-accesses of a resident
	// identity. When false the size is frozen at first insertion.
	UpdateObjSize bool

	// OnEvict is called for every eviction and explicit removal.
	// Keep callbacks lightweight; they run inside request processing.
	OnEvict func(id uint64, reason EvictReason)

	Metrics Metrics
}
