// Package cache implements a cache-replay simulator: it replays a stream of
// access requests (identity, size) against a pluggable eviction policy and
// reports hit/miss outcomes without ever storing object payloads.
//
// # Design
//
//   - Storage: an object store owns per-object metadata records and the
//     shared bookkeeping (occupied bytes, object count, virtual time). A hash
//     index resolves identity to record in O(1) and supports uniform random
//     sampling over live records via a dense slice with swap-delete.
//
//   - Policies: eviction is pluggable via the policy package. The engine
//     drives the policy through a uniform lifecycle — Find, Insert, ToEvict,
//     Evict, Remove — and maintains all capacity accounting on the policy's
//     behalf. LRU is the default; WATT (a sampling-based recency/frequency
//     hybrid) is provided in policy/watt.
//
//   - Virtual time: a per-instance counter advanced once per request is the
//     time base for recency signals; there is no wall-clock dependency inside
//     the engine.
//
//   - Capacity: the store never enforces capacity. The engine's miss path
//     evicts until the incoming object fits, and refuses objects larger than
//     the whole cache.
//
//   - Determinism: sampling randomness comes from a seedable per-instance
//     generator; a replay is reproducible given the same seed and request
//     sequence.
//
// # Concurrency
//
// A Cache instance is not safe for concurrent use: replay is synchronous and
// single-threaded, one request at a time. Independent instances (several
// policies or capacities over the same trace) share no state and may run in
// parallel.
//
// # Basic usage
//
//	c := cache.New(cache.Options{
//	    Capacity: 1 << 30,
//	    Policy:   watt.New(watt.Params{NSample: 64}),
//	    Seed:     1,
//	})
//	for _, req := range requests {
//	    out := c.Get(req)
//	    _ = out.Hit
//	}
package cache
