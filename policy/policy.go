// Package policy defines the contract between the replay engine's object
// store and the interchangeable eviction algorithms. A policy composes the
// store primitives (lookup, admit, detach, sample) into the five lifecycle
// operations the engine drives: Find, Insert, ToEvict, Evict, Remove.
package policy

import "errors"

// ErrDescribeRequested is returned by a policy's parameter parser when the
// parameter string contains the special key "print". The caller (normally the
// CLI) prints the effective configuration and exits with success before any
// replay starts; the key must never reach a running simulation.
var ErrDescribeRequested = errors.New("policy: configuration describe requested")

// Object is the borrowed view of one cached object a policy receives during
// a call. References are valid only for the duration of that call: keep
// identities, not Objects, and re-resolve through Store.Lookup.
type Object interface {
	ID() uint64
	Size() int64

	// Meta returns the policy-owned metadata payload set by SetMeta.
	// The store carries it but never inspects it.
	Meta() any
	SetMeta(any)
}

// Store is the view of the object population a policy manipulates.
// Occupied bytes, object count, and virtual time are maintained by the store
// around these primitives; policies never track them on their own.
//
// Calls never overlap: a replay instance is single-threaded by design.
type Store interface {
	// Lookup returns the live object with the given identity, or nil.
	Lookup(id uint64) Object

	// Admit creates and indexes the record for a new identity.
	// The identity must be absent; the engine establishes that via Find
	// before calling Insert, so a duplicate admit is a bookkeeping bug and
	// panics.
	Admit(id uint64, size int64) Object

	// Detach removes the object from the index and the bookkeeping. The
	// reference must not be used after the current call returns.
	Detach(Object)

	// Sample returns one uniformly random live object, or nil if the store
	// is empty. Draws come from the instance's seeded generator, so a replay
	// is reproducible given the same seed and request sequence.
	Sample() Object

	// Len is the number of live objects.
	Len() int

	// OccupiedBytes is the sum of live object sizes plus any accounted
	// per-object metadata overhead.
	OccupiedBytes() int64

	// VTime is the virtual time: a counter advanced once per top-level
	// request, exposed read-only as a time base for recency signals.
	VTime() int64
}

// Policy is the eviction contract. One instance serves exactly one cache
// instance; it is selected at construction time and never switched mid-run.
type Policy interface {
	// Name identifies the policy in configuration and reporting.
	Name() string

	// MetadataSize is the per-object metadata overhead in bytes, added to
	// occupied size when metadata accounting is enabled.
	MetadataSize() int64

	// Find looks up the object. With update set, a present object's policy
	// metadata records this access (the recency/frequency signal consumed by
	// eviction scoring). A miss performs no mutation.
	Find(s Store, id uint64, update bool) Object

	// Insert admits a new object and initializes its policy metadata to the
	// just-admitted state. The identity must not be resident.
	Insert(s Store, id uint64, size int64) Object

	// ToEvict returns the object the policy currently judges least valuable,
	// or nil when the store is empty. Selection is read-only: it must not
	// mutate the store or any per-object metadata.
	ToEvict(s Store) Object

	// Evict selects a victim (reusing a still-fresh ToEvict candidate where
	// the policy supports that), detaches it, and returns its identity.
	// ok is false only when the store is empty.
	Evict(s Store) (id uint64, ok bool)

	// Remove deletes an identity on external request. Unlike eviction it
	// carries no judgement about the object's value. Returns false when the
	// identity is absent.
	Remove(s Store, id uint64) bool
}

// IndexSizer is implemented by policies that want to adjust the hash-index
// sizing hint, e.g. sampling policies that deliberately undersize the index
// to keep random draws cheap.
type IndexSizer interface {
	IndexHashpower(hint int) int
}
