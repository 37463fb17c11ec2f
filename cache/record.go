package cache

// record is the metadata for one cached object. Records are owned exclusively
// by the store: created on admit, destroyed on detach, never duplicated.
// Policies see them as borrowed policy.Object references for the duration of
// a single call.
type record struct {
	id   uint64
	size int64

	// slot is the record's position in the index's live slice, maintained by
	// the index on insert and swap-delete. It is what makes uniform O(1)
	// sampling possible.
	slot int

	// meta is the policy-owned payload (e.g. WATT's access ring).
	// The store carries it but never inspects it.
	meta any
}

// ID returns the object identity (part of policy.Object).
func (r *record) ID() uint64 { return r.id }

// Size returns the logical byte size (part of policy.Object).
func (r *record) Size() int64 { return r.size }

// Meta returns the policy metadata payload (part of policy.Object).
func (r *record) Meta() any { return r.meta }

// SetMeta stores the policy metadata payload (part of policy.Object).
func (r *record) SetMeta(m any) { r.meta = m }
