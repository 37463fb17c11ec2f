package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/cachesim/policy/lru"
	"github.com/IvanBrykalov/cachesim/policy/watt"
)

// countMetrics counts Metrics signals for assertions.
type countMetrics struct {
	hits, misses, rejects int
	evicts                map[EvictReason]int
	objects               int
	bytes                 int64
}

func newCountMetrics() *countMetrics {
	return &countMetrics{evicts: make(map[EvictReason]int)}
}

func (m *countMetrics) Hit()                { m.hits++ }
func (m *countMetrics) Miss()               { m.misses++ }
func (m *countMetrics) Reject()             { m.rejects++ }
func (m *countMetrics) Evict(r EvictReason) { m.evicts[r]++ }
func (m *countMetrics) Size(objects int, bytes int64) {
	m.objects, m.bytes = objects, bytes
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { New(Options{}) })
}

// Filling a 100-byte cache with ten 10-byte objects is exact; the eleventh
// object triggers exactly one eviction before insertion.
func TestCache_EndToEndScenario(t *testing.T) {
	t.Parallel()

	c := New(Options{
		Capacity: 100,
		Policy:   watt.New(watt.Params{}),
		Seed:     1,
	})

	for id := uint64(1); id <= 10; id++ {
		out := c.Get(Request{ID: id, Size: 10})
		require.False(t, out.Hit, "id %d must miss", id)
		require.True(t, out.Admitted)
		require.Empty(t, out.Evicted)
	}
	require.Equal(t, 10, c.Len())
	require.Equal(t, int64(100), c.OccupiedBytes())

	out := c.Get(Request{ID: 11, Size: 10})
	require.False(t, out.Hit)
	require.True(t, out.Admitted)
	require.Len(t, out.Evicted, 1, "exactly one eviction must make room")
	require.Equal(t, 10, c.Len())
	require.Equal(t, int64(100), c.OccupiedBytes())
	require.True(t, c.Contains(11))
	require.False(t, c.Contains(out.Evicted[0]))
}

func TestCache_ExplicitRemove(t *testing.T) {
	t.Parallel()

	c := New(Options{
		Capacity: 100,
		Policy:   watt.New(watt.Params{}),
		Seed:     1,
	})
	for id := uint64(1); id <= 10; id++ {
		c.Get(Request{ID: id, Size: 10})
	}

	require.True(t, c.Remove(5))
	require.Equal(t, 9, c.Len())
	require.Equal(t, int64(90), c.OccupiedBytes())
	require.False(t, c.Remove(5), "second remove of the same identity")
	require.False(t, c.Remove(999), "remove of a never-seen identity")
}

// Accounting invariant: occupied bytes always equal the sum of live sizes,
// and Len the number of live identities, across admits, evictions and
// removals. A shadow map tracks liveness via Outcome and OnEvict.
func TestCache_AccountingInvariant(t *testing.T) {
	t.Parallel()

	shadow := make(map[uint64]int64)
	c := New(Options{
		Capacity: 500,
		Policy:   lru.New(),
		OnEvict: func(id uint64, _ EvictReason) {
			delete(shadow, id)
		},
	})

	check := func() {
		t.Helper()
		var sum int64
		for _, sz := range shadow {
			sum += sz
		}
		require.Equal(t, len(shadow), c.Len())
		require.Equal(t, sum, c.OccupiedBytes())
		require.LessOrEqual(t, c.OccupiedBytes(), c.Capacity())
	}

	for i := 0; i < 300; i++ {
		id := uint64(i % 40)
		size := int64(10 + (i*7)%90)
		out := c.Get(Request{ID: id, Size: size})
		if !out.Hit && out.Admitted {
			shadow[id] = size
		}
		check()

		if i%11 == 0 {
			victim := uint64((i * 3) % 40)
			_, live := shadow[victim]
			require.Equal(t, live, c.Remove(victim))
			check()
		}
	}
}

// Objects larger than the whole cache are refused without disturbing the
// resident population.
func TestCache_RejectLargerThanCapacity(t *testing.T) {
	t.Parallel()

	c := New(Options{Capacity: 100, Policy: lru.New()})
	c.Get(Request{ID: 1, Size: 40})
	c.Get(Request{ID: 2, Size: 40})

	out := c.Get(Request{ID: 3, Size: 150})
	require.False(t, out.Hit)
	require.False(t, out.Admitted)
	require.Empty(t, out.Evicted)
	require.Equal(t, 2, c.Len())
	require.True(t, c.Contains(1))
	require.True(t, c.Contains(2))
	require.False(t, c.Contains(3))
}

// Size 0 means "unknown": the object is accounted as one byte, so capacity
// degrades to an entry count.
func TestCache_ZeroSizeAccountedAsOne(t *testing.T) {
	t.Parallel()

	c := New(Options{Capacity: 3, Policy: lru.New()})
	for id := uint64(1); id <= 3; id++ {
		out := c.Get(Request{ID: id})
		require.True(t, out.Admitted)
		require.Empty(t, out.Evicted)
	}
	require.Equal(t, 3, c.Len())
	require.Equal(t, int64(3), c.OccupiedBytes())

	out := c.Get(Request{ID: 4})
	require.Len(t, out.Evicted, 1)
	require.Equal(t, 3, c.Len())
}

func TestCache_MetadataAccounting(t *testing.T) {
	t.Parallel()

	c := New(Options{
		Capacity:            1000,
		Policy:              watt.New(watt.Params{}),
		Seed:                1,
		ConsiderObjMetadata: true,
	})
	c.Get(Request{ID: 1, Size: 10})
	// 10 bytes payload + 16 bytes WATT metadata.
	require.Equal(t, int64(26), c.OccupiedBytes())

	require.True(t, c.Remove(1))
	require.Equal(t, int64(0), c.OccupiedBytes())
}

func TestCache_UpdateObjSize(t *testing.T) {
	t.Parallel()

	t.Run("frozen by default", func(t *testing.T) {
		c := New(Options{Capacity: 1000, Policy: lru.New()})
		c.Get(Request{ID: 1, Size: 10})
		c.Get(Request{ID: 1, Size: 70})
		require.Equal(t, int64(10), c.OccupiedBytes())
	})

	t.Run("tracked when enabled", func(t *testing.T) {
		c := New(Options{Capacity: 1000, Policy: lru.New(), UpdateObjSize: true})
		c.Get(Request{ID: 1, Size: 10})
		out := c.Get(Request{ID: 1, Size: 70})
		require.True(t, out.Hit)
		require.Equal(t, int64(70), c.OccupiedBytes())
	})
}

// With LRU and byte sizes, eviction order is fully deterministic: a promoted
// object survives, the coldest goes first.
func TestCache_LRUEvictionOrder(t *testing.T) {
	t.Parallel()

	c := New(Options{Capacity: 30, Policy: lru.New()})
	c.Get(Request{ID: 1, Size: 10})
	c.Get(Request{ID: 2, Size: 10})
	c.Get(Request{ID: 3, Size: 10})

	require.True(t, c.Get(Request{ID: 1, Size: 10}).Hit) // promote 1

	out := c.Get(Request{ID: 4, Size: 10})
	require.Equal(t, []uint64{2}, out.Evicted)
	require.True(t, c.Contains(1))
	require.False(t, c.Contains(2))
}

func TestCache_MetricsSignals(t *testing.T) {
	t.Parallel()

	m := newCountMetrics()
	c := New(Options{Capacity: 20, Policy: lru.New(), Metrics: m})

	c.Get(Request{ID: 1, Size: 10})  // miss
	c.Get(Request{ID: 1, Size: 10})  // hit
	c.Get(Request{ID: 2, Size: 10})  // miss
	c.Get(Request{ID: 3, Size: 10})  // miss + evict
	c.Get(Request{ID: 4, Size: 100}) // reject (also a miss)
	require.True(t, c.Remove(3))     // explicit, not an eviction

	require.Equal(t, 1, m.hits)
	require.Equal(t, 4, m.misses)
	require.Equal(t, 1, m.rejects)
	require.Equal(t, 1, m.evicts[EvictCapacity])
	require.Equal(t, 0, m.evicts[EvictExplicit])
	require.Equal(t, 1, m.objects)
	require.Equal(t, int64(10), m.bytes)
}

func TestCache_ToEvictEmpty(t *testing.T) {
	t.Parallel()

	c := New(Options{Capacity: 100, Policy: watt.New(watt.Params{}), Seed: 1})
	_, ok := c.ToEvict()
	require.False(t, ok)
}

// VTime advances once per Get and not on Remove.
func TestCache_VTime(t *testing.T) {
	t.Parallel()

	c := New(Options{Capacity: 100, Policy: lru.New()})
	require.Equal(t, int64(0), c.VTime())
	c.Get(Request{ID: 1, Size: 10})
	c.Get(Request{ID: 1, Size: 10})
	require.Equal(t, int64(2), c.VTime())
	c.Remove(1)
	require.Equal(t, int64(2), c.VTime())
}
