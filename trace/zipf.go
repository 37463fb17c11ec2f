package trace

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/IvanBrykalov/cachesim/cache"
	"github.com/IvanBrykalov/cachesim/internal/util"
)

// Zipf generates a deterministic synthetic workload: identities follow a
// Zipf popularity distribution over a fixed keyspace, object sizes are
// constant. Ranks are scrambled with FNV so identity order carries no
// popularity signal.
type Zipf struct {
	zipf *rand.Zipf
	left int
	size int64
	t    int64
}

// NewZipf builds a generator of n requests over a keyspace of keys
// identities. s and v parameterize the distribution (s > 1, v >= 1).
func NewZipf(keys uint64, s, v float64, size int64, n int, seed int64) (*Zipf, error) {
	if keys == 0 {
		return nil, fmt.Errorf("trace: zipf keyspace must be non-empty")
	}
	if s <= 1 || v < 1 {
		return nil, fmt.Errorf("trace: zipf requires s > 1 and v >= 1, got s=%v v=%v", s, v)
	}
	return &Zipf{
		zipf: rand.NewZipf(rand.New(rand.NewSource(seed)), s, v, keys-1),
		left: n,
		size: size,
	}, nil
}

// Read returns the next synthetic request, or io.EOF once n requests have
// been generated.
func (z *Zipf) Read() (cache.Request, error) {
	if z.left <= 0 {
		return cache.Request{}, io.EOF
	}
	z.left--
	z.t++
	return cache.Request{
		ID:   util.Fnv64a(z.zipf.Uint64()),
		Size: z.size,
		Time: z.t,
	}, nil
}

var _ Reader = (*Zipf)(nil)
