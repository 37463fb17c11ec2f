package watt

import (
	"fmt"
	"strconv"

	"github.com/IvanBrykalov/cachesim/internal/params"
	"github.com/IvanBrykalov/cachesim/policy"
)

// DefaultNSample is the eviction sample size used when none is configured.
const DefaultNSample = 64

// Params are the WATT-specific configuration knobs.
type Params struct {
	// NSample is the number of random draws per eviction decision.
	NSample int
}

// String renders the effective configuration in the same key=value form the
// parser accepts.
func (p Params) String() string {
	return fmt.Sprintf("n-sample=%d", p.NSample)
}

// Parse parses a flat "key=value,key=value" parameter string, e.g.
// "n-sample=64". An unknown key is a configuration error naming the key and
// the supported set. The special key "print" returns
// policy.ErrDescribeRequested together with the parameters parsed so far;
// callers print them and exit before any replay.
func Parse(s string) (Params, error) {
	p := Params{NSample: DefaultNSample}
	pairs, err := params.Split(s)
	if err != nil {
		return Params{}, fmt.Errorf("watt: %w", err)
	}
	for _, kv := range pairs {
		switch kv.Key {
		case "n-sample":
			n, err := strconv.Atoi(kv.Value)
			if err != nil {
				return Params{}, fmt.Errorf("watt: parameter n-sample: %q is not a valid number", kv.Value)
			}
			if n <= 0 {
				return Params{}, fmt.Errorf("watt: parameter n-sample must be positive, got %d", n)
			}
			p.NSample = n
		case "print":
			return p, policy.ErrDescribeRequested
		default:
			return Params{}, fmt.Errorf("watt: unknown parameter %q (supported: %s)", kv.Key, Params{NSample: DefaultNSample})
		}
	}
	return p, nil
}
