// Package params splits the flat "key=value,key=value" parameter strings the
// eviction policies accept.
package params

import (
	"fmt"
	"strings"
)

// Pair is one key=value parameter. Keys are lowercased; values keep their
// case.
type Pair struct {
	Key   string
	Value string
}

// Split breaks a parameter string into pairs. Pairs are separated by commas,
// key and value by '='; spaces after a comma are skipped. A key without '='
// yields an empty value (valueless keys such as "print"). An empty input
// yields no pairs.
func Split(s string) ([]Pair, error) {
	var out []Pair
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimLeft(part, " ")
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("params: empty key in %q", s)
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	return out, nil
}
