// Package trace supplies request streams for replay: parsed text traces and
// deterministic synthetic workloads. Readers hand the engine normalized
// request records; all parsing stays outside the engine.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/IvanBrykalov/cachesim/cache"
)

// Reader yields normalized requests. Read returns io.EOF at end of trace.
type Reader interface {
	Read() (cache.Request, error)
}

// ReadAll drains a reader into memory, so one trace can feed several replay
// instances without re-parsing.
func ReadAll(r Reader) ([]cache.Request, error) {
	var out []cache.Request
	for {
		req, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
}

// CSV reads "id,size[,time]" text traces. Lines starting with '#' are
// comments.
type CSV struct {
	r    *csv.Reader
	line int
}

// NewCSV wraps an io.Reader holding a CSV trace.
func NewCSV(r io.Reader) *CSV {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &CSV{r: cr}
}

// Read returns the next request, or io.EOF at end of trace.
func (c *CSV) Read() (cache.Request, error) {
	rec, err := c.r.Read()
	if err != nil {
		return cache.Request{}, err
	}
	c.line++
	if len(rec) < 2 {
		return cache.Request{}, fmt.Errorf("trace: record %d: want id,size[,time], got %d fields", c.line, len(rec))
	}
	id, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return cache.Request{}, fmt.Errorf("trace: record %d: bad identity %q", c.line, rec[0])
	}
	size, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil || size < 0 {
		return cache.Request{}, fmt.Errorf("trace: record %d: bad size %q", c.line, rec[1])
	}
	var ts int64
	if len(rec) > 2 {
		ts, err = strconv.ParseInt(rec[2], 10, 64)
		if err != nil {
			return cache.Request{}, fmt.Errorf("trace: record %d: bad time %q", c.line, rec[2])
		}
	}
	return cache.Request{ID: id, Size: size, Time: ts}, nil
}

var _ Reader = (*CSV)(nil)
