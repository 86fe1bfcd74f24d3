// Package idgen hands out timestamp-derived integer ids that never repeat
// within a process, even when several are requested in the same millisecond.
package idgen

import "time"

// Generator produces strictly increasing ids based on a millisecond clock.
// It is not safe for concurrent use; the habit store is single-threaded.
type Generator struct {
	now  func() time.Time
	last int64
}

// New creates a generator reading time from now. A nil now uses time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Observe records an id that already exists so later ids sort after it.
func (g *Generator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// Next returns max(now in ms, last id + 1).
func (g *Generator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
