package brightness

import "time"

const (
	// IdleDelay is how long after the first staged change a burst is committed
	IdleDelay = time.Second
	// Step is the percentage added or removed per key press
	Step = 5
)

type phase int

const (
	idle phase = iota
	armed
	committing
)

// Commit is one brightness value to send.
type Commit struct {
	EntityID string
	Pct      int
}

// Coalescer turns a burst of brightness key presses into one commit per
// entity. It owns no timer; Stage and Done report when the caller should arm
// one, tagged with a generation that Fire checks. It is not safe for
// concurrent use and lives on the UI event loop.
type Coalescer struct {
	staged  map[string]int
	order   []string
	pending map[string]bool
	phase   phase
	gen     uint64
}

// New creates an idle Coalescer.
func New() *Coalescer {
	return &Coalescer{
		staged:  make(map[string]int),
		pending: make(map[string]bool),
	}
}

// Stage adds delta to the entity's staged percentage, starting from current
// when nothing is staged yet, and clamps to 0..100. When the coalescer was
// idle it becomes armed and arm is true: the caller must start an IdleDelay
// timer that calls Fire with gen. Stages while armed or committing only
// update the value.
func (c *Coalescer) Stage(entityID string, current, delta int) (next int, arm bool, gen uint64) {
	cur, ok := c.staged[entityID]
	if !ok {
		cur = current
		c.order = append(c.order, entityID)
	}
	next = clamp(cur+delta, 0, 100)
	c.staged[entityID] = next

	if c.phase == idle {
		c.phase = armed
		c.gen++
		return next, true, c.gen
	}
	return next, false, c.gen
}

// Staged returns the staged percentage for an entity.
func (c *Coalescer) Staged(entityID string) (int, bool) {
	pct, ok := c.staged[entityID]
	return pct, ok
}

// Fire snapshots and clears the staged values and enters the committing
// phase. A stale generation or an empty snapshot returns nil.
func (c *Coalescer) Fire(gen uint64) []Commit {
	if c.phase != armed || gen != c.gen {
		return nil
	}
	if len(c.order) == 0 {
		c.phase = idle
		return nil
	}

	commits := make([]Commit, 0, len(c.order))
	for _, id := range c.order {
		commits = append(commits, Commit{EntityID: id, Pct: c.staged[id]})
		c.pending[id] = true
	}
	c.staged = make(map[string]int)
	c.order = nil
	c.phase = committing
	return commits
}

// Done marks one committed entity as finished. When the last one finishes,
// the coalescer goes idle, or re-arms if more was staged in the meantime; in
// that case rearm is true and the caller starts a new timer for gen.
func (c *Coalescer) Done(entityID string) (rearm bool, gen uint64) {
	delete(c.pending, entityID)
	if c.phase != committing || len(c.pending) > 0 {
		return false, c.gen
	}
	if len(c.order) > 0 {
		c.phase = armed
		c.gen++
		return true, c.gen
	}
	c.phase = idle
	return false, c.gen
}

// Discard drops every staged value without committing. An armed timer is
// invalidated; commits already in flight still report through Done.
func (c *Coalescer) Discard() {
	c.staged = make(map[string]int)
	c.order = nil
	if c.phase == armed {
		c.phase = idle
		c.gen++
	}
}

// Forget drops the staged value for one entity, e.g. when its tile is removed.
func (c *Coalescer) Forget(entityID string) {
	if _, ok := c.staged[entityID]; !ok {
		return
	}
	delete(c.staged, entityID)
	for i, id := range c.order {
		if id == entityID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.phase == armed && len(c.order) == 0 {
		c.phase = idle
		c.gen++
	}
}

// Armed reports whether a commit timer is pending.
func (c *Coalescer) Armed() bool { return c.phase == armed }

// Committing reports whether commits are in flight.
func (c *Coalescer) Committing() bool { return c.phase == committing }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
