package values

import (
	"qir/internal/branch"
	"qir/internal/ice"
)

// BranchTracker answers the dominance queries a cache depends on.
type BranchTracker interface {
	CurrentBranch() branch.ID
	IsOpenBranch(id branch.ID) bool
	IsWithinLoop() bool
	IsWithinCurrentLoop(id branch.ID) bool
}

// Cached memoizes a recomputable load or cast together with the region that
// produced it.
type Cached[T any] struct {
	tracker BranchTracker
	load    func() T
	store   func(T)

	branch  branch.ID
	payload T
	present bool
}

// NewCached returns an empty cache. store may be nil for read-only values.
func NewCached[T any](tracker BranchTracker, load func() T, store func(T)) *Cached[T] {
	return &Cached[T]{
		tracker: tracker,
		load:    load,
		store:   store,
		branch:  tracker.CurrentBranch(),
	}
}

// Seed records an already computed payload at the current region.
func (c *Cached[T]) Seed(v T) *Cached[T] {
	c.payload = v
	c.present = true
	c.branch = c.tracker.CurrentBranch()
	return c
}

// IsCached reports whether Load can return the payload without recomputing.
// The producing region must dominate the emission point, and a mutable
// payload produced outside the innermost open loop is stale because the
// loop body may have overwritten it on an earlier iteration.
func (c *Cached[T]) IsCached() bool {
	if !c.present || !c.tracker.IsOpenBranch(c.branch) {
		return false
	}
	return c.store == nil || !c.tracker.IsWithinLoop() || c.tracker.IsWithinCurrentLoop(c.branch)
}

// Load returns the payload, recomputing it when it is not valid here.
func (c *Cached[T]) Load() T {
	if !c.IsCached() {
		c.payload = c.load()
		c.present = true
		c.branch = c.tracker.CurrentBranch()
	}
	return c.payload
}

// Store writes v through the store function and caches it. Stores are never
// elided.
func (c *Cached[T]) Store(v T) {
	if c.store == nil {
		ice.Raise(ice.IllegalMutation, "no storage function defined")
	}
	c.store(v)
	c.payload = v
	c.present = true
	c.branch = c.tracker.CurrentBranch()
}

// Peek returns the last payload regardless of validity.
func (c *Cached[T]) Peek() (T, bool) {
	return c.payload, c.present
}

// Mutable reports whether the cache has a store function.
func (c *Cached[T]) Mutable() bool {
	return c.store != nil
}
