package values

import (
	"testing"

	irtypes "github.com/llir/llvm/ir/types"

	"qir/internal/branch"
	"qir/internal/ice"
)

func TestCachedReusedInDominatedRegion(t *testing.T) {
	c, _, _ := newTestContext(t)
	loads := 0
	cell := NewCached(c, func() int { loads++; return loads }, nil).Seed(42)

	c.EnterBranch(branch.KindConditional)
	if got := cell.Load(); got != 42 || loads != 0 {
		t.Fatalf("Load in nested region = %d after %d loads, want cached 42", got, loads)
	}
	c.ExitBranch()
}

func TestCachedReloadsAfterRegionCloses(t *testing.T) {
	c, _, _ := newTestContext(t)
	loads := 0
	cell := NewCached(c, func() int { loads++; return loads }, nil)

	c.EnterBranch(branch.KindConditional)
	cell.Load()
	cell.Load()
	c.ExitBranch()
	if loads != 1 {
		t.Fatalf("loads inside region = %d, want 1", loads)
	}
	if cell.IsCached() {
		t.Fatalf("payload from a closed region must not be valid")
	}

	c.EnterBranch(branch.KindConditional)
	cell.Load()
	c.ExitBranch()
	if loads != 2 {
		t.Fatalf("sibling region loads = %d, want 2", loads)
	}
}

func TestMutableCacheInsideLoop(t *testing.T) {
	c, _, _ := newTestContext(t)
	mutable := NewCached(c, func() int { return 0 }, func(int) {}).Seed(1)
	readOnly := NewCached(c, func() int { return 0 }, nil).Seed(1)

	c.EnterBranch(branch.KindLoop)
	if mutable.IsCached() {
		t.Fatalf("mutable payload from outside the loop must be reloaded")
	}
	if !readOnly.IsCached() {
		t.Fatalf("read-only payload from outside the loop stays valid")
	}

	mutable.Store(2)
	if !mutable.IsCached() {
		t.Fatalf("payload stored in the loop body is valid there")
	}

	c.EnterBranch(branch.KindLoop)
	if mutable.IsCached() {
		t.Fatalf("outer loop payload must be reloaded in a nested loop")
	}
	c.ExitBranch()
	c.ExitBranch()
}

func TestStoreIsNeverElided(t *testing.T) {
	c, _, _ := newTestContext(t)
	stores := 0
	cell := NewCached(c, func() int { return 0 }, func(int) { stores++ })
	cell.Store(7)
	cell.Store(7)
	if stores != 2 {
		t.Fatalf("stores = %d, want 2", stores)
	}
	if got := cell.Load(); got != 7 {
		t.Fatalf("Load after Store = %d, want 7", got)
	}
}

func TestStoreWithoutStoreFunction(t *testing.T) {
	c, _, _ := newTestContext(t)
	cell := NewCached(c, func() int { return 0 }, nil)
	expectICE(t, ice.IllegalMutation, func() { cell.Store(1) })
}

func TestCachedNotSharedAcrossFunctions(t *testing.T) {
	c, _, _ := newTestContext(t)
	loads := 0
	cell := NewCached(c, func() int { loads++; return 7 }, nil).Seed(1)

	c.EndFunction(nil)
	c.BeginFunction("next", irtypes.Void)
	if cell.IsCached() {
		t.Fatalf("payload from the previous function must not be valid")
	}
	if got := cell.Load(); got != 7 || loads != 1 {
		t.Fatalf("Load = %d after %d loads, want a fresh load", got, loads)
	}
}
