// Package branch tracks the control-flow regions that are being emitted into.
//
// Regions form a tree: the function entry is the root, every conditional arm
// and every loop body is a child of the region that was current when it was
// entered. The regions on the path from the root to the current region are
// open; they dominate the current emission point. Everything else is closed.
package branch

import "qir/internal/ice"

// ID identifies a region. IDs are never reused within a Tree.
type ID int32

// Root is the root region of a new tree.
const Root ID = 0

// Kind classifies a region.
type Kind uint8

const (
	KindRoot Kind = iota
	KindConditional
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindConditional:
		return "conditional"
	case KindLoop:
		return "loop"
	default:
		return "unknown"
	}
}

type node struct {
	parent ID
	kind   Kind
	depth  int
	open   bool
}

// Tree is the scaffold of regions of the functions emitted into one module.
// Each function gets its own root; roots of earlier functions stay closed.
type Tree struct {
	nodes []node
	stack []ID
	loops []ID // open loop regions, innermost last
}

// NewTree returns a tree holding only the open root region.
func NewTree() *Tree {
	return &Tree{
		nodes: []node{{parent: Root, kind: KindRoot, open: true}},
		stack: []ID{Root},
	}
}

// Restart closes every open region, including the current root, and opens
// a fresh root for the next function.
func (t *Tree) Restart() ID {
	for _, id := range t.stack {
		t.nodes[id].open = false
	}
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: id, kind: KindRoot, open: true})
	t.stack = append(t.stack[:0], id)
	t.loops = t.loops[:0]
	return id
}

// FunctionRoot returns the root region of the current function.
func (t *Tree) FunctionRoot() ID {
	return t.stack[0]
}

// Current returns the region being emitted into.
func (t *Tree) Current() ID {
	return t.stack[len(t.stack)-1]
}

// Enter opens a child region of the current one and makes it current.
func (t *Tree) Enter(kind Kind) ID {
	if kind == KindRoot {
		ice.Raise(ice.RepresentationMismatch, "cannot enter a second root region")
	}
	parent := t.Current()
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		parent: parent,
		kind:   kind,
		depth:  t.nodes[parent].depth + 1,
		open:   true,
	})
	t.stack = append(t.stack, id)
	if kind == KindLoop {
		t.loops = append(t.loops, id)
	}
	return id
}

// Exit closes the current region and returns to its parent.
func (t *Tree) Exit() ID {
	if len(t.stack) == 1 {
		ice.Raise(ice.RepresentationMismatch, "cannot exit the root region")
	}
	id := t.Current()
	t.stack = t.stack[:len(t.stack)-1]
	t.nodes[id].open = false
	if t.nodes[id].kind == KindLoop {
		t.loops = t.loops[:len(t.loops)-1]
	}
	return t.Current()
}

// Depth returns the number of open regions below the root.
func (t *Tree) Depth() int {
	return len(t.stack) - 1
}

// KindOf returns the kind of region id.
func (t *Tree) KindOf(id ID) Kind {
	if !t.valid(id) {
		return KindRoot
	}
	return t.nodes[id].kind
}

// IsOpen reports whether id is on the path from the root to the current region.
func (t *Tree) IsOpen(id ID) bool {
	return t.valid(id) && t.nodes[id].open
}

// IsAncestor reports whether anc is cur or one of its ancestors.
func (t *Tree) IsAncestor(anc, cur ID) bool {
	if !t.valid(anc) || !t.valid(cur) {
		return false
	}
	for t.nodes[cur].depth > t.nodes[anc].depth {
		cur = t.nodes[cur].parent
	}
	return cur == anc
}

// WithinLoop reports whether any open region is a loop body.
func (t *Tree) WithinLoop() bool {
	return len(t.loops) > 0
}

// CurrentLoopScope returns the innermost open loop region.
func (t *Tree) CurrentLoopScope() (ID, bool) {
	if len(t.loops) == 0 {
		return Root, false
	}
	return t.loops[len(t.loops)-1], true
}

// WithinCurrentLoop reports whether id is an open region inside the innermost
// open loop body. A region outside that loop may be re-entered with different
// memory contents on every iteration.
func (t *Tree) WithinCurrentLoop(id ID) bool {
	loop, ok := t.CurrentLoopScope()
	if !ok {
		return false
	}
	return t.IsOpen(id) && t.IsAncestor(loop, id)
}

func (t *Tree) valid(id ID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
