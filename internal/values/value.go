package values

import (
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/types"
)

// Value is a runtime value under construction. The set of implementations is
// closed: *Scalar, *Tuple, *Array and *Callable.
type Value interface {
	// Handle returns the IR value, emitting a cast if one is needed.
	Handle() value.Value
	// LLVMType returns the IR type without emitting anything.
	LLVMType() irtypes.Type
	// SemanticType returns the source-level type.
	SemanticType() types.TypeID
	// RegisterName names the underlying IR value if it is still unnamed.
	RegisterName(name string)

	isValue()
}

// ScopeManager owns reference counts of heap objects.
type ScopeManager interface {
	// RegisterValue takes ownership of a newly created value for eventual release.
	RegisterValue(v Value)
	// IncreaseReferenceCount records an additional owner of v.
	IncreaseReferenceCount(v Value)
	// OpenScope starts a transient construction.
	OpenScope()
	// CloseScope releases everything registered since the matching OpenScope
	// except survivor, which may be nil.
	CloseScope(survivor Value)
}

// Expr is a type-checked source sub-expression owned by the lowering driver.
type Expr interface {
	SemanticType() types.TypeID
}

// ExprLowerer lowers source sub-expressions into values.
type ExprLowerer interface {
	BuildSubitem(c *Context, e Expr) Value
}

// AllocOptions selects how an aggregate is materialized.
type AllocOptions struct {
	// Inline keeps the aggregate in registers instead of on the heap.
	Inline bool
	// Unscoped skips registration with the scope manager, for intermediates
	// whose ownership is taken by another object.
	Unscoped bool
}

// Context bundles the generation context with the collaborators values call
// into. It is passed explicitly to every constructor.
type Context struct {
	*gen.Context
	Scope ScopeManager
	Exprs ExprLowerer
}

// NewContext binds collaborators to a generation context.
func NewContext(g *gen.Context, scope ScopeManager, exprs ExprLowerer) *Context {
	return &Context{Context: g, Scope: scope, Exprs: exprs}
}

func (c *Context) buildSubitems(exprs []Expr) []Value {
	items := make([]Value, len(exprs))
	for i, e := range exprs {
		items[i] = c.Exprs.BuildSubitem(c, e)
	}
	return items
}

func semanticTypes(items []Value) []types.TypeID {
	out := make([]types.TypeID, len(items))
	for i, item := range items {
		out[i] = item.SemanticType()
	}
	return out
}
