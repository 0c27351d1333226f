package scenario

import (
	"qir/internal/types"
	"qir/internal/values"
)

// Lit is a scalar constant.
type Lit struct {
	typ   types.TypeID
	Int   int64
	Bool  bool
	Float float64
}

func (e *Lit) SemanticType() types.TypeID { return e.typ }

// TupleLit builds a record from its item expressions.
type TupleLit struct {
	typ   types.TypeID
	udt   types.TypeID
	Items []values.Expr
}

func (e *TupleLit) SemanticType() types.TypeID { return e.typ }

// ArrayLit builds an array from its element expressions.
type ArrayLit struct {
	elem  types.TypeID
	typ   types.TypeID
	Items []values.Expr
}

func (e *ArrayLit) SemanticType() types.TypeID { return e.typ }

// Ref refers to a value that is already lowered, such as a parameter or a
// local read.
type Ref struct {
	Value values.Value
}

func (e *Ref) SemanticType() types.TypeID { return e.Value.SemanticType() }

// Builder creates typed expressions against one interner.
type Builder struct {
	Types *types.Interner
}

func (b Builder) Int(v int64) *Lit {
	return &Lit{typ: b.Types.Builtins().Int, Int: v}
}

func (b Builder) Bool(v bool) *Lit {
	return &Lit{typ: b.Types.Builtins().Bool, Bool: v}
}

func (b Builder) Double(v float64) *Lit {
	return &Lit{typ: b.Types.Builtins().Double, Float: v}
}

// Pauli encodes I=0, X=1, Z=2, Y=3.
func (b Builder) Pauli(v int64) *Lit {
	return &Lit{typ: b.Types.Builtins().Pauli, Int: v}
}

func (b Builder) Tuple(items ...values.Expr) *TupleLit {
	return &TupleLit{typ: b.Types.RegisterTuple(itemTypes(items)), Items: items}
}

// Record builds an instance of a user-defined type.
func (b Builder) Record(udt types.TypeID, items ...values.Expr) *TupleLit {
	return &TupleLit{typ: udt, udt: udt, Items: items}
}

func (b Builder) Array(elem types.TypeID, items ...values.Expr) *ArrayLit {
	return &ArrayLit{elem: elem, typ: b.Types.Array(elem), Items: items}
}

func (b Builder) Ref(v values.Value) *Ref {
	return &Ref{Value: v}
}

func itemTypes(items []values.Expr) []types.TypeID {
	out := make([]types.TypeID, len(items))
	for i, item := range items {
		out[i] = item.SemanticType()
	}
	return out
}
