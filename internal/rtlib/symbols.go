package rtlib

import (
	"fmt"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
)

// Symbol names a runtime support function.
type Symbol uint8

const (
	TupleCreate Symbol = iota + 1
	TupleUpdateReferenceCount
	TupleUpdateAliasCount
	ArrayCreate1d
	ArrayGetSize1d
	ArrayGetElementPtr1d
	ArrayUpdateReferenceCount
	ArrayUpdateAliasCount
	CallableCreate
	CallableUpdateReferenceCount
	CallableUpdateAliasCount
	CaptureUpdateReferenceCount
	CaptureUpdateAliasCount
	StringUpdateReferenceCount
	ResultUpdateReferenceCount
)

var symbolNames = map[Symbol]string{
	TupleCreate:                  "tuple_create",
	TupleUpdateReferenceCount:    "tuple_update_reference_count",
	TupleUpdateAliasCount:        "tuple_update_alias_count",
	ArrayCreate1d:                "array_create_1d",
	ArrayGetSize1d:               "array_get_size_1d",
	ArrayGetElementPtr1d:         "array_get_element_ptr_1d",
	ArrayUpdateReferenceCount:    "array_update_reference_count",
	ArrayUpdateAliasCount:        "array_update_alias_count",
	CallableCreate:               "callable_create",
	CallableUpdateReferenceCount: "callable_update_reference_count",
	CallableUpdateAliasCount:     "callable_update_alias_count",
	CaptureUpdateReferenceCount:  "capture_update_reference_count",
	CaptureUpdateAliasCount:      "capture_update_alias_count",
	StringUpdateReferenceCount:   "string_update_reference_count",
	ResultUpdateReferenceCount:   "result_update_reference_count",
}

// Prefix is prepended to every runtime symbol name.
const Prefix = "__quantum__rt__"

// Name returns the linkage name of the runtime function.
func (s Symbol) Name() string {
	if n, ok := symbolNames[s]; ok {
		return Prefix + n
	}
	return fmt.Sprintf("%sunknown_%d", Prefix, s)
}

func (s Symbol) String() string { return s.Name() }

type builtinDecl struct {
	ret    irtypes.Type
	params []irtypes.Type
}

func runtimeDecls(t *Types) map[Symbol]builtinDecl {
	i32, i64 := irtypes.I32, irtypes.I64
	return map[Symbol]builtinDecl{
		TupleCreate:                  {ret: t.Tuple, params: []irtypes.Type{i64}},
		TupleUpdateReferenceCount:    {ret: irtypes.Void, params: []irtypes.Type{t.Tuple, i32}},
		TupleUpdateAliasCount:        {ret: irtypes.Void, params: []irtypes.Type{t.Tuple, i32}},
		ArrayCreate1d:                {ret: t.Array, params: []irtypes.Type{i32, i64}},
		ArrayGetSize1d:               {ret: i64, params: []irtypes.Type{t.Array}},
		ArrayGetElementPtr1d:         {ret: t.BytePtr, params: []irtypes.Type{t.Array, i64}},
		ArrayUpdateReferenceCount:    {ret: irtypes.Void, params: []irtypes.Type{t.Array, i32}},
		ArrayUpdateAliasCount:        {ret: irtypes.Void, params: []irtypes.Type{t.Array, i32}},
		CallableCreate:               {ret: t.Callable, params: []irtypes.Type{irtypes.NewPointer(t.CallableTable), irtypes.NewPointer(t.CallableMemoryManagementTable), t.Tuple}},
		CallableUpdateReferenceCount: {ret: irtypes.Void, params: []irtypes.Type{t.Callable, i32}},
		CallableUpdateAliasCount:     {ret: irtypes.Void, params: []irtypes.Type{t.Callable, i32}},
		CaptureUpdateReferenceCount:  {ret: irtypes.Void, params: []irtypes.Type{t.Callable, i32}},
		CaptureUpdateAliasCount:      {ret: irtypes.Void, params: []irtypes.Type{t.Callable, i32}},
		StringUpdateReferenceCount:   {ret: irtypes.Void, params: []irtypes.Type{t.String, i32}},
		ResultUpdateReferenceCount:   {ret: irtypes.Void, params: []irtypes.Type{t.Result, i32}},
	}
}

// Library declares runtime functions into a module on first use.
type Library struct {
	mod   *ir.Module
	types *Types
	decls map[Symbol]builtinDecl
	funcs map[Symbol]*ir.Func
}

// NewLibrary binds a runtime library to m.
func NewLibrary(m *ir.Module, t *Types) *Library {
	return &Library{
		mod:   m,
		types: t,
		decls: runtimeDecls(t),
		funcs: make(map[Symbol]*ir.Func, len(symbolNames)),
	}
}

// Get returns the declaration of sym, declaring it on first use.
func (l *Library) Get(sym Symbol) (*ir.Func, error) {
	if f, ok := l.funcs[sym]; ok {
		return f, nil
	}
	decl, ok := l.decls[sym]
	if !ok {
		return nil, fmt.Errorf("unknown runtime symbol %d", sym)
	}
	params := make([]*ir.Param, len(decl.params))
	for i, p := range decl.params {
		params[i] = ir.NewParam("", p)
	}
	f := l.mod.NewFunc(sym.Name(), decl.ret, params...)
	l.funcs[sym] = f
	return f, nil
}

// Declared reports whether sym has been declared in the module.
func (l *Library) Declared(sym Symbol) bool {
	_, ok := l.funcs[sym]
	return ok
}

// Lookup maps a declared function back to its symbol.
func (l *Library) Lookup(f *ir.Func) (Symbol, bool) {
	for sym, decl := range l.funcs {
		if decl == f {
			return sym, true
		}
	}
	return 0, false
}
