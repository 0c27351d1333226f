package rtlib

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
)

// Types holds the named IR types the runtime ABI is expressed in.
// Runtime objects are opaque structs handled through pointers.
type Types struct {
	Tuple    *irtypes.PointerType // %Tuple*
	Array    *irtypes.PointerType // %Array*
	Callable *irtypes.PointerType // %Callable*
	Result   *irtypes.PointerType // %Result*
	Qubit    *irtypes.PointerType // %Qubit*
	String   *irtypes.PointerType // %String*
	Range    *irtypes.StructType  // %Range = { i64, i64, i64 }
	Pauli    *irtypes.IntType     // i2

	// FunctionSignature is void(%Tuple* capture, %Tuple* args, %Tuple* result).
	FunctionSignature *irtypes.FuncType
	// CallableTable is [4 x void(%Tuple*, %Tuple*, %Tuple*)*].
	CallableTable *irtypes.ArrayType
	// CaptureCountChange is void(%Tuple*, i32).
	CaptureCountChange *irtypes.FuncType
	// CallableMemoryManagementTable is [2 x void(%Tuple*, i32)*].
	CallableMemoryManagementTable *irtypes.ArrayType

	BytePtr *irtypes.PointerType // i8*
}

// NewTypes declares the runtime type definitions in m.
func NewTypes(m *ir.Module) *Types {
	opaque := func(name string) *irtypes.PointerType {
		def := m.NewTypeDef(name, &irtypes.StructType{Opaque: true})
		return irtypes.NewPointer(def)
	}
	t := &Types{
		Tuple:    opaque("Tuple"),
		Array:    opaque("Array"),
		Callable: opaque("Callable"),
		Result:   opaque("Result"),
		Qubit:    opaque("Qubit"),
		String:   opaque("String"),
		Pauli:    irtypes.NewInt(2),
		BytePtr:  irtypes.NewPointer(irtypes.I8),
	}
	rng := m.NewTypeDef("Range", irtypes.NewStruct(irtypes.I64, irtypes.I64, irtypes.I64))
	t.Range = rng.(*irtypes.StructType)
	t.FunctionSignature = irtypes.NewFunc(irtypes.Void, t.Tuple, t.Tuple, t.Tuple)
	t.CallableTable = irtypes.NewArray(4, irtypes.NewPointer(t.FunctionSignature))
	t.CaptureCountChange = irtypes.NewFunc(irtypes.Void, t.Tuple, irtypes.I32)
	t.CallableMemoryManagementTable = irtypes.NewArray(2, irtypes.NewPointer(t.CaptureCountChange))
	return t
}

// IsTuple reports whether t is the opaque tuple pointer (also used for Unit).
func (t *Types) IsTuple(typ irtypes.Type) bool {
	return typ != nil && typ.Equal(t.Tuple)
}

// IsArray reports whether t is the opaque array pointer.
func (t *Types) IsArray(typ irtypes.Type) bool {
	return typ != nil && typ.Equal(t.Array)
}

// IsTypedTuple reports whether t is a pointer to a literal struct, the typed
// view of a tuple.
func (t *Types) IsTypedTuple(typ irtypes.Type) bool {
	ptr, ok := typ.(*irtypes.PointerType)
	if !ok {
		return false
	}
	st, ok := ptr.ElemType.(*irtypes.StructType)
	return ok && !st.Opaque && st.TypeName == ""
}

// TypedTuple returns the literal struct laying out the given items.
func (t *Types) TypedTuple(items []irtypes.Type) *irtypes.StructType {
	return irtypes.NewStruct(items...)
}
