package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the semantic types the lowering layer understands.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindDouble
	KindPauli
	KindResult
	KindQubit
	KindString
	KindRange
	KindTuple
	KindUDT
	KindArray
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindPauli:
		return "pauli"
	case KindResult:
		return "result"
	case KindQubit:
		return "qubit"
	case KindString:
		return "string"
	case KindRange:
		return "range"
	case KindTuple:
		return "tuple"
	case KindUDT:
		return "udt"
	case KindArray:
		return "array"
	case KindCallable:
		return "callable"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // array element
	Payload uint32 // slot in the tuple/udt/callable side tables
}

// IsAggregate reports whether values of the kind live behind a tuple record.
func (k Kind) IsAggregate() bool {
	return k == KindTuple || k == KindUDT
}

// IsRefCounted reports whether values of the kind are heap objects managed by
// reference counting at run time.
func (k Kind) IsRefCounted() bool {
	switch k {
	case KindTuple, KindUDT, KindArray, KindCallable, KindString, KindResult:
		return true
	default:
		return false
	}
}

// MakeArray describes an array of elem.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}
