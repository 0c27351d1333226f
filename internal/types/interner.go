package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	Double  TypeID
	Pauli   TypeID
	Result  TypeID
	Qubit   TypeID
	String  TypeID
	Range   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Tuples and callables are deduplicated structurally, UDTs by name.
type Interner struct {
	types     []Type
	index     map[typeKey]TypeID
	builtins  Builtins
	tuples    []TupleInfo
	udts      []UDTInfo
	udtByName map[QualifiedName]TypeID
	callables []CallableInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:     make(map[typeKey]TypeID, 64),
		udtByName: make(map[QualifiedName]TypeID, 8),
	}
	// slot 0 of every side table is reserved as invalid
	in.tuples = append(in.tuples, TupleInfo{})
	in.udts = append(in.udts, UDTInfo{})
	in.callables = append(in.callables, CallableInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Double = in.Intern(Type{Kind: KindDouble})
	in.builtins.Pauli = in.Intern(Type{Kind: KindPauli})
	in.builtins.Result = in.Intern(Type{Kind: KindResult})
	in.builtins.Qubit = in.Intern(Type{Kind: KindQubit})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Range = in.Intern(Type{Kind: KindRange})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// Array returns the TypeID of an array of elem.
func (in *Interner) Array(elem TypeID) TypeID {
	return in.Intern(MakeArray(elem))
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of id, or KindInvalid when id is unknown.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Payload uint32
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s info overflow: %w", what, err))
	}
	return slot
}
