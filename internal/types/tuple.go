package types

import "slices"

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterTuple creates or finds an existing tuple type with the given elements.
// The empty tuple is Unit.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
			continue
		}
		if slices.Equal(in.tuples[tt.Payload].Elems, elems) {
			return id
		}
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: cloneTypeIDs(elems)})
	slot := slotOf(len(in.tuples)-1, "tuple")
	return in.internRaw(Type{Kind: KindTuple, Payload: slot})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	if int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// Items returns the record items of a tuple or UDT, nil for any other kind.
func (in *Interner) Items(id TypeID) []TypeID {
	switch in.KindOf(id) {
	case KindTuple:
		if info, ok := in.TupleInfo(id); ok {
			return cloneTypeIDs(info.Elems)
		}
	case KindUDT:
		if info, ok := in.UDTInfo(id); ok {
			return cloneTypeIDs(info.Items)
		}
	}
	return nil
}
