package types

// QualifiedName names a user-defined type.
type QualifiedName struct {
	Namespace string
	Name      string
}

func (q QualifiedName) String() string {
	if q.Namespace == "" {
		return q.Name
	}
	return q.Namespace + "." + q.Name
}

// IsZero reports whether the name is unset.
func (q QualifiedName) IsZero() bool {
	return q.Namespace == "" && q.Name == ""
}

// UDTInfo stores metadata for a user-defined record type.
type UDTInfo struct {
	Name  QualifiedName
	Items []TypeID
}

// RegisterUDT declares a nominal record type. Declaring the same name twice
// returns the first TypeID and keeps its items.
func (in *Interner) RegisterUDT(name QualifiedName, items []TypeID) TypeID {
	if id, ok := in.udtByName[name]; ok {
		return id
	}
	in.udts = append(in.udts, UDTInfo{Name: name, Items: cloneTypeIDs(items)})
	slot := slotOf(len(in.udts)-1, "udt")
	id := in.internRaw(Type{Kind: KindUDT, Payload: slot})
	in.udtByName[name] = id
	return id
}

// LookupUDT finds a declared UDT by name.
func (in *Interner) LookupUDT(name QualifiedName) (TypeID, bool) {
	id, ok := in.udtByName[name]
	return id, ok
}

// UDTInfo returns the metadata of a UDT TypeID.
func (in *Interner) UDTInfo(id TypeID) (*UDTInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUDT {
		return nil, false
	}
	if int(tt.Payload) >= len(in.udts) {
		return nil, false
	}
	return &in.udts[tt.Payload], true
}
