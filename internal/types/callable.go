package types

// Functors lists the specializations a callable supports besides its body.
type Functors uint8

const (
	FunctorAdjoint Functors = 1 << iota
	FunctorControlled
)

// CallableInfo stores the signature of a callable type.
type CallableInfo struct {
	Arg      TypeID
	Result   TypeID
	Functors Functors
}

// RegisterCallable creates or finds a callable type.
func (in *Interner) RegisterCallable(arg, result TypeID, functors Functors) TypeID {
	want := CallableInfo{Arg: arg, Result: result, Functors: functors}
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindCallable || int(tt.Payload) >= len(in.callables) {
			continue
		}
		if in.callables[tt.Payload] == want {
			return id
		}
	}
	in.callables = append(in.callables, want)
	slot := slotOf(len(in.callables)-1, "callable")
	return in.internRaw(Type{Kind: KindCallable, Payload: slot})
}

// CallableInfo retrieves callable signature metadata by TypeID.
func (in *Interner) CallableInfo(id TypeID) (*CallableInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindCallable {
		return nil, false
	}
	if int(tt.Payload) >= len(in.callables) {
		return nil, false
	}
	return &in.callables[tt.Payload], true
}
