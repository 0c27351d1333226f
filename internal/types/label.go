package types

import "strings"

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindDouble:
		return "Double"
	case KindPauli:
		return "Pauli"
	case KindResult:
		return "Result"
	case KindQubit:
		return "Qubit"
	case KindString:
		return "String"
	case KindRange:
		return "Range"
	case KindArray:
		return labelDepth(typesIn, tt.Elem, depth+1) + "[]"
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok || info == nil {
			return "(?)"
		}
		return "(" + joinLabels(typesIn, info.Elems, depth) + ")"
	case KindUDT:
		info, ok := typesIn.UDTInfo(id)
		if !ok || info == nil {
			return "?"
		}
		return info.Name.String()
	case KindCallable:
		info, ok := typesIn.CallableInfo(id)
		if !ok || info == nil {
			return "(? -> ?)"
		}
		var sb strings.Builder
		sb.WriteString("(")
		sb.WriteString(labelDepth(typesIn, info.Arg, depth+1))
		sb.WriteString(" -> ")
		sb.WriteString(labelDepth(typesIn, info.Result, depth+1))
		sb.WriteString(")")
		switch {
		case info.Functors&FunctorAdjoint != 0 && info.Functors&FunctorControlled != 0:
			sb.WriteString(" is Adj + Ctl")
		case info.Functors&FunctorAdjoint != 0:
			sb.WriteString(" is Adj")
		case info.Functors&FunctorControlled != 0:
			sb.WriteString(" is Ctl")
		}
		return sb.String()
	default:
		return "?"
	}
}

func joinLabels(typesIn *Interner, ids []TypeID, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = labelDepth(typesIn, id, depth+1)
	}
	return strings.Join(parts, ", ")
}
