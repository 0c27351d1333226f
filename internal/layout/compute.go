package layout

import (
	"fortio.org/safecast"
	irtypes "github.com/llir/llvm/ir/types"
)

func (e *LayoutEngine) computeLayout(t irtypes.Type) (TypeLayout, error) {
	switch tt := t.(type) {
	case *irtypes.IntType:
		bytes := int((tt.BitSize + 7) / 8)
		return scalarLayoutBytes(nextPow2(bytes)), nil

	case *irtypes.FloatType:
		switch tt.Kind {
		case irtypes.FloatKindHalf:
			return scalarLayoutBytes(2), nil
		case irtypes.FloatKindFloat:
			return scalarLayoutBytes(4), nil
		case irtypes.FloatKindDouble:
			return scalarLayoutBytes(8), nil
		default:
			return scalarLayoutBytes(16), nil
		}

	case *irtypes.PointerType:
		return e.ptrLayout(), nil

	case *irtypes.ArrayType:
		return e.arrayLayout(tt)

	case *irtypes.StructType:
		if tt.Opaque {
			return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrOpaque, Type: tt.String()}
		}
		return e.structLayout(tt)

	default:
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrUnsized, Type: t.String()}
	}
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func (e *LayoutEngine) arrayLayout(t *irtypes.ArrayType) (TypeLayout, error) {
	elem, err := e.LayoutOf(t.ElemType)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	n, convErr := safecast.Conv[int](t.Len)
	if convErr != nil {
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{Kind: LayoutErrLengthConversion, Type: t.String(), Err: convErr}
	}
	align := max(elem.Align, 1)
	return TypeLayout{
		Size:  roundUp(elem.Size, align) * n,
		Align: align,
	}, nil
}

func (e *LayoutEngine) structLayout(t *irtypes.StructType) (TypeLayout, error) {
	offsets := make([]int, len(t.Fields))
	size := 0
	align := 1
	for i, field := range t.Fields {
		fl, err := e.LayoutOf(field)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		fAlign := max(fl.Align, 1)
		if t.Packed {
			fAlign = 1
		}
		size = roundUp(size, fAlign)
		offsets[i] = size
		size += fl.Size
		align = max(align, fAlign)
	}
	size = roundUp(size, align)
	return TypeLayout{
		Size:         size,
		Align:        align,
		FieldOffsets: offsets,
	}, nil
}
