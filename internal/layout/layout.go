package layout

import (
	irtypes "github.com/llir/llvm/ir/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
}

// LayoutEngine computes memory layout for low-level IR types.
type LayoutEngine struct {
	Target Target

	cache map[irtypes.Type]cacheEntry
}

type cacheEntry struct {
	Layout TypeLayout
	Err    error
}

// New creates a new LayoutEngine for the specified target.
func New(target Target) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		cache:  make(map[irtypes.Type]cacheEntry, 64),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t irtypes.Type) (TypeLayout, error) {
	if e == nil || t == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = make(map[irtypes.Type]cacheEntry, 64)
	}
	if cached, ok := e.cache[t]; ok {
		return cached.Layout, cached.Err
	}
	l, err := e.computeLayout(t)
	e.cache[t] = cacheEntry{Layout: l, Err: err}
	return l, err
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t irtypes.Type) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t irtypes.Type) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// FieldOffset returns the byte offset of a struct field.
func (e *LayoutEngine) FieldOffset(structT irtypes.Type, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, nil
	}
	return l.FieldOffsets[fieldIdx], nil
}
