package layout

import "fmt"

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrOpaque indicates a struct whose body is not known.
	LayoutErrOpaque LayoutErrorKind = iota + 1
	// LayoutErrUnsized indicates a type without storage (void, label, function).
	LayoutErrUnsized
	LayoutErrLengthConversion
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind LayoutErrorKind
	Type string // IR spelling of the offending type
	Err  error  // for LayoutErrLengthConversion
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrOpaque:
		return fmt.Sprintf("opaque type %s has no layout", e.Type)
	case LayoutErrUnsized:
		return fmt.Sprintf("type %s has no size", e.Type)
	case LayoutErrLengthConversion:
		if e.Err != nil {
			return fmt.Sprintf("array length conversion error (%s): %v", e.Type, e.Err)
		}
		return fmt.Sprintf("array length conversion error (%s)", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type %s", e.Kind, e.Type)
	}
}
