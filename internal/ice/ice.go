// Package ice reports internal compiler invariant violations.
//
// The value layer never fails because of the source program: every condition
// raised here means the lowering driver used it in a way that contradicts the
// semantic type it already established. Violations are raised with panic at
// the point of detection and turned back into an error by Guard at the
// boundary of a lowering attempt.
package ice

import (
	"errors"
	"fmt"
)

// Code identifies the kind of invariant violation.
type Code int

// Stable codes - do not change values.
const (
	IllegalMutation        Code = 1001 // ICE1001: store through a read-only storage cell
	UnresolvedDuality      Code = 1002 // ICE1002: neither record pointer is derivable
	NonConstant            Code = 1003 // ICE1003: index or length must be a compile-time constant
	RepresentationMismatch Code = 1004 // ICE1004: operation does not exist for this representation
	UnsupportedType        Code = 1005 // ICE1005: semantic type has no lowering
	ArityMismatch          Code = 1006 // ICE1006: element count differs from the declared shape
)

// String returns the code as "ICE1001" format.
func (c Code) String() string {
	return fmt.Sprintf("ICE%d", c)
}

// Error is an internal compiler invariant violation.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("internal compiler error %s: %s", e.Code, e.Message)
}

// Raise panics with an *Error built from the format arguments.
func Raise(code Code, format string, args ...any) {
	panic(&Error{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Guard runs fn and converts a raised *Error into a returned error.
// Panics of any other kind are propagated unchanged.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return fn()
}

// As reports whether err carries an invariant violation and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
