// Package values represents runtime values while IR is being emitted.
//
// A Value pairs a low-level handle with its semantic type. Scalars wrap a
// handle directly. Tuples, arrays and callables are heap objects (tuples and
// arrays may also be kept in registers) whose handles are derived lazily:
// pointer casts, loaded fields and array lengths are memoized in Cached
// cells that know in which control-flow region they were computed and are
// recomputed as soon as that region no longer dominates the emission point.
//
// Reference counting belongs to the ScopeManager. This package only notifies
// it: new heap objects are registered, values shared into a new aggregate are
// retained, and per-element constructions are bracketed by a scope.
package values
