// Package scenario is a small lowering driver over the value layer. It owns
// a registry of named sample programs, each building one function, and
// emits them into IR modules.
package scenario

import (
	"strings"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/scope"
	"qir/internal/types"
	"qir/internal/values"
)

// Param declares a function parameter of a scenario.
type Param struct {
	Name string
	Type types.TypeID
}

// Session is the state a program builds against.
type Session struct {
	*values.Context
	B       Builder
	Manager *scope.Manager

	name    string
	lowerer *Lowerer
}

// Begin starts the scenario function and returns its parameters as values.
func (s *Session) Begin(params ...Param) []values.Value {
	irParams := make([]*ir.Param, len(params))
	for i, p := range params {
		irParams[i] = ir.NewParam(p.Name, s.LLVMType(p.Type, false))
	}
	s.BeginFunction(FunctionName(s.name), irtypes.Void, irParams...)
	out := make([]values.Value, len(params))
	for i, p := range params {
		out[i] = s.From(irParams[i], p.Type)
	}
	return out
}

// Lower lowers a top-level expression.
func (s *Session) Lower(e values.Expr) values.Value {
	return s.lowerer.Lower(s.Context, e)
}

// Integer wraps an i64 handle as an Int value.
func (s *Session) Integer(h value.Value) *values.Scalar {
	return values.NewScalar(s.Context, h, s.Types.Builtins().Int)
}

// FunctionName is the IR name of the function a scenario emits.
func FunctionName(scenario string) string {
	return "Scenario__" + strings.ReplaceAll(scenario, "-", "_")
}
