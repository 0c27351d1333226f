package scenario

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/types"
	"qir/internal/values"
)

func init() {
	register(Program{
		Name:    "record-roundtrip",
		Summary: "builds (7, true) and reads both items back",
		Build:   recordRoundTrip,
	})
	register(Program{
		Name:    "array-loop-mutation",
		Summary: "stores index*2 into a 3-element array in a loop and reads it after the loop",
		Build:   arrayLoopMutation,
	})
	register(Program{
		Name:    "callable-capture",
		Summary: "creates a callable capturing the Int 5",
		Build:   callableCapture,
	})
	register(Program{
		Name:    "conditional-mutable",
		Summary: "updates a mutable variable in both arms of a conditional",
		Build:   conditionalMutable,
	})
	register(Program{
		Name:    "inline-aggregates",
		Summary: "keeps a record and three arrays in registers, one of them holding records",
		Build:   inlineAggregates,
	})
	register(Program{
		Name:    "nested-loops",
		Summary: "accumulates i*j over two nested loops",
		Build:   nestedLoops,
	})
	register(Program{
		Name:    "generated-records",
		Summary: "fills an array of length n with (i, i*i) records",
		Build:   generatedRecords,
	})
	register(Program{
		Name:    "wrapped-parameters",
		Summary: "reads array, record and callable parameters and repackages them",
		Build:   wrappedParameters,
	})
}

func recordRoundTrip(s *Session) {
	s.Begin()
	rec := s.Lower(s.B.Tuple(s.B.Int(7), s.B.Bool(true))).(*values.Tuple)
	rec.RegisterName("record")
	rec.Field(0)
	rec.Field(1)
}

func arrayLoopMutation(s *Session) {
	s.Begin()
	b := s.Types.Builtins()
	arr := values.NewArray(s.Context, b.Int, s.Int(3), values.AllocOptions{})
	arr.RegisterName("arr")
	s.IterateRange(s.Int(0), nil, s.Int(2), func(i value.Value) {
		doubled := s.Block().NewMul(i, s.Int(2))
		arr.ElementPointer(i).StoreValue(s.Integer(doubled))
	})
	arr.Elements()
}

func callableCapture(s *Session) {
	b := s.Types.Builtins()
	typ := s.Types.RegisterCallable(b.Int, b.Unit, 0)
	body := s.DeclareSpecialization("Scenario.Apply", gen.SpecBody)
	table := s.CallableTable("Scenario.Apply", [4]*ir.Func{body})

	s.Begin()
	cl := values.NewCallable(s.Context, typ, table, []values.Expr{s.B.Int(5)})
	cl.RegisterName("closure")
}

func conditionalMutable(s *Session) {
	b := s.Types.Builtins()
	args := s.Begin(Param{Name: "flag", Type: b.Bool})

	x := values.NewMutable(s.Context, s.Integer(s.Int(1)))
	x.RegisterName("x")
	s.If(args[0].Handle(), func() {
		cur := x.LoadValue()
		x.StoreValue(s.Integer(s.Block().NewAdd(cur.Handle(), s.Int(1))))
	}, func() {
		x.StoreValue(s.Integer(s.Int(0)))
	})
	x.LoadValue()
}

func inlineAggregates(s *Session) {
	s.Begin()
	b := s.Types.Builtins()
	inline := values.AllocOptions{Inline: true}

	pair := values.NewTupleFromExprs(s.Context, types.NoTypeID,
		[]values.Expr{s.B.Int(1), s.B.Double(2.5)}, inline)
	pair.FieldPointer(0).StoreValue(s.Integer(s.Int(4)))
	pair.Field(1)

	arr := values.NewArrayFromExprs(s.Context, b.Int,
		[]values.Expr{s.B.Int(1), s.B.Int(2), s.B.Int(3)}, inline)
	arr.Element(s.Int(1))

	squares := values.NewArrayGenerated(s.Context, b.Int, s.Int(4), func(i value.Value) values.Value {
		return s.Integer(s.Block().NewMul(i, i))
	}, inline)
	squares.Elements(0, 3)

	pairType := s.Types.RegisterTuple([]types.TypeID{b.Int, b.Int})
	pairs := values.NewArrayFromExprs(s.Context, pairType, []values.Expr{
		s.B.Tuple(s.B.Int(1), s.B.Int(2)),
		s.B.Tuple(s.B.Int(3), s.B.Int(4)),
	}, inline)
	pairs.Element(s.Int(1)).(*values.Tuple).Field(0)
}

func nestedLoops(s *Session) {
	b := s.Types.Builtins()
	args := s.Begin(Param{Name: "n", Type: b.Int})

	sum := values.NewMutable(s.Context, s.Integer(s.Int(0)))
	sum.RegisterName("sum")
	s.IterateRange(s.Int(0), nil, s.Int(2), func(i value.Value) {
		s.IterateRange(s.Int(0), nil, args[0].Handle(), func(j value.Value) {
			cur := sum.LoadValue()
			prod := s.Block().NewMul(i, j)
			sum.StoreValue(s.Integer(s.Block().NewAdd(cur.Handle(), prod)))
		})
		sum.LoadValue()
	})
	sum.LoadValue()
}

func generatedRecords(s *Session) {
	b := s.Types.Builtins()
	args := s.Begin(Param{Name: "n", Type: b.Int})
	pair := s.Types.RegisterTuple([]types.TypeID{b.Int, b.Int})

	arr := values.NewArrayGenerated(s.Context, pair, args[0].Handle(), func(i value.Value) values.Value {
		square := s.Block().NewMul(i, i)
		return values.NewTupleFromValues(s.Context, types.NoTypeID,
			[]values.Value{s.Integer(i), s.Integer(square)}, values.AllocOptions{})
	}, values.AllocOptions{})
	arr.RegisterName("records")
	arr.Length()
}

func wrappedParameters(s *Session) {
	b := s.Types.Builtins()
	complexType := s.Types.RegisterUDT(types.QualifiedName{Namespace: "Scenario", Name: "Complex"},
		[]types.TypeID{b.Double, b.Double})
	opType := s.Types.RegisterCallable(b.Qubit, b.Unit, types.FunctorAdjoint|types.FunctorControlled)
	args := s.Begin(
		Param{Name: "values", Type: s.Types.Array(b.Int)},
		Param{Name: "z", Type: complexType},
		Param{Name: "op", Type: opType},
	)
	arr := args[0].(*values.Array)
	z := args[1].(*values.Tuple)

	nonEmpty := s.Block().NewICmp(enum.IPredSGT, arr.Length(), s.Int(0))
	s.If(nonEmpty, func() {
		arr.Element(s.Int(0))
		arr.Length()
	}, nil)

	z.Field(0)
	z.Field(1)
	bundle := values.NewTupleFromValues(s.Context, types.NoTypeID, []values.Value{args[0], args[1], args[2]}, values.AllocOptions{})
	bundle.RegisterName("bundle")
}
