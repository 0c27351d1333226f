package scenario

import (
	"context"
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"

	"qir/internal/gen"
	"qir/internal/ice"
	"qir/internal/layout"
	"qir/internal/scope"
	"qir/internal/trace"
	"qir/internal/values"
)

// Options configure emission.
type Options struct {
	Target layout.Target
	// Inline keeps top-level literal aggregates in registers.
	Inline bool
}

// Result is the outcome of emitting one scenario.
type Result struct {
	Scenario string
	Module   *ir.Module
	Func     *ir.Func
	Events   []scope.Event
}

// Emit builds p into a fresh module. Invariant violations raised by the
// value layer are returned as *ice.Error wrapped with the scenario name.
func Emit(ctx context.Context, p Program, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "scenario:"+p.Name, 0)
	defer span.End("")

	g := gen.New(gen.Config{Target: opts.Target, Tracer: tracer})
	mgr := scope.New(g)
	low := &Lowerer{Inline: opts.Inline}
	s := &Session{
		Context: values.NewContext(g, mgr, low),
		B:       Builder{Types: g.Types},
		Manager: mgr,
		name:    p.Name,
		lowerer: low,
	}

	var fn *ir.Func
	err := ice.Guard(func() error {
		p.Build(s)
		fn = g.Func()
		if fn == nil {
			return fmt.Errorf("scenario %s: no function was started", p.Name)
		}
		mgr.ExitFunction(nil)
		g.EndFunction(nil)
		return nil
	})
	if err != nil {
		span.WithExtra("error", err.Error())
		if _, ok := ice.As(err); ok {
			return nil, fmt.Errorf("scenario %s: %w", p.Name, err)
		}
		return nil, err
	}
	span.WithExtra("events", strconv.Itoa(len(mgr.Events())))
	return &Result{Scenario: p.Name, Module: g.Module, Func: fn, Events: mgr.Events()}, nil
}

// EmitAll emits programs concurrently, at most parallel at a time, one
// module per program. Results keep the order of programs.
func EmitAll(ctx context.Context, programs []Program, opts Options, parallel int) ([]*Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]*Result, len(programs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(parallel)
	for i, p := range programs {
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Emit(gctx, p, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
