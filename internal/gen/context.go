// Package gen holds the generation context shared by everything that emits IR
// for one module: the instruction-insertion cursor, constants, type lowering,
// runtime function resolution and branch tracking.
//
// A Context is used by a single goroutine. Independent modules may be emitted
// concurrently with one Context each.
package gen

import (
	"fmt"

	"github.com/llir/llvm/ir"

	"qir/internal/branch"
	"qir/internal/layout"
	"qir/internal/rtlib"
	"qir/internal/trace"
	"qir/internal/types"
)

// Config configures a Context.
type Config struct {
	Target layout.Target
	Types  *types.Interner
	Tracer trace.Tracer
}

// Context is the generation context of one IR module.
type Context struct {
	Module  *ir.Module
	IR      *rtlib.Types
	Runtime *rtlib.Library
	Types   *types.Interner
	Layout  *layout.LayoutEngine

	tracer trace.Tracer

	fn       *ir.Func
	block    *ir.Block
	branches *branch.Tree
	span     *trace.Span
	labels   int

	callableTables map[string]*ir.Global
	memTables      map[string]*ir.Global
}

// New creates a Context with an empty module.
func New(cfg Config) *Context {
	if cfg.Target.Triple == "" {
		cfg.Target = layout.X86_64LinuxGNU()
	}
	if cfg.Types == nil {
		cfg.Types = types.NewInterner()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	m := ir.NewModule()
	m.TargetTriple = cfg.Target.Triple
	irTypes := rtlib.NewTypes(m)
	return &Context{
		Module:         m,
		IR:             irTypes,
		Runtime:        rtlib.NewLibrary(m, irTypes),
		Types:          cfg.Types,
		Layout:         layout.New(cfg.Target),
		tracer:         cfg.Tracer,
		branches:       branch.NewTree(),
		callableTables: make(map[string]*ir.Global, 4),
		memTables:      make(map[string]*ir.Global, 4),
	}
}

// Tracer returns the tracer events are reported to.
func (c *Context) Tracer() trace.Tracer {
	return c.tracer
}

// Trace emits a point event under the current function span.
func (c *Context) Trace(scope trace.Scope, name, detail string) {
	trace.Point(c.tracer, scope, name, detail, c.span.ID())
}

// Func returns the function being emitted.
func (c *Context) Func() *ir.Func {
	return c.fn
}

// Block returns the current insertion block.
func (c *Context) Block() *ir.Block {
	if c.block == nil {
		panic(fmt.Errorf("gen: no insertion block; call BeginFunction first"))
	}
	return c.block
}

// SetBlock moves the insertion cursor to b.
func (c *Context) SetBlock(b *ir.Block) {
	c.block = b
}

// NewBlock appends a uniquely named block to the current function without
// moving the cursor.
func (c *Context) NewBlock(prefix string) *ir.Block {
	c.labels++
	return c.fn.NewBlock(fmt.Sprintf("%s__%d", prefix, c.labels))
}
