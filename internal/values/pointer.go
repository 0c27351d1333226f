package values

import (
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/trace"
	"qir/internal/types"
)

// Pointer is a storage cell holding exactly one value. It is backed either
// by a memory address or by a load/store pair addressing a slot of a larger
// in-register aggregate. Loads go through a cache so a value written or read
// once is not reloaded while its region still dominates the read.
type Pointer struct {
	ctx      *Context
	typ      types.TypeID
	llvmType irtypes.Type
	address  value.Value // nil when custom load/store functions are used
	cached   *Cached[Value]
}

// NewPointer returns a cell reading and writing through address. A nil
// address allocates a new stack slot at the cursor.
func NewPointer(c *Context, address value.Value, typ types.TypeID, llvmType irtypes.Type) *Pointer {
	p := &Pointer{ctx: c, typ: typ, llvmType: llvmType}
	if address == nil {
		address = c.Block().NewAlloca(llvmType)
	}
	p.address = address
	p.cached = NewCached(c, p.reload, p.write)
	return p
}

// NewAccessor returns a cell backed by load and store. A nil store makes the
// cell read-only; storing through it is an invariant violation.
func NewAccessor(c *Context, typ types.TypeID, llvmType irtypes.Type, load func() Value, store func(Value)) *Pointer {
	p := &Pointer{ctx: c, typ: typ, llvmType: llvmType}
	p.cached = NewCached(c, load, store)
	return p
}

// NewMutable allocates a mutable variable initialized to v.
func NewMutable(c *Context, v Value) *Pointer {
	p := NewPointer(c, nil, v.SemanticType(), v.LLVMType())
	p.StoreValue(v)
	return p
}

func (p *Pointer) reload() Value {
	p.ctx.Trace(trace.ScopeValue, "cache.reload", types.Label(p.ctx.Types, p.typ))
	loaded := p.ctx.Block().NewLoad(p.llvmType, p.address)
	return p.ctx.From(loaded, p.typ)
}

func (p *Pointer) write(v Value) {
	p.ctx.Block().NewStore(v.Handle(), p.address)
}

// LoadValue returns the current value.
func (p *Pointer) LoadValue() Value {
	return p.cached.Load()
}

// StoreValue overwrites the current value.
func (p *Pointer) StoreValue(v Value) {
	p.cached.Store(v)
}

// Address returns the backing address, or nil for accessor cells.
func (p *Pointer) Address() value.Value {
	return p.address
}

// SemanticType returns the type of the stored value.
func (p *Pointer) SemanticType() types.TypeID {
	return p.typ
}

// LLVMType returns the IR type of the stored value.
func (p *Pointer) LLVMType() irtypes.Type {
	return p.llvmType
}

// RegisterName names the backing address.
func (p *Pointer) RegisterName(name string) {
	if p.address != nil {
		p.ctx.NameValue(p.address, name)
	}
}
