package fe

import "os"

// gcStackSize is the compile-time capacity of the explicit GC root stack.
const gcStackSize = 256

// ErrorHook is invoked once, synchronously, at the point an interpreter
// error is raised, with a snapshot of the call list active at that point.
// It may panic (or call runtime.Goexit) to unwind further up the host's
// call stack than the error's own return value would otherwise reach —
// the Go rendition of a C longjmp past the interpreter.
type ErrorHook func(ctx *Context, msg string, callList *Cell)

// MarkHook is invoked by the tracer for every reachable Ptr cell. It
// should call Context.Mark on any interior references the embedder's
// opaque value holds.
type MarkHook func(ctx *Context, ptrCell *Cell)

// GCHook is invoked once, just before an unreachable Ptr cell is freed.
type GCHook func(ctx *Context, ptrCell *Cell)

// Handlers groups the three hooks an embedder may register.
type Handlers struct {
	Error ErrorHook
	Mark  MarkHook
	Gc    GCHook
}

// Context is one interpreter instance: a fixed-capacity cell pool, its
// freelist, the GC root stack, the symbol table, the call list, and the
// registered embedder hooks. A Context is not safe for concurrent use;
// distinct Contexts over distinct pools are fully independent.
type Context struct {
	cells []Cell
	free  *Cell

	gcStack []*Cell
	gcIdx   int

	symbols  *Cell
	callList *Cell
	nilCell  *Cell
	tSymbol  *Cell

	nextChr byte

	handlers Handlers

	// Stdout is where the `print` primitive writes. Defaults to os.Stdout;
	// an embedder may redirect it.
	Stdout interface {
		Write([]byte) (int, error)
	}
}

// Open allocates a single contiguous pool of `capacity` cells and
// initializes a fresh interpreter context: the freelist, the nil
// sentinel, the `t` symbol, and every built-in primitive.
// This is the interpreter's only heap allocation of pool storage; it
// never grows afterward.
func Open(capacity int) (*Context, error) {
	ctx := &Context{
		cells:   make([]Cell, capacity),
		gcStack: make([]*Cell, gcStackSize),
		Stdout:  os.Stdout,
	}

	ctx.nilCell = &Cell{kind: KindNil}
	ctx.symbols = ctx.nilCell
	ctx.callList = ctx.nilCell

	for i := range ctx.cells {
		c := &ctx.cells[i]
		c.kind = KindFree
		c.cdr = ctx.free
		ctx.free = c
	}

	for i := primIndex(0); i < primCount; i++ {
		sym, err := ctx.Symbol(primNames[i])
		if err != nil {
			return nil, err
		}
		p, err := ctx.alloc()
		if err != nil {
			return nil, err
		}
		p.kind = KindPrim
		p.prim = i
		ctx.Set(sym, p)
	}

	t, err := ctx.Symbol("t")
	if err != nil {
		return nil, err
	}
	ctx.tSymbol = t
	ctx.Set(t, t)

	return ctx, nil
}

// Close clears every root (making all pool cells unreachable) and runs a
// final collection, invoking the Gc finalizer hook for every live Ptr
// cell.
func (ctx *Context) Close() {
	ctx.gcIdx = 0
	ctx.symbols = ctx.nilCell
	ctx.callList = ctx.nilCell
	ctx.collectGarbage()
}

// Handlers returns a mutable reference to the embedder's hooks.
func (ctx *Context) Handlers() *Handlers {
	return &ctx.handlers
}
