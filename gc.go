package fe

// SaveGC returns the current depth of the explicit GC root stack, for a
// later RestoreGC call.
func (ctx *Context) SaveGC() int {
	return ctx.gcIdx
}

// PushGC roots cell explicitly until a later RestoreGC drops it. It fails
// with "gc stack overflow" once the compile-time stack capacity is
// reached.
func (ctx *Context) PushGC(cell *Cell) error {
	if ctx.gcIdx == len(ctx.gcStack) {
		return ctx.error("gc stack overflow")
	}
	ctx.gcStack[ctx.gcIdx] = cell
	ctx.gcIdx++
	return nil
}

// RestoreGC truncates the explicit GC root stack back to depth, unrooting
// everything pushed since the matching SaveGC.
func (ctx *Context) RestoreGC(depth int) {
	ctx.gcIdx = depth
}

// Mark traces cell as reachable. It is exported for use inside an
// embedder's MarkHook, so a Ptr cell's own interior references can be
// marked from within the hook.
func (ctx *Context) Mark(cell *Cell) {
	ctx.gcMark(cell)
}

// gcMark marks cell and everything reachable from it. The nil sentinel is
// treated as already marked and never recursed into. Pairs and func/macro
// cells (whose car is the captured environment) recurse into car and
// iterate into cdr (rather than recursing into both) to bound native
// call-stack depth on long proper lists; symbol/string cells leave car
// unused and only need the cdr iteration.
func (ctx *Context) gcMark(cell *Cell) {
	for {
		if cell.kind == KindNil || cell.marked {
			return
		}
		cell.marked = true

		switch cell.kind {
		case KindPair, KindFunc, KindMacro:
			ctx.gcMark(cell.car)
			cell = cell.cdr
		case KindSymbol, KindString:
			cell = cell.cdr
		case KindPtr:
			if ctx.handlers.Mark != nil {
				ctx.handlers.Mark(ctx, cell)
			}
			return
		default:
			return
		}
	}
}

// collectGarbage marks from every root (the GC stack, the symbol table,
// the call list) then sweeps the pool: unmarked live cells are finalized
// (if Ptr, with the Gc hook) and returned to the freelist; marked cells
// have their mark bit cleared for the next cycle.
func (ctx *Context) collectGarbage() {
	for i := 0; i < ctx.gcIdx; i++ {
		ctx.gcMark(ctx.gcStack[i])
	}
	ctx.gcMark(ctx.symbols)
	ctx.gcMark(ctx.callList)

	for i := range ctx.cells {
		c := &ctx.cells[i]
		if c.kind == KindFree {
			continue
		}
		if !c.marked {
			if c.kind == KindPtr && ctx.handlers.Gc != nil {
				ctx.handlers.Gc(ctx, c)
			}
			c.reset()
			c.kind = KindFree
			c.cdr = ctx.free
			ctx.free = c
		} else {
			c.marked = false
		}
	}
}

// alloc pops the freelist head, scrubs its fields, pushes it onto the GC
// stack so it is rooted until the caller chooses to drop it, and returns
// it with kind still Free — callers must set a live kind before any
// further allocation.
func (ctx *Context) alloc() (*Cell, error) {
	if ctx.free == nil {
		ctx.collectGarbage()
		if ctx.free == nil {
			return nil, ctx.error("out of memory")
		}
	}
	c := ctx.free
	ctx.free = c.cdr
	c.reset()
	c.kind = KindFree
	if err := ctx.PushGC(c); err != nil {
		return nil, err
	}
	return c, nil
}
