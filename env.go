package fe

// resolve scans env for a pair whose car is the identical symbol cell; on
// miss it returns the symbol's own global binding pair. The returned
// cell's cdr is where the current value lives, and where a `set`
// overwrites it.
func (ctx *Context) resolve(sym, env *Cell) *Cell {
	for e := env; !isNil(e); e = e.cdr {
		p := e.car
		if p.car == sym {
			return p
		}
	}
	return sym.cdr
}

// Set assigns v into sym's global binding, regardless of any local
// shadowing — this is the embedder-facing mutator, distinct from the `=`
// primitive which resolves against whatever lexical environment is
// current inside eval.
func (ctx *Context) Set(sym, v *Cell) {
	ctx.resolve(sym, ctx.nilCell).cdr = v
}
