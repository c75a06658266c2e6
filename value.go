package fe

// Cons allocates a new pair cell.
func (ctx *Context) Cons(car, cdr *Cell) (*Cell, error) {
	c, err := ctx.alloc()
	if err != nil {
		return nil, err
	}
	c.kind = KindPair
	c.car = car
	c.cdr = cdr
	return c, nil
}

// Number allocates a new number cell.
func (ctx *Context) Number(n float64) (*Cell, error) {
	c, err := ctx.alloc()
	if err != nil {
		return nil, err
	}
	c.kind = KindNumber
	c.num = n
	return c, nil
}

// buildString appends ch to tail's string chain, splicing in a fresh
// chunk cell when the current tail is full (or absent). It returns the
// (possibly new) tail cell. Only the head of the chain should be kept
// rooted by the caller once the chain is complete; intermediate chunks
// are unrooted as soon as they are spliced onto their predecessor.
func (ctx *Context) buildString(tail *Cell, ch byte) (*Cell, error) {
	if tail == nil || tail.buf[stringChunkSize-1] != 0 {
		c, err := ctx.alloc()
		if err != nil {
			return nil, err
		}
		c.kind = KindString
		c.cdr = ctx.nilCell
		if tail != nil {
			tail.cdr = c
			ctx.gcIdx--
		}
		tail = c
	}
	n := 0
	for n < stringChunkSize && tail.buf[n] != 0 {
		n++
	}
	tail.buf[n] = ch
	return tail, nil
}

// NewString builds a string chain from a Go string.
func (ctx *Context) NewString(s string) (*Cell, error) {
	head, err := ctx.buildString(nil, 0)
	if err != nil {
		return nil, err
	}
	tail := head
	for i := 0; i < len(s); i++ {
		tail, err = ctx.buildString(tail, s[i])
		if err != nil {
			return nil, err
		}
	}
	return head, nil
}

// stringEquals reports whether the string chain s has exactly the bytes
// of str, chunk by chunk.
func stringEquals(s *Cell, str string) bool {
	idx := 0
	for !isNil(s) {
		for _, b := range s.buf {
			var want byte
			if idx < len(str) {
				want = str[idx]
			}
			if b != want {
				return false
			}
			if idx < len(str) {
				idx++
			}
		}
		s = s.cdr
	}
	return idx == len(str)
}

// Symbol interns name: it scans the symbol table for a symbol whose name
// string compares byte-equal, returning it if found, else constructing
// (name-string . nil) as the symbol's global binding pair and consing the
// new symbol onto the symbol table. Two symbols with the same name are
// always the same cell.
func (ctx *Context) Symbol(name string) (*Cell, error) {
	for s := ctx.symbols; !isNil(s); s = s.cdr {
		sym := s.car
		if stringEquals(sym.cdr.car, name) {
			return sym, nil
		}
	}

	nameCell, err := ctx.NewString(name)
	if err != nil {
		return nil, err
	}
	binding, err := ctx.Cons(nameCell, ctx.nilCell)
	if err != nil {
		return nil, err
	}
	sym, err := ctx.alloc()
	if err != nil {
		return nil, err
	}
	sym.kind = KindSymbol
	sym.cdr = binding

	newHead, err := ctx.Cons(sym, ctx.symbols)
	if err != nil {
		return nil, err
	}
	ctx.symbols = newHead
	return sym, nil
}

// CFunc wraps a native Go function as a callable value.
func (ctx *Context) CFunc(fn CFunc) (*Cell, error) {
	c, err := ctx.alloc()
	if err != nil {
		return nil, err
	}
	c.kind = KindCFunc
	c.cfn = fn
	return c, nil
}

// Ptr wraps an opaque embedder value as a pointer value. Marking and
// finalization are delegated to the registered Mark/Gc hooks.
func (ctx *Context) Ptr(p any) (*Cell, error) {
	c, err := ctx.alloc()
	if err != nil {
		return nil, err
	}
	c.kind = KindPtr
	c.fptr = p
	return c, nil
}

// List right-folds Cons over items with nil as the seed.
func (ctx *Context) List(items []*Cell) (*Cell, error) {
	res := ctx.nilCell
	for i := len(items) - 1; i >= 0; i-- {
		var err error
		res, err = ctx.Cons(items[i], res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Bool returns the `t` symbol if flag is true, else nil. Nil is the only
// false value in the language.
func (ctx *Context) Bool(flag bool) *Cell {
	if flag {
		return ctx.tSymbol
	}
	return ctx.nilCell
}

// IsNil reports whether c is the nil value.
func (ctx *Context) IsNil(c *Cell) bool {
	return isNil(c)
}

// Type returns c's value kind.
func (ctx *Context) Type(c *Cell) Kind {
	return c.kind
}

// Car returns c's car; nil's car is nil, anything else must be a pair.
func (ctx *Context) Car(c *Cell) (*Cell, error) {
	if isNil(c) {
		return c, nil
	}
	p, err := ctx.checkType(c, KindPair)
	if err != nil {
		return nil, err
	}
	return p.car, nil
}

// Cdr returns c's cdr; nil's cdr is nil, anything else must be a pair.
func (ctx *Context) Cdr(c *Cell) (*Cell, error) {
	if isNil(c) {
		return c, nil
	}
	p, err := ctx.checkType(c, KindPair)
	if err != nil {
		return nil, err
	}
	return p.cdr, nil
}

// ToNumber returns c's numeric value; c must be a Number.
func (ctx *Context) ToNumber(c *Cell) (float64, error) {
	n, err := ctx.checkType(c, KindNumber)
	if err != nil {
		return 0, err
	}
	return n.num, nil
}

// ToPtr returns c's opaque embedder value; c must be a Ptr.
func (ctx *Context) ToPtr(c *Cell) (any, error) {
	p, err := ctx.checkType(c, KindPtr)
	if err != nil {
		return nil, err
	}
	return p.fptr, nil
}

// NextArg pops and returns the head of an argument list, advancing *args
// to its tail. It fails with "too few arguments" on nil and "dotted pair
// in argument list" on any other non-pair.
func (ctx *Context) NextArg(args **Cell) (*Cell, error) {
	return ctx.nextArg(args)
}

func (ctx *Context) nextArg(args **Cell) (*Cell, error) {
	a := *args
	if a.kind != KindPair {
		if isNil(a) {
			return nil, ctx.error("too few arguments")
		}
		return nil, ctx.error("dotted pair in argument list")
	}
	*args = a.cdr
	return a.car, nil
}

// equal implements structural equality: identity first, then by kind —
// numbers compare by value, strings compare byte-for-byte and by length,
// anything else (including two freshly-consed pairs) falls back to
// identity.
func (ctx *Context) equal(a, b *Cell) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindString:
		ca, cb := a, b
		for !isNil(ca) && !isNil(cb) {
			if ca.buf != cb.buf {
				return false
			}
			ca, cb = ca.cdr, cb.cdr
		}
		return isNil(ca) && isNil(cb)
	default:
		return false
	}
}
