package fe

import "strconv"

// PullFunc supplies one byte at a time to the reader. It must return a
// zero byte at end of input; the reader never inspects input length or
// error channels beyond that sentinel.
type PullFunc func() byte

const whitespaceChars = " \n\t\r"
const delimiterChars = " \n\t\r();\"'"

// maxAtomLen bounds a single atom (symbol or number literal) the reader
// will accumulate before raising "symbol too long".
const maxAtomLen = 63

func isWhitespace(ch byte) bool {
	for i := 0; i < len(whitespaceChars); i++ {
		if whitespaceChars[i] == ch {
			return true
		}
	}
	return false
}

func isDelimiter(ch byte) bool {
	for i := 0; i < len(delimiterChars); i++ {
		if delimiterChars[i] == ch {
			return true
		}
	}
	return false
}

// Read parses one form from pull. It returns a Go nil *Cell at end of
// input (a sentinel distinct from the language's own nil value), and
// fails with "stray ')'" if a lone close paren escapes to this, the
// public entry point.
func (ctx *Context) Read(pull PullFunc) (*Cell, error) {
	save := ctx.SaveGC()
	obj, err := ctx.read(pull)
	if err != nil {
		ctx.RestoreGC(save)
		return nil, err
	}
	if obj == closeParen {
		ctx.RestoreGC(save)
		return nil, ctx.error("stray ')'")
	}
	return obj, nil
}

func (ctx *Context) read(pull PullFunc) (*Cell, error) {
	var chr byte
	if ctx.nextChr != 0 {
		chr = ctx.nextChr
	} else {
		chr = pull()
	}
	ctx.nextChr = 0

	for chr != 0 && isWhitespace(chr) {
		chr = pull()
	}

	switch {
	case chr == 0:
		return nil, nil

	case chr == ';':
		for chr != 0 && chr != '\n' {
			chr = pull()
		}
		return ctx.read(pull)

	case chr == ')':
		return closeParen, nil

	case chr == '(':
		return ctx.readList(pull)

	case chr == '\'':
		v, err := ctx.Read(pull)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ctx.error("stray '''")
		}
		quote, err := ctx.Symbol("quote")
		if err != nil {
			return nil, err
		}
		inner, err := ctx.Cons(v, ctx.nilCell)
		if err != nil {
			return nil, err
		}
		return ctx.Cons(quote, inner)

	case chr == '"':
		return ctx.readString(pull)

	default:
		return ctx.readAtom(pull, chr)
	}
}

func (ctx *Context) readList(pull PullFunc) (*Cell, error) {
	res := ctx.nilCell
	tail := &res
	save := ctx.SaveGC()
	if err := ctx.PushGC(res); err != nil {
		return nil, err
	}

	for {
		v, err := ctx.read(pull)
		if err != nil {
			return nil, err
		}
		if v == closeParen {
			break
		}
		if v == nil {
			return nil, ctx.error("unclosed list")
		}
		if v.kind == KindSymbol && stringEquals(v.cdr.car, ".") {
			tailVal, err := ctx.Read(pull)
			if err != nil {
				return nil, err
			}
			if tailVal == nil {
				return nil, ctx.error("unclosed list")
			}
			*tail = tailVal
		} else {
			pair, err := ctx.Cons(v, ctx.nilCell)
			if err != nil {
				return nil, err
			}
			*tail = pair
			tail = &pair.cdr
		}
		ctx.RestoreGC(save)
		if err := ctx.PushGC(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (ctx *Context) readString(pull PullFunc) (*Cell, error) {
	head, err := ctx.buildString(nil, 0)
	if err != nil {
		return nil, err
	}
	tail := head
	chr := pull()
	for chr != '"' {
		if chr == 0 {
			return nil, ctx.error("unclosed string")
		}
		if chr == '\\' {
			chr = pull()
			switch chr {
			case 'n':
				chr = '\n'
			case 'r':
				chr = '\r'
			case 't':
				chr = '\t'
			}
		}
		tail, err = ctx.buildString(tail, chr)
		if err != nil {
			return nil, err
		}
		chr = pull()
	}
	return head, nil
}

func (ctx *Context) readAtom(pull PullFunc, first byte) (*Cell, error) {
	var buf [maxAtomLen]byte
	n := 0
	chr := first
	for {
		if n == maxAtomLen {
			return nil, ctx.error("symbol too long")
		}
		buf[n] = chr
		n++
		chr = pull()
		if chr == 0 || isDelimiter(chr) {
			break
		}
	}
	ctx.nextChr = chr

	atom := string(buf[:n])
	if f, err := strconv.ParseFloat(atom, 64); err == nil {
		return ctx.Number(f)
	}
	if atom == "nil" {
		return ctx.nilCell, nil
	}
	return ctx.Symbol(atom)
}
