package fe

// Eval evaluates a single top-level form in the empty environment,
// resetting the call list and unwinding the explicit GC root stack back to
// its entry depth on the way out — whether that exit is a normal return or
// an error. A bare top-level `let` has no subsequent sibling form within
// this same call to bind into, so (unlike `do`, a function body, or a
// `while` body, which thread bindings across their own sequence of forms
// via dolist) it evaluates its value but does not persist a binding;
// wrap sibling top-level forms in a `do` to share one.
func (ctx *Context) Eval(form *Cell) (*Cell, error) {
	save := ctx.SaveGC()
	ctx.callList = ctx.nilCell
	v, err := ctx.eval(form, ctx.nilCell, nil)
	ctx.RestoreGC(save)
	return v, err
}

// eval evaluates form in env. When newenvp is non-nil and form is a `let`
// call, the new binding is written back through newenvp so the caller's
// notion of "current environment" advances for whatever it evaluates
// next — this is how a sequence of forms in a `do` block, a `while` body
// or a function body (each run through dolist) sees each other's `let`
// bindings without a nested scope. Every other evaluation path (a
// top-level Eval, the callee and argument positions, a rewritten macro's
// re-evaluation) passes a nil newenvp, so a `let` occurring there
// evaluates its value but binds nothing.
func (ctx *Context) eval(form, env *Cell, newenvp **Cell) (*Cell, error) {
	for {
		if form.kind == KindSymbol {
			return ctx.resolve(form, env).cdr, nil
		}
		if form.kind != KindPair {
			return form, nil
		}

		callPair, err := ctx.Cons(form, ctx.callList)
		if err != nil {
			return nil, err
		}
		ctx.callList = callPair

		save := ctx.SaveGC()
		fn, err := ctx.eval(form.car, env, nil)
		if err != nil {
			return nil, err
		}
		args := form.cdr
		var res *Cell = ctx.nilCell

		switch fn.kind {
		case KindPrim:
			res, err = ctx.evalPrim(fn.prim, args, env, newenvp)
			if err != nil {
				return nil, err
			}

		case KindCFunc:
			argList, err := ctx.evalList(args, env)
			if err != nil {
				return nil, err
			}
			res, err = fn.cfn(ctx, argList)
			if err != nil {
				return nil, err
			}

		case KindFunc:
			argList, err := ctx.evalList(args, env)
			if err != nil {
				return nil, err
			}
			capturedEnv := fn.car
			params := fn.cdr.car
			body := fn.cdr.cdr
			callEnv, err := ctx.argsToEnv(params, argList, capturedEnv)
			if err != nil {
				return nil, err
			}
			res, err = ctx.dolist(body, callEnv)
			if err != nil {
				return nil, err
			}

		case KindMacro:
			capturedEnv := fn.car
			params := fn.cdr.car
			body := fn.cdr.cdr
			callEnv, err := ctx.argsToEnv(params, args, capturedEnv)
			if err != nil {
				return nil, err
			}
			expansion, err := ctx.dolist(body, callEnv)
			if err != nil {
				return nil, err
			}
			*form = *expansion
			ctx.RestoreGC(save)
			ctx.callList = ctx.callList.cdr
			newenvp = nil
			continue

		default:
			ctx.callList = ctx.callList.cdr
			return nil, ctx.error("tried to call non-callable value")
		}

		ctx.callList = ctx.callList.cdr
		ctx.RestoreGC(save)
		if err := ctx.PushGC(res); err != nil {
			return nil, err
		}
		return res, nil
	}
}

// evalArg is a convenience for primitives that only need the evaluated
// value of a single argument form; no newenvp is threaded, matching the
// reference evalarg() macro.
func (ctx *Context) evalArg(args **Cell, env *Cell) (*Cell, error) {
	form, err := ctx.nextArg(args)
	if err != nil {
		return nil, err
	}
	return ctx.eval(form, env, nil)
}

// evalList evaluates every form in args left to right, collecting the
// results into a fresh proper list.
func (ctx *Context) evalList(args, env *Cell) (*Cell, error) {
	res := ctx.nilCell
	tail := &res
	save := ctx.SaveGC()
	if err := ctx.PushGC(res); err != nil {
		return nil, err
	}

	a := args
	for !isNil(a) {
		form, err := ctx.nextArg(&a)
		if err != nil {
			return nil, err
		}
		v, err := ctx.eval(form, env, nil)
		if err != nil {
			return nil, err
		}
		if err := ctx.PushGC(v); err != nil {
			return nil, err
		}
		pair, err := ctx.Cons(v, ctx.nilCell)
		if err != nil {
			return nil, err
		}
		*tail = pair
		tail = &pair.cdr

		ctx.RestoreGC(save)
		if err := ctx.PushGC(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// dolist evaluates every form in body in sequence, starting in env and
// threading each form's possible `let` binding into the next one, then
// returns the value of the last form evaluated (nil for an empty body).
func (ctx *Context) dolist(body, env *Cell) (*Cell, error) {
	res := ctx.nilCell
	save := ctx.SaveGC()

	for b := body; !isNil(b); b = b.cdr {
		ctx.RestoreGC(save)
		if err := ctx.PushGC(b); err != nil {
			return nil, err
		}
		if err := ctx.PushGC(env); err != nil {
			return nil, err
		}
		v, err := ctx.eval(b.car, env, &env)
		if err != nil {
			return nil, err
		}
		res = v
	}
	return res, nil
}

// argsToEnv binds params against already-evaluated args, consing
// (param . value) pairs onto env (the closure's captured defining
// environment). A proper params list binds positionally; a shorter args
// list simply runs out early, leaving the remaining params bound to nil
// (Car/Cdr of nil is nil). An improper (dotted) tail, or a bare symbol in
// place of a list, binds the remaining argument list wholesale to that
// trailing symbol — e.g. (fn (x . rest) ...) or (fn args ...).
func (ctx *Context) argsToEnv(params, args, env *Cell) (*Cell, error) {
	p := params
	a := args
	for p.kind == KindPair {
		argHead, err := ctx.Car(a)
		if err != nil {
			return nil, err
		}
		pair, err := ctx.Cons(p.car, argHead)
		if err != nil {
			return nil, err
		}
		env, err = ctx.Cons(pair, env)
		if err != nil {
			return nil, err
		}
		p = p.cdr
		a, err = ctx.Cdr(a)
		if err != nil {
			return nil, err
		}
	}

	if !isNil(p) {
		pair, err := ctx.Cons(p, a)
		if err != nil {
			return nil, err
		}
		env, err = ctx.Cons(pair, env)
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

// evalPrim implements every built-in special form and operator. Arguments
// are pulled lazily from the unevaluated args list via evalArg/nextArg so
// each primitive controls its own evaluation order — necessary for the
// short-circuiting and non-evaluating forms (and/or/quote/if/fn/mac/while)
// and harmless bookkeeping for the strict ones.
func (ctx *Context) evalPrim(prim primIndex, args, env *Cell, newenvp **Cell) (*Cell, error) {
	switch prim {
	case primLet:
		sym, err := ctx.nextArg(&args)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.checkType(sym, KindSymbol); err != nil {
			return nil, err
		}
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		if newenvp != nil {
			pair, err := ctx.Cons(sym, v)
			if err != nil {
				return nil, err
			}
			newEnv, err := ctx.Cons(pair, env)
			if err != nil {
				return nil, err
			}
			*newenvp = newEnv
		}
		return v, nil

	case primSet:
		sym, err := ctx.nextArg(&args)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.checkType(sym, KindSymbol); err != nil {
			return nil, err
		}
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		ctx.resolve(sym, env).cdr = v
		return ctx.nilCell, nil

	case primIf:
		for !isNil(args) {
			cond, err := ctx.evalArg(&args, env)
			if err != nil {
				return nil, err
			}
			if isNil(args) {
				return cond, nil
			}
			if !isNil(cond) {
				return ctx.evalArg(&args, env)
			}
			if isNil(args) {
				break
			}
			args = args.cdr
		}
		return ctx.nilCell, nil

	case primFn, primMac:
		kind := KindFunc
		if prim == primMac {
			kind = KindMacro
		}
		c, err := ctx.alloc()
		if err != nil {
			return nil, err
		}
		c.kind = kind
		c.car = env
		c.cdr = args
		return c, nil

	case primWhile:
		cond, err := ctx.nextArg(&args)
		if err != nil {
			return nil, err
		}
		body := args
		save := ctx.SaveGC()
		for {
			v, err := ctx.eval(cond, env, nil)
			if err != nil {
				return nil, err
			}
			if isNil(v) {
				return ctx.nilCell, nil
			}
			if _, err := ctx.dolist(body, env); err != nil {
				return nil, err
			}
			ctx.RestoreGC(save)
		}

	case primQuote:
		return ctx.nextArg(&args)

	case primAnd:
		res := ctx.nilCell
		for !isNil(args) {
			v, err := ctx.evalArg(&args, env)
			if err != nil {
				return nil, err
			}
			res = v
			if isNil(res) {
				break
			}
		}
		return res, nil

	case primOr:
		res := ctx.nilCell
		for !isNil(args) {
			v, err := ctx.evalArg(&args, env)
			if err != nil {
				return nil, err
			}
			res = v
			if !isNil(res) {
				break
			}
		}
		return res, nil

	case primDo:
		return ctx.dolist(args, env)

	case primCons:
		a, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		if err := ctx.PushGC(a); err != nil {
			return nil, err
		}
		d, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Cons(a, d)

	case primCar:
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Car(v)

	case primCdr:
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Cdr(v)

	case primSetCar:
		c, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		p, err := ctx.checkType(c, KindPair)
		if err != nil {
			return nil, err
		}
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		p.car = v
		return v, nil

	case primSetCdr:
		c, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		p, err := ctx.checkType(c, KindPair)
		if err != nil {
			return nil, err
		}
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		p.cdr = v
		return v, nil

	case primList:
		return ctx.evalList(args, env)

	case primNot:
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Bool(isNil(v)), nil

	case primIs:
		a, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		if err := ctx.PushGC(a); err != nil {
			return nil, err
		}
		b, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Bool(ctx.equal(a, b)), nil

	case primAtom:
		v, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		return ctx.Bool(v.kind != KindPair), nil

	case primPrint:
		for !isNil(args) {
			v, err := ctx.evalArg(&args, env)
			if err != nil {
				return nil, err
			}
			if err := ctx.Write(v, ctx.Stdout, false); err != nil {
				return nil, err
			}
			if !isNil(args) {
				if _, err := ctx.Stdout.Write([]byte(" ")); err != nil {
					return nil, err
				}
			}
		}
		if _, err := ctx.Stdout.Write([]byte("\n")); err != nil {
			return nil, err
		}
		return ctx.nilCell, nil

	case primLt, primLte:
		a, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		na, err := ctx.ToNumber(a)
		if err != nil {
			return nil, err
		}
		b, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		nb, err := ctx.ToNumber(b)
		if err != nil {
			return nil, err
		}
		if prim == primLt {
			return ctx.Bool(na < nb), nil
		}
		return ctx.Bool(na <= nb), nil

	case primAdd, primSub, primMul, primDiv:
		first, err := ctx.evalArg(&args, env)
		if err != nil {
			return nil, err
		}
		acc, err := ctx.ToNumber(first)
		if err != nil {
			return nil, err
		}
		for !isNil(args) {
			v, err := ctx.evalArg(&args, env)
			if err != nil {
				return nil, err
			}
			n, err := ctx.ToNumber(v)
			if err != nil {
				return nil, err
			}
			switch prim {
			case primAdd:
				acc += n
			case primSub:
				acc -= n
			case primMul:
				acc *= n
			case primDiv:
				acc /= n
			}
		}
		return ctx.Number(acc)
	}

	return nil, ctx.error("unhandled primitive")
}
