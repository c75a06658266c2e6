package fe

import "fmt"

// EvalError is the single error type raised by the reader and evaluator.
// It carries a rendered snapshot of the call list that was active when the
// error was raised, for traceback reporting by an embedder.
type EvalError struct {
	Message string
	Trace   []string
}

func (e *EvalError) Error() string {
	return e.Message
}

// error builds an EvalError from the current call list, invokes the
// registered error hook (if any) with a snapshot of the call list, resets
// the context's call list, and returns the error for the caller to
// propagate. It never returns nil.
func (ctx *Context) error(msg string) error {
	cl := ctx.callList
	ctx.callList = ctx.nilCell
	trace := ctx.renderTrace(cl)

	if ctx.handlers.Error != nil {
		ctx.handlers.Error(ctx, msg, cl)
	}

	return &EvalError{Message: msg, Trace: trace}
}

func (ctx *Context) renderTrace(cl *Cell) []string {
	var lines []string
	for !isNil(cl) {
		s, _ := ctx.ToString(cl.car, 64)
		lines = append(lines, s)
		cl = cl.cdr
	}
	return lines
}

func (ctx *Context) checkType(c *Cell, want Kind) (*Cell, error) {
	if c.kind != want {
		return nil, ctx.error(fmt.Sprintf("expected %s, got %s", want, c.kind))
	}
	return c, nil
}
