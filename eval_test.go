package fe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	ctx := newTestContext(t)
	v := evalSource(t, ctx, "(+ 1 2 3)")
	n, err := ctx.ToNumber(v)
	require.NoError(t, err)
	assert.Equal(t, 6.0, n)
}

func TestEvalComparison(t *testing.T) {
	ctx := newTestContext(t)
	v := evalSource(t, ctx, "(< 1 2)")
	assert.False(t, ctx.IsNil(v))

	v = evalSource(t, ctx, "(< 2 1)")
	assert.True(t, ctx.IsNil(v))

	v = evalSource(t, ctx, "(<= 2 2)")
	assert.False(t, ctx.IsNil(v))
}

func TestEvalDoFnPrint(t *testing.T) {
	ctx := newTestContext(t)
	var out bytes.Buffer
	ctx.Stdout = &out

	evalSource(t, ctx, `
		(do
		  (= double (fn (x) (* x 2)))
		  (print (double 50)))
	`)

	assert.Equal(t, "100\n", out.String())
}

func TestEvalMacroRewrite(t *testing.T) {
	ctx := newTestContext(t)
	var out bytes.Buffer
	ctx.Stdout = &out

	evalSource(t, ctx, `
		(do
		  (= unless (mac (cond body) (list 'if cond nil body)))
		  (unless nil (print "yes")))
	`)

	assert.Equal(t, "yes\n", out.String())
}

func TestEvalLetWhileAccumulator(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, `
		(do
		  (let sum 0)
		  (let i 0)
		  (while (< i 5)
		    (= i (+ i 1))
		    (= sum (+ sum i)))
		  sum)
	`)

	n, err := ctx.ToNumber(v)
	require.NoError(t, err)
	assert.Equal(t, 15.0, n)
}

func TestEvalRestParam(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, "((fn (x . rest) rest) 1 2 3)")
	assert.Equal(t, "(2 3)", writeString(t, ctx, v))
}

func TestEvalLargeLoopReclaimsCells(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, `
		(do
		  (= n 0)
		  (= i 0)
		  (while (< i 10000)
		    (= i (+ i 1))
		    (= n (+ n i)))
		  n)
	`)

	n, err := ctx.ToNumber(v)
	require.NoError(t, err)
	assert.Equal(t, 50005000.0, n)
}

func TestEvalClosureCapturesDefiningEnv(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, `
		(do
		  (= adder (fn (n) (fn (x) (+ x n))))
		  (= add5 (adder 5))
		  (add5 10))
	`)

	n, err := ctx.ToNumber(v)
	require.NoError(t, err)
	assert.Equal(t, 15.0, n)
}

func TestEvalQuoteAndAtom(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, "(atom 'x)")
	assert.False(t, ctx.IsNil(v))

	v = evalSource(t, ctx, "(atom '(1 2))")
	assert.True(t, ctx.IsNil(v))
}

func TestEvalSetCarSetCdr(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, `
		(do
		  (= p (cons 1 2))
		  (setcar p 10)
		  (setcdr p 20)
		  p)
	`)

	assert.Equal(t, "(10 . 20)", writeString(t, ctx, v))
}

func TestEvalTooFewArgumentsErrors(t *testing.T) {
	ctx := newTestContext(t)
	pull := stringPull("(car)")
	form, err := ctx.Read(pull)
	require.NoError(t, err)
	_, err = ctx.Eval(form)
	assert.Error(t, err)
}

func TestEvalCallingNonCallableErrors(t *testing.T) {
	ctx := newTestContext(t)
	pull := stringPull("(1 2)")
	form, err := ctx.Read(pull)
	require.NoError(t, err)
	_, err = ctx.Eval(form)
	assert.Error(t, err)
}

func TestEvalDottedArgumentListErrors(t *testing.T) {
	ctx := newTestContext(t)
	pull := stringPull("(do (= f (fn (x) x)) (f . 5))")
	var lastErr error
	for {
		form, err := ctx.Read(pull)
		require.NoError(t, err)
		if form == nil {
			break
		}
		_, lastErr = ctx.Eval(form)
	}
	assert.Error(t, lastErr)
}

func TestEvalMissingPositionalArgsBindNil(t *testing.T) {
	ctx := newTestContext(t)

	v := evalSource(t, ctx, `
		(do
		  (= f (fn (x y) (list x y)))
		  (f 1))
	`)

	assert.Equal(t, "(1 nil)", writeString(t, ctx, v))
}
