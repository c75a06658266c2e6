package fe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stringPull turns a Go string into a PullFunc, yielding a zero byte once
// exhausted.
func stringPull(s string) PullFunc {
	r := strings.NewReader(s)
	return func() byte {
		b, err := r.ReadByte()
		if err != nil {
			return 0
		}
		return b
	}
}

// evalSource reads and evaluates every top-level form in src in turn,
// returning the value of the last one.
func evalSource(t *testing.T, ctx *Context, src string) *Cell {
	t.Helper()
	pull := stringPull(src)
	var last *Cell
	for {
		form, err := ctx.Read(pull)
		require.NoError(t, err)
		if form == nil {
			break
		}
		last, err = ctx.Eval(form)
		require.NoError(t, err)
	}
	return last
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := Open(4096)
	require.NoError(t, err)
	return ctx
}

func writeString(t *testing.T, ctx *Context, v *Cell) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ctx.Write(v, &buf, false))
	return buf.String()
}
