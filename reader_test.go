package fe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"nil literal", "nil", "nil"},
		{"number", "42", "42"},
		{"negative float", "-1.5", "-1.5"},
		{"empty list", "()", "nil"},
		{"flat list", "(1 2 3)", "(1 2 3)"},
		{"nested list", "(1 (2 3) 4)", "(1 (2 3) 4)"},
		{"dotted pair", "(1 . 2)", "(1 . 2)"},
		{"quote shorthand", "'x", "(quote x)"},
		{"symbol", "foo-bar", "foo-bar"},
		{"string", `"hi"`, `"hi"`},
		{"comment skipped", "; comment\n7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t)
			form, err := ctx.Read(stringPull(tt.src))
			require.NoError(t, err)
			require.NotNil(t, form)
			var buf bytes.Buffer
			require.NoError(t, ctx.Write(form, &buf, true))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReadEOFReturnsNil(t *testing.T) {
	ctx := newTestContext(t)
	form, err := ctx.Read(stringPull("   "))
	require.NoError(t, err)
	assert.Nil(t, form)
}

func TestReadStrayCloseParenErrors(t *testing.T) {
	ctx := newTestContext(t)
	_, err := ctx.Read(stringPull(")"))
	assert.Error(t, err)
}

func TestReadUnclosedListErrors(t *testing.T) {
	ctx := newTestContext(t)
	_, err := ctx.Read(stringPull("(1 2"))
	assert.Error(t, err)
}

func TestReadUnclosedDottedListErrors(t *testing.T) {
	ctx := newTestContext(t)
	_, err := ctx.Read(stringPull("(1 ."))
	assert.Error(t, err)
}

func TestReadStringEscapes(t *testing.T) {
	ctx := newTestContext(t)
	form, err := ctx.Read(stringPull(`"a\nb"`))
	require.NoError(t, err)
	assert.True(t, stringEquals(form, "a\nb"))
}

func TestReadSymbolTooLong(t *testing.T) {
	ctx := newTestContext(t)
	long := make([]byte, maxAtomLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := ctx.Read(stringPull(string(long)))
	assert.Error(t, err)
}

func TestWriteQuotedStringEscapesQuotes(t *testing.T) {
	ctx := newTestContext(t)
	s, err := ctx.NewString(`say "hi"`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ctx.Write(s, &buf, true))
	assert.Equal(t, `"say \"hi\""`, buf.String())
}
