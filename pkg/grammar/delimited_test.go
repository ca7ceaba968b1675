package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
)

func newIdentComma() (*grammar.TypedParser, *grammar.StringParser) {
	return grammar.NewTypedParser("naked_identifier", "IDENT"), grammar.NewStringParser(",", "comma", false)
}

func TestDelimited_MatchesList(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma)

	result, err := list.Match(lexSegments("a, b, c"), ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "a, b, c", rawOf(result.Matched))
}

func TestDelimited_TrailingDelimiterRejectedByDefault(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma)

	result, err := list.Match(lexSegments("a, b,"), ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "a, b", rawOf(result.Matched))
	assert.Equal(t, ",", rawOf(result.Unmatched))
}

func TestDelimited_AllowTrailingKeepsTrailingDelimiter(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma).AllowTrailing()

	result, err := list.Match(lexSegments("a, b,"), ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "a, b,", rawOf(result.Matched))
	assert.Empty(t, result.Unmatched)
}

func TestDelimited_AllowTrailingBeforeTerminator(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma).
		AllowTrailing().
		Terminators(grammar.NewStringParser("FROM", "keyword", true))

	result, err := list.Match(lexSegments("a, b, c, FROM t"), ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "a, b, c,", rawOf(result.Matched))
	assert.Contains(t, rawOf(result.Unmatched), "FROM")
}

func TestDelimited_MinDelimitersRejectsTooShortList(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma).MinDelimiters(2)
	segs := lexSegments("a, b")

	result, err := list.Match(segs, ctx)
	require.NoError(t, err)
	assert.False(t, result.HasMatch())
}

func TestDelimited_StopsAtTerminator(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	ident, comma := newIdentComma()
	list := grammar.NewDelimited(ident, comma).Terminators(grammar.NewStringParser("FROM", "keyword", true))

	result, err := list.Match(lexSegments("a, b FROM t"), ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "a, b", rawOf(result.Matched))
	assert.Contains(t, rawOf(result.Unmatched), "FROM")
}
