package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
)

func TestAnyNumberOf_ZeroMatchesIsNotAnError(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true))
	segs := lexSegments("a b")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	assert.False(t, result.HasMatch())
}

func TestAnyNumberOf_RepeatsUntilNoMoreMatch(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true))
	segs := lexSegments("X X X done")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "X X X", rawOf(result.Matched))
	assert.Contains(t, rawOf(result.Unmatched), "done")
}

func TestAnyNumberOf_MaxTimesCaps(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true)).MaxTimes(2)
	segs := lexSegments("X X X")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "X X", rawOf(result.Matched))
	assert.Contains(t, rawOf(result.Unmatched), "X")
}

func TestAnyNumberOf_MinTimesRejectsTooFewIterations(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true)).MinTimes(2)
	segs := lexSegments("X done")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	assert.False(t, result.HasMatch())
}

func TestAnyNumberOf_StopsAtTerminator(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true)).
		Terminators(grammar.NewStringParser("FROM", "keyword", true))
	segs := lexSegments("X X FROM t")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "X X", rawOf(result.Matched))
	assert.Contains(t, rawOf(result.Unmatched), "FROM")
}

func TestAnyNumberOf_NoGapsStopsAtGap(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(grammar.NewStringParser("X", "keyword", true)).NoGaps()
	segs := append(lexSegments("X"), lexSegments(" X")...)

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "X", rawOf(result.Matched), "the gapped second X must stay unconsumed")
	assert.Equal(t, " X", rawOf(result.Unmatched))
}

func TestAnyNumberOf_LongestMatchWinsPerIteration(t *testing.T) {
	d, err := dialect.New("t").Expand()
	require.NoError(t, err)
	ctx := newTestContext(t, d)

	a := grammar.NewAnyNumberOf(
		grammar.NewStringParser("X", "keyword", true),
		grammar.NewSequence(grammar.NewStringParser("X", "keyword", true), grammar.NewStringParser("Y", "keyword", true)),
	)
	segs := lexSegments("X Y done")

	result, err := a.Match(segs, ctx)
	require.NoError(t, err)
	require.True(t, result.HasMatch())
	assert.Equal(t, "X Y", rawOf(result.Matched))
}
