package grammar

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// countingRule wraps a Matchable and counts real Match invocations, so a
// test can tell a memoization hit (count does not increase) from a miss
// (count increases).
type countingRule struct {
	idBase
	inner Matchable
	count int32
}

func (c *countingRule) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	atomic.AddInt32(&c.count, 1)
	return c.inner.Match(segments, ctx)
}
func (c *countingRule) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	return c.inner.Simple(ctx, crumbs)
}
func (c *countingRule) Copy(opts CopyOpts) Matchable { return c }
func (c *countingRule) IsOptional() bool             { return c.inner.IsOptional() }

type fakeDialect struct {
	rules map[string]Matchable
}

func (f *fakeDialect) Name() string { return "fake" }
func (f *fakeDialect) Grammar(name string) (Matchable, bool) {
	m, ok := f.rules[name]
	return m, ok
}
func (f *fakeDialect) BracketSet(string) []BracketPair { return nil }

func wordSeg(raw string) token.Segment {
	return token.NewTokenSegment(token.Token{Type: token.IDENT, Raw: raw}, "")
}

func TestParseContext_RefMemoizesSamePositionSameTerminators(t *testing.T) {
	counted := &countingRule{idBase: newIDBase(), inner: NewStringParser("a", "keyword", false)}
	d := &fakeDialect{rules: map[string]Matchable{"a_rule": counted}}
	ctx := NewParseContext(d, nil)

	ref := NewRef("a_rule")
	segs := []token.Segment{wordSeg("a")}

	_, err := ref.Match(segs, ctx)
	require.NoError(t, err)
	_, err = ref.Match(segs, ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&counted.count), "second Ref.Match at the same position should hit the memo cache")
}

func TestParseContext_MemoKeyDependsOnTerminatorSet(t *testing.T) {
	counted := &countingRule{idBase: newIDBase(), inner: NewStringParser("a", "keyword", false)}
	d := &fakeDialect{rules: map[string]Matchable{"a_rule": counted}}
	ctx := NewParseContext(d, nil)

	ref := NewRef("a_rule")
	segs := []token.Segment{wordSeg("a")}

	_, err := ref.Match(segs, ctx)
	require.NoError(t, err)

	term := NewStringParser("FROM", "keyword", true)
	_, err = ctx.DeeperMatch("scope", false, []Matchable{term}, func(inner *ParseContext) (MatchResult, error) {
		return ref.Match(segs, inner)
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&counted.count), "a different active terminator set must not reuse the prior memo entry")
}

func TestParseContext_CheckCancelledPropagatesErrCancelled(t *testing.T) {
	d := &fakeDialect{rules: map[string]Matchable{}}
	base := NewParseContext(d, nil)

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := base.WithCancel(cancelCtx)

	err := ctx.CheckCancelled()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestParseContext_DeeperMatchRestoresTerminatorsAndCrumbsOnExit(t *testing.T) {
	d := &fakeDialect{rules: map[string]Matchable{}}
	ctx := NewParseContext(d, nil)

	term := NewStringParser("FROM", "keyword", true)
	_, err := ctx.DeeperMatch("frame", false, []Matchable{term}, func(inner *ParseContext) (MatchResult, error) {
		assert.Equal(t, 1, len(inner.ActiveTerminators()))
		assert.Equal(t, []string{"frame"}, inner.Crumbs())
		return MatchResult{}, nil
	})
	require.NoError(t, err)

	assert.Empty(t, ctx.ActiveTerminators())
	assert.Empty(t, ctx.Crumbs())
}
