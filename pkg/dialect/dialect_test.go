package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

func TestDialect_AddRejectsDuplicateName(t *testing.T) {
	d := dialect.New("ansi")
	require.NoError(t, d.Add("select_kw", grammar.NewStringParser("SELECT", "keyword", true)))

	err := d.Add("select_kw", grammar.NewStringParser("SELECT", "keyword", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrDuplicateRule)
}

func TestDialect_AddRejectsNameAlreadyDefinedByParent(t *testing.T) {
	parent := dialect.New("ansi")
	require.NoError(t, parent.Add("select_kw", grammar.NewStringParser("SELECT", "keyword", true)))
	child := parent.Clone("postgres")

	err := child.Add("select_kw", grammar.NewStringParser("SELECT", "keyword", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrDuplicateRule)
}

func TestDialect_ReplaceGrammarRejectsUnknownName(t *testing.T) {
	d := dialect.New("ansi")
	err := d.ReplaceGrammar("nonexistent", grammar.NewStringParser("X", "keyword", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrUnknownRule)
}

func TestDialect_CopyRejectsUnknownName(t *testing.T) {
	d := dialect.New("ansi")
	err := d.Copy("nonexistent", grammar.CopyOpts{})
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrUnknownRule)
}

func TestDialect_MutationsFailAfterExpand(t *testing.T) {
	d, err := dialect.New("ansi").Expand()
	require.NoError(t, err)

	assert.ErrorIs(t, d.Add("x", grammar.NewStringParser("X", "keyword", true)), grammar.ErrSealedDialect)
	assert.ErrorIs(t, d.ReplaceGrammar("x", grammar.NewStringParser("X", "keyword", true)), grammar.ErrSealedDialect)
	assert.ErrorIs(t, d.AddBracketPair("bracket_pairs", grammar.BracketPair{}), grammar.ErrSealedDialect)
	assert.ErrorIs(t, d.InsertLexerMatchers("", dialect.LexerMatcher{Name: "x"}), grammar.ErrSealedDialect)
	assert.ErrorIs(t, d.AddKeywords([]string{"X"}, nil), grammar.ErrSealedDialect)
}

func TestDialect_ExpandIsIdempotent(t *testing.T) {
	d := dialect.New("ansi")
	_, err := d.Expand()
	require.NoError(t, err)
	_, err = d.Expand()
	require.NoError(t, err)
	assert.True(t, d.Sealed())
}

func TestDialect_CloneOverrideDoesNotAffectParent(t *testing.T) {
	parent := dialect.New("ansi")
	require.NoError(t, parent.Add("greeting", grammar.NewStringParser("HELLO", "keyword", true)))
	_, err := parent.Expand()
	require.NoError(t, err)

	child := parent.Clone("postgres")
	require.NoError(t, child.ReplaceGrammar("greeting", grammar.NewStringParser("HOWDY", "keyword", true)))
	_, err = child.Expand()
	require.NoError(t, err)

	parentRule, ok := parent.Grammar("greeting")
	require.True(t, ok)
	childRule, ok := child.Grammar("greeting")
	require.True(t, ok)

	assert.NotSame(t, parentRule, childRule)
}

func TestDialect_ChildResolvesInheritedRuleByName(t *testing.T) {
	parent := dialect.New("ansi")
	require.NoError(t, parent.Add("greeting", grammar.NewStringParser("HELLO", "keyword", true)))
	_, err := parent.Expand()
	require.NoError(t, err)

	child := parent.Clone("postgres")
	_, err = child.Expand()
	require.NoError(t, err)

	_, ok := child.Grammar("greeting")
	assert.True(t, ok)
}

func TestDialect_RefLateBindingFollowsOverride(t *testing.T) {
	parent := dialect.New("ansi")
	require.NoError(t, parent.Add("greeting", grammar.NewStringParser("HELLO", "keyword", true)))
	_, err := parent.Expand()
	require.NoError(t, err)

	child := parent.Clone("postgres")
	require.NoError(t, child.ReplaceGrammar("greeting", grammar.NewStringParser("HOWDY", "keyword", true)))
	_, err = child.Expand()
	require.NoError(t, err)

	ref := grammar.NewRef("greeting")

	parentCtx := grammar.NewParseContext(parent, nil)
	childCtx := grammar.NewParseContext(child, nil)

	parentResult, err := ref.Match(tokSeg("HELLO"), parentCtx)
	require.NoError(t, err)
	assert.True(t, parentResult.HasMatch())

	childResult, err := ref.Match(tokSeg("HOWDY"), childCtx)
	require.NoError(t, err)
	assert.True(t, childResult.HasMatch())

	// A ParseContext memoizes Ref results by position, and every tokSeg
	// token sits at the zero position, so a second input gets its own
	// context rather than reusing childCtx.
	childRejects, err := ref.Match(tokSeg("HELLO"), grammar.NewParseContext(child, nil))
	require.NoError(t, err)
	assert.False(t, childRejects.HasMatch())
}

func TestDialect_InsertLexerMatchersBeforeAnchor(t *testing.T) {
	d := dialect.New("ansi")
	require.NoError(t, d.InsertLexerMatchers("", dialect.LexerMatcher{Name: "block_comment", Pattern: "/\\*.*\\*/"}))
	require.NoError(t, d.InsertLexerMatchers("block_comment", dialect.LexerMatcher{Name: "line_comment_slash", Pattern: "^//.*"}))

	names := make([]string, 0, 2)
	for _, lm := range d.LexerMatchers() {
		names = append(names, lm.Name)
	}
	assert.Equal(t, []string{"line_comment_slash", "block_comment"}, names)
}

func TestDialect_IsReservedKeywordChecksAncestors(t *testing.T) {
	parent := dialect.New("ansi")
	require.NoError(t, parent.AddKeywords([]string{"SELECT"}, nil))
	_, err := parent.Expand()
	require.NoError(t, err)

	child := parent.Clone("postgres")
	_, err = child.Expand()
	require.NoError(t, err)

	assert.True(t, child.IsReservedKeyword("SELECT"))
	assert.False(t, child.IsReservedKeyword("NOPE"))
}

func tokSeg(raw string) []token.Segment {
	return []token.Segment{token.NewTokenSegment(token.Token{Type: token.IDENT, Raw: raw}, "")}
}
