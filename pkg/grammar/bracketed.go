package grammar

import (
	"fmt"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// Bracketed matches inner wrapped in a named bracket pair (round/square/
// curly, as declared in the dialect's bracket_pairs table), using a
// bracket-sensitive lookahead to find the matching close even when inner
// content contains nested brackets of its own (spec.md §4.6).
type Bracketed struct {
	idBase
	inner          Matchable
	bracketType    string
	bracketSetName string
	allowGaps      bool
	optional       bool
}

// NewBracketed wraps inner in the dialect's "round" bracket pair.
func NewBracketed(inner Matchable) *Bracketed {
	return &Bracketed{idBase: newIDBase(), inner: inner, bracketType: "round", bracketSetName: "bracket_pairs", allowGaps: true}
}

// BracketType selects a bracket kind other than the "round" default
// ("square", "curly", or any other type name declared in the dialect's
// bracket_pairs table).
func (b *Bracketed) BracketType(t string) *Bracketed {
	b.bracketType = t
	return b
}

// BracketSetName selects a bracket-pair table other than the default
// "bracket_pairs" (a dialect may declare more than one, e.g. a separate
// table for string-quoting delimiters reused as brackets).
func (b *Bracketed) BracketSetName(name string) *Bracketed {
	b.bracketSetName = name
	return b
}

// NoGaps disallows a non-code gap ahead of the open bracket: the bracket
// must be the very first segment for the match to succeed.
func (b *Bracketed) NoGaps() *Bracketed {
	b.allowGaps = false
	return b
}

// Optional marks this Bracketed as skippable inside an enclosing Sequence.
func (b *Bracketed) Optional() *Bracketed {
	b.optional = true
	return b
}

// IsOptional implements Matchable.
func (b *Bracketed) IsOptional() bool { return b.optional }

// Match implements the resolve-pair, match-open, lookahead-for-close,
// match-inner sequence of spec.md §4.6. If the input already begins with
// a pre-folded "bracketed" composite segment (e.g. produced by an earlier
// bracket-matching pass over the same token stream), Bracketed unwraps it,
// re-validates inner against its held content, and passes the segment
// through unchanged rather than refusing to match or panicking — the
// resolution adopted for the "Bracketed vs. pre-folded segment" design
// question.
func (b *Bracketed) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	// Only the leading gap is peeled here; any non-code after the close
	// bracket must survive into the unmatched remainder (token
	// conservation), so the rest of the slice is scanned as-is.
	var leading, interior []token.Segment
	if b.allowGaps {
		leading, interior = splitLeadingGap(segments)
	} else {
		interior = segments
	}
	if len(interior) == 0 || !interior[0].IsCode() {
		return NoMatch(segments), nil
	}

	if head, ok := interior[0].(*token.CompositeSegment); ok && head.Kind() == "bracketed" {
		if children := head.Children(); len(children) >= 2 {
			middle := children[1 : len(children)-1]
			innerResult, err := b.inner.Match(middle, ctx)
			if err != nil {
				return MatchResult{}, err
			}
			// Same rule as a fresh match: inner must account for every
			// code segment between the brackets.
			if token.HasCode(innerResult.Unmatched) {
				return NoMatch(segments), nil
			}
		}
		matched := append(append([]token.Segment{}, leading...), interior[0])
		unmatched := segments[len(leading)+1:]
		return MatchResult{Matched: matched, Unmatched: unmatched}, nil
	}

	pair, ok := b.resolvePair(ctx)
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: bracket type %q not declared in dialect %q", ErrInternalInvariant, b.bracketType, ctx.Dialect().Name())
	}

	openMR, err := pair.Open.Match(interior, ctx)
	if err != nil {
		return MatchResult{}, err
	}
	if !openMR.HasMatch() {
		return NoMatch(segments), nil
	}

	before, closeMatched, after, err := BracketSensitiveLookAheadMatch(
		openMR.Unmatched, []Matchable{pair.Close}, ctx, pair.Open, pair.Close, b.bracketSetName,
	)
	if err != nil {
		return MatchResult{}, err
	}

	var innerResult MatchResult
	var innerErr error
	_, dErr := ctx.DeeperMatch("Bracketed", false, nil, func(inner *ParseContext) (MatchResult, error) {
		innerResult, innerErr = b.inner.Match(before, inner)
		return innerResult, innerErr
	})
	if dErr != nil {
		return MatchResult{}, dErr
	}
	if innerErr != nil {
		return MatchResult{}, innerErr
	}

	// The inner grammar must consume all code content between the
	// brackets; any leftover code token is a match failure, not a partial
	// match (spec.md §4.6 step 5). Leftover non-code (whitespace/comments)
	// is still carried through untouched.
	if token.HasCode(innerResult.Unmatched) {
		return NoMatch(segments), nil
	}

	span := append(append([]token.Segment{}, openMR.Matched...), innerResult.Matched...)
	span = append(span, innerResult.Unmatched...)
	span = append(span, closeMatched...)

	var bracketSeg []token.Segment
	if pair.Persists {
		bracketSeg = []token.Segment{token.NewCompositeSegment("bracketed", span)}
	} else {
		bracketSeg = span
	}

	matched := append(append([]token.Segment{}, leading...), bracketSeg...)
	return MatchResult{Matched: matched, Unmatched: after}, nil
}

func (b *Bracketed) resolvePair(ctx *ParseContext) (BracketPair, bool) {
	for _, p := range ctx.Dialect().BracketSet(b.bracketSetName) {
		if p.Type == b.bracketType {
			return p, true
		}
	}
	return BracketPair{}, false
}

// Simple offers the open bracket's own prefilter, merged with the
// "bracketed" composite kind for the pre-folded passthrough path.
func (b *Bracketed) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	pair, ok := b.resolvePair(ctx)
	if !ok {
		return Simple{}, false
	}
	s, ok := pair.Open.Simple(ctx, crumbs)
	if !ok {
		return Simple{}, false
	}
	mergeSimple(&s, Simple{Kinds: map[string]struct{}{"bracketed": {}}})
	return s, true
}

// Copy passes opts through to inner: a bracketed body is almost always a
// Sequence, and structural edits target that sequence's element list
// rather than the bracket wrapper itself.
func (b *Bracketed) Copy(opts CopyOpts) Matchable {
	cp := &Bracketed{
		idBase:         newIDBase(),
		inner:          b.inner.Copy(opts),
		bracketType:    b.bracketType,
		bracketSetName: b.bracketSetName,
		allowGaps:      b.allowGaps,
		optional:       b.optional,
	}
	return cp
}
