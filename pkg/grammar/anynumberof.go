package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// AnyNumberOf matches its elements, in any order, repeatedly: each
// iteration tries every element (longest match wins, same as OneOf) and
// stops when none match, a terminator is hit, or maxTimes is reached
// (spec.md §4.7).
type AnyNumberOf struct {
	idBase
	elements    []Matchable
	minTimes    int
	maxTimes    int // 0 means unlimited
	terminators []Matchable
	allowGaps   bool
	optional    bool
}

// NewAnyNumberOf builds an AnyNumberOf over elements with gaps allowed and
// no repetition bound by default (equivalent to zero-or-more).
func NewAnyNumberOf(elements ...Matchable) *AnyNumberOf {
	return &AnyNumberOf{idBase: newIDBase(), elements: elements, allowGaps: true}
}

// MinTimes requires at least n successful iterations.
func (a *AnyNumberOf) MinTimes(n int) *AnyNumberOf {
	a.minTimes = n
	return a
}

// MaxTimes caps the number of successful iterations; 0 (the default)
// means unlimited.
func (a *AnyNumberOf) MaxTimes(n int) *AnyNumberOf {
	a.maxTimes = n
	return a
}

// Terminators sets the terminator set that stops repetition early.
func (a *AnyNumberOf) Terminators(terminators ...Matchable) *AnyNumberOf {
	a.terminators = terminators
	return a
}

// NoGaps disallows a non-code gap before each iteration's element match.
func (a *AnyNumberOf) NoGaps() *AnyNumberOf {
	a.allowGaps = false
	return a
}

// Optional marks this AnyNumberOf as skippable inside an enclosing
// Sequence; equivalent to MinTimes(0), which is also the default.
func (a *AnyNumberOf) Optional() *AnyNumberOf {
	a.optional = true
	return a
}

// IsOptional implements Matchable.
func (a *AnyNumberOf) IsOptional() bool { return a.optional || a.minTimes == 0 }

// Match implements the repeated-alternation loop described in spec.md
// §4.7.
func (a *AnyNumberOf) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var result MatchResult
	var err error
	_, dErr := ctx.DeeperMatch("AnyNumberOf", false, a.terminators, func(inner *ParseContext) (MatchResult, error) {
		result, err = a.matchBody(segments, inner)
		return result, err
	})
	if dErr != nil {
		return MatchResult{}, dErr
	}
	return result, err
}

func (a *AnyNumberOf) matchBody(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var matched []token.Segment
	remaining := segments
	times := 0

	for a.maxTimes == 0 || times < a.maxTimes {
		if err := ctx.CheckCancelled(); err != nil {
			return MatchResult{}, err
		}

		var gap, candidate []token.Segment
		if a.allowGaps {
			gap, candidate = splitLeadingGap(remaining)
		} else {
			candidate = remaining
		}

		if hitsTerminator(candidate, a.effectiveTerminators(ctx), ctx) {
			break
		}

		mr, ok, err := a.matchOnce(candidate, ctx)
		if err != nil {
			return MatchResult{}, err
		}
		if !ok {
			break
		}
		// With gaps disallowed, an iteration that only matched by
		// reaching across leading non-code has not really matched.
		if !a.allowGaps && !mr.Matched[0].IsCode() {
			break
		}

		matched = append(matched, gap...)
		matched = append(matched, mr.Matched...)
		remaining = mr.Unmatched
		times++
	}

	if times < a.minTimes {
		return NoMatch(segments), nil
	}
	if times == 0 {
		return NoMatch(segments), nil
	}
	return MatchResult{Matched: matched, Unmatched: remaining}, nil
}

// matchOnce tries every element against candidate and keeps the
// longest-matching one, exactly like OneOf.
func (a *AnyNumberOf) matchOnce(candidate []token.Segment, ctx *ParseContext) (MatchResult, bool, error) {
	var lookahead token.Segment
	_, interior, _ := TrimNonCodeSegments(candidate)
	if len(interior) > 0 {
		lookahead = interior[0]
	}

	var best MatchResult
	haveBest := false
	for _, el := range a.elements {
		if lookahead != nil {
			if simple, ok := el.Simple(ctx, nil); ok && !simple.Empty() && !simple.Accepts(lookahead) {
				continue
			}
		}
		mr, err := el.Match(candidate, ctx)
		if err != nil {
			return MatchResult{}, false, err
		}
		if !mr.HasMatch() {
			continue
		}
		if !haveBest || mr.CodeLen() > best.CodeLen() {
			best = mr
			haveBest = true
		}
	}
	return best, haveBest, nil
}

func (a *AnyNumberOf) effectiveTerminators(ctx *ParseContext) []Matchable {
	out := make([]Matchable, 0, len(a.terminators)+len(ctx.ActiveTerminators()))
	out = append(out, a.terminators...)
	out = append(out, ctx.ActiveTerminators()...)
	return out
}

// Simple returns the union of every element's prefilter, same rule as
// OneOf: if one offers none, none is offered overall.
func (a *AnyNumberOf) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	var out Simple
	for _, el := range a.elements {
		s, ok := el.Simple(ctx, crumbs)
		if !ok {
			return Simple{}, false
		}
		mergeSimple(&out, s)
	}
	return out, true
}

// Copy applies element-list and terminator edits.
func (a *AnyNumberOf) Copy(opts CopyOpts) Matchable {
	cp := &AnyNumberOf{
		idBase:    newIDBase(),
		elements:  applyElementEdits(a.elements, opts),
		minTimes:  a.minTimes,
		maxTimes:  a.maxTimes,
		allowGaps: a.allowGaps,
		optional:  a.optional,
	}
	cp.terminators = applyTerminatorEdits(a.terminators, opts)
	return cp
}
