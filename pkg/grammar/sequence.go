package grammar

import (
	"fmt"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// ParseMode governs how strictly a Sequence treats a non-optional element
// that fails to match (spec.md §4.4).
type ParseMode int

const (
	// ParseModeStrict fails the whole Sequence the moment any non-optional
	// element fails to match.
	ParseModeStrict ParseMode = iota

	// ParseModeGreedyOnceStarted tolerates a failing non-optional element,
	// but only after at least one element has already produced a code
	// match: once started, the Sequence claims everything up to its
	// nearest terminator (a single TrimToTerminator call) instead of
	// failing outright. Before the first match, behaves like Strict.
	ParseModeGreedyOnceStarted

	// ParseModeGreedy, like GreedyOnceStarted, answers a failing required
	// element after at least one element has matched by claiming
	// everything up to the nearest terminator; before the first match it
	// fails like Strict. Once every element has matched (or been skipped),
	// it also absorbs any trailing content up to the nearest terminator (or
	// to the end of input when none is found). Unlike GreedyOnceStarted, it
	// does not withhold input past a terminator while elements are matched.
	ParseModeGreedy
)

// Sequence matches elements in order. Non-code gaps between elements are
// allowed (and folded into the match) unless NoGaps is set; Indent/Dedent
// markers among elements are buffered as zero-width meta segments and
// positioned relative to the surrounding gap per positionMetas rather than
// matched against input (spec.md §4.4).
type Sequence struct {
	idBase
	elements    []Matchable
	terminators []Matchable
	allowGaps   bool
	parseMode   ParseMode
	optional    bool
}

// NewSequence builds a Sequence over elements, matched strictly and in
// order, with gaps between elements allowed by default.
func NewSequence(elements ...Matchable) *Sequence {
	return &Sequence{idBase: newIDBase(), elements: elements, allowGaps: true}
}

// Terminators sets the terminator set this Sequence contributes to the
// active terminator stack while matching its elements.
func (s *Sequence) Terminators(terminators ...Matchable) *Sequence {
	s.terminators = terminators
	return s
}

// WithParseMode sets the Sequence's tolerance for a failing required
// element.
func (s *Sequence) WithParseMode(mode ParseMode) *Sequence {
	s.parseMode = mode
	return s
}

// NoGaps disallows non-code segments between elements: any gap left where
// one is found causes the Sequence to fail at that point.
func (s *Sequence) NoGaps() *Sequence {
	s.allowGaps = false
	return s
}

// Optional marks this Sequence as skippable inside an enclosing
// Sequence/OneOf.
func (s *Sequence) Optional() *Sequence {
	s.optional = true
	return s
}

// IsOptional implements Matchable.
func (s *Sequence) IsOptional() bool { return s.optional }

// Match implements the element-by-element walk described in spec.md §4.4.
func (s *Sequence) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var result MatchResult
	var err error
	_, dErr := ctx.DeeperMatch("Sequence", false, s.terminators, func(inner *ParseContext) (MatchResult, error) {
		result, err = s.matchBody(segments, inner)
		return result, err
	})
	if dErr != nil {
		return MatchResult{}, dErr
	}
	return result, err
}

func (s *Sequence) matchBody(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var matched []token.Segment
	var pendingMetas []token.Segment
	var tail []token.Segment
	remaining := segments
	startedMatching := false

	for idx, el := range s.elements {
		if err := ctx.CheckCancelled(); err != nil {
			return MatchResult{}, err
		}

		if me, ok := el.(metaElement); ok {
			pos := token.Position{}
			if len(remaining) > 0 {
				pos = remaining[0].Position()
			}
			pendingMetas = append(pendingMetas, newMetaSegment(me, pos))
			continue
		}

		var gap []token.Segment
		candidate := remaining
		if s.allowGaps {
			gap, candidate = splitLeadingGap(remaining)
		}

		var mr MatchResult
		_, dErr := ctx.DeeperMatch(fmt.Sprintf("Sequence-@%d", idx), false, nil, func(inner *ParseContext) (MatchResult, error) {
			var mErr error
			mr, mErr = el.Match(candidate, inner)
			return mr, mErr
		})
		if dErr != nil {
			return MatchResult{}, dErr
		}

		// With gaps disallowed, an element that only matched by reaching
		// across leading non-code (single-token parsers trim it
		// themselves) has not really matched: the gap between elements is
		// what NoGaps forbids.
		if !s.allowGaps && startedMatching && mr.HasMatch() && !mr.Matched[0].IsCode() {
			mr = NoMatch(candidate)
		}

		if mr.HasMatch() {
			matched = append(matched, positionMetas(pendingMetas, gap)...)
			pendingMetas = nil
			matched = append(matched, mr.Matched...)
			remaining = mr.Unmatched

			// One-shot anchor: once the first code-consuming element has
			// landed, everything from the first active terminator onward
			// is withheld from the remaining element matches and
			// reattached to the unmatched remainder at the end.
			if s.parseMode == ParseModeGreedyOnceStarted && !startedMatching {
				avail, withheld, err := TrimToTerminator(remaining, nil, s.effectiveTerminators(ctx), ctx)
				if err != nil {
					return MatchResult{}, err
				}
				remaining = avail
				tail = withheld
			}
			startedMatching = true
			continue
		}

		if el.IsOptional() {
			continue
		}

		switch s.parseMode {
		case ParseModeGreedyOnceStarted, ParseModeGreedy:
			if !startedMatching {
				return NoMatch(segments), nil
			}
			claimed, rest, err := TrimToTerminator(remaining, tail, s.effectiveTerminators(ctx), ctx)
			if err != nil {
				return MatchResult{}, err
			}
			matched = append(matched, claimed...)
			return MatchResult{Matched: matched, Unmatched: rest}, nil
		default:
			return NoMatch(segments), nil
		}
	}

	if len(pendingMetas) > 0 {
		matched = append(matched, positionMetas(pendingMetas, nil)...)
	}

	if s.parseMode == ParseModeGreedy && startedMatching {
		claimed, rest, err := TrimToTerminator(remaining, tail, s.effectiveTerminators(ctx), ctx)
		if err != nil {
			return MatchResult{}, err
		}
		matched = append(matched, claimed...)
		remaining = rest
		tail = nil
	}

	if len(tail) > 0 {
		remaining = append(append([]token.Segment{}, remaining...), tail...)
	}

	if !token.HasCode(matched) {
		return NoMatch(segments), nil
	}
	return MatchResult{Matched: matched, Unmatched: remaining}, nil
}

// effectiveTerminators combines this Sequence's own terminators with
// whatever the enclosing context already has active, for the one-shot
// trims that GreedyOnceStarted/Greedy perform at the edge of the element
// loop (outside of the deeper_match frame pushed by Match).
func (s *Sequence) effectiveTerminators(ctx *ParseContext) []Matchable {
	out := make([]Matchable, 0, len(s.terminators)+len(ctx.ActiveTerminators()))
	out = append(out, s.terminators...)
	out = append(out, ctx.ActiveTerminators()...)
	return out
}

func newMetaSegment(me metaElement, pos token.Position) token.Segment {
	if me.indentVal() >= 0 {
		return token.NewIndentMeta(pos)
	}
	return token.NewDedentMeta(pos)
}

// Simple unions the prefilters of every leading optional element with the
// first non-optional element that follows them (since any of those
// optionals could be skipped, the token that actually starts the match
// might belong to any of them, or to the first required element); if every
// element is optional, it unions over all of them (spec.md §4.4 "simple
// rule").
func (s *Sequence) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	var out Simple
	sawAny := false
	for _, el := range s.elements {
		if _, ok := el.(metaElement); ok {
			continue
		}
		sub, ok := el.Simple(ctx, crumbs)
		if !ok {
			return Simple{}, false
		}
		mergeSimple(&out, sub)
		sawAny = true
		if !el.IsOptional() {
			return out, true
		}
	}
	if !sawAny {
		return Simple{}, false
	}
	return out, true
}

// Copy applies element-list edits and, if Terminators is set, replaces or
// appends to the terminator set.
func (s *Sequence) Copy(opts CopyOpts) Matchable {
	cp := &Sequence{
		idBase:    newIDBase(),
		elements:  applyElementEdits(s.elements, opts),
		allowGaps: s.allowGaps,
		parseMode: s.parseMode,
		optional:  s.optional,
	}
	cp.terminators = applyTerminatorEdits(s.terminators, opts)
	return cp
}

// applyTerminatorEdits is the shared Terminators/ReplaceTerminators logic
// used by every combinator that carries its own terminator set.
func applyTerminatorEdits(existing []Matchable, opts CopyOpts) []Matchable {
	if len(opts.Terminators) == 0 {
		return existing
	}
	if opts.ReplaceTerminators {
		out := make([]Matchable, len(opts.Terminators))
		copy(out, opts.Terminators)
		return out
	}
	out := make([]Matchable, 0, len(existing)+len(opts.Terminators))
	out = append(out, existing...)
	out = append(out, opts.Terminators...)
	return out
}
