package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// OneOf tries every alternative against the same starting position and
// keeps the longest match (measured in code segments consumed), breaking
// ties by declaration order — the first-declared alternative wins a tie
// (spec.md §4.3; Open Question "OneOf tie-break" resolved as fixed
// declaration order, not configurable, see DESIGN.md).
type OneOf struct {
	idBase
	elements []Matchable
	optional bool
}

// NewOneOf builds a OneOf over elements, tried in the given order.
func NewOneOf(elements ...Matchable) *OneOf {
	return &OneOf{idBase: newIDBase(), elements: elements}
}

// Optional marks this OneOf as skippable inside a Sequence.
func (o *OneOf) Optional() *OneOf {
	o.optional = true
	return o
}

// IsOptional implements Matchable.
func (o *OneOf) IsOptional() bool { return o.optional }

// Match attempts every element against segments and keeps the
// longest-matching one. Elements whose Simple prefilter rejects the
// current lookahead are skipped without a real Match call (spec.md §4.8
// "simple prefilter").
func (o *OneOf) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	_, interior, _ := TrimNonCodeSegments(segments)
	var lookahead token.Segment
	if len(interior) > 0 {
		lookahead = interior[0]
	}

	var best MatchResult
	haveBest := false

	for _, el := range o.elements {
		if lookahead != nil {
			if simple, ok := el.Simple(ctx, nil); ok && !simple.Empty() && !simple.Accepts(lookahead) {
				continue
			}
		}

		mr, err := el.Match(segments, ctx)
		if err != nil {
			return MatchResult{}, err
		}
		if !mr.HasMatch() {
			continue
		}
		if !haveBest || mr.CodeLen() > best.CodeLen() {
			best = mr
			haveBest = true
		}
	}

	if !haveBest {
		return NoMatch(segments), nil
	}
	return best, nil
}

// Simple returns the union of every alternative's prefilter. If any
// alternative offers no prefilter, OneOf as a whole offers none (a
// negative on one branch must not suppress trying the others).
func (o *OneOf) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	var out Simple
	for _, el := range o.elements {
		s, ok := el.Simple(ctx, crumbs)
		if !ok {
			return Simple{}, false
		}
		mergeSimple(&out, s)
	}
	return out, true
}

// Copy applies opts to the element list: Insert/Remove/BeforeRef edit
// elements, Terminators is not meaningful for OneOf and is ignored.
func (o *OneOf) Copy(opts CopyOpts) Matchable {
	elements := applyElementEdits(o.elements, opts)
	return &OneOf{idBase: newIDBase(), elements: elements, optional: o.optional}
}

// applyElementEdits is the shared Remove/Insert/BeforeRef logic used by
// every combinator whose Copy edits an element list (spec.md §9 "copy hook
// uniform signature").
func applyElementEdits(elements []Matchable, opts CopyOpts) []Matchable {
	out := make([]Matchable, 0, len(elements)+len(opts.Insert))

	removeSet := make(map[string]struct{}, len(opts.Remove))
	for _, name := range opts.Remove {
		removeSet[name] = struct{}{}
	}

	inserted := false
	for _, el := range elements {
		if rn, ok := el.(RefName); ok {
			if _, drop := removeSet[rn.refName()]; drop {
				continue
			}
			if opts.BeforeRef != "" && rn.refName() == opts.BeforeRef {
				out = append(out, opts.Insert...)
				inserted = true
			}
		}
		out = append(out, el)
	}

	if !inserted {
		out = append(out, opts.Insert...)
	}

	return out
}
