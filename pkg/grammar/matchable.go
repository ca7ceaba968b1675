package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// Simple is the optional prefilter a Matchable can offer: an
// over-approximation of the raw strings and/or kind tags that could
// possibly begin a successful match. False positives are permitted (the
// real match is always attempted); false negatives are forbidden.
type Simple struct {
	Raws  map[string]struct{}
	Kinds map[string]struct{}
}

// Empty reports whether the prefilter carries no information (neither raws
// nor kinds) — this is distinct from "no prefilter at all" (ok=false),
// which means "cannot cheaply predict" and must not be used to skip
// anything.
func (s Simple) Empty() bool {
	return len(s.Raws) == 0 && len(s.Kinds) == 0
}

// Accepts reports whether seg could plausibly be matched per this
// prefilter: its raw text is in Raws (compared byte for byte, with no case
// folding), or its Kind is in Kinds.
func (s Simple) Accepts(seg token.Segment) bool {
	if _, ok := s.Raws[seg.Raw()]; ok {
		return true
	}
	if _, ok := s.Kinds[seg.Kind()]; ok {
		return true
	}
	return false
}

func mergeSimple(dst *Simple, src Simple) {
	if dst.Raws == nil {
		dst.Raws = make(map[string]struct{})
	}
	if dst.Kinds == nil {
		dst.Kinds = make(map[string]struct{})
	}
	for r := range src.Raws {
		dst.Raws[r] = struct{}{}
	}
	for k := range src.Kinds {
		dst.Kinds[k] = struct{}{}
	}
}

// CopyOpts parameterizes Matchable.Copy: the uniform structural-edit hook
// every combinator supports so a dialect override never has to name a
// combinator's private fields (spec.md §4.9, §9 "copy hook").
type CopyOpts struct {
	// Insert appends (or, with BeforeRef set, splices) additional elements
	// into a Sequence/OneOf/AnyNumberOf's element list (Bracketed passes it
	// on to its inner grammar; Delimited ignores it).
	Insert []Matchable
	// BeforeRef, if non-empty, inserts Insert immediately before the first
	// element that is a Ref with this name, instead of appending; if no
	// element matches, Insert is appended.
	BeforeRef string
	// Remove lists ref names to drop from the element list.
	Remove []string
	// Terminators is added to (or, with ReplaceTerminators, replaces) the
	// combinator's terminator set.
	Terminators        []Matchable
	ReplaceTerminators bool
}

// Matchable is the capability every grammar node exposes: the polymorphic
// matcher interface combinators are built from (spec.md §3 "Matchable").
type Matchable interface {
	// Match attempts to match segments, returning the consumed/unconsumed
	// spans. A failed match is not an error: it is a MatchResult whose
	// HasMatch() is false, with Unmatched equal to the original segments.
	Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error)

	// Simple returns an optional prefilter. ok is false when no cheap
	// prediction is possible (e.g. a cyclic Ref) — callers must then always
	// attempt the real match.
	Simple(ctx *ParseContext, crumbs []string) (simple Simple, ok bool)

	// Copy returns a structurally modified clone; the receiver is never
	// mutated.
	Copy(opts CopyOpts) Matchable

	// IsOptional reports whether a Sequence/OneOf element may be skipped
	// when it fails to match.
	IsOptional() bool

	// matchID identifies this combinator for memoization purposes. It is
	// stable for the lifetime of the value (assigned once at construction).
	matchID() uint64
}

// RefName is implemented by combinators that carry a referable name hint
// (currently only Ref), used by CopyOpts.BeforeRef/Remove to locate
// elements without the caller needing to know concrete types.
type RefName interface {
	refName() string
}
