package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// metaElement is implemented by grammar-level meta markers (Indent, Dedent)
// so that Sequence can recognize and buffer them specially instead of
// treating them as ordinary elements to match against input (spec.md §9
// "meta segments as a separate buffer, not real tokens").
type metaElement interface {
	Matchable
	indentVal() int
	metaKind() string
}

// metaMarker is a zero-width grammar element that, when encountered by
// Sequence, emits a MetaSegment instead of consuming any input segments.
type metaMarker struct {
	idBase
	val  int
	kind string
}

// Indent returns a grammar element that emits an indent meta segment at its
// position in a Sequence, without consuming input.
func Indent() Matchable {
	return &metaMarker{idBase: newIDBase(), val: 1, kind: "indent"}
}

// Dedent returns a grammar element that emits a dedent meta segment at its
// position in a Sequence, without consuming input.
func Dedent() Matchable {
	return &metaMarker{idBase: newIDBase(), val: -1, kind: "dedent"}
}

func (m *metaMarker) indentVal() int   { return m.val }
func (m *metaMarker) metaKind() string { return m.kind }

// Match is never expected to be invoked directly by Sequence (which
// special-cases metaElement), but is implemented to satisfy Matchable and
// to behave sanely if a meta marker ever ends up inside e.g. a OneOf.
func (m *metaMarker) Match(segments []token.Segment, _ *ParseContext) (MatchResult, error) {
	pos := token.Position{}
	if len(segments) > 0 {
		pos = segments[0].Position()
	}
	var seg token.Segment
	if m.val >= 0 {
		seg = token.NewIndentMeta(pos)
	} else {
		seg = token.NewDedentMeta(pos)
	}
	return MatchResult{Matched: []token.Segment{seg}, Unmatched: segments}, nil
}

// Simple implements Matchable: a meta marker never consumes code, so it
// offers no raw/kind prefilter.
func (m *metaMarker) Simple(_ *ParseContext, _ []string) (Simple, bool) {
	return Simple{}, false
}

// Copy implements Matchable; meta markers have no internal structure to
// edit.
func (m *metaMarker) Copy(_ CopyOpts) Matchable {
	cp := *m
	cp.idBase = newIDBase()
	return &cp
}

// IsOptional implements Matchable: a meta marker never blocks a Sequence
// (it contributes no code requirement).
func (m *metaMarker) IsOptional() bool { return true }

// positionMetas implements the meta-placement rule from spec.md's meta
// positioning note and the Rust source's `position_metas`: metas precede a
// run of non-code segments iff every buffered meta has indent_val >= 0;
// otherwise the non-code run precedes the metas. Both orderings preserve
// the relative order within each group.
func positionMetas(metas []token.Segment, nonCode []token.Segment) []token.Segment {
	allNonNegative := true
	for _, m := range metas {
		if ms, ok := m.(*token.MetaSegment); ok && ms.IndentVal() < 0 {
			allNonNegative = false
			break
		}
	}

	out := make([]token.Segment, 0, len(metas)+len(nonCode))
	if allNonNegative {
		out = append(out, metas...)
		out = append(out, nonCode...)
	} else {
		out = append(out, nonCode...)
		out = append(out, metas...)
	}
	return out
}
