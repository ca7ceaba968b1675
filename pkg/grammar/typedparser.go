package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// TypedParser matches any single code token whose Kind equals one of
// acceptedKinds, regardless of its raw text. This is StringParser's
// counterpart for token classes the lexer already distinguishes by type
// (identifiers, numeric/string literals) rather than by literal spelling.
type TypedParser struct {
	idBase
	acceptedKinds map[string]struct{}
	kind          string
	optional      bool
}

// NewTypedParser matches any token whose Kind is one of acceptedKinds,
// rewrapping a successful match under kind.
func NewTypedParser(kind string, acceptedKinds ...string) *TypedParser {
	set := make(map[string]struct{}, len(acceptedKinds))
	for _, k := range acceptedKinds {
		set[k] = struct{}{}
	}
	return &TypedParser{idBase: newIDBase(), acceptedKinds: set, kind: kind}
}

// Optional marks this TypedParser as skippable inside a Sequence/OneOf.
func (p *TypedParser) Optional() *TypedParser {
	p.optional = true
	return p
}

// IsOptional implements Matchable.
func (p *TypedParser) IsOptional() bool { return p.optional }

// Simple implements Matchable: an exact kind-tag prefilter.
func (p *TypedParser) Simple(_ *ParseContext, _ []string) (Simple, bool) {
	kinds := make(map[string]struct{}, len(p.acceptedKinds))
	for k := range p.acceptedKinds {
		kinds[k] = struct{}{}
	}
	return Simple{Kinds: kinds}, true
}

// Match implements Matchable.
func (p *TypedParser) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	leading, interior, _ := TrimNonCodeSegments(segments)
	if len(interior) == 0 {
		return NoMatch(segments), nil
	}

	head := interior[0]
	if _, ok := p.acceptedKinds[head.Kind()]; !ok {
		return NoMatch(segments), nil
	}

	rewrapped := wrapAsKind(head, p.kind)
	matched := append(append([]token.Segment{}, leading...), rewrapped)
	unmatched := segments[len(leading)+1:]
	return MatchResult{Matched: matched, Unmatched: unmatched}, nil
}

// Copy implements Matchable.
func (p *TypedParser) Copy(_ CopyOpts) Matchable {
	cp := *p
	cp.idBase = newIDBase()
	cp.acceptedKinds = make(map[string]struct{}, len(p.acceptedKinds))
	for k := range p.acceptedKinds {
		cp.acceptedKinds[k] = struct{}{}
	}
	return &cp
}
