package grammar

import (
	"golang.org/x/text/cases"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// caseFolder normalizes case for case-insensitive literal comparison. Using
// golang.org/x/text/cases instead of strings.EqualFold gives Unicode-aware
// folding for quoted identifiers/keywords in dialects with non-ASCII
// alphabets, and is the same library the teacher already depends on for
// caseless comparison (internal/cli/commands/doctor.go).
var caseFolder = cases.Fold()

// StringParser is a literal matcher: it matches if the first code token's
// raw text equals target, optionally case-insensitively, and on success
// rewraps that single token under kind.
type StringParser struct {
	idBase
	target          string
	foldedTarget    string
	kind            string
	caseInsensitive bool
	optional        bool
}

// NewStringParser builds a literal matcher for target, tagging a
// successful match with kind. If caseInsensitive, comparison folds case
// via Unicode case folding rather than exact byte equality.
func NewStringParser(target, kind string, caseInsensitive bool) *StringParser {
	return &StringParser{
		idBase:          newIDBase(),
		target:          target,
		foldedTarget:    caseFolder.String(target),
		kind:            kind,
		caseInsensitive: caseInsensitive,
	}
}

// Optional marks this matcher as skippable inside a Sequence/OneOf.
func (p *StringParser) Optional() *StringParser {
	p.optional = true
	return p
}

// IsOptional implements Matchable.
func (p *StringParser) IsOptional() bool { return p.optional }

// Simple implements Matchable. For case-sensitive targets this is an exact
// prefilter; for case-insensitive ones, Accepts' plain byte comparison
// would be too strict (a false negative is forbidden), so the prefilter is
// withheld and the real match always runs.
func (p *StringParser) Simple(_ *ParseContext, _ []string) (Simple, bool) {
	if p.caseInsensitive {
		return Simple{}, false
	}
	return Simple{Raws: map[string]struct{}{p.target: {}}}, true
}

// Match implements Matchable.
func (p *StringParser) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	leading, interior, _ := TrimNonCodeSegments(segments)
	if len(interior) == 0 {
		return NoMatch(segments), nil
	}

	head := interior[0]
	raw := head.Raw()
	ok := raw == p.target
	if p.caseInsensitive {
		ok = caseFolder.String(raw) == p.foldedTarget
	}
	if !ok {
		return NoMatch(segments), nil
	}

	rewrapped := wrapAsKind(head, p.kind)
	matched := append(append([]token.Segment{}, leading...), rewrapped)
	unmatched := segments[len(leading)+1:]
	return MatchResult{Matched: matched, Unmatched: unmatched}, nil
}

// Copy implements Matchable. StringParser has no elements/terminators to
// edit; Copy returns an identical clone with a fresh match identity.
func (p *StringParser) Copy(_ CopyOpts) Matchable {
	cp := *p
	cp.idBase = newIDBase()
	return &cp
}

// wrapAsKind rewraps a leaf token segment under a new kind tag if needed.
func wrapAsKind(seg token.Segment, kind string) token.Segment {
	if kind == "" || seg.Kind() == kind {
		return seg
	}
	if ts, ok := seg.(*token.TokenSegment); ok {
		return token.NewTokenSegment(ts.Token(), kind)
	}
	return seg
}
