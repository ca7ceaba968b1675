package grammar

import (
	"fmt"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// Ref is a late-bound reference to a named rule in the active dialect. It
// carries only a name — never a pointer to the rule itself — so dialect
// inheritance can swap out what a name resolves to without Ref ever
// needing to change (spec.md §4.1, §9 "Ref is late-bound by name only").
//
// A keyword Ref (built by Keyword) does not go through the dialect's rule
// table at all: it is backed by a case-insensitive StringParser built once,
// at construction, and matches a single code token whose raw text equals
// word after case folding. The input token's own kind is not checked; the
// matched token is tagged with kind "keyword".
type Ref struct {
	idBase
	name      string
	isKeyword bool
	optional  bool

	keywordParser *StringParser
}

// NewRef resolves name against the active dialect at match time.
func NewRef(name string) *Ref {
	return &Ref{idBase: newIDBase(), name: name}
}

// Keyword builds a Ref that matches a single literal keyword token named
// name, case-insensitively, without any dialect rule lookup. The backing
// StringParser is built once, at construction, so a sealed dialect's
// keyword Refs are safe to share read-only across the concurrent parses
// ParseMany fans out (spec.md §5).
func Keyword(name string) *Ref {
	return &Ref{idBase: newIDBase(), name: name, isKeyword: true, keywordParser: NewStringParser(name, "keyword", true)}
}

// Optional marks this Ref as skippable inside a Sequence/OneOf.
func (r *Ref) Optional() *Ref {
	r.optional = true
	return r
}

// IsOptional implements Matchable.
func (r *Ref) IsOptional() bool { return r.optional }

// refName implements RefName, letting CopyOpts.BeforeRef/Remove locate a
// Ref element by the name it points to without knowing its concrete type.
func (r *Ref) refName() string { return r.name }

// Match resolves r.name against ctx's dialect and delegates, wrapping an
// unresolvable name in ErrUnknownRule. A keyword Ref bypasses dialect
// resolution entirely and delegates straight to its backing StringParser.
func (r *Ref) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	if r.isKeyword {
		return r.keywordParser.Match(segments, ctx)
	}

	target, ok := ctx.Dialect().Grammar(r.name)
	if !ok {
		return MatchResult{}, fmt.Errorf("%w: rule %q in dialect %q", ErrUnknownRule, r.name, ctx.Dialect().Name())
	}

	// Every Ref resolution is memoized by (rule, position, active
	// terminators): recursive rules like expression -> expression re-enter
	// the same name at the same offset often enough for this to matter.
	if cached, cachedErr, hit := ctx.memoLookup(r.matchID(), segments); hit {
		return cached, cachedErr
	}

	var result MatchResult
	var err error
	_, dErr := ctx.DeeperMatch(r.name, false, nil, func(inner *ParseContext) (MatchResult, error) {
		result, err = target.Match(segments, inner)
		return result, err
	})
	if dErr != nil {
		return MatchResult{}, dErr
	}
	ctx.memoStore(r.matchID(), segments, result, err)
	return result, err
}

// Simple delegates to the resolved rule's own prefilter, guarding against
// infinite recursion through crumbs: if r.name is already on the crumb
// trail (a cyclic grammar, e.g. an expression referring to itself), no
// cheap prediction is possible and ok is false.
func (r *Ref) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	if r.isKeyword {
		return r.keywordParser.Simple(ctx, crumbs)
	}

	for _, c := range crumbs {
		if c == r.name {
			return Simple{}, false
		}
	}
	target, ok := ctx.Dialect().Grammar(r.name)
	if !ok {
		return Simple{}, false
	}
	return target.Simple(ctx, append(crumbs, r.name))
}

// Copy returns a structurally identical Ref with a fresh match identity. A
// dialect override that wants to change what a name resolves to calls
// Dialect.ReplaceGrammar on the name instead of editing the Ref itself.
func (r *Ref) Copy(_ CopyOpts) Matchable {
	cp := *r
	cp.idBase = newIDBase()
	return &cp
}
