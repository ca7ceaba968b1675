package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// MatchResult carries the two ordered token spans every Matchable returns:
// what it consumed, grouped back into segments, and what is left over.
type MatchResult struct {
	Matched   []token.Segment
	Unmatched []token.Segment
}

// NoMatch builds the canonical "consumed nothing" result for remainder.
func NoMatch(remainder []token.Segment) MatchResult {
	return MatchResult{Unmatched: remainder}
}

// HasMatch reports whether Matched contains at least one code segment. An
// all-non-code matched span (e.g. only whitespace) counts as no match.
func (r MatchResult) HasMatch() bool {
	return token.HasCode(r.Matched)
}

// CodeLen returns the number of code segments in Matched (used by the
// longest-match-wins rule of OneOf and AnyNumberOf).
func (r MatchResult) CodeLen() int {
	n := 0
	for _, s := range r.Matched {
		if s.IsCode() {
			n++
		}
	}
	return n
}
