package grammar

import "errors"

// Sentinel errors for the conditions spec.md §7 calls "Surfaced": everything
// that is not an ordinary backtracking NoMatch. NoMatch itself is not an
// error at all — it is the zero-match MatchResult a caller gets back from
// Matchable.Match, exactly as the teacher's handlers return (nil, nil) for
// "no clause found" rather than an error (pkg/dialect/handlers.go).
var (
	// ErrUnknownRule is returned when a Ref names a rule absent from the
	// dialect at match time.
	ErrUnknownRule = errors.New("grammar: unknown rule")

	// ErrDuplicateRule is returned by Dialect.Add when a rule name already
	// exists.
	ErrDuplicateRule = errors.New("grammar: duplicate rule")

	// ErrSealedDialect is returned by any mutation attempted after Expand.
	ErrSealedDialect = errors.New("grammar: dialect is sealed")

	// ErrUnbalancedBrackets is returned when Bracketed cannot find its
	// closing bracket.
	ErrUnbalancedBrackets = errors.New("grammar: unbalanced brackets")

	// ErrInternalInvariant signals a broken invariant the caller cannot
	// recover from locally (e.g. a bracket-set entry missing an end).
	ErrInternalInvariant = errors.New("grammar: internal invariant violated")

	// ErrCancelled is returned when a parse observes a tripped cancellation
	// signal. It propagates unchanged through every deeper_match frame.
	ErrCancelled = errors.New("grammar: parse cancelled")
)
