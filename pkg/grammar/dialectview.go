package grammar

// BracketPair describes one entry of a dialect's named bracket-pair table:
// spec.md §3 "bracket_sets: named tables of (type, open-rule, close-rule,
// persists) quadruples".
type BracketPair struct {
	Type     string // "round", "square", "curly", ...
	Open     Matchable
	Close    Matchable
	Persists bool
}

// Dialect is the read-only view of a sealed dialect that ParseContext needs
// in order to resolve Ref and Bracketed. It is intentionally a narrow
// interface (rather than a direct dependency on pkg/dialect) so that Ref
// stays late-bound and free of any import cycle: Ref carries only a name,
// the dialect is supplied by the ParseContext at match time, exactly as
// spec.md §9 prescribes ("Ref carry only a name, dialect supplied by
// ParseContext").
type Dialect interface {
	// Name returns the dialect's identifier, for diagnostics.
	Name() string

	// Grammar resolves a rule name to its Matchable.
	Grammar(name string) (Matchable, bool)

	// BracketSet returns the named bracket-pair table ("bracket_pairs" by
	// convention unless a Bracketed combinator names another).
	BracketSet(name string) []BracketPair
}
