// Package dialect implements the named-rule registry every grammar
// combinator resolves Ref against: a dialect owns a map of rule name to
// grammar.Matchable, a table of named bracket-pair sets, and an ordered
// list of lexer-matcher placeholders, and supports layered inheritance by
// flat-cloning a parent dialect and mutating the clone (spec.md §4.9).
package dialect

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
)

// LexerMatcher is a named placeholder for a lexer rule. The lexer itself
// is out of scope for this module; a dialect still records which matchers
// it would want inserted, and where, so that dialect composition (e.g.
// DuckDB inserting a "//" line-comment matcher ahead of the inherited
// block-comment matcher) is fully exercised without requiring a concrete lexer
// implementation.
type LexerMatcher struct {
	Name    string
	Pattern string
}

// Dialect is a named, mutable-until-sealed collection of grammar rules,
// bracket-pair sets, lexer-matcher placeholders, and keyword sets. Once
// Expand has sealed it, every mutating method returns ErrSealedDialect;
// a sealed Dialect is safe to share, read-only, across the multiple
// goroutines of a ParseMany fan-out (spec.md §5).
type Dialect struct {
	mu sync.RWMutex

	name   string
	parent *Dialect
	sealed bool

	grammars      map[string]grammar.Matchable
	bracketSets   map[string][]grammar.BracketPair
	lexerMatchers []LexerMatcher
	reserved      map[string]struct{}
	unreserved    map[string]struct{}
}

// New creates an empty, unsealed root dialect (e.g. the base "ansi"
// layer, which has no parent of its own).
func New(name string) *Dialect {
	return &Dialect{
		name:        name,
		grammars:    make(map[string]grammar.Matchable),
		bracketSets: make(map[string][]grammar.BracketPair),
		reserved:    make(map[string]struct{}),
		unreserved:  make(map[string]struct{}),
	}
}

// Clone flat-copies every rule, bracket-pair entry, lexer matcher, and
// keyword this dialect knows about into a new, unsealed Dialect named
// name, with this dialect recorded as its parent. The cloned map entries
// are new, but the grammar.Matchable values they point at are shared with
// the parent (spec.md §9 "dialect cloning shares rule bodies") — cloning
// is cheap, and an override only needs to replace the one map entry it
// cares about via ReplaceGrammar or Copy, not rebuild the whole tree.
func (d *Dialect) Clone(name string) *Dialect {
	d.mu.RLock()
	defer d.mu.RUnlock()

	clone := New(name)
	clone.parent = d
	for k, v := range d.grammars {
		clone.grammars[k] = v
	}
	for k, v := range d.bracketSets {
		cp := make([]grammar.BracketPair, len(v))
		copy(cp, v)
		clone.bracketSets[k] = cp
	}
	clone.lexerMatchers = append([]LexerMatcher{}, d.lexerMatchers...)
	for k := range d.reserved {
		clone.reserved[k] = struct{}{}
	}
	for k := range d.unreserved {
		clone.unreserved[k] = struct{}{}
	}
	return clone
}

// Name implements grammar.Dialect.
func (d *Dialect) Name() string { return d.name }

// Parent returns the dialect this one was cloned from, or nil for a root
// dialect.
func (d *Dialect) Parent() *Dialect { return d.parent }

// Sealed reports whether Expand has been called.
func (d *Dialect) Sealed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sealed
}

// Grammar implements grammar.Dialect: resolves name against this
// dialect's own rule map, falling back to the parent chain for a name the
// map lacks (a rule the parent gained after Clone copied its map).
func (d *Dialect) Grammar(name string) (grammar.Matchable, bool) {
	d.mu.RLock()
	m, ok := d.grammars[name]
	d.mu.RUnlock()
	if ok {
		return m, true
	}
	if d.parent != nil {
		return d.parent.Grammar(name)
	}
	return nil, false
}

// BracketSet implements grammar.Dialect.
func (d *Dialect) BracketSet(name string) []grammar.BracketPair {
	d.mu.RLock()
	set, ok := d.bracketSets[name]
	d.mu.RUnlock()
	if ok {
		return set
	}
	if d.parent != nil {
		return d.parent.BracketSet(name)
	}
	return nil
}

// Add registers a brand-new rule name. It is an error to Add a name that
// already resolves (whether declared directly on d or inherited) — use
// ReplaceGrammar or Copy to override an existing rule.
func (d *Dialect) Add(name string, m grammar.Matchable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return fmt.Errorf("%w: %s", grammar.ErrSealedDialect, d.name)
	}
	if _, exists := d.grammars[name]; exists {
		return fmt.Errorf("%w: %s in dialect %s", grammar.ErrDuplicateRule, name, d.name)
	}
	if d.parent != nil {
		if _, exists := d.parent.Grammar(name); exists {
			return fmt.Errorf("%w: %s already defined by parent dialect %s", grammar.ErrDuplicateRule, name, d.parent.name)
		}
	}
	d.grammars[name] = m
	return nil
}

// ReplaceGrammar overrides an existing rule by name: it is an error to
// replace a name that does not resolve at all.
func (d *Dialect) ReplaceGrammar(name string, m grammar.Matchable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return fmt.Errorf("%w: %s", grammar.ErrSealedDialect, d.name)
	}
	if _, ok := d.grammars[name]; !ok {
		if d.parent == nil {
			return fmt.Errorf("%w: %s in dialect %s", grammar.ErrUnknownRule, name, d.name)
		}
		if _, ok := d.parent.Grammar(name); !ok {
			return fmt.Errorf("%w: %s in dialect %s", grammar.ErrUnknownRule, name, d.name)
		}
	}
	d.grammars[name] = m
	return nil
}

// Copy is the uniform structural-edit hook: it resolves name, applies
// opts via the resolved Matchable's own Copy method, and stores the
// result as this dialect's override — the exact shape the DuckDB layer
// uses to add "BY NAME" to the inherited set_operator rule without knowing
// anything about Sequence's internals (spec.md §9 "copy hook uniform
// signature").
func (d *Dialect) Copy(name string, opts grammar.CopyOpts) error {
	existing, ok := d.Grammar(name)
	if !ok {
		return fmt.Errorf("%w: %s in dialect %s", grammar.ErrUnknownRule, name, d.name)
	}
	return d.ReplaceGrammar(name, existing.Copy(opts))
}

// AddBracketPair registers a bracket pair under the named set
// ("bracket_pairs" by convention).
func (d *Dialect) AddBracketPair(setName string, pair grammar.BracketPair) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return fmt.Errorf("%w: %s", grammar.ErrSealedDialect, d.name)
	}
	d.bracketSets[setName] = append(d.bracketSets[setName], pair)
	return nil
}

// InsertLexerMatchers inserts matchers immediately before the first
// existing matcher named beforeName, or appends them at the end if
// beforeName is empty or not found — the hook DuckDB uses to slot its
// "//" line-comment matcher ahead of ANSI's default comment handling.
func (d *Dialect) InsertLexerMatchers(beforeName string, matchers ...LexerMatcher) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return fmt.Errorf("%w: %s", grammar.ErrSealedDialect, d.name)
	}

	if beforeName == "" {
		d.lexerMatchers = append(d.lexerMatchers, matchers...)
		return nil
	}

	idx := -1
	for i, lm := range d.lexerMatchers {
		if lm.Name == beforeName {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.lexerMatchers = append(d.lexerMatchers, matchers...)
		return nil
	}

	next := make([]LexerMatcher, 0, len(d.lexerMatchers)+len(matchers))
	next = append(next, d.lexerMatchers[:idx]...)
	next = append(next, matchers...)
	next = append(next, d.lexerMatchers[idx:]...)
	d.lexerMatchers = next
	return nil
}

// LexerMatchers returns the ordered matcher list.
func (d *Dialect) LexerMatchers() []LexerMatcher {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]LexerMatcher{}, d.lexerMatchers...)
}

// AddKeywords merges reserved and unreserved keyword names into this
// dialect's keyword sets.
func (d *Dialect) AddKeywords(reserved, unreserved []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return fmt.Errorf("%w: %s", grammar.ErrSealedDialect, d.name)
	}
	for _, kw := range reserved {
		d.reserved[kw] = struct{}{}
	}
	for _, kw := range unreserved {
		d.unreserved[kw] = struct{}{}
	}
	return nil
}

// IsReservedKeyword reports whether name is a reserved keyword in this
// dialect or any of its ancestors.
func (d *Dialect) IsReservedKeyword(name string) bool {
	d.mu.RLock()
	_, ok := d.reserved[name]
	d.mu.RUnlock()
	if ok {
		return true
	}
	if d.parent != nil {
		return d.parent.IsReservedKeyword(name)
	}
	return false
}

// Expand resolves internal back-references and validates closure — every
// Ref reachable from every rule this dialect declares must resolve,
// against this dialect's own rules or its parent chain — then seals the
// dialect: every subsequent Add/ReplaceGrammar/Copy/AddBracketPair/
// InsertLexerMatchers/AddKeywords call fails with ErrSealedDialect
// (spec.md "expand(): resolve eager references, mark dialect sealed;
// post-condition: every Ref can be resolved"). A dangling Ref is
// surfaced here, at build time, as ErrUnknownRule, exactly like
// DuplicateRule/SealedDialect are surfaced by the mutating methods above,
// rather than left to fail unpredictably deep inside some later Match
// call. Expand is idempotent — sealing an already-sealed dialect is a
// no-op, not an error (spec.md §8 "idempotent expansion") — so that a
// registration path that might call Expand more than once (e.g. once per
// layer in a long inheritance chain, defensively) behaves identically
// either way.
func (d *Dialect) Expand() (*Dialect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sealed {
		return d, nil
	}

	names := make([]string, 0, len(d.grammars))
	for name := range d.grammars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, ref := range grammar.RefNames(d.grammars[name]) {
			if _, ok := d.resolveLocked(ref); !ok {
				return nil, fmt.Errorf("%w: %s referenced by rule %q in dialect %q", grammar.ErrUnknownRule, ref, name, d.name)
			}
		}
	}

	d.sealed = true
	return d, nil
}

// resolveLocked resolves name against d.grammars directly (the caller
// already holds d.mu) and falls back to the parent chain, which takes its
// own lock on a distinct Dialect value.
func (d *Dialect) resolveLocked(name string) (grammar.Matchable, bool) {
	if m, ok := d.grammars[name]; ok {
		return m, true
	}
	if d.parent != nil {
		return d.parent.Grammar(name)
	}
	return nil, false
}
