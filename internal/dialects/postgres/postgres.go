// Package postgres clones the ansi dialect and layers Postgres-specific
// grammar on top of it: DISTINCT ON (...), and allowing a parenthesized
// expression list wherever a scalar expression is expected (row
// constructors). Neither ansi's rule bodies nor its bracket/keyword
// tables are redefined from scratch — postgres.Build clones them and
// edits only what differs (spec.md §4.9 "replace_grammar"/"copy").
package postgres

import (
	"github.com/leapstack-labs/sqlgrammar/internal/dialects/ansi"
	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// RootRule matches ansi's: Postgres does not rename the entry point, only
// enriches what it resolves to.
const RootRule = ansi.RootRule

func init() {
	dialect.Register(Build())
}

// Build clones ansi.Build()'s dialect and layers Postgres's additions.
func Build() *dialect.Dialect {
	d := ansi.Build().Clone("postgres")

	mustAdd(d, "on_keyword", grammar.NewStringParser(token.ON.String(), "keyword", true))
	mustAdd(d, "distinct_on_clause", grammar.NewSequence(
		grammar.NewRef("distinct_keyword"),
		grammar.NewRef("on_keyword"),
		grammar.NewRef("bracketed_expression_list"),
	))

	// Allow "DISTINCT ON (...)" ahead of the select target list.
	if err := d.Copy("select_statement", grammar.CopyOpts{
		Insert:    []grammar.Matchable{grammar.NewRef("distinct_on_clause").Optional()},
		BeforeRef: "select_target_list",
	}); err != nil {
		panic(err)
	}

	// A scalar expression position may also hold a parenthesized row
	// constructor: expression := column_reference | literal | "(" expr_list ")".
	if err := d.Copy("expression", grammar.CopyOpts{
		Insert: []grammar.Matchable{grammar.NewRef("bracketed_expression_list")},
	}); err != nil {
		panic(err)
	}

	if err := d.AddKeywords([]string{"ON"}, nil); err != nil {
		panic(err)
	}

	expanded, err := d.Expand()
	if err != nil {
		panic(err)
	}
	return expanded
}

func mustAdd(d *dialect.Dialect, name string, m grammar.Matchable) {
	if err := d.Add(name, m); err != nil {
		panic(err)
	}
}
