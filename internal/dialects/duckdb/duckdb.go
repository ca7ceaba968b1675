// Package duckdb clones the postgres dialect (which itself clones ansi)
// and layers DuckDB-specific grammar on top: "UNION ... BY NAME" and a
// "//" line-comment lexer matcher inserted ahead of the inherited block
// comment. This is the worked example for spec.md §9's multi-layer
// inheritance ("ANSI → Postgres → DuckDB"), grounded on the original
// source's duckdb.rs composition of UnionGrammar plus an optional BY NAME
// override via a uniform copy hook.
package duckdb

import (
	"github.com/leapstack-labs/sqlgrammar/internal/dialects/postgres"
	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// RootRule matches postgres's and ansi's: every layer resolves the same
// entry point to whatever grammar it currently owns.
const RootRule = postgres.RootRule

// qualifyTokenType is DuckDB's QUALIFY keyword, registered as a dynamic
// token rather than added to the builtin TokenType block: it is not ANSI
// SQL, just one dialect's addition, exactly the "dialect-specific keywords
// like QUALIFY, ILIKE" case token.Register exists for.
var qualifyTokenType = token.Register("QUALIFY")

func init() {
	dialect.Register(Build())
}

// Build clones postgres.Build()'s dialect and layers DuckDB's additions.
func Build() *dialect.Dialect {
	d := postgres.Build().Clone("duckdb")

	// UNION [ALL|DISTINCT] [BY NAME] select_statement: the optional
	// "BY NAME" suffix is appended to the inherited set_operator sequence
	// via the dialect's uniform copy hook, without postgres's or ansi's
	// set_operator grammar ever being redefined. BY/NAME are one-off
	// literals with no other rule referencing them, so they use
	// grammar.Keyword directly instead of registering a dialect rule for
	// each (spec.md §4.1 Ref::keyword).
	if err := d.Copy("set_operator", grammar.CopyOpts{
		Insert: []grammar.Matchable{
			grammar.NewSequence(grammar.Keyword(token.BY.String()), grammar.Keyword(token.NAME.String())).Optional(),
		},
	}); err != nil {
		panic(err)
	}

	// QUALIFY filters on window function results the way WHERE filters
	// rows and HAVING filters groups. It trails select_statement as an
	// optional clause, appended rather than spliced before an existing
	// ref since it comes last among the clauses this grammar models.
	mustAdd(d, "qualify_keyword", grammar.Keyword(qualifyTokenType.String()))
	mustAdd(d, "qualify_clause", grammar.NewSequence(
		grammar.NewRef("qualify_keyword"),
		grammar.NewRef("expression"),
	))
	if err := d.Copy("select_statement", grammar.CopyOpts{
		Insert: []grammar.Matchable{grammar.NewSequence(grammar.NewRef("qualify_clause")).Optional()},
	}); err != nil {
		panic(err)
	}

	if err := d.InsertLexerMatchers("block_comment", dialect.LexerMatcher{
		Name:    "line_comment_slash",
		Pattern: `^//.*`,
	}); err != nil {
		panic(err)
	}

	if err := d.AddKeywords([]string{"BY", "NAME"}, []string{qualifyTokenType.String()}); err != nil {
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
