// Package ansi builds the base dialect every other layer clones: a small,
// illustrative SELECT/identifier/literal grammar plus the bracket-pair
// and lexer-matcher tables that demonstrate dialect composition (spec.md
// §4.9, §9 "dialect cloning shares rule bodies"). It does not attempt to
// cover real ANSI SQL — only enough surface for Postgres and DuckDB to
// have something concrete to override.
package ansi

import (
	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// RootRule is the name Build registers for the top-level grammar: a
// parser exercising this dialect starts by resolving this name.
const RootRule = "union_statement"

func init() {
	dialect.Register(Build())
}

// Build constructs the sealed "ansi" dialect.
func Build() *dialect.Dialect {
	d := dialect.New("ansi")

	// Keyword literals are spelled via the token package's builtin TokenType
	// table rather than repeated as bare strings, so "SELECT" has exactly
	// one source of truth between the grammar layer and whatever lexer a
	// caller puts in front of it.
	mustAdd(d, "select_keyword", grammar.NewStringParser(token.SELECT.String(), "keyword", true))
	mustAdd(d, "from_keyword", grammar.NewStringParser(token.FROM.String(), "keyword", true))
	mustAdd(d, "where_keyword", grammar.NewStringParser(token.WHERE.String(), "keyword", true))
	mustAdd(d, "and_keyword", grammar.NewStringParser(token.AND.String(), "keyword", true))
	mustAdd(d, "or_keyword", grammar.NewStringParser(token.OR.String(), "keyword", true))
	mustAdd(d, "as_keyword", grammar.NewStringParser(token.AS.String(), "keyword", true))
	mustAdd(d, "distinct_keyword", grammar.NewStringParser(token.DISTINCT.String(), "keyword", true))
	mustAdd(d, "all_keyword", grammar.NewStringParser(token.ALL.String(), "keyword", true))
	mustAdd(d, "union_keyword", grammar.NewStringParser(token.UNION.String(), "keyword", true))

	mustAdd(d, "star", grammar.NewStringParser("*", "star", false))
	mustAdd(d, "comma", grammar.NewStringParser(",", "comma", false))
	mustAdd(d, "dot", grammar.NewStringParser(".", "dot", false))
	mustAdd(d, "eq", grammar.NewStringParser("=", "comparison_operator", false))

	mustAdd(d, "naked_identifier", grammar.NewTypedParser("naked_identifier", "IDENT"))
	mustAdd(d, "identifier", grammar.NewRef("naked_identifier"))

	mustAdd(d, "numeric_literal", grammar.NewTypedParser("numeric_literal", "NUMBER"))
	mustAdd(d, "string_literal", grammar.NewTypedParser("string_literal", "STRING"))
	mustAdd(d, "literal", grammar.NewOneOf(grammar.NewRef("numeric_literal"), grammar.NewRef("string_literal")))

	mustAdd(d, "column_reference", grammar.NewSequence(
		grammar.NewRef("identifier"),
		grammar.NewAnyNumberOf(
			grammar.NewSequence(grammar.NewRef("dot"), grammar.NewRef("identifier")),
		).NoGaps(),
	))
	mustAdd(d, "table_reference", grammar.NewRef("column_reference"))

	mustAdd(d, "select_target", grammar.NewOneOf(grammar.NewRef("star"), grammar.NewRef("column_reference")))
	mustAdd(d, "select_target_list", grammar.NewDelimited(grammar.NewRef("select_target"), grammar.NewRef("comma")))

	mustAdd(d, "expression", grammar.NewOneOf(grammar.NewRef("column_reference"), grammar.NewRef("literal")))

	mustAdd(d, "expression_list", grammar.NewDelimited(grammar.NewRef("expression"), grammar.NewRef("comma")))
	mustAdd(d, "bracketed_expression_list", grammar.NewBracketed(grammar.NewRef("expression_list")))

	mustAdd(d, "from_clause", grammar.NewSequence(
		grammar.NewRef("from_keyword"),
		grammar.NewDelimited(grammar.NewRef("table_reference"), grammar.NewRef("comma")),
	))

	mustAdd(d, "where_clause", grammar.NewSequence(
		grammar.NewRef("where_keyword"),
		grammar.NewRef("expression"),
	))

	mustAdd(d, "select_statement", grammar.NewSequence(
		grammar.NewRef("select_keyword"),
		grammar.NewRef("select_target_list"),
		grammar.NewSequence(grammar.NewRef("from_clause")).Optional(),
		grammar.NewSequence(grammar.NewRef("where_clause")).Optional(),
	))

	// set_operator is the UNION [ALL|DISTINCT] joiner between successive
	// select_statements; DuckDB appends an optional "BY NAME" here via
	// Dialect.Copy rather than redefining union_statement outright.
	mustAdd(d, "set_operator", grammar.NewSequence(
		grammar.NewRef("union_keyword"),
		grammar.NewOneOf(grammar.NewRef("all_keyword"), grammar.NewRef("distinct_keyword")).Optional(),
	))

	mustAdd(d, RootRule, grammar.NewDelimited(grammar.NewRef("select_statement"), grammar.NewRef("set_operator")))

	mustBracket(d, "bracket_pairs", grammar.BracketPair{
		Type:     "round",
		Open:     grammar.NewStringParser("(", "start_bracket", false),
		Close:    grammar.NewStringParser(")", "end_bracket", false),
		Persists: true,
	})
	mustBracket(d, "bracket_pairs", grammar.BracketPair{
		Type:     "square",
		Open:     grammar.NewStringParser("[", "start_square_bracket", false),
		Close:    grammar.NewStringParser("]", "end_square_bracket", false),
		Persists: true,
	})
	mustBracket(d, "bracket_pairs", grammar.BracketPair{
		Type:     "curly",
		Open:     grammar.NewStringParser("{", "start_curly_bracket", false),
		Close:    grammar.NewStringParser("}", "end_curly_bracket", false),
		Persists: true,
	})

	if err := d.InsertLexerMatchers("", dialect.LexerMatcher{Name: "line_comment_dash", Pattern: `^--.*`}); err != nil {
		panic(err)
	}
	if err := d.InsertLexerMatchers("", dialect.LexerMatcher{Name: "block_comment", Pattern: `(?s)^/\*.*?\*/`}); err != nil {
		panic(err)
	}

	if err := d.AddKeywords(
		[]string{"SELECT", "FROM", "WHERE", "UNION", "AND", "OR"},
		[]string{"DISTINCT", "ALL", "AS"},
	); err != nil {
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

func mustBracket(d *dialect.Dialect, set string, pair grammar.BracketPair) {
	if err := d.AddBracketPair(set, pair); err != nil {
		panic(err)
	}
}
