// Package debug renders a parsed segment tree as an indented table, for
// use in tests and ad-hoc inspection. It is not a CLI: nothing here reads
// argv or writes to a terminal beyond returning a string the caller
// chooses what to do with.
package debug

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// Dump renders seg and its descendants as a two-column table: kind
// (indented by depth) and raw text. Meta segments show "<indent>"/
// "<dedent>" in place of their (empty) raw text.
func Dump(seg token.Segment) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"kind", "raw"})
	appendRows(t, seg, 0)
	return t.Render()
}

func appendRows(t table.Writer, seg token.Segment, depth int) {
	raw := seg.Raw()
	if seg.IsMeta() {
		if ms, ok := seg.(*token.MetaSegment); ok {
			if ms.IndentVal() >= 0 {
				raw = "<indent>"
			} else {
				raw = "<dedent>"
			}
		}
	}

	label := strings.Repeat("  ", depth) + seg.Kind()
	t.AppendRow(table.Row{label, rawPreview(raw)})

	for _, child := range seg.Children() {
		appendRows(t, child, depth+1)
	}
}

func rawPreview(raw string) string {
	const max = 40
	raw = strings.ReplaceAll(raw, "\n", "\\n")
	if len(raw) <= max {
		return raw
	}
	return fmt.Sprintf("%s...", raw[:max])
}
