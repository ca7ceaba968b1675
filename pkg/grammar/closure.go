package grammar

import "sort"

// RefNames returns the sorted, deduplicated set of rule names reachable
// from m by walking the combinator tree: every non-keyword Ref this
// subtree could resolve at match time. Keyword Refs are excluded because
// they resolve directly against a literal, not against the dialect's rule
// table (see Ref.Match) — a dialect is not required to declare a rule
// named after one. Used by Dialect.Expand to validate closure (spec.md
// "expand... resolves internal back-references and validates closure").
func RefNames(m Matchable) []string {
	seen := make(map[string]struct{})
	walkRefs(m, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func walkRefs(m Matchable, seen map[string]struct{}) {
	switch v := m.(type) {
	case *Ref:
		if !v.isKeyword {
			seen[v.name] = struct{}{}
		}
	case *OneOf:
		for _, el := range v.elements {
			walkRefs(el, seen)
		}
	case *Sequence:
		for _, el := range v.elements {
			walkRefs(el, seen)
		}
		for _, t := range v.terminators {
			walkRefs(t, seen)
		}
	case *Bracketed:
		walkRefs(v.inner, seen)
	case *Delimited:
		walkRefs(v.element, seen)
		walkRefs(v.delimiter, seen)
		for _, t := range v.terminators {
			walkRefs(t, seen)
		}
	case *AnyNumberOf:
		for _, el := range v.elements {
			walkRefs(el, seen)
		}
		for _, t := range v.terminators {
			walkRefs(t, seen)
		}
	}
}
