package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// Delimited matches a list of element, separated by delimiter: element
// (delimiter element)*, optionally followed by one trailing delimiter
// (spec.md §4.5). Gaps around both element and delimiter are allowed
// unless NoGaps is set.
type Delimited struct {
	idBase
	element       Matchable
	delimiter     Matchable
	allowTrailing bool
	minDelimiters int
	terminators   []Matchable
	allowGaps     bool
	optional      bool
}

// NewDelimited builds a Delimited list of element separated by delimiter.
func NewDelimited(element, delimiter Matchable) *Delimited {
	return &Delimited{idBase: newIDBase(), element: element, delimiter: delimiter, allowGaps: true}
}

// AllowTrailing permits (but does not require) one trailing delimiter with
// no following element.
func (d *Delimited) AllowTrailing() *Delimited {
	d.allowTrailing = true
	return d
}

// MinDelimiters requires at least n delimiters to appear for the list to
// match at all (e.g. requiring a tuple of 2+ to disambiguate from a
// single bracketed expression).
func (d *Delimited) MinDelimiters(n int) *Delimited {
	d.minDelimiters = n
	return d
}

// Terminators sets the terminator set that stops the list early, even if
// another element could in principle still match.
func (d *Delimited) Terminators(terminators ...Matchable) *Delimited {
	d.terminators = terminators
	return d
}

// NoGaps disallows non-code segments between elements and delimiters.
func (d *Delimited) NoGaps() *Delimited {
	d.allowGaps = false
	return d
}

// Optional marks this Delimited as skippable inside an enclosing Sequence.
func (d *Delimited) Optional() *Delimited {
	d.optional = true
	return d
}

// IsOptional implements Matchable.
func (d *Delimited) IsOptional() bool { return d.optional }

// Match implements the element/delimiter alternation described in spec.md
// §4.5.
func (d *Delimited) Match(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var result MatchResult
	var err error
	_, dErr := ctx.DeeperMatch("Delimited", false, d.terminators, func(inner *ParseContext) (MatchResult, error) {
		result, err = d.matchBody(segments, inner)
		return result, err
	})
	if dErr != nil {
		return MatchResult{}, dErr
	}
	return result, err
}

func (d *Delimited) matchBody(segments []token.Segment, ctx *ParseContext) (MatchResult, error) {
	var matched []token.Segment
	remaining := segments
	elementCount, delimCount := 0, 0

	// lastDelimStart/lastDelimConsumed let us roll back a trailing
	// delimiter if one is found but AllowTrailing is not set.
	lastDelimStart := -1
	var lastDelimConsumed []token.Segment
	var lastDelimTail []token.Segment

	for {
		if err := ctx.CheckCancelled(); err != nil {
			return MatchResult{}, err
		}

		var gap, candidate []token.Segment
		if d.allowGaps {
			gap, candidate = splitLeadingGap(remaining)
		} else {
			candidate = remaining
		}

		if hitsTerminator(candidate, d.effectiveTerminators(ctx), ctx) {
			break
		}

		mr, err := d.element.Match(candidate, ctx)
		if err != nil {
			return MatchResult{}, err
		}
		if !mr.HasMatch() {
			break
		}
		if !d.allowGaps && len(matched) > 0 && !mr.Matched[0].IsCode() {
			break
		}

		matched = append(matched, gap...)
		matched = append(matched, mr.Matched...)
		remaining = mr.Unmatched
		elementCount++
		lastDelimStart = -1

		var dgap, dcandidate []token.Segment
		if d.allowGaps {
			dgap, dcandidate = splitLeadingGap(remaining)
		} else {
			dcandidate = remaining
		}
		dmr, err := d.delimiter.Match(dcandidate, ctx)
		if err != nil {
			return MatchResult{}, err
		}
		if !dmr.HasMatch() {
			break
		}
		if !d.allowGaps && !dmr.Matched[0].IsCode() {
			break
		}

		lastDelimStart = len(matched)
		lastDelimConsumed = append(append([]token.Segment{}, dgap...), dmr.Matched...)
		lastDelimTail = dmr.Unmatched

		matched = append(matched, lastDelimConsumed...)
		remaining = lastDelimTail
		delimCount++
	}

	if lastDelimStart >= 0 && !d.allowTrailing {
		matched = matched[:lastDelimStart]
		remaining = append(append([]token.Segment{}, lastDelimConsumed...), remaining...)
		delimCount--
	}

	if elementCount == 0 || delimCount < d.minDelimiters {
		return NoMatch(segments), nil
	}

	return MatchResult{Matched: matched, Unmatched: remaining}, nil
}

func (d *Delimited) effectiveTerminators(ctx *ParseContext) []Matchable {
	out := make([]Matchable, 0, len(d.terminators)+len(ctx.ActiveTerminators()))
	out = append(out, d.terminators...)
	out = append(out, ctx.ActiveTerminators()...)
	return out
}

func hitsTerminator(candidate []token.Segment, terminators []Matchable, ctx *ParseContext) bool {
	if len(candidate) == 0 {
		return false
	}
	for _, t := range terminators {
		mr, err := t.Match(candidate, ctx)
		if err == nil && mr.HasMatch() {
			return true
		}
	}
	return false
}

// Simple delegates to the element matcher's prefilter: every successful
// Delimited match begins with an element, never a delimiter.
func (d *Delimited) Simple(ctx *ParseContext, crumbs []string) (Simple, bool) {
	return d.element.Simple(ctx, crumbs)
}

// Copy replaces the element/delimiter pair is not supported structurally
// (Delimited has no named sub-elements to Insert/Remove by ref); only
// Terminators edits apply.
func (d *Delimited) Copy(opts CopyOpts) Matchable {
	cp := &Delimited{
		idBase:        newIDBase(),
		element:       d.element,
		delimiter:     d.delimiter,
		allowTrailing: d.allowTrailing,
		minDelimiters: d.minDelimiters,
		allowGaps:     d.allowGaps,
		optional:      d.optional,
	}
	cp.terminators = applyTerminatorEdits(d.terminators, opts)
	return cp
}
