package grammar

import "github.com/leapstack-labs/sqlgrammar/pkg/token"

// TrimNonCodeSegments splits segments into a three-way (leading non-code,
// interior, trailing non-code), scanning in from both ends. If segments is
// entirely non-code, interior is empty and everything lands in leading.
func TrimNonCodeSegments(segments []token.Segment) (leading, interior, trailing []token.Segment) {
	start := 0
	for start < len(segments) && !segments[start].IsCode() {
		start++
	}
	if start == len(segments) {
		return segments, nil, nil
	}

	end := len(segments)
	for end > start && !segments[end-1].IsCode() {
		end--
	}

	return segments[:start], segments[start:end], segments[end:]
}

// splitLeadingGap peels only the leading run of non-code segments off the
// front of segments, leaving everything else (interior code and any
// trailing non-code) intact in rest. Unlike TrimNonCodeSegments, which
// also strips a trailing non-code run for callers that want a clean
// three-way split, this never drops segments: len(gap)+len(rest) ==
// len(segments) always holds.
func splitLeadingGap(segments []token.Segment) (gap, rest []token.Segment) {
	i := 0
	for i < len(segments) && !segments[i].IsCode() {
		i++
	}
	return segments[:i], segments[i:]
}

// bracketPairs resolves the named bracket-pair table, defaulting to
// "bracket_pairs" when setName is empty.
func bracketPairs(ctx *ParseContext, setName string) []BracketPair {
	if setName == "" {
		setName = "bracket_pairs"
	}
	return ctx.Dialect().BracketSet(setName)
}

// GreedyMatch scans segments, tracking bracket nesting via the dialect's
// default bracket-pair set, until one of terminators matches at bracket
// depth zero. found reports whether a terminator was located at all; when
// it was not, the caller should treat the whole of segments as belonging to
// the current match (spec.md §4.8).
func GreedyMatch(
	segments []token.Segment,
	ctx *ParseContext,
	terminators []Matchable,
	includeTerminator bool,
) (matched, unmatched []token.Segment, found bool, err error) {
	pairs := bracketPairs(ctx, "")
	var stack []BracketPair
	i := 0

	for i < len(segments) {
		// Terminators and brackets only ever start on a code token; a
		// non-code run before one belongs to the span being scanned, not
		// to the terminator.
		if !segments[i].IsCode() {
			i++
			continue
		}

		if len(stack) == 0 {
			for _, term := range terminators {
				mr, mErr := term.Match(segments[i:], ctx)
				if mErr != nil {
					return nil, nil, false, mErr
				}
				if mr.HasMatch() {
					splitAt := i
					if includeTerminator {
						splitAt = i + len(mr.Matched)
					}
					return segments[:splitAt], segments[splitAt:], true, nil
				}
			}
		}

		if opened, n := tryOpen(segments[i:], ctx, pairs); opened != nil {
			stack = append(stack, *opened)
			i += n
			continue
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			mr, mErr := top.Close.Match(segments[i:], ctx)
			if mErr != nil {
				return nil, nil, false, mErr
			}
			if mr.HasMatch() {
				stack = stack[:len(stack)-1]
				i += len(mr.Matched)
				continue
			}
		}

		i++
	}

	return nil, segments, false, nil
}

// tryOpen attempts every declared bracket pair's opener at the front of
// segments, returning the pair that matched and how many segments it
// consumed.
func tryOpen(segments []token.Segment, ctx *ParseContext, pairs []BracketPair) (*BracketPair, int) {
	for idx := range pairs {
		p := pairs[idx]
		mr, err := p.Open.Match(segments, ctx)
		if err == nil && mr.HasMatch() {
			return &p, len(mr.Matched)
		}
	}
	return nil, 0
}

// BracketSensitiveLookAheadMatch performs the linear, depth-tracking scan
// Bracketed uses to find its own closing bracket: targets are only matched
// at depth zero, and every bracket kind declared in bracketSetName is
// recognized so that e.g. "([...])" nests correctly (spec.md §4.8).
func BracketSensitiveLookAheadMatch(
	segments []token.Segment,
	targets []Matchable,
	ctx *ParseContext,
	openOuter, closeOuter Matchable,
	bracketSetName string,
) (before, matched, after []token.Segment, err error) {
	pairs := bracketPairs(ctx, bracketSetName)
	depth := 0
	i := 0

	for i < len(segments) {
		if depth == 0 {
			for _, t := range targets {
				mr, mErr := t.Match(segments[i:], ctx)
				if mErr != nil {
					return nil, nil, nil, mErr
				}
				if mr.HasMatch() {
					return segments[:i], segments[i : i+len(mr.Matched)], segments[i+len(mr.Matched):], nil
				}
			}
		}

		if opened, n := tryOpen(segments[i:], ctx, pairs); opened != nil {
			depth++
			i += n
			continue
		}

		if depth > 0 {
			closedAt := false
			for idx := range pairs {
				p := pairs[idx]
				mr, mErr := p.Close.Match(segments[i:], ctx)
				if mErr != nil {
					return nil, nil, nil, mErr
				}
				if mr.HasMatch() {
					depth--
					i += len(mr.Matched)
					closedAt = true
					break
				}
			}
			if closedAt {
				continue
			}
		}

		i++
	}

	return segments, nil, nil, ErrUnbalancedBrackets
}

// TrimToTerminator rolls a greedy match back to its last code segment,
// splitting off everything after (including any non-code run that
// preceded the terminator) into tail. This is GreedyOnceStarted's one-shot
// trim, ported from the Rust source's `trim_to_terminator`.
func TrimToTerminator(
	segments, tail []token.Segment,
	terminators []Matchable,
	ctx *ParseContext,
) ([]token.Segment, []token.Segment, error) {
	matched, unmatched, found, err := ctx.DeeperMatchGreedy("Sequence-GreedyB-@0", segments, terminators)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return segments, tail, nil
	}

	newTail := append(append([]token.Segment{}, unmatched...), tail...)
	for idx := len(matched) - 1; idx >= 0; idx-- {
		if matched[idx].IsCode() {
			firstPart := matched[:idx+1]
			secondPart := append(append([]token.Segment{}, matched[idx+1:]...), newTail...)
			return firstPart, secondPart, nil
		}
	}

	// Terminator found with nothing but non-code ahead of it: nothing is
	// claimable, the whole span belongs after the split.
	return nil, append(append([]token.Segment{}, matched...), newTail...), nil
}
