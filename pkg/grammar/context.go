package grammar

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// memoKey identifies one memoization slot: a matcher identity, crossed with
// a position proxy and the hash of the currently active terminator set.
// Omitting the terminator hash would let a GreedyOnceStarted match at the
// same position under a different terminator stack hit a stale cache entry
// (spec.md "Memoization key" design note).
type memoKey struct {
	matcher   uint64
	posOffset int
	posLine   int
	posCol    int
	remaining int
	terms     uint64
}

type memoEntry struct {
	result MatchResult
	err    error
}

// ParseContext is the mutable, per-parse ambient state threaded through
// every Match call: the active dialect, the terminator stack, a crumb
// trail for diagnostics, and a memoization cache. Never share a
// ParseContext across goroutines — each parallel parse gets its own (see
// ParseMany), bound to the same read-only sealed Dialect.
type ParseContext struct {
	dialect Dialect

	terminators []Matchable
	crumbs      []string
	memo        map[memoKey]memoEntry

	runID  string
	logger *slog.Logger

	// ctx carries cooperative cancellation. Checked between elements of
	// Sequence, Delimited and AnyNumberOf; a tripped context surfaces
	// ErrCancelled, which propagates unchanged out of every deeper_match
	// frame.
	ctx context.Context
}

// NewParseContext creates a fresh ParseContext bound to dialect. logger may
// be nil, in which case crumb-trail tracing is silent (mirrors the
// teacher's NewServerWithLogger optional-logger convention).
func NewParseContext(dialect Dialect, logger *slog.Logger) *ParseContext {
	return &ParseContext{
		dialect: dialect,
		memo:    make(map[memoKey]memoEntry),
		runID:   uuid.New().String(),
		logger:  logger,
		ctx:     context.Background(),
	}
}

// WithCancel returns a copy of pc whose cancellation is tied to ctx. Use
// this once, before the top-level Match call; ParseContext is not safe for
// concurrent use regardless.
func (pc *ParseContext) WithCancel(ctx context.Context) *ParseContext {
	cp := *pc
	cp.ctx = ctx
	return &cp
}

// Dialect returns the active dialect.
func (pc *ParseContext) Dialect() Dialect { return pc.dialect }

// RunID returns this parse's correlation ID, stamped into crumb-trail log
// records so concurrent parses (spec.md §5) can be told apart in shared
// logs.
func (pc *ParseContext) RunID() string { return pc.runID }

// ActiveTerminators returns the flattened stack of terminators active at
// the current nesting depth: the sequence's own terminators plus anything
// inherited from enclosing frames.
func (pc *ParseContext) ActiveTerminators() []Matchable {
	return pc.terminators
}

// Cancelled reports whether the context's cancellation signal has tripped.
func (pc *ParseContext) Cancelled() bool {
	select {
	case <-pc.ctx.Done():
		return true
	default:
		return false
	}
}

// CheckCancelled returns ErrCancelled if the parse has been cancelled, nil
// otherwise. Call between element matches in Sequence/Delimited/AnyNumberOf.
func (pc *ParseContext) CheckCancelled() error {
	if pc.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// DeeperMatch pushes a new crumb-trail frame and terminator scope, runs
// body, and guarantees both are released on every exit path — success,
// no-match, error, or cancellation — via defer. This is the Go analogue of
// the Rust source's `parse_context.deeper_match(name, clear_terminators,
// extra_terminators, parse_mode, body)`.
func (pc *ParseContext) DeeperMatch(
	name string,
	clearTerminators bool,
	extraTerminators []Matchable,
	body func(*ParseContext) (MatchResult, error),
) (MatchResult, error) {
	pc.crumbs = append(pc.crumbs, name)
	saved := pc.terminators
	if clearTerminators {
		next := make([]Matchable, len(extraTerminators))
		copy(next, extraTerminators)
		pc.terminators = next
	} else {
		next := make([]Matchable, 0, len(saved)+len(extraTerminators))
		next = append(next, saved...)
		next = append(next, extraTerminators...)
		pc.terminators = next
	}

	defer func() {
		pc.terminators = saved
		pc.crumbs = pc.crumbs[:len(pc.crumbs)-1]
	}()

	if pc.logger != nil {
		pc.logger.Debug("deeper_match",
			"run", pc.runID,
			"frame", name,
			"depth", len(pc.crumbs),
		)
	}

	return body(pc)
}

// DeeperMatchGreedy runs GreedyMatch inside a deeper_match frame, the exact
// shape the Rust source's `trim_to_terminator` uses
// (`deeper_match("Sequence-GreedyB-@0", false, &[], false.into(), |this|
// greedy_match(...))`).
func (pc *ParseContext) DeeperMatchGreedy(
	frame string,
	segments []token.Segment,
	terminators []Matchable,
) (matched, unmatched []token.Segment, found bool, err error) {
	_, mErr := pc.DeeperMatch(frame, false, nil, func(inner *ParseContext) (MatchResult, error) {
		matched, unmatched, found, err = GreedyMatch(segments, inner, terminators, false)
		return MatchResult{}, err
	})
	if mErr != nil {
		return nil, nil, false, mErr
	}
	return matched, unmatched, found, err
}

// Crumbs returns a copy of the current diagnostic crumb trail.
func (pc *ParseContext) Crumbs() []string {
	out := make([]string, len(pc.crumbs))
	copy(out, pc.crumbs)
	return out
}

func terminatorsHash(terms []Matchable) uint64 {
	var h uint64 = 14695981039346656037 // FNV offset basis
	for _, t := range terms {
		h ^= t.matchID()
		h *= 1099511628211 // FNV prime
	}
	return h
}

// memoLookup returns a cached result for (id, segments, active terminators)
// if present.
func (pc *ParseContext) memoLookup(id uint64, segments []token.Segment) (MatchResult, error, bool) {
	key := pc.buildMemoKey(id, segments)
	entry, ok := pc.memo[key]
	if !ok {
		return MatchResult{}, nil, false
	}
	return entry.result, entry.err, true
}

func (pc *ParseContext) memoStore(id uint64, segments []token.Segment, result MatchResult, err error) {
	key := pc.buildMemoKey(id, segments)
	pc.memo[key] = memoEntry{result: result, err: err}
}

func (pc *ParseContext) buildMemoKey(id uint64, segments []token.Segment) memoKey {
	k := memoKey{matcher: id, remaining: len(segments), terms: terminatorsHash(pc.terminators)}
	if len(segments) > 0 {
		pos := segments[0].Position()
		k.posOffset, k.posLine, k.posCol = pos.Offset, pos.Line, pos.Column
	}
	return k
}
