package grammar

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

// ParseJob is one independent unit of work for ParseMany: a token stream to
// match root against, starting fresh with its own ParseContext.
type ParseJob struct {
	Name     string
	Segments []token.Segment
}

// ParseOutcome carries one ParseJob's result back out of ParseMany,
// identified by the job's Name so callers can correlate results that may
// arrive out of submission order.
type ParseOutcome struct {
	Name   string
	Result MatchResult
	Err    error
}

// ParseMany runs jobs concurrently against the same sealed dialect, one
// fresh ParseContext per job (spec.md §5: "multiple parses may run in
// parallel over independent ParseContexts sharing a sealed Dialect").
// Built on golang.org/x/sync/errgroup the same way the teacher's UI server
// fans out independent request handlers
// (internal/ui/server.go); unlike that usage, a single job's error does not
// cancel its siblings — ParseMany always runs every job to completion and
// reports each outcome individually. Cancelling ctx stops every still
// running job cooperatively at its next checkpoint.
func ParseMany(ctx context.Context, dialect Dialect, logger *slog.Logger, jobs []ParseJob, root Matchable) []ParseOutcome {
	outcomes := make([]ParseOutcome, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			pc := NewParseContext(dialect, logger).WithCancel(ctx)
			result, err := root.Match(job.Segments, pc)
			outcomes[i] = ParseOutcome{Name: job.Name, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
