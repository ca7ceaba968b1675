package grammar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlgrammar/pkg/dialect"
	"github.com/leapstack-labs/sqlgrammar/pkg/grammar"
	"github.com/leapstack-labs/sqlgrammar/pkg/token"
)

func TestParseMany_RunsIndependentJobsConcurrently(t *testing.T) {
	d := dialect.New("t")
	require.NoError(t, d.Add("word", grammar.NewTypedParser("naked_identifier", "IDENT")))
	_, err := d.Expand()
	require.NoError(t, err)

	root := grammar.NewRef("word")

	jobs := []grammar.ParseJob{
		{Name: "job-a", Segments: lexSegments("alpha")},
		{Name: "job-b", Segments: lexSegments("beta")},
		{Name: "job-c", Segments: lexSegments("123")}, // deliberately fails (not an identifier)
	}

	outcomes := grammar.ParseMany(context.Background(), d, nil, jobs, root)
	require.Len(t, outcomes, 3)

	byName := make(map[string]grammar.ParseOutcome, len(outcomes))
	for _, o := range outcomes {
		byName[o.Name] = o
	}

	require.NoError(t, byName["job-a"].Err)
	assert.True(t, byName["job-a"].Result.HasMatch())
	assert.Equal(t, "alpha", rawOf(byName["job-a"].Result.Matched))

	require.NoError(t, byName["job-b"].Err)
	assert.True(t, byName["job-b"].Result.HasMatch())
	assert.Equal(t, "beta", rawOf(byName["job-b"].Result.Matched))

	require.NoError(t, byName["job-c"].Err)
	assert.False(t, byName["job-c"].Result.HasMatch())
}

func TestParseMany_EachJobGetsItsOwnParseContext(t *testing.T) {
	d := dialect.New("t")
	require.NoError(t, d.Add("word", grammar.NewTypedParser("naked_identifier", "IDENT")))
	_, err := d.Expand()
	require.NoError(t, err)

	root := grammar.NewRef("word")

	jobs := make([]grammar.ParseJob, 0, 20)
	for i := 0; i < 20; i++ {
		jobs = append(jobs, grammar.ParseJob{Name: "job", Segments: []token.Segment{wordSegExternal("x")}})
	}

	outcomes := grammar.ParseMany(context.Background(), d, nil, jobs, root)
	require.Len(t, outcomes, 20)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		assert.True(t, o.Result.HasMatch())
	}
}

func wordSegExternal(raw string) token.Segment {
	return token.NewTokenSegment(token.Token{Type: token.IDENT, Raw: raw}, "")
}
