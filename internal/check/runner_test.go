package check

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runnerChecks() []Check {
	return []Check{
		&stubCheck{name: "first", finding: Finding{Healthy: true}, delay: time.Millisecond},
		&stubCheck{name: "second", err: errors.New("down"), delay: time.Millisecond},
		&stubCheck{name: "third", panics: "boom", delay: time.Millisecond},
		&stubCheck{name: "fourth", finding: Finding{Healthy: false}, delay: time.Millisecond},
	}
}

func assertPassResults(t *testing.T, results []Result) {
	t.Helper()
	require.Len(t, results, 4, "every check yields exactly one result")

	assert.Equal(t, "first", results[0].Name)
	assert.Equal(t, "second", results[1].Name)
	assert.Equal(t, "third", results[2].Name)
	assert.Equal(t, "fourth", results[3].Name)

	assert.Equal(t, StatusHealthy, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
	assert.Equal(t, StatusError, results[2].Status)
	assert.Equal(t, StatusUnhealthy, results[3].Status)

	for _, res := range results {
		assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
	}
}

func TestRunnerSequential(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := NewRunner(log)

	results := runner.RunAll(context.Background(), runnerChecks())
	assertPassResults(t, results)
}

func TestRunnerParallel(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := NewRunner(log)
	runner.Parallel = 3

	results := runner.RunAll(context.Background(), runnerChecks())
	assertPassResults(t, results)
}

func TestRunnerEmptyPass(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := NewRunner(log)

	assert.Empty(t, runner.RunAll(context.Background(), nil))
}
