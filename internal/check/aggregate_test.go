package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(name string, status Status) Result {
	return Result{Name: name, Status: status}
}

func TestCombinePrecedence(t *testing.T) {
	cases := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"AllHealthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"UnhealthyOutranksHealthy", []Status{StatusHealthy, StatusUnhealthy}, StatusUnhealthy},
		{"ErrorOutranksHealthy", []Status{StatusHealthy, StatusError}, StatusError},
		{"ErrorOutranksUnhealthy", []Status{StatusUnhealthy, StatusError, StatusHealthy}, StatusError},
		{"EmptyIsVacuouslyHealthy", nil, StatusHealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var results []Result
			for i, s := range tc.statuses {
				results = append(results, result(string(rune('a'+i)), s))
			}
			report := Combine(results)
			assert.Equal(t, tc.want, report.Status)
		})
	}
}

func TestCombineEmptySummary(t *testing.T) {
	report := Combine(nil)

	require.NotNil(t, report.Rollup)
	assert.Equal(t, 0, report.Rollup.Summary.TotalChecks)
	assert.Equal(t, 0.0, report.Rollup.Summary.HealthPercentage)
	assert.Empty(t, report.Rollup.Recommendations)
	assert.Equal(t, 0, report.Checks.Len())
}

func TestCombineHealthPercentage(t *testing.T) {
	cases := []struct {
		name      string
		healthy   int
		unhealthy int
		want      float64
	}{
		{"OneOfTwo", 1, 1, 50.0},
		{"TwoOfFour", 2, 2, 50.0},
		{"FourOfFour", 4, 0, 100.0},
		{"NoneOfTwo", 0, 2, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var results []Result
			for i := 0; i < tc.healthy; i++ {
				results = append(results, result(string(rune('a'+i)), StatusHealthy))
			}
			for i := 0; i < tc.unhealthy; i++ {
				results = append(results, result(string(rune('m'+i)), StatusUnhealthy))
			}

			report := Combine(results)
			assert.Equal(t, tc.want, report.Rollup.Summary.HealthPercentage)
			assert.Equal(t, tc.healthy, report.Rollup.Summary.HealthyChecks)
			assert.Equal(t, tc.unhealthy, report.Rollup.Summary.UnhealthyChecks)
		})
	}
}

func TestCombineRecommendations(t *testing.T) {
	report := Combine([]Result{
		result("database", StatusHealthy),
		result("cache", StatusUnhealthy),
		result("queue", StatusError),
	})

	require.Len(t, report.Rollup.Recommendations, 2)
	assert.Equal(t, "investigate cache: status=unhealthy", report.Rollup.Recommendations[0])
	assert.Equal(t, "investigate queue: status=error", report.Rollup.Recommendations[1])
}

func TestCombineSummaryCounts(t *testing.T) {
	report := Combine([]Result{
		result("a", StatusHealthy),
		result("b", StatusUnhealthy),
		result("c", StatusError),
		result("d", StatusHealthy),
	})

	s := report.Rollup.Summary
	assert.Equal(t, 4, s.TotalChecks)
	assert.Equal(t, 2, s.HealthyChecks)
	assert.Equal(t, 1, s.UnhealthyChecks)
	assert.Equal(t, 1, s.ErrorChecks)
	assert.Equal(t, 50.0, s.HealthPercentage)
}

func TestCombinePreservesCheckOrder(t *testing.T) {
	report := Combine([]Result{
		result("zeta", StatusHealthy),
		result("alpha", StatusHealthy),
		result("mid", StatusHealthy),
	})

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, report.Checks.Names())
}

func TestCombineReportIdentity(t *testing.T) {
	a := Combine(nil)
	b := Combine(nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

// End-to-end: two probes, one degraded, aggregated with the rollup.
func TestCheckPassEndToEnd(t *testing.T) {
	ctx := context.Background()

	results := []Result{
		Run(ctx, healthyCheck("database")),
		Run(ctx, unhealthyCheck("cache", map[string]any{"latency_ms": 500})),
	}

	report := Combine(results)

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, 50.0, report.Rollup.Summary.HealthPercentage)

	require.Len(t, report.Rollup.Recommendations, 1)
	assert.Contains(t, report.Rollup.Recommendations[0], "cache")

	cache, ok := report.Checks.Get("cache")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"latency_ms": 500}, cache.Details)
}

func TestResultMapAddAndGet(t *testing.T) {
	m := NewResultMap()
	m.Add("a", result("a", StatusHealthy))
	m.Add("b", result("b", StatusError))

	assert.Equal(t, 2, m.Len())

	got, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, StatusError, got.Status)

	_, ok = m.Get("c")
	assert.False(t, ok)

	// Re-adding keeps the original position but replaces the value.
	m.Add("a", result("a", StatusUnhealthy))
	assert.Equal(t, []string{"a", "b"}, m.Names())
	got, _ = m.Get("a")
	assert.Equal(t, StatusUnhealthy, got.Status)
}
