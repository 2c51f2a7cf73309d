package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/internal/check"
)

func fixtureReport() check.Report {
	checks := check.NewResultMap()
	checks.Add("database", check.Result{
		Name:    "database",
		Status:  check.StatusUnhealthy,
		Details: map[string]any{"latency_ms": 500},
	})
	checks.Add("service", check.Result{
		Name:    "service",
		Status:  check.StatusHealthy,
		Details: map[string]any{"conn": map[string]any{"active": 3}},
	})

	return check.Report{
		ID:        "5fa38fb9-3c45-44ea-9f3e-2a0d0b5f2c6e",
		Status:    check.StatusUnhealthy,
		Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Checks:    checks,
		Rollup: &check.Rollup{
			Summary: check.Summary{
				TotalChecks:      2,
				HealthyChecks:    1,
				UnhealthyChecks:  1,
				ErrorChecks:      0,
				HealthPercentage: 50.0,
			},
			Recommendations: []string{"investigate database: status=unhealthy"},
		},
	}
}

func TestNewClosedVariantSet(t *testing.T) {
	for _, kind := range Kinds() {
		f, err := New(kind)
		require.NoError(t, err, kind)
		require.NotNil(t, f, kind)
	}

	_, err := New("xml")
	assert.Error(t, err)
}

func TestTextLayout(t *testing.T) {
	f := &TextFormatter{}

	out, err := f.FormatOutput(fixtureReport())
	require.NoError(t, err)

	want := `Health Check Report
===================
Status: unhealthy
Timestamp: 2026-01-02T15:04:05Z

Checks:

Database:
  Status: unhealthy
  Latency Ms: 500

Service:
  Status: healthy
  Conn:
    Active: 3

Report Summary:
  Total Checks: 2
  Healthy Checks: 1
  Unhealthy Checks: 1
  Error Checks: 0
  Health Percentage: 50.0%

Recommendations:
  - investigate database: status=unhealthy
`
	assert.Equal(t, want, out)
}

func TestTextRequiredSubstrings(t *testing.T) {
	f := &TextFormatter{}

	out, err := f.FormatOutput(fixtureReport())
	require.NoError(t, err)

	assert.Contains(t, out, "Health Check Report")
	assert.Contains(t, out, "Database:")
	assert.Contains(t, out, "Status: unhealthy")
}

func TestTextWithoutRollup(t *testing.T) {
	f := &TextFormatter{}

	report := fixtureReport()
	report.Rollup = nil

	out, err := f.FormatOutput(report)
	require.NoError(t, err)

	assert.NotContains(t, out, "Report Summary:")
	assert.NotContains(t, out, "Recommendations:")
}

func TestTextErrorResult(t *testing.T) {
	f := &TextFormatter{}

	checks := check.NewResultMap()
	checks.Add("queue", check.Result{
		Name:   "queue",
		Status: check.StatusError,
		Error:  "connection refused",
	})
	report := check.Report{
		Status:    check.StatusError,
		Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Checks:    checks,
	}

	out, err := f.FormatOutput(report)
	require.NoError(t, err)

	assert.Contains(t, out, "Queue:\n  Status: error\n  Error: connection refused\n")
}

func TestJSONRoundTrip(t *testing.T) {
	f := &JSONFormatter{}

	// float64 details survive a JSON round trip unchanged.
	orig := fixtureReport()
	checks := check.NewResultMap()
	checks.Add("database", check.Result{
		Name:    "database",
		Status:  check.StatusUnhealthy,
		Details: map[string]any{"latency_ms": float64(500)},
	})
	checks.Add("service", check.Result{Name: "service", Status: check.StatusHealthy})
	orig.Checks = checks

	out, err := f.FormatOutput(orig)
	require.NoError(t, err)

	var parsed check.Report
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))

	assert.Equal(t, orig.ID, parsed.ID)
	assert.Equal(t, orig.Status, parsed.Status)
	assert.True(t, orig.Timestamp.Equal(parsed.Timestamp))
	assert.Equal(t, orig.Checks.Names(), parsed.Checks.Names())

	db, ok := parsed.Checks.Get("database")
	require.True(t, ok)
	assert.Equal(t, check.StatusUnhealthy, db.Status)
	assert.Equal(t, map[string]any{"latency_ms": float64(500)}, db.Details)

	require.NotNil(t, parsed.Rollup)
	assert.Equal(t, orig.Rollup.Summary, parsed.Rollup.Summary)
	assert.Equal(t, orig.Rollup.Recommendations, parsed.Rollup.Recommendations)
}

func TestJSONOmitsRollupWhenAbsent(t *testing.T) {
	f := &JSONFormatter{}

	report := fixtureReport()
	report.Rollup = nil

	out, err := f.FormatOutput(report)
	require.NoError(t, err)

	assert.NotContains(t, out, `"report"`)
}

func TestYAMLRoundTrip(t *testing.T) {
	f := &YAMLFormatter{}

	orig := fixtureReport()

	out, err := f.FormatOutput(orig)
	require.NoError(t, err)

	var parsed check.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))

	assert.Equal(t, orig.ID, parsed.ID)
	assert.Equal(t, orig.Status, parsed.Status)
	assert.True(t, orig.Timestamp.Equal(parsed.Timestamp))
	assert.Equal(t, orig.Checks.Names(), parsed.Checks.Names())

	db, ok := parsed.Checks.Get("database")
	require.True(t, ok)
	assert.Equal(t, check.StatusUnhealthy, db.Status)
	assert.EqualValues(t, 500, db.Details["latency_ms"])

	require.NotNil(t, parsed.Rollup)
	assert.Equal(t, orig.Rollup.Summary, parsed.Rollup.Summary)
	assert.Equal(t, orig.Rollup.Recommendations, parsed.Rollup.Recommendations)
}

func TestYAMLPreservesCheckOrder(t *testing.T) {
	f := &YAMLFormatter{}

	checks := check.NewResultMap()
	checks.Add("zeta", check.Result{Name: "zeta", Status: check.StatusHealthy})
	checks.Add("alpha", check.Result{Name: "alpha", Status: check.StatusHealthy})
	report := check.Report{
		Status:    check.StatusHealthy,
		Timestamp: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Checks:    checks,
	}

	out, err := f.FormatOutput(report)
	require.NoError(t, err)

	zeta := strings.Index(out, "zeta:")
	alpha := strings.Index(out, "alpha:")
	require.GreaterOrEqual(t, zeta, 0)
	require.GreaterOrEqual(t, alpha, 0)
	assert.Less(t, zeta, alpha, "YAML output must not sort check names")
}

func TestFormatError(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		f := &TextFormatter{}
		assert.Equal(t, "Error: it broke", f.FormatError("it broke"))
	})

	t.Run("JSON", func(t *testing.T) {
		f := &JSONFormatter{}
		var parsed map[string]string
		require.NoError(t, json.Unmarshal([]byte(f.FormatError("it broke")), &parsed))
		assert.Equal(t, map[string]string{"status": "error", "error": "it broke"}, parsed)
	})

	t.Run("YAML", func(t *testing.T) {
		f := &YAMLFormatter{}
		var parsed map[string]string
		require.NoError(t, yaml.Unmarshal([]byte(f.FormatError("it broke")), &parsed))
		assert.Equal(t, map[string]string{"status": "error", "error": "it broke"}, parsed)
	})
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"database":    "Database",
		"latency_ms":  "Latency Ms",
		"free-bytes":  "Free Bytes",
		"used space":  "Used Space",
		"alreadyGood": "AlreadyGood",
	}
	for in, want := range cases {
		assert.Equal(t, want, titleCase(in), in)
	}
}
