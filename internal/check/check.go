package check

import (
	"context"
	"fmt"
	"time"
)

// Status is the verdict of a single check or an aggregated report.
type Status string

const (
	// StatusHealthy means the probe ran and found the subject healthy.
	StatusHealthy Status = "healthy"

	// StatusUnhealthy means the probe ran and found the subject degraded.
	StatusUnhealthy Status = "unhealthy"

	// StatusError means the probe itself faulted before reaching a verdict.
	StatusError Status = "error"
)

// Finding is what a probe reports on a normal return.
type Finding struct {
	// Healthy is the probe's verdict about its subject.
	Healthy bool

	// Details carries free-form structured data about the subject
	// (latencies, sizes, versions). Attached to the result either way.
	Details map[string]any
}

// Check is a diagnostic probe. Implementations examine one subject and
// report a Finding. Probes enforce their own time bounds (connection
// timeouts and the like); this layer adds no timeout of its own.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Probe examines the subject. Returning an error (or panicking)
	// yields a StatusError result; Run absorbs both.
	Probe(ctx context.Context) (Finding, error)
}

// Result is the outcome of one check execution.
type Result struct {
	Name      string         `json:"name" yaml:"name"`
	Status    Status         `json:"status" yaml:"status"`
	StartTime time.Time      `json:"start_time" yaml:"start_time"`
	EndTime   time.Time      `json:"end_time" yaml:"end_time"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run executes a single check inside the timed envelope. It records the
// start and end timestamps, maps the probe outcome onto the three-valued
// status, and captures any fault as StatusError with a non-empty Error
// message. Run never panics.
func Run(ctx context.Context, c Check) (res Result) {
	res.Name = c.Name()
	res.StartTime = time.Now().UTC()

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusError
			res.Error = fmt.Sprintf("probe panicked: %v", r)
			res.Details = nil
		}
		res.EndTime = time.Now().UTC()
		res.Duration = res.EndTime.Sub(res.StartTime)
		if res.Duration < 0 {
			res.Duration = 0
		}
	}()

	finding, err := c.Probe(ctx)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		if res.Error == "" {
			res.Error = "probe failed"
		}
		return res
	}

	if finding.Healthy {
		res.Status = StatusHealthy
	} else {
		res.Status = StatusUnhealthy
	}
	res.Details = finding.Details
	return res
}
