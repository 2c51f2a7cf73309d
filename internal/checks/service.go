// Package checks provides the built-in probes shipped with probekit.
// Each wraps a collaborator behind the check.Check contract; none of
// them is part of the framework core.
package checks

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/probekit/probekit/internal/check"
)

// Collaborator is the interface a probed service exposes. It is defined
// by the service, not by this framework; a service check wraps calls to
// these three operations and lets the timed wrapper fold any fault from
// them into an error verdict.
type Collaborator interface {
	IsHealthy() bool
	GetStatus() map[string]any
	GetMetrics() map[string]any
}

// ServiceCheck probes a Collaborator.
type ServiceCheck struct {
	name   string
	target Collaborator
}

// NewServiceCheck wraps target as a named check.
func NewServiceCheck(name string, target Collaborator) *ServiceCheck {
	return &ServiceCheck{name: name, target: target}
}

// Name implements check.Check.
func (c *ServiceCheck) Name() string { return c.name }

// Probe implements check.Check. Panics out of the collaborator are
// absorbed by check.Run, not here.
func (c *ServiceCheck) Probe(ctx context.Context) (check.Finding, error) {
	healthy := c.target.IsHealthy()

	details := map[string]any{}
	if status := c.target.GetStatus(); len(status) > 0 {
		details["status"] = status
	}
	if metrics := c.target.GetMetrics(); len(metrics) > 0 {
		details["metrics"] = metrics
	}

	return check.Finding{Healthy: healthy, Details: details}, nil
}

// ProcessCollaborator reports on the current process. It backs the
// default "service" check so a bare installation has a live collaborator
// to probe.
type ProcessCollaborator struct {
	started time.Time
}

// NewProcessCollaborator creates a collaborator with the clock started now.
func NewProcessCollaborator() *ProcessCollaborator {
	return &ProcessCollaborator{started: time.Now().UTC()}
}

// IsHealthy implements Collaborator. The process answering at all is
// the health signal.
func (p *ProcessCollaborator) IsHealthy() bool { return true }

// GetStatus implements Collaborator.
func (p *ProcessCollaborator) GetStatus() map[string]any {
	return map[string]any{
		"pid":        os.Getpid(),
		"go_version": runtime.Version(),
	}
}

// GetMetrics implements Collaborator.
func (p *ProcessCollaborator) GetMetrics() map[string]any {
	return map[string]any{
		"goroutines":     runtime.NumGoroutine(),
		"uptime_seconds": time.Since(p.started).Seconds(),
	}
}
