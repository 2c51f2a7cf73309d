//go:build unix

package checks

import (
	"context"
	"fmt"
	"syscall"

	"github.com/probekit/probekit/internal/check"
)

// DiskCheck reports usage of the filesystem holding Path. The check is
// unhealthy once used space crosses WarnPercent.
type DiskCheck struct {
	Path        string
	WarnPercent float64
}

// NewDiskCheck creates a disk usage check for path.
func NewDiskCheck(path string, warnPercent float64) *DiskCheck {
	if path == "" {
		path = "."
	}
	if warnPercent <= 0 {
		warnPercent = 90
	}
	return &DiskCheck{Path: path, WarnPercent: warnPercent}
}

// Name implements check.Check.
func (c *DiskCheck) Name() string { return "disk" }

// Probe implements check.Check.
func (c *DiskCheck) Probe(ctx context.Context) (check.Finding, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(c.Path, &st); err != nil {
		return check.Finding{}, fmt.Errorf("statfs %s: %w", c.Path, err)
	}

	total := uint64(st.Blocks) * uint64(st.Bsize)
	free := uint64(st.Bavail) * uint64(st.Bsize)
	if total == 0 {
		return check.Finding{}, fmt.Errorf("filesystem at %s reports zero size", c.Path)
	}

	usedPercent := float64(total-free) / float64(total) * 100

	return check.Finding{
		Healthy: usedPercent < c.WarnPercent,
		Details: map[string]any{
			"path":         c.Path,
			"total_bytes":  total,
			"free_bytes":   free,
			"used_percent": usedPercent,
			"warn_percent": c.WarnPercent,
		},
	}, nil
}
