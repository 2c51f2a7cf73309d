package checks

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/probekit/probekit/internal/check"
)

// DatabaseCheck verifies a sqlite database file exists and answers a
// ping. A missing file is an unhealthy subject; a file that exists but
// cannot be opened is a probe fault.
type DatabaseCheck struct {
	Path string
}

// NewDatabaseCheck creates a connectivity check for the database at path.
func NewDatabaseCheck(path string) *DatabaseCheck {
	return &DatabaseCheck{Path: path}
}

// Name implements check.Check.
func (c *DatabaseCheck) Name() string { return "database" }

// Probe implements check.Check.
func (c *DatabaseCheck) Probe(ctx context.Context) (check.Finding, error) {
	info, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return check.Finding{
			Healthy: false,
			Details: map[string]any{
				"path":   c.Path,
				"exists": false,
			},
		}, nil
	}
	if err != nil {
		return check.Finding{}, fmt.Errorf("stat %s: %w", c.Path, err)
	}

	// Read-only open: a connectivity probe must not create or mutate
	// the database it is probing.
	db, err := sql.Open("sqlite3", "file:"+c.Path+"?mode=ro")
	if err != nil {
		return check.Finding{}, fmt.Errorf("opening %s: %w", c.Path, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return check.Finding{}, fmt.Errorf("pinging %s: %w", c.Path, err)
	}

	return check.Finding{
		Healthy: true,
		Details: map[string]any{
			"path":       c.Path,
			"exists":     true,
			"size_bytes": info.Size(),
		},
	}, nil
}
