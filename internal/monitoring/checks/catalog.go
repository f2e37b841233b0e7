package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/charlesng35/bizsuite/internal/monitoring"
)

// ModuleCounter reports how many modules the permission catalog holds.
type ModuleCounter interface {
	CountModules(ctx context.Context) (int64, error)
}

// Catalog verifies the permission module catalog has been seeded. An empty
// catalog denies every non-admin permission check, so it reports down.
func Catalog(store ModuleCounter, expected int) monitoring.Check {
	return monitoring.NewCheck("permission_catalog", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()

		count, err := store.CountModules(ctx)
		if err != nil {
			return monitoring.ResultFromError(err, time.Since(start))
		}

		switch {
		case count == 0:
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "module catalog is empty"}
		case count < int64(expected):
			return monitoring.ProbeResult{
				Status:  monitoring.StatusDegraded,
				Details: fmt.Sprintf("module catalog has %d of %d modules", count, expected),
			}
		}
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	})
}
