package aggregate

import (
	"time"

	"github.com/bountylens/bountylens/internal/stats"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

// BuildInsights derives the headline summary from already-built tables.
// Tables are sorted by total reports, so the top row of each is the top
// performer.
func BuildInsights(t *disclosure.Tables, runID string, now time.Time) *disclosure.Insights {
	ins := &disclosure.Insights{
		UniqueOrganizations: len(t.Organizations),
		ActiveReporters:     len(t.Reporters),
		VulnerabilityTypes:  len(t.Vulnerabilities),
		RunID:               runID,
		GeneratedAt:         now.UTC().Format(time.RFC3339),
	}

	for _, row := range t.Vulnerabilities {
		ins.TotalReports += row.TotalReports
		ins.TotalBounties += row.BountyReports
	}
	ins.OverallBountyRate = stats.Percentage(ins.TotalBounties, ins.TotalReports)

	if len(t.Vulnerabilities) > 0 {
		ins.TopVulnerability = t.Vulnerabilities[0].WeaknessName
	}
	if len(t.Organizations) > 0 {
		ins.TopOrganization = t.Organizations[0].TeamName
	}
	if len(t.Reporters) > 0 {
		ins.TopReporter = t.Reporters[0].Username
	}

	return ins
}
