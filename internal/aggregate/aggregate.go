// Package aggregate computes the four derived tables from the
// normalized report set. Each table is an independent grouping; nothing
// here mutates its input.
package aggregate

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/internal/stats"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

// Build derives all four tables from reports. The iteration order of
// reports decides modal tie-breaks, so a stable input yields a stable
// output.
func Build(reports []*disclosure.Report) *disclosure.Tables {
	t := &disclosure.Tables{
		Vulnerabilities: vulnerabilitySummary(reports),
		Organizations:   organizationMetrics(reports),
		Reporters:       reporterAnalytics(reports),
		Trends:          timeTrends(reports),
	}

	log.Infof("aggregated %d reports into %d weaknesses, %d organizations, %d reporters, %d trend rows",
		len(reports), len(t.Vulnerabilities), len(t.Organizations), len(t.Reporters), len(t.Trends))

	return t
}

// groups partitions reports by key, remembering first-encounter order
// so downstream modal picks stay deterministic.
func groups(reports []*disclosure.Report, key func(*disclosure.Report) string) ([]string, map[string][]*disclosure.Report) {
	var order []string
	parts := make(map[string][]*disclosure.Report)

	for _, r := range reports {
		k := key(r)
		if _, ok := parts[k]; !ok {
			order = append(order, k)
		}
		parts[k] = append(parts[k], r)
	}

	return order, parts
}

func bountyCount(part []*disclosure.Report) int {
	n := 0
	for _, r := range part {
		if r.HasBounty() {
			n++
		}
	}
	return n
}

func avgVotes(part []*disclosure.Report) float64 {
	votes := make([]float64, len(part))
	for i, r := range part {
		votes[i] = float64(r.VoteCount)
	}
	return stats.Mean(votes)
}

func timeSpan(part []*disclosure.Report) (first, latest int) {
	first, latest = 0, 0
	for i, r := range part {
		if r.SubmittedAt.Before(part[first].SubmittedAt) {
			first = i
		}
		if r.SubmittedAt.After(part[latest].SubmittedAt) {
			latest = i
		}
	}
	return first, latest
}

func vulnerabilitySummary(reports []*disclosure.Report) []*disclosure.VulnerabilitySummary {
	order, parts := groups(reports, func(r *disclosure.Report) string { return r.WeaknessName })

	rows := make([]*disclosure.VulnerabilitySummary, 0, len(order))
	for _, k := range order {
		part := parts[k]

		severities := make([]string, len(part))
		for i, r := range part {
			severities[i] = r.Severity
		}

		bounty := bountyCount(part)
		rows = append(rows, &disclosure.VulnerabilitySummary{
			WeaknessName:       k,
			TotalReports:       len(part),
			BountyReports:      bounty,
			AvgVoteCount:       avgVotes(part),
			MostCommonSeverity: stats.Mode(severities),
			BountyPercentage:   stats.Percentage(bounty, len(part)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalReports != rows[j].TotalReports {
			return rows[i].TotalReports > rows[j].TotalReports
		}
		return rows[i].WeaknessName < rows[j].WeaknessName
	})

	return rows
}

func organizationMetrics(reports []*disclosure.Report) []*disclosure.OrganizationMetrics {
	order, parts := groups(reports, func(r *disclosure.Report) string { return r.TeamHandle })

	rows := make([]*disclosure.OrganizationMetrics, 0, len(order))
	for _, k := range order {
		part := parts[k]
		first, latest := timeSpan(part)

		bounty := bountyCount(part)
		rows = append(rows, &disclosure.OrganizationMetrics{
			TeamHandle:       k,
			TotalReports:     len(part),
			BountyReports:    bounty,
			AvgVoteCount:     avgVotes(part),
			FirstReport:      part[first].SubmittedAt,
			LatestReport:     part[latest].SubmittedAt,
			TeamName:         part[0].TeamName,
			BountyPercentage: stats.Percentage(bounty, len(part)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalReports != rows[j].TotalReports {
			return rows[i].TotalReports > rows[j].TotalReports
		}
		return rows[i].TeamHandle < rows[j].TeamHandle
	})

	return rows
}

func reporterAnalytics(reports []*disclosure.Report) []*disclosure.ReporterAnalytics {
	order, parts := groups(reports, func(r *disclosure.Report) string { return r.ReporterUsername })

	rows := make([]*disclosure.ReporterAnalytics, 0, len(order))
	for _, k := range order {
		part := parts[k]
		first, latest := timeSpan(part)

		valid := 0
		weaknesses := make([]string, len(part))
		for i, r := range part {
			if r.Valid {
				valid++
			}
			weaknesses[i] = r.WeaknessName
		}

		bounty := bountyCount(part)
		rows = append(rows, &disclosure.ReporterAnalytics{
			Username:         k,
			TotalReports:     len(part),
			ValidReports:     valid,
			AvgVoteCount:     avgVotes(part),
			VerifiedStatus:   part[0].ReporterVerified,
			ClearedStatus:    part[0].ReporterCleared,
			Specialization:   stats.Mode(weaknesses),
			ValidPercentage:  stats.Percentage(valid, len(part)),
			BountyReports:    bounty,
			BountyPercentage: stats.Percentage(bounty, len(part)),
			FirstReport:      part[first].SubmittedAt,
			LatestReport:     part[latest].SubmittedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalReports != rows[j].TotalReports {
			return rows[i].TotalReports > rows[j].TotalReports
		}
		return rows[i].Username < rows[j].Username
	})

	return rows
}

func timeTrends(reports []*disclosure.Report) []*disclosure.TimeTrend {
	order, parts := groups(reports, func(r *disclosure.Report) string {
		return r.SubmittedAt.Format("2006-01") + "\x1f" + r.WeaknessName
	})

	rows := make([]*disclosure.TimeTrend, 0, len(order))
	for _, k := range order {
		part := parts[k]

		orgs := make(map[string]bool, len(part))
		for _, r := range part {
			orgs[r.TeamHandle] = true
		}

		bounty := bountyCount(part)
		rows = append(rows, &disclosure.TimeTrend{
			YearMonth:         part[0].SubmittedAt.Format("2006-01"),
			VulnerabilityType: part[0].WeaknessName,
			ReportCount:       len(part),
			BountyCount:       bounty,
			AvgVoteCount:      avgVotes(part),
			OrganizationCount: len(orgs),
			BountyPercentage:  stats.Percentage(bounty, len(part)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].YearMonth != rows[j].YearMonth {
			return rows[i].YearMonth < rows[j].YearMonth
		}
		if rows[i].ReportCount != rows[j].ReportCount {
			return rows[i].ReportCount > rows[j].ReportCount
		}
		return rows[i].VulnerabilityType < rows[j].VulnerabilityType
	})

	return rows
}
