package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

func TestSaveAndQueryRun(t *testing.T) {
	cli := &Client{}
	if err := cli.Init(filepath.Join(t.TempDir(), "bountylens.db")); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer cli.Close()

	first := time.Date(2019, 3, 4, 10, 0, 0, 0, time.UTC)

	reports := []*disclosure.Report{
		{
			ID: "1", ReporterUsername: "alice", TeamHandle: "acme", TeamName: "Acme Corp",
			WeaknessName: "Cross-site Scripting (XSS)", Severity: "high", Substate: "resolved",
			SubmittedAt: first, Bounty: 500, Awarded: true, VoteCount: 10, Valid: true,
		},
	}
	tables := &disclosure.Tables{
		Vulnerabilities: []*disclosure.VulnerabilitySummary{
			{WeaknessName: "Cross-site Scripting (XSS)", TotalReports: 1, BountyReports: 1, AvgVoteCount: 10, MostCommonSeverity: "high", BountyPercentage: 100},
		},
		Organizations: []*disclosure.OrganizationMetrics{
			{TeamHandle: "acme", TotalReports: 1, BountyReports: 1, AvgVoteCount: 10, FirstReport: first, LatestReport: first, TeamName: "Acme Corp", BountyPercentage: 100},
		},
		Reporters: []*disclosure.ReporterAnalytics{
			{Username: "alice", TotalReports: 1, ValidReports: 1, AvgVoteCount: 10, VerifiedStatus: true, Specialization: "Cross-site Scripting (XSS)", ValidPercentage: 100, BountyReports: 1, BountyPercentage: 100, FirstReport: first, LatestReport: first},
		},
		Trends: []*disclosure.TimeTrend{
			{YearMonth: "2019-03", VulnerabilityType: "Cross-site Scripting (XSS)", ReportCount: 1, BountyCount: 1, AvgVoteCount: 10, OrganizationCount: 1, BountyPercentage: 100},
		},
	}

	ctx := context.Background()
	if err := cli.SaveRun(ctx, reports, tables); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	// Saving again must replace, not accumulate.
	if err := cli.SaveRun(ctx, reports, tables); err != nil {
		t.Fatalf("SaveRun() second run error = %v", err)
	}

	vulns, err := cli.TopVulnerabilities(ctx, 5)
	if err != nil {
		t.Fatalf("TopVulnerabilities() error = %v", err)
	}
	if len(vulns) != 1 || vulns[0].WeaknessName != "Cross-site Scripting (XSS)" || vulns[0].TotalReports != 1 {
		t.Errorf("TopVulnerabilities() = %+v", vulns)
	}

	orgs, err := cli.TopOrganizations(ctx, 5)
	if err != nil {
		t.Fatalf("TopOrganizations() error = %v", err)
	}
	if len(orgs) != 1 || orgs[0].TeamName != "Acme Corp" || !orgs[0].FirstReport.Equal(first) {
		t.Errorf("TopOrganizations() = %+v", orgs)
	}

	reporters, err := cli.TopReporters(ctx, 5)
	if err != nil {
		t.Fatalf("TopReporters() error = %v", err)
	}
	if len(reporters) != 1 || reporters[0].Username != "alice" || !reporters[0].VerifiedStatus {
		t.Errorf("TopReporters() = %+v", reporters)
	}
}
