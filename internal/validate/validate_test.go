package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/bountylens/bountylens/internal/aggregate"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

func validReports() []*disclosure.Report {
	base := time.Date(2019, 3, 4, 10, 0, 0, 0, time.UTC)
	return []*disclosure.Report{
		{
			ID: "1", ReporterUsername: "alice", TeamHandle: "acme", TeamName: "Acme Corp",
			WeaknessName: "Cross-site Scripting (XSS)", Severity: "high", Substate: "resolved",
			SubmittedAt: base, Bounty: 500, VoteCount: 10, Valid: true,
		},
		{
			ID: "2", ReporterUsername: "bob", TeamHandle: "acme", TeamName: "Acme Corp",
			WeaknessName: "SQL Injection", Severity: "critical", Substate: "new",
			SubmittedAt: base.Add(time.Hour), VoteCount: 3,
		},
	}
}

func TestTablesPasses(t *testing.T) {
	reports := validReports()
	tables := aggregate.Build(reports)

	if err := Tables(reports, tables); err != nil {
		t.Errorf("Tables() error = %v, want nil", err)
	}
}

func TestTablesFailures(t *testing.T) {
	tests := []struct {
		name      string
		corrupt   func(reports []*disclosure.Report, tables *disclosure.Tables)
		wantCheck string
	}{
		{
			name: "negativeBounty",
			corrupt: func(reports []*disclosure.Report, tables *disclosure.Tables) {
				reports[0].Bounty = -1
			},
			wantCheck: "bounty amount >= 0",
		},
		{
			name: "negativeVotes",
			corrupt: func(reports []*disclosure.Report, tables *disclosure.Tables) {
				reports[1].VoteCount = -5
			},
			wantCheck: "vote count >= 0",
		},
		{
			name: "emptyGroupKey",
			corrupt: func(reports []*disclosure.Report, tables *disclosure.Tables) {
				tables.Vulnerabilities[0].WeaknessName = ""
			},
			wantCheck: "group keys non-empty",
		},
		{
			name: "percentageOutOfRange",
			corrupt: func(reports []*disclosure.Report, tables *disclosure.Tables) {
				tables.Organizations[0].BountyPercentage = 120
			},
			wantCheck: "0 <= percentage <= 100",
		},
		{
			name: "percentageDrift",
			corrupt: func(reports []*disclosure.Report, tables *disclosure.Tables) {
				tables.Vulnerabilities[0].BountyPercentage = 99.99
			},
			wantCheck: "stored percentage matches recomputed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := validReports()
			tables := aggregate.Build(reports)
			tt.corrupt(reports, tables)

			err := Tables(reports, tables)
			if err == nil {
				t.Fatal("Tables() error = nil, want failure")
			}

			var checkErr *CheckError
			if !errors.As(err, &checkErr) {
				t.Fatalf("Tables() error type = %T", err)
			}
			if checkErr.Check != tt.wantCheck {
				t.Errorf("failed check = %q, want %q", checkErr.Check, tt.wantCheck)
			}
		})
	}
}

func TestOutliers(t *testing.T) {
	base := time.Date(2019, 3, 4, 10, 0, 0, 0, time.UTC)

	var reports []*disclosure.Report
	for i := 0; i < 9; i++ {
		reports = append(reports, &disclosure.Report{
			ID: string(rune('a' + i)), ReporterUsername: "alice", TeamHandle: "acme",
			WeaknessName: "XSS", SubmittedAt: base, Bounty: 100, VoteCount: 5,
		})
	}
	reports = append(reports, &disclosure.Report{
		ID: "big", ReporterUsername: "bob", TeamHandle: "acme",
		WeaknessName: "XSS", SubmittedAt: base, Bounty: 100000, VoteCount: 5,
	})

	flagged := Outliers(reports)

	if len(flagged) != 1 {
		t.Fatalf("Outliers() flagged %d, want 1", len(flagged))
	}
	if flagged[0].ReportID != "big" || flagged[0].Field != "bounty" {
		t.Errorf("flagged = %+v, want bounty outlier on report big", flagged[0])
	}
}

func TestOutliersUniformSet(t *testing.T) {
	base := time.Date(2019, 3, 4, 10, 0, 0, 0, time.UTC)

	var reports []*disclosure.Report
	for i := 0; i < 5; i++ {
		reports = append(reports, &disclosure.Report{
			ID: string(rune('a' + i)), SubmittedAt: base, Bounty: 100, VoteCount: 5,
		})
	}

	if flagged := Outliers(reports); len(flagged) != 0 {
		t.Errorf("Outliers() flagged %d on a uniform set, want 0", len(flagged))
	}
}
