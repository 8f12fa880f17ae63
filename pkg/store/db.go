// Package store mirrors a pipeline run into a local SQLite database so
// the results can be queried after the fact without re-reading the CSVs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

type Client struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	"ID" TEXT NOT NULL PRIMARY KEY,
	"Reporter" TEXT,
	"TeamHandle" TEXT,
	"TeamName" TEXT,
	"Weakness" TEXT,
	"Severity" TEXT,
	"Substate" TEXT,
	"SubmittedAt" TEXT,
	"Bounty" REAL,
	"Awarded" INTEGER,
	"VoteCount" INTEGER,
	"Valid" INTEGER);

CREATE TABLE IF NOT EXISTS vulnerability_summary (
	"WeaknessName" TEXT NOT NULL PRIMARY KEY,
	"TotalReports" INTEGER,
	"BountyReports" INTEGER,
	"AvgVoteCount" REAL,
	"MostCommonSeverity" TEXT,
	"BountyPercentage" REAL);

CREATE TABLE IF NOT EXISTS organization_metrics (
	"TeamHandle" TEXT NOT NULL PRIMARY KEY,
	"TotalReports" INTEGER,
	"BountyReports" INTEGER,
	"AvgVoteCount" REAL,
	"FirstReport" TEXT,
	"LatestReport" TEXT,
	"TeamName" TEXT,
	"BountyPercentage" REAL);

CREATE TABLE IF NOT EXISTS reporter_analytics (
	"Username" TEXT NOT NULL PRIMARY KEY,
	"TotalReports" INTEGER,
	"ValidReports" INTEGER,
	"AvgVoteCount" REAL,
	"VerifiedStatus" INTEGER,
	"ClearedStatus" INTEGER,
	"Specialization" TEXT,
	"ValidPercentage" REAL,
	"BountyReports" INTEGER,
	"BountyPercentage" REAL,
	"FirstReport" TEXT,
	"LatestReport" TEXT);

CREATE TABLE IF NOT EXISTS time_trends (
	"YearMonth" TEXT NOT NULL,
	"VulnerabilityType" TEXT NOT NULL,
	"ReportCount" INTEGER,
	"BountyCount" INTEGER,
	"AvgVoteCount" REAL,
	"OrganizationCount" INTEGER,
	"BountyPercentage" REAL,
	PRIMARY KEY ("YearMonth", "VulnerabilityType"));
`

// Init opens (creating if needed) the database at path and ensures the
// schema exists.
func (cli *Client) Init(path string) error {
	folder := filepath.Dir(path)
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.FileMode(0755)); err != nil {
			return err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	cli.DB = db
	return nil
}

func (cli *Client) Close() error {
	if cli.DB == nil {
		return nil
	}
	return cli.DB.Close()
}

// SaveRun replaces the stored contents with this run's reports and
// tables. Everything happens inside one transaction: a failed save
// leaves the previous run untouched.
func (cli *Client) SaveRun(ctx context.Context, reports []*disclosure.Report, t *disclosure.Tables) error {
	tx, err := cli.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"reports", "vulnerability_summary", "organization_metrics", "reporter_analytics", "time_trends"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, r := range reports {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reports
			 ("ID", "Reporter", "TeamHandle", "TeamName", "Weakness", "Severity", "Substate", "SubmittedAt", "Bounty", "Awarded", "VoteCount", "Valid")
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.ReporterUsername, r.TeamHandle, r.TeamName, r.WeaknessName,
			r.Severity, r.Substate, r.SubmittedAt.UTC().Format(time.RFC3339),
			r.Bounty, r.Awarded, r.VoteCount, r.Valid)
		if err != nil {
			return fmt.Errorf("insert report %s: %w", r.ID, err)
		}
	}

	for _, row := range t.Vulnerabilities {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vulnerability_summary VALUES (?, ?, ?, ?, ?, ?)`,
			row.WeaknessName, row.TotalReports, row.BountyReports,
			row.AvgVoteCount, row.MostCommonSeverity, row.BountyPercentage)
		if err != nil {
			return fmt.Errorf("insert weakness %s: %w", row.WeaknessName, err)
		}
	}

	for _, row := range t.Organizations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO organization_metrics VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.TeamHandle, row.TotalReports, row.BountyReports, row.AvgVoteCount,
			row.FirstReport.UTC().Format(time.RFC3339), row.LatestReport.UTC().Format(time.RFC3339),
			row.TeamName, row.BountyPercentage)
		if err != nil {
			return fmt.Errorf("insert organization %s: %w", row.TeamHandle, err)
		}
	}

	for _, row := range t.Reporters {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO reporter_analytics VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.Username, row.TotalReports, row.ValidReports, row.AvgVoteCount,
			row.VerifiedStatus, row.ClearedStatus, row.Specialization, row.ValidPercentage,
			row.BountyReports, row.BountyPercentage,
			row.FirstReport.UTC().Format(time.RFC3339), row.LatestReport.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert reporter %s: %w", row.Username, err)
		}
	}

	for _, row := range t.Trends {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO time_trends VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.YearMonth, row.VulnerabilityType, row.ReportCount, row.BountyCount,
			row.AvgVoteCount, row.OrganizationCount, row.BountyPercentage)
		if err != nil {
			return fmt.Errorf("insert trend %s/%s: %w", row.YearMonth, row.VulnerabilityType, err)
		}
	}

	return tx.Commit()
}

// TopVulnerabilities returns the n weaknesses with the most reports.
func (cli *Client) TopVulnerabilities(ctx context.Context, n int) ([]*disclosure.VulnerabilitySummary, error) {
	rows, err := cli.DB.QueryContext(ctx,
		`SELECT * FROM vulnerability_summary ORDER BY "TotalReports" DESC, "WeaknessName" ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*disclosure.VulnerabilitySummary
	for rows.Next() {
		r := &disclosure.VulnerabilitySummary{}
		if err := rows.Scan(&r.WeaknessName, &r.TotalReports, &r.BountyReports,
			&r.AvgVoteCount, &r.MostCommonSeverity, &r.BountyPercentage); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopOrganizations returns the n organizations with the most reports.
func (cli *Client) TopOrganizations(ctx context.Context, n int) ([]*disclosure.OrganizationMetrics, error) {
	rows, err := cli.DB.QueryContext(ctx,
		`SELECT * FROM organization_metrics ORDER BY "TotalReports" DESC, "TeamHandle" ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*disclosure.OrganizationMetrics
	for rows.Next() {
		r := &disclosure.OrganizationMetrics{}
		var first, latest string
		if err := rows.Scan(&r.TeamHandle, &r.TotalReports, &r.BountyReports, &r.AvgVoteCount,
			&first, &latest, &r.TeamName, &r.BountyPercentage); err != nil {
			return nil, err
		}
		if r.FirstReport, err = time.Parse(time.RFC3339, first); err != nil {
			return nil, err
		}
		if r.LatestReport, err = time.Parse(time.RFC3339, latest); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopReporters returns the n reporters with the most reports.
func (cli *Client) TopReporters(ctx context.Context, n int) ([]*disclosure.ReporterAnalytics, error) {
	rows, err := cli.DB.QueryContext(ctx,
		`SELECT * FROM reporter_analytics ORDER BY "TotalReports" DESC, "Username" ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*disclosure.ReporterAnalytics
	for rows.Next() {
		r := &disclosure.ReporterAnalytics{}
		var first, latest string
		if err := rows.Scan(&r.Username, &r.TotalReports, &r.ValidReports, &r.AvgVoteCount,
			&r.VerifiedStatus, &r.ClearedStatus, &r.Specialization, &r.ValidPercentage,
			&r.BountyReports, &r.BountyPercentage, &first, &latest); err != nil {
			return nil, err
		}
		if r.FirstReport, err = time.Parse(time.RFC3339, first); err != nil {
			return nil, err
		}
		if r.LatestReport, err = time.Parse(time.RFC3339, latest); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
