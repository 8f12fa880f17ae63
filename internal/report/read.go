package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

// ReadTables loads the four derived tables back from outdir. Used by
// the insights command, which runs over the written tables rather than
// the raw dataset.
func ReadTables(ctx context.Context, outdir string) (*disclosure.Tables, error) {
	t := &disclosure.Tables{}

	if err := readCSV(filepath.Join(outdir, VulnerabilityFile), len(vulnerabilityHeader), func(row []string) error {
		r, err := parseVulnerability(row)
		if err != nil {
			return err
		}
		t.Vulnerabilities = append(t.Vulnerabilities, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readCSV(filepath.Join(outdir, OrganizationFile), len(organizationHeader), func(row []string) error {
		r, err := parseOrganization(row)
		if err != nil {
			return err
		}
		t.Organizations = append(t.Organizations, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readCSV(filepath.Join(outdir, ReporterFile), len(reporterHeader), func(row []string) error {
		r, err := parseReporter(row)
		if err != nil {
			return err
		}
		t.Reporters = append(t.Reporters, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readCSV(filepath.Join(outdir, TrendFile), len(trendHeader), func(row []string) error {
		r, err := parseTrend(row)
		if err != nil {
			return err
		}
		t.Trends = append(t.Trends, r)
		return nil
	}); err != nil {
		return nil, err
	}

	return t, nil
}

func readCSV(path string, fields int, add func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = fields

	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	for i, row := range rows {
		if i == 0 {
			// header
			continue
		}
		if err := add(row); err != nil {
			return fmt.Errorf("%s row %d: %w", filepath.Base(path), i, err)
		}
	}
	return nil
}

func parseVulnerability(row []string) (*disclosure.VulnerabilitySummary, error) {
	total, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, err
	}
	bounty, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, err
	}
	votes, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, err
	}
	pct, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return nil, err
	}

	return &disclosure.VulnerabilitySummary{
		WeaknessName:       row[0],
		TotalReports:       total,
		BountyReports:      bounty,
		AvgVoteCount:       votes,
		MostCommonSeverity: row[4],
		BountyPercentage:   pct,
	}, nil
}

func parseOrganization(row []string) (*disclosure.OrganizationMetrics, error) {
	total, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, err
	}
	bounty, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, err
	}
	votes, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, err
	}
	first, err := time.Parse(timestampLayout, row[4])
	if err != nil {
		return nil, err
	}
	latest, err := time.Parse(timestampLayout, row[5])
	if err != nil {
		return nil, err
	}
	pct, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return nil, err
	}

	return &disclosure.OrganizationMetrics{
		TeamHandle:       row[0],
		TotalReports:     total,
		BountyReports:    bounty,
		AvgVoteCount:     votes,
		FirstReport:      first.UTC(),
		LatestReport:     latest.UTC(),
		TeamName:         row[6],
		BountyPercentage: pct,
	}, nil
}

func parseReporter(row []string) (*disclosure.ReporterAnalytics, error) {
	total, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, err
	}
	valid, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, err
	}
	votes, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, err
	}
	verified, err := strconv.ParseBool(row[4])
	if err != nil {
		return nil, err
	}
	cleared, err := strconv.ParseBool(row[5])
	if err != nil {
		return nil, err
	}
	validPct, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return nil, err
	}
	bounty, err := strconv.Atoi(row[8])
	if err != nil {
		return nil, err
	}
	bountyPct, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return nil, err
	}
	first, err := time.Parse(timestampLayout, row[10])
	if err != nil {
		return nil, err
	}
	latest, err := time.Parse(timestampLayout, row[11])
	if err != nil {
		return nil, err
	}

	return &disclosure.ReporterAnalytics{
		Username:         row[0],
		TotalReports:     total,
		ValidReports:     valid,
		AvgVoteCount:     votes,
		VerifiedStatus:   verified,
		ClearedStatus:    cleared,
		Specialization:   row[6],
		ValidPercentage:  validPct,
		BountyReports:    bounty,
		BountyPercentage: bountyPct,
		FirstReport:      first.UTC(),
		LatestReport:     latest.UTC(),
	}, nil
}

func parseTrend(row []string) (*disclosure.TimeTrend, error) {
	count, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, err
	}
	bounty, err := strconv.Atoi(row[3])
	if err != nil {
		return nil, err
	}
	votes, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return nil, err
	}
	orgs, err := strconv.Atoi(row[5])
	if err != nil {
		return nil, err
	}
	pct, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return nil, err
	}

	return &disclosure.TimeTrend{
		YearMonth:         row[0],
		VulnerabilityType: row[1],
		ReportCount:       count,
		BountyCount:       bounty,
		AvgVoteCount:      votes,
		OrganizationCount: orgs,
		BountyPercentage:  pct,
	}, nil
}
