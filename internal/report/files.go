package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/config"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

const (
	VulnerabilityFile = "vulnerability_summary.csv"
	OrganizationFile  = "organization_metrics.csv"
	ReporterFile      = "reporter_analytics.csv"
	TrendFile         = "time_trends.csv"
	InsightsFile      = "key_insights.json"

	timestampLayout = "2006-01-02 15:04:05"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsExist(err) {
			return true
		}

		return false
	}
	return true
}

func ensureDir(dir string) error {
	if !exists(dir) {
		return os.MkdirAll(dir, os.FileMode(0755))
	}
	return nil
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteTables writes the four derived tables under outdir. Each file is
// written to a temp name and renamed into place, so an interrupted run
// never leaves a partial table behind.
func WriteTables(ctx context.Context, outdir string, t *disclosure.Tables) error {
	if err := ensureDir(outdir); err != nil {
		return err
	}

	files := []struct {
		name   string
		header []string
		rows   func() [][]string
	}{
		{VulnerabilityFile, vulnerabilityHeader, func() [][]string { return vulnerabilityRows(t.Vulnerabilities) }},
		{OrganizationFile, organizationHeader, func() [][]string { return organizationRows(t.Organizations) }},
		{ReporterFile, reporterHeader, func() [][]string { return reporterRows(t.Reporters) }},
		{TrendFile, trendHeader, func() [][]string { return trendRows(t.Trends) }},
	}

	for _, f := range files {
		path := filepath.Join(outdir, f.name)
		if err := writeCSV(path, f.header, f.rows()); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	log.Infof("Output tables are saved in: %s", config.Yellow(outdir))
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

var vulnerabilityHeader = []string{
	"weakness_name", "total_reports", "bounty_reports",
	"avg_vote_count", "most_common_severity", "bounty_percentage",
}

func vulnerabilityRows(rows []*disclosure.VulnerabilitySummary) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.WeaknessName,
			strconv.Itoa(r.TotalReports),
			strconv.Itoa(r.BountyReports),
			f2(r.AvgVoteCount),
			r.MostCommonSeverity,
			f2(r.BountyPercentage),
		}
	}
	return out
}

var organizationHeader = []string{
	"team_handle", "total_reports", "bounty_reports", "avg_vote_count",
	"first_report", "latest_report", "team_name", "bounty_percentage",
}

func organizationRows(rows []*disclosure.OrganizationMetrics) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.TeamHandle,
			strconv.Itoa(r.TotalReports),
			strconv.Itoa(r.BountyReports),
			f2(r.AvgVoteCount),
			r.FirstReport.UTC().Format(timestampLayout),
			r.LatestReport.UTC().Format(timestampLayout),
			r.TeamName,
			f2(r.BountyPercentage),
		}
	}
	return out
}

var reporterHeader = []string{
	"username", "total_reports", "valid_reports", "avg_vote_count",
	"verified_status", "cleared_status", "specialization", "valid_percentage",
	"bounty_reports", "bounty_percentage", "first_report", "latest_report",
}

func reporterRows(rows []*disclosure.ReporterAnalytics) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Username,
			strconv.Itoa(r.TotalReports),
			strconv.Itoa(r.ValidReports),
			f2(r.AvgVoteCount),
			strconv.FormatBool(r.VerifiedStatus),
			strconv.FormatBool(r.ClearedStatus),
			r.Specialization,
			f2(r.ValidPercentage),
			strconv.Itoa(r.BountyReports),
			f2(r.BountyPercentage),
			r.FirstReport.UTC().Format(timestampLayout),
			r.LatestReport.UTC().Format(timestampLayout),
		}
	}
	return out
}

var trendHeader = []string{
	"year_month", "vulnerability_type", "report_count", "bounty_count",
	"avg_vote_count", "organization_count", "bounty_percentage",
}

func trendRows(rows []*disclosure.TimeTrend) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.YearMonth,
			r.VulnerabilityType,
			strconv.Itoa(r.ReportCount),
			strconv.Itoa(r.BountyCount),
			f2(r.AvgVoteCount),
			strconv.Itoa(r.OrganizationCount),
			f2(r.BountyPercentage),
		}
	}
	return out
}

// WriteInsights writes the key insights JSON under outdir.
func WriteInsights(ctx context.Context, outdir string, ins *disclosure.Insights) error {
	if err := ensureDir(outdir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(ins, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(outdir, InsightsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	log.Infof("Insights are saved in: %s", config.Yellow(path))
	return nil
}
