// Package validate runs the post-aggregation consistency checks. Fatal
// checks abort the run before anything is written; outlier flagging is
// informational only.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/bountylens/bountylens/internal/stats"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

// CheckError names the failed check and the offending row keys.
type CheckError struct {
	Check string
	Rows  []string
}

func (e *CheckError) Error() string {
	rows := e.Rows
	if len(rows) > 10 {
		rows = rows[:10]
	}
	return fmt.Sprintf("validation failed: %s (rows: %s)", e.Check, strings.Join(rows, ", "))
}

const percentTolerance = 0.01

// Tables runs every fatal check over the normalized reports and the
// four derived tables. The first failing check is returned.
func Tables(reports []*disclosure.Report, t *disclosure.Tables) error {
	checks := []func() *CheckError{
		func() *CheckError { return checkReports(reports) },
		func() *CheckError { return checkKeys(t) },
		func() *CheckError { return checkPercentages(t) },
		func() *CheckError { return checkCounts(t) },
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func checkReports(reports []*disclosure.Report) *CheckError {
	var badBounty, badVotes []string
	for _, r := range reports {
		if r.Bounty < 0 {
			badBounty = append(badBounty, r.ID)
		}
		if r.VoteCount < 0 {
			badVotes = append(badVotes, r.ID)
		}
	}

	if len(badBounty) > 0 {
		return &CheckError{Check: "bounty amount >= 0", Rows: badBounty}
	}
	if len(badVotes) > 0 {
		return &CheckError{Check: "vote count >= 0", Rows: badVotes}
	}
	return nil
}

func checkKeys(t *disclosure.Tables) *CheckError {
	var empty []string

	for i, row := range t.Vulnerabilities {
		if row.WeaknessName == "" {
			empty = append(empty, fmt.Sprintf("vulnerability_summary[%d]", i))
		}
	}
	for i, row := range t.Organizations {
		if row.TeamHandle == "" {
			empty = append(empty, fmt.Sprintf("organization_metrics[%d]", i))
		}
	}
	for i, row := range t.Reporters {
		if row.Username == "" {
			empty = append(empty, fmt.Sprintf("reporter_analytics[%d]", i))
		}
	}
	for i, row := range t.Trends {
		if row.YearMonth == "" || row.VulnerabilityType == "" {
			empty = append(empty, fmt.Sprintf("time_trends[%d]", i))
		}
	}

	if len(empty) > 0 {
		return &CheckError{Check: "group keys non-empty", Rows: empty}
	}
	return nil
}

// percentRow is the shared shape of all percentage checks.
type percentRow struct {
	key    string
	part   int
	total  int
	stored float64
}

func checkPercentages(t *disclosure.Tables) *CheckError {
	var rows []percentRow

	for _, r := range t.Vulnerabilities {
		rows = append(rows, percentRow{r.WeaknessName, r.BountyReports, r.TotalReports, r.BountyPercentage})
	}
	for _, r := range t.Organizations {
		rows = append(rows, percentRow{r.TeamHandle, r.BountyReports, r.TotalReports, r.BountyPercentage})
	}
	for _, r := range t.Reporters {
		rows = append(rows, percentRow{r.Username, r.BountyReports, r.TotalReports, r.BountyPercentage})
		rows = append(rows, percentRow{r.Username, r.ValidReports, r.TotalReports, r.ValidPercentage})
	}
	for _, r := range t.Trends {
		rows = append(rows, percentRow{r.YearMonth + "/" + r.VulnerabilityType, r.BountyCount, r.ReportCount, r.BountyPercentage})
	}

	var outOfRange, drifted []string
	for _, row := range rows {
		if row.stored < 0 || row.stored > 100 {
			outOfRange = append(outOfRange, row.key)
		}
		if math.Abs(stats.Percentage(row.part, row.total)-row.stored) >= percentTolerance {
			drifted = append(drifted, row.key)
		}
	}

	if len(outOfRange) > 0 {
		return &CheckError{Check: "0 <= percentage <= 100", Rows: outOfRange}
	}
	if len(drifted) > 0 {
		return &CheckError{Check: "stored percentage matches recomputed", Rows: drifted}
	}
	return nil
}

// checkCounts asserts bounty + (total - bounty) == total. Definitionally
// true; kept as a sanity guard against a broken aggregation.
func checkCounts(t *disclosure.Tables) *CheckError {
	var bad []string

	for _, r := range t.Vulnerabilities {
		if r.BountyReports+(r.TotalReports-r.BountyReports) != r.TotalReports || r.BountyReports > r.TotalReports {
			bad = append(bad, r.WeaknessName)
		}
	}
	for _, r := range t.Organizations {
		if r.BountyReports > r.TotalReports {
			bad = append(bad, r.TeamHandle)
		}
	}
	for _, r := range t.Reporters {
		if r.BountyReports > r.TotalReports || r.ValidReports > r.TotalReports {
			bad = append(bad, r.Username)
		}
	}
	for _, r := range t.Trends {
		if r.BountyCount > r.ReportCount {
			bad = append(bad, r.YearMonth+"/"+r.VulnerabilityType)
		}
	}

	if len(bad) > 0 {
		return &CheckError{Check: "bounty reports within totals", Rows: bad}
	}
	return nil
}

// Outlier flags one report whose value clears the Tukey fence.
type Outlier struct {
	Field     string
	ReportID  string
	Value     float64
	Threshold float64
}

// Outliers flags reports whose bounty amount or vote count exceeds
// Q3 + 1.5*IQR for the respective field. Flagged reports stay in every
// table; the result is a report, not a filter.
func Outliers(reports []*disclosure.Report) []Outlier {
	var flagged []Outlier

	flagged = append(flagged, flagField(reports, "bounty", func(r *disclosure.Report) float64 { return r.Bounty })...)
	flagged = append(flagged, flagField(reports, "vote_count", func(r *disclosure.Report) float64 { return float64(r.VoteCount) })...)

	return flagged
}

func flagField(reports []*disclosure.Report, field string, value func(*disclosure.Report) float64) []Outlier {
	if len(reports) == 0 {
		return nil
	}

	values := make([]float64, len(reports))
	for i, r := range reports {
		values[i] = value(r)
	}

	q1, q3 := stats.Quartiles(values)
	fence := q3 + 1.5*(q3-q1)

	var flagged []Outlier
	for i, r := range reports {
		if values[i] > fence {
			flagged = append(flagged, Outlier{
				Field:     field,
				ReportID:  r.ID,
				Value:     values[i],
				Threshold: fence,
			})
		}
	}
	return flagged
}
