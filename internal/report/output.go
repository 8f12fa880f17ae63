// Package report writes the derived tables to disk and prints the
// console summary.
package report

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/bountylens/bountylens/config"
	"github.com/bountylens/bountylens/pkg/disclosure"
)

// ResolveSummary prints the run summary: overall counts with severity
// highlights, then top-N tables for weaknesses, organizations and
// reporters.
func ResolveSummary(ctx context.Context, t *disclosure.Tables, topN int) error {

	total, bounties := 0, 0
	critical, high := 0, 0
	for _, row := range t.Vulnerabilities {
		total += row.TotalReports
		bounties += row.BountyReports

		switch strings.ToLower(row.MostCommonSeverity) {
		case "critical":
			critical += row.TotalReports
		case "high":
			high += row.TotalReports
		default:
			// ignore
		}
	}

	fmt.Printf("\nProcessed %s reports | "+
		"Bounties: %s Critical-severity types: %s High-severity types: %s\n\n",
		config.Yellow(total),
		config.Green(bounties),
		config.Red(critical),
		config.Pink(high))

	fmt.Printf("Top vulnerability types:\n")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Weakness", "Reports", "Bounties", "Avg Votes", "Severity", "Bounty %"})
	table.SetRowLine(true)

	for i, row := range t.Vulnerabilities {
		if i >= topN {
			break
		}
		table.Append([]string{
			strconv.Itoa(i + 1), row.WeaknessName,
			strconv.Itoa(row.TotalReports), strconv.Itoa(row.BountyReports),
			f2(row.AvgVoteCount), judgeSeverity(row.MostCommonSeverity), f2(row.BountyPercentage),
		})
	}
	table.Render()

	fmt.Printf("\nTop organizations:\n")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Handle", "Name", "Reports", "Bounties", "Bounty %"})
	table.SetRowLine(true)

	for i, row := range t.Organizations {
		if i >= topN {
			break
		}
		table.Append([]string{
			strconv.Itoa(i + 1), row.TeamHandle, row.TeamName,
			strconv.Itoa(row.TotalReports), strconv.Itoa(row.BountyReports), f2(row.BountyPercentage),
		})
	}
	table.Render()

	fmt.Printf("\nTop reporters:\n")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Username", "Reports", "Valid %", "Specialization"})
	table.SetRowLine(true)

	for i, row := range t.Reporters {
		if i >= topN {
			break
		}
		table.Append([]string{
			strconv.Itoa(i + 1), row.Username,
			strconv.Itoa(row.TotalReports), f2(row.ValidPercentage), row.Specialization,
		})
	}
	table.Render()

	return nil
}

func judgeSeverity(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return config.Red(severity)
	case "high":
		return config.Pink(severity)
	case "medium":
		return config.Yellow(severity)
	case "low":
		return config.Green(severity)
	}

	return severity
}
