package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/bountylens/bountylens/config"
	"github.com/bountylens/bountylens/pkg/store"
)

// DoShow prints a top-N table from the SQLite mirror of the last run.
func DoShow(ctx context.Context, cfg *config.Config, which string) error {
	cli := &store.Client{}
	if err := cli.Init(cfg.DBFile); err != nil {
		return err
	}
	defer cli.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetRowLine(true)

	switch which {
	case "vulns":
		rows, err := cli.TopVulnerabilities(ctx, cfg.TopN)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"#", "Weakness", "Reports", "Bounties", "Severity", "Bounty %"})
		for i, r := range rows {
			table.Append([]string{
				strconv.Itoa(i + 1), r.WeaknessName,
				strconv.Itoa(r.TotalReports), strconv.Itoa(r.BountyReports),
				r.MostCommonSeverity, fmt.Sprintf("%.2f", r.BountyPercentage),
			})
		}

	case "orgs":
		rows, err := cli.TopOrganizations(ctx, cfg.TopN)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"#", "Handle", "Name", "Reports", "Bounties", "Bounty %"})
		for i, r := range rows {
			table.Append([]string{
				strconv.Itoa(i + 1), r.TeamHandle, r.TeamName,
				strconv.Itoa(r.TotalReports), strconv.Itoa(r.BountyReports),
				fmt.Sprintf("%.2f", r.BountyPercentage),
			})
		}

	case "reporters":
		rows, err := cli.TopReporters(ctx, cfg.TopN)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"#", "Username", "Reports", "Valid %", "Specialization"})
		for i, r := range rows {
			table.Append([]string{
				strconv.Itoa(i + 1), r.Username,
				strconv.Itoa(r.TotalReports), fmt.Sprintf("%.2f", r.ValidPercentage),
				r.Specialization,
			})
		}

	default:
		return fmt.Errorf("unknown table %q, expected vulns, orgs or reporters", which)
	}

	fmt.Printf("Top %s from %s:\n", which, config.Yellow(cfg.DBFile))
	table.Render()
	return nil
}
