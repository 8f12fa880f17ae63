package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/config"
	"github.com/bountylens/bountylens/internal/aggregate"
	"github.com/bountylens/bountylens/internal/report"
)

// DoInsights derives key_insights.json from the tables a previous
// process run wrote.
func DoInsights(ctx context.Context, cfg *config.Config) error {
	tables, err := report.ReadTables(ctx, cfg.OutputDir)
	if err != nil {
		return err
	}

	ins := aggregate.BuildInsights(tables, uuid.NewString(), time.Now())

	if err := report.WriteInsights(ctx, cfg.OutputDir, ins); err != nil {
		return err
	}

	log.Infof("Total reports: %s | Bounty rate: %s%%",
		config.Yellow(ins.TotalReports), config.Green(ins.OverallBountyRate))
	return nil
}
