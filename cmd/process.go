// Package cmd holds the run orchestration behind each CLI command.
package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/config"
	"github.com/bountylens/bountylens/internal/aggregate"
	"github.com/bountylens/bountylens/internal/loader"
	"github.com/bountylens/bountylens/internal/normalize"
	"github.com/bountylens/bountylens/internal/report"
	"github.com/bountylens/bountylens/internal/validate"
	"github.com/bountylens/bountylens/pkg/store"
)

// DoProcess runs the full pipeline: load, normalize, aggregate,
// validate, write. A validation failure aborts before anything is
// written.
func DoProcess(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	log.Infof(config.Green("Starting run %s"), runID)

	earliest, latest, err := cfg.Window(time.Now())
	if err != nil {
		return err
	}

	records, err := loader.Load(ctx, cfg.Input)
	if err != nil {
		return err
	}

	norm := &normalize.Normalizer{Earliest: earliest, Latest: latest}
	reports := norm.Run(records)

	tables := aggregate.Build(reports)

	if err := validate.Tables(reports, tables); err != nil {
		return err
	}

	outliers := validate.Outliers(reports)
	if len(outliers) > 0 {
		log.Warnf("flagged %d outlier values (kept in all tables)", len(outliers))
		for _, o := range outliers {
			log.Debugf("outlier: report %s %s=%.2f exceeds %.2f", o.ReportID, o.Field, o.Value, o.Threshold)
		}
	}

	if err := report.WriteTables(ctx, cfg.OutputDir, tables); err != nil {
		return err
	}

	if cfg.DBFile != "" {
		cli := &store.Client{}
		if err := cli.Init(cfg.DBFile); err != nil {
			return err
		}
		defer cli.Close()

		if err := cli.SaveRun(ctx, reports, tables); err != nil {
			return err
		}
		log.Infof("Run is mirrored to: %s", config.Yellow(cfg.DBFile))
	}

	return report.ResolveSummary(ctx, tables, cfg.TopN)
}
