// Package loader reads the raw disclosure dataset into memory. The
// outer file is plain CSV; the reporter, team, weakness and
// structured_scope columns hold nested quasi-JSON that is cleaned and
// extracted field by field.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

// Load reads the dataset at path and returns one RawRecord per row.
// Malformed cells degrade to zero values; only an unreadable file or a
// missing header aborts the load.
func Load(ctx context.Context, path string) ([]*disclosure.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Read(ctx, f)
}

// Read parses CSV rows from r. Split out of Load for tests.
func Read(ctx context.Context, r io.Reader) ([]*disclosure.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("dataset has no id column")
	}

	var records []*disclosure.RawRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Debugf("skipping unreadable row %d: %v", line, err)
			continue
		}

		records = append(records, parseRow(cols, row))
	}

	log.Infof("loaded %d raw records", len(records))
	return records, nil
}

func parseRow(cols map[string]int, row []string) *disclosure.RawRecord {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rec := &disclosure.RawRecord{
		ID:          strings.TrimSpace(field("id")),
		Substate:    field("substate"),
		CreatedAt:   strings.TrimSpace(field("created_at")),
		DisclosedAt: strings.TrimSpace(field("disclosed_at")),
	}

	if v, err := strconv.Atoi(strings.TrimSpace(field("vote_count"))); err == nil {
		rec.VoteCount = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(field("total_awarded_amount")), 64); err == nil {
		rec.Bounty = v
	}
	rec.Awarded = parseBool(field("has_bounty?"))

	extractReporter(rec, field("reporter"))
	extractTeam(rec, field("team"))
	extractWeakness(rec, field("weakness"))
	extractScope(rec, field("structured_scope"))

	return rec
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0", "yes":
		return true
	}
	return false
}
