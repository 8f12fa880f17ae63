// Package normalize repairs raw records into the canonical Report set
// every aggregation runs over. Rules are fixed: placeholder labels get
// defaults, grouping labels are case-folded behind a synonym table,
// records with implausible timestamps are dropped, and duplicates are
// collapsed.
package normalize

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

const (
	DefaultWeakness = "Unclassified"
	DefaultSeverity = "Unspecified"
	DefaultSubstate = "Unknown"
)

// Placeholder tokens that mean "no value", compared case-insensitively.
var (
	weaknessNullTokens = map[string]bool{"": true, "null": true, "none": true, "unknown": true}
	severityNullTokens = map[string]bool{"": true, "null": true, "none": true}
)

// synonyms collapses common short-form weakness labels into their
// canonical long form before grouping.
var synonyms = map[string]string{
	"xss":                    "Cross-site Scripting (XSS)",
	"cross-site scripting":   "Cross-site Scripting (XSS)",
	"sqli":                   "SQL Injection",
	"sql injection":          "SQL Injection",
	"csrf":                   "Cross-Site Request Forgery (CSRF)",
	"idor":                   "Insecure Direct Object Reference (IDOR)",
	"ssrf":                   "Server-Side Request Forgery (SSRF)",
	"rce":                    "Remote Code Execution",
	"remote code execution":  "Remote Code Execution",
	"xxe":                    "XML External Entity (XXE)",
	"info disclosure":        "Information Disclosure",
	"information leak":       "Information Disclosure",
	"information disclosure": "Information Disclosure",
}

// The source mixes ISO-8601 variants; try them in order.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer turns raw records into the canonical Report set.
type Normalizer struct {
	// Earliest and Latest bound the plausible submission window;
	// records outside [Earliest, Latest) are silently dropped.
	Earliest time.Time
	Latest   time.Time

	// Run counters, for the log line only.
	DroppedTimestamps int
	DroppedDuplicates int

	// First-seen display form per case-folded label, so that records
	// differing only in case or padding land in one group.
	weaknessForms map[string]string
	severityForms map[string]string
}

// Run normalizes recs in order and returns the surviving Report set.
func (n *Normalizer) Run(recs []*disclosure.RawRecord) []*disclosure.Report {
	n.weaknessForms = make(map[string]string)
	n.severityForms = make(map[string]string)
	n.DroppedTimestamps = 0
	n.DroppedDuplicates = 0

	reports := make([]*disclosure.Report, 0, len(recs))
	for _, rec := range recs {
		r, ok := n.normalize(rec)
		if !ok {
			n.DroppedTimestamps++
			continue
		}
		reports = append(reports, r)
	}

	reports = n.dedup(reports)

	log.Infof("normalized %d reports (%d dropped on timestamp, %d duplicates)",
		len(reports), n.DroppedTimestamps, n.DroppedDuplicates)

	return reports
}

func (n *Normalizer) normalize(rec *disclosure.RawRecord) (*disclosure.Report, bool) {
	ts, ok := n.parseTimestamp(rec.CreatedAt)
	if !ok {
		log.Debugf("report %s: implausible timestamp %q, dropped", rec.ID, rec.CreatedAt)
		return nil, false
	}

	r := &disclosure.Report{
		ID:               rec.ID,
		ReporterUsername: strings.TrimSpace(rec.ReporterUsername),
		ReporterVerified: rec.ReporterVerified,
		ReporterCleared:  rec.ReporterCleared,
		TeamHandle:       strings.TrimSpace(rec.TeamHandle),
		SubmittedAt:      ts,
		Bounty:           rec.Bounty,
		Awarded:          rec.Awarded,
		VoteCount:        rec.VoteCount,
	}

	r.WeaknessName = n.canonical(n.weaknessForms, rec.WeaknessName, weaknessNullTokens, DefaultWeakness, synonyms)
	r.Severity = n.canonical(n.severityForms, rec.MaxSeverity, severityNullTokens, DefaultSeverity, nil)

	r.Substate = strings.TrimSpace(rec.Substate)
	if r.Substate == "" {
		r.Substate = DefaultSubstate
	}
	r.Valid = strings.EqualFold(r.Substate, "resolved")

	r.TeamName = strings.TrimSpace(rec.TeamName)
	if r.TeamName == "" {
		r.TeamName = fmt.Sprintf("Organization_%s", r.TeamHandle)
	}

	return r, true
}

// canonical maps a label to its grouping form: placeholders become the
// default, synonyms collapse, and otherwise the first display form seen
// for a case-folded key is reused for every later variant.
func (n *Normalizer) canonical(forms map[string]string, label string, nulls map[string]bool, def string, syn map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if nulls[key] {
		return def
	}
	if syn != nil {
		if long, ok := syn[key]; ok {
			return long
		}
	}
	if form, ok := forms[key]; ok {
		return form
	}
	form := strings.TrimSpace(label)
	forms[key] = form
	return form
}

func (n *Normalizer) parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		ts = ts.UTC()
		if ts.Before(n.Earliest) || !ts.Before(n.Latest) {
			return time.Time{}, false
		}
		return ts, true
	}

	return time.Time{}, false
}

// dedup collapses duplicates in two passes, first wins in both. The
// second pass ignores the weakness label, so distinct reports filed the
// same instant to the same organization collapse into one.
func (n *Normalizer) dedup(reports []*disclosure.Report) []*disclosure.Report {
	exact := make(map[string]bool, len(reports))
	out := reports[:0]
	for _, r := range reports {
		key := dupKey(r, true)
		if exact[key] {
			n.DroppedDuplicates++
			continue
		}
		exact[key] = true
		out = append(out, r)
	}

	coarse := make(map[string]bool, len(out))
	final := out[:0]
	for _, r := range out {
		key := dupKey(r, false)
		if coarse[key] {
			n.DroppedDuplicates++
			continue
		}
		coarse[key] = true
		final = append(final, r)
	}

	return final
}

func dupKey(r *disclosure.Report, withWeakness bool) string {
	ts := r.SubmittedAt.Format(time.RFC3339Nano)
	if withWeakness {
		return strings.Join([]string{r.ReporterUsername, r.TeamHandle, r.WeaknessName, ts}, "\x1f")
	}
	return strings.Join([]string{r.ReporterUsername, r.TeamHandle, ts}, "\x1f")
}
