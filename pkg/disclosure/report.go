// Package disclosure holds the record and table types shared by every
// pipeline stage.
package disclosure

import "time"

// RawRecord is one row of the raw dataset after field extraction and
// before normalization. String fields still carry whatever the source
// had, including empty and placeholder values.
type RawRecord struct {
	ID string

	ReporterUsername string
	ReporterVerified bool
	ReporterCleared  bool

	TeamHandle         string
	TeamName           string
	TeamOffersBounties bool

	WeaknessID   string
	WeaknessName string

	AssetType       string
	MaxSeverity     string
	AssetIdentifier string

	Substate  string
	VoteCount int
	Bounty    float64
	Awarded   bool

	CreatedAt   string
	DisclosedAt string
}

// Report is one normalized disclosure. All label fields are non-empty
// and canonical; SubmittedAt parsed and inside the plausible window.
type Report struct {
	ID string

	ReporterUsername string
	ReporterVerified bool
	ReporterCleared  bool

	TeamHandle string
	TeamName   string

	WeaknessName string
	Severity     string
	Substate     string

	SubmittedAt time.Time
	Bounty      float64
	Awarded     bool
	VoteCount   int
	Valid       bool
}

// HasBounty reports whether a payment was made for this report. Award
// amounts are often undisclosed in the source, so the dataset's bounty
// flag counts as well as a positive amount.
func (r *Report) HasBounty() bool {
	return r.Awarded || r.Bounty > 0
}
