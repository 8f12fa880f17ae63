package disclosure

import "time"

// VulnerabilitySummary aggregates reports by weakness name.
type VulnerabilitySummary struct {
	WeaknessName       string
	TotalReports       int
	BountyReports      int
	AvgVoteCount       float64
	MostCommonSeverity string
	BountyPercentage   float64
}

// OrganizationMetrics aggregates reports by team handle.
type OrganizationMetrics struct {
	TeamHandle       string
	TotalReports     int
	BountyReports    int
	AvgVoteCount     float64
	FirstReport      time.Time
	LatestReport     time.Time
	TeamName         string
	BountyPercentage float64
}

// ReporterAnalytics aggregates reports by reporter username.
type ReporterAnalytics struct {
	Username         string
	TotalReports     int
	ValidReports     int
	AvgVoteCount     float64
	VerifiedStatus   bool
	ClearedStatus    bool
	Specialization   string
	ValidPercentage  float64
	BountyReports    int
	BountyPercentage float64
	FirstReport      time.Time
	LatestReport     time.Time
}

// TimeTrend aggregates reports by calendar month and weakness name.
type TimeTrend struct {
	YearMonth         string
	VulnerabilityType string
	ReportCount       int
	BountyCount       int
	AvgVoteCount      float64
	OrganizationCount int
	BountyPercentage  float64
}

// Tables bundles the four derived tables of one pipeline run.
type Tables struct {
	Vulnerabilities []*VulnerabilitySummary
	Organizations   []*OrganizationMetrics
	Reporters       []*ReporterAnalytics
	Trends          []*TimeTrend
}

// Insights is the headline summary derived from the written tables.
type Insights struct {
	TotalReports        int     `json:"total_reports"`
	TotalBounties       int     `json:"total_bounties"`
	OverallBountyRate   float64 `json:"overall_bounty_rate"`
	UniqueOrganizations int     `json:"unique_organizations"`
	ActiveReporters     int     `json:"active_reporters"`
	VulnerabilityTypes  int     `json:"vulnerability_types"`
	TopVulnerability    string  `json:"top_vulnerability"`
	TopOrganization     string  `json:"top_organization"`
	TopReporter         string  `json:"top_reporter"`
	RunID               string  `json:"run_id"`
	GeneratedAt         string  `json:"generated_at"`
}
