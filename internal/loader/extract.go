package loader

import (
	"github.com/tidwall/gjson"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

// extractReporter fills the reporter fields from the reporter cell.
func extractReporter(rec *disclosure.RawRecord, cell string) {
	doc := gjson.Parse(cleanJSON(cell))

	rec.ReporterUsername = doc.Get("username").String()
	rec.ReporterVerified = doc.Get("verified").Bool()
	rec.ReporterCleared = doc.Get("cleared").Bool()
}

// extractTeam fills the organization fields from the team cell. The
// source holds either a single object or a list of them; the first
// entry wins for lists.
func extractTeam(rec *disclosure.RawRecord, cell string) {
	doc := gjson.Parse(cleanJSON(cell))
	if doc.IsArray() {
		entries := doc.Array()
		if len(entries) == 0 {
			return
		}
		doc = entries[0]
	}

	rec.TeamHandle = doc.Get("handle").String()
	rec.TeamName = doc.Get("profile.name").String()
	rec.TeamOffersBounties = doc.Get("offers_bounties").Bool()
}

// extractWeakness fills the weakness fields from the weakness cell.
func extractWeakness(rec *disclosure.RawRecord, cell string) {
	doc := gjson.Parse(cleanJSON(cell))

	rec.WeaknessID = doc.Get("id").String()
	rec.WeaknessName = doc.Get("name").String()
}

// extractScope fills the asset fields from the structured_scope cell.
func extractScope(rec *disclosure.RawRecord, cell string) {
	doc := gjson.Parse(cleanJSON(cell))

	rec.AssetType = doc.Get("asset_type").String()
	rec.MaxSeverity = doc.Get("max_severity").String()
	rec.AssetIdentifier = doc.Get("asset_identifier").String()
}
