package loader

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/bountylens/bountylens/pkg/disclosure"
)

func TestCleanJSON(t *testing.T) {
	type args struct {
		s string
	}

	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "empty",
			args: args{s: ""},
			want: "{}",
		},
		{
			name: "pythonRepr",
			args: args{s: "{'username': 'alice', 'verified': True, 'cleared': None}"},
			want: `{"username": "alice", "verified": true, "cleared": null}`,
		},
		{
			name: "numpyArray",
			args: args{s: "{'groups': array([], dtype=object)}"},
			want: `{"groups": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSON(tt.args.s)
			if got != tt.want {
				t.Errorf("cleanJSON() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTeam(t *testing.T) {
	type args struct {
		cell string
	}

	tests := []struct {
		name       string
		args       args
		wantHandle string
		wantName   string
	}{
		{
			name:       "object",
			args:       args{cell: "{'handle': 'acme', 'profile': {'name': 'Acme Corp'}, 'offers_bounties': True}"},
			wantHandle: "acme",
			wantName:   "Acme Corp",
		},
		{
			name:       "listFirstWins",
			args:       args{cell: "[{'handle': 'first', 'profile': {'name': 'First'}}, {'handle': 'second'}]"},
			wantHandle: "first",
			wantName:   "First",
		},
		{
			name:       "garbage",
			args:       args{cell: "not json at all {{{"},
			wantHandle: "",
			wantName:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &disclosure.RawRecord{}
			extractTeam(rec, tt.args.cell)
			if rec.TeamHandle != tt.wantHandle {
				t.Errorf("extractTeam() handle = %v, want %v", rec.TeamHandle, tt.wantHandle)
			}
			if rec.TeamName != tt.wantName {
				t.Errorf("extractTeam() name = %v, want %v", rec.TeamName, tt.wantName)
			}
		})
	}
}

func TestRead(t *testing.T) {
	raw := strings.Join([]string{
		`id,reporter,team,weakness,structured_scope,substate,has_bounty?,vote_count,total_awarded_amount,created_at,disclosed_at`,
		`101,"{'username': 'alice', 'verified': True, 'cleared': False}","{'handle': 'acme', 'profile': {'name': 'Acme Corp'}}","{'id': 63, 'name': 'XSS'}","{'asset_type': 'URL', 'max_severity': 'high'}",resolved,True,12,500.0,2019-03-04T10:00:00.000Z,2019-04-01T00:00:00.000Z`,
		`102,"{'username': 'bob'}",,"{'name': None}",,new,False,0,,2019-03-05T11:00:00.000Z,`,
	}, "\n")

	got, err := Read(context.Background(), strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []*disclosure.RawRecord{
		{
			ID:               "101",
			ReporterUsername: "alice",
			ReporterVerified: true,
			TeamHandle:       "acme",
			TeamName:         "Acme Corp",
			WeaknessID:       "63",
			WeaknessName:     "XSS",
			AssetType:        "URL",
			MaxSeverity:      "high",
			Substate:         "resolved",
			VoteCount:        12,
			Bounty:           500,
			Awarded:          true,
			CreatedAt:        "2019-03-04T10:00:00.000Z",
			DisclosedAt:      "2019-04-01T00:00:00.000Z",
		},
		{
			ID:               "102",
			ReporterUsername: "bob",
			Substate:         "new",
			CreatedAt:        "2019-03-05T11:00:00.000Z",
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() got = %+v, want %+v", got, want)
	}
}
