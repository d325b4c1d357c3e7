package remote

import (
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/models"
)

func TestRoleMappingRoundTrip(t *testing.T) {
	tests := []struct {
		local  models.MemberRole
		remote string
	}{
		{models.RoleAdmin, "me"},
		{models.RolePartner, "spouse"},
		{models.RoleChild, "child"},
	}
	for _, tt := range tests {
		if got := roleToRemote(tt.local); got != tt.remote {
			t.Errorf("roleToRemote(%s) = %s, want %s", tt.local, got, tt.remote)
		}
		if got := roleFromRemote(tt.remote); got != tt.local {
			t.Errorf("roleFromRemote(%s) = %s, want %s", tt.remote, got, tt.local)
		}
	}
}

func TestActivityRowTranslatesMemberID(t *testing.T) {
	ids := NewIdentityMap()
	ids.Set("me", "srv-1")

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	act := models.Activity{
		ID: "a1", Type: models.ActivityTypeActivity, MemberID: "me",
		Title: "work", Category: "deep_work", StartTime: start,
		Context: models.ContextOfficial,
	}

	row := ActivityToRow(act, ids)
	if row.Member != "srv-1" {
		t.Errorf("row member = %s", row.Member)
	}

	back := ActivityFromRow(row, ids)
	if back.MemberID != "me" {
		t.Errorf("round trip member = %s", back.MemberID)
	}
	if back.Context != models.ContextOfficial || back.Category != "deep_work" {
		t.Errorf("round trip lost fields: %+v", back)
	}
}

func TestActivityFromRowDefaults(t *testing.T) {
	ids := NewIdentityMap()
	row := ActivityRow{ID: "a1", Member: "srv-x", StartTime: time.Now()}
	act := ActivityFromRow(row, ids)

	if act.Type != models.ActivityTypeActivity {
		t.Errorf("type = %s", act.Type)
	}
	if act.Context != models.ContextPersonal {
		t.Errorf("context = %s", act.Context)
	}
	if act.Category != "good" {
		t.Errorf("category = %s", act.Category)
	}
}

func TestGoalRowRoundTrip(t *testing.T) {
	ids := NewIdentityMap()
	ids.Set("me", "srv-1")

	g := models.Goal{ID: "g1", MemberID: "me", Title: "focus",
		Category: "deep_work", TargetValue: 90, Period: models.PeriodWeek}
	row := GoalToRow(g, ids)
	if row.Member != "srv-1" || row.TargetMinutes != 90 || row.Period != "week" {
		t.Errorf("row = %+v", row)
	}

	back := GoalFromRow(row, ids)
	if back.MemberID != "me" || back.TargetValue != 90 || back.Period != models.PeriodWeek {
		t.Errorf("round trip = %+v", back)
	}
}

func TestCategoriesFromRows(t *testing.T) {
	rows := []CategoryRow{
		{Key: "deep_work", Label: "Deep Work", Color: "#68D391"},
		{Key: "personal", Label: "Personal"},
	}
	cats := CategoriesFromRows(rows)
	if len(cats) != 2 {
		t.Fatalf("categories = %d", len(cats))
	}
	if cats["deep_work"].Label != "Deep Work" {
		t.Errorf("label = %s", cats["deep_work"].Label)
	}
}

func TestSettingsPatchMergeLastWriteWins(t *testing.T) {
	light, dark := "light", "dark"
	a := SettingsPatch{Theme: &light, CustomRules: map[string]string{"gym": "physical"}}
	b := SettingsPatch{Theme: &dark}

	merged := a.Merge(b)
	if *merged.Theme != "dark" {
		t.Errorf("theme = %s", *merged.Theme)
	}
	if merged.CustomRules["gym"] != "physical" {
		t.Errorf("unrelated field lost in merge")
	}
}
