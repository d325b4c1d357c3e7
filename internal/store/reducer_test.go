package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func startAction(id, member string, at time.Time) StartActivity {
	return StartActivity{ID: id, MemberID: member, Title: "work", Now: at}
}

func TestStartActivitySealsPreviousAtSameInstant(t *testing.T) {
	s := Default()
	s = Reduce(s, startAction("a1", "me", t0))
	s = Reduce(s, startAction("a2", "me", t0.Add(30*time.Minute)))

	first, ok := s.ActivityByID("a1")
	if !ok {
		t.Fatalf("a1 missing")
	}
	if first.EndTime == nil {
		t.Fatalf("a1 should be sealed")
	}
	second, _ := s.ActivityByID("a2")
	if !first.EndTime.Equal(second.StartTime) {
		t.Errorf("seal time %v != new start %v", *first.EndTime, second.StartTime)
	}
	if got := s.OpenByMember["me"]; got != "a2" {
		t.Errorf("open index = %q, want a2", got)
	}
}

func TestSingleOpenActivityPerMember(t *testing.T) {
	s := Default()
	s = Reduce(s, AddMember{ID: "kid", Name: "Kid", Role: models.RoleChild})
	s = Reduce(s, startAction("a1", "me", t0))
	s = Reduce(s, startAction("b1", "kid", t0))
	s = Reduce(s, startAction("a2", "me", t0.Add(time.Hour)))

	open := 0
	for _, a := range s.Activities {
		if a.Open() {
			open++
		}
	}
	if open != 2 {
		t.Fatalf("open activities = %d, want 2 (one per member)", open)
	}
	if s.OpenByMember["me"] != "a2" || s.OpenByMember["kid"] != "b1" {
		t.Errorf("open index wrong: %v", s.OpenByMember)
	}
}

func TestReduceIsDeterministic(t *testing.T) {
	build := func() State {
		s := Default()
		s = Reduce(s, startAction("a1", "me", t0))
		s = Reduce(s, StopActivity{MemberID: "me", Now: t0.Add(time.Hour)})
		s = Reduce(s, LearnRule{Keyword: "Gym", Category: "physical"})
		return s
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a.Activities, b.Activities) {
		t.Errorf("same action sequence produced different logs")
	}
	if !reflect.DeepEqual(a.CustomRules, b.CustomRules) {
		t.Errorf("same action sequence produced different rules")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := Default()
	s = Reduce(s, startAction("a1", "me", t0))
	before := s.Activities[0]

	_ = Reduce(s, StopActivity{MemberID: "me", Now: t0.Add(time.Hour)})
	if s.Activities[0] != before {
		t.Errorf("input state mutated: %+v", s.Activities[0])
	}
	if s.OpenByMember["me"] != "a1" {
		t.Errorf("input open index mutated")
	}
}

func TestStopWithoutOpenIsNoop(t *testing.T) {
	s := Default()
	next := Reduce(s, StopActivity{MemberID: "me", Now: t0})
	if len(next.Activities) != 0 {
		t.Errorf("expected no activities, got %d", len(next.Activities))
	}
}

func TestActivitiesSortedDescending(t *testing.T) {
	s := Default()
	s = Reduce(s, AddRetroactive{ID: "r1", MemberID: "me", Title: "late",
		StartTime: t0.Add(2 * time.Hour), EndTime: t0.Add(3 * time.Hour)})
	s = Reduce(s, AddRetroactive{ID: "r2", MemberID: "me", Title: "early",
		StartTime: t0, EndTime: t0.Add(time.Hour)})
	s = Reduce(s, AddRetroactive{ID: "r3", MemberID: "me", Title: "middle",
		StartTime: t0.Add(time.Hour), EndTime: t0.Add(2 * time.Hour)})

	want := []string{"r1", "r3", "r2"}
	for i, id := range want {
		if s.Activities[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, s.Activities[i].ID, id)
		}
	}
}

func TestStartDuringSessionTagsOfficial(t *testing.T) {
	s := Default()
	s = Reduce(s, ToggleSession{MemberID: "me", Now: t0})
	s = Reduce(s, startAction("a1", "me", t0.Add(time.Minute)))

	act, _ := s.ActivityByID("a1")
	if act.Context != models.ContextOfficial {
		t.Errorf("context = %s, want official", act.Context)
	}

	s = Reduce(s, ToggleSession{MemberID: "me", Now: t0.Add(time.Hour)})
	s = Reduce(s, startAction("a2", "me", t0.Add(2*time.Hour)))
	act2, _ := s.ActivityByID("a2")
	if act2.Context != models.ContextPersonal {
		t.Errorf("context after session end = %s, want personal", act2.Context)
	}
}

func TestUpdateActivitySealingDropsOpenIndex(t *testing.T) {
	s := Default()
	s = Reduce(s, startAction("a1", "me", t0))

	end := t0.Add(time.Hour)
	s = Reduce(s, UpdateActivity{ID: "a1", Patch: models.ActivityPatch{EndTime: &end}})

	if _, ok := s.OpenByMember["me"]; ok {
		t.Errorf("open index should be empty after sealing patch")
	}
	act, _ := s.ActivityByID("a1")
	if act.Open() {
		t.Errorf("a1 still open")
	}
}

func TestUpdateActivityClearEndReindexes(t *testing.T) {
	s := Default()
	s = Reduce(s, AddRetroactive{ID: "r1", MemberID: "me", Title: "x",
		StartTime: t0, EndTime: t0.Add(time.Hour)})

	s = Reduce(s, UpdateActivity{ID: "r1", Patch: models.ActivityPatch{ClearEnd: true}})
	if s.OpenByMember["me"] != "r1" {
		t.Fatalf("cleared activity should be re-indexed as open")
	}

	// With something already running, clearing another record must not
	// steal the index.
	s = Default()
	s = Reduce(s, startAction("a1", "me", t0))
	s = Reduce(s, AddRetroactive{ID: "r1", MemberID: "me", Title: "x",
		StartTime: t0.Add(-2 * time.Hour), EndTime: t0.Add(-time.Hour)})
	s = Reduce(s, UpdateActivity{ID: "r1", Patch: models.ActivityPatch{ClearEnd: true}})
	if s.OpenByMember["me"] != "a1" {
		t.Errorf("open index stolen: %v", s.OpenByMember)
	}
}

func TestUpdateUnknownActivityIsNoop(t *testing.T) {
	s := Default()
	title := "new"
	next := Reduce(s, UpdateActivity{ID: "ghost", Patch: models.ActivityPatch{Title: &title}})
	if len(next.Activities) != 0 {
		t.Errorf("phantom activity created")
	}
}

func TestDeleteMemberCascades(t *testing.T) {
	s := Default()
	s = Reduce(s, AddMember{ID: "kid", Name: "Kid", Role: models.RoleChild})
	s = Reduce(s, SwitchMember{ID: "kid"})
	s = Reduce(s, ToggleSession{MemberID: "kid", Now: t0})
	s = Reduce(s, startAction("b1", "kid", t0))

	s = Reduce(s, DeleteMember{ID: "kid"})

	if _, ok := s.MemberByID("kid"); ok {
		t.Fatalf("member still present")
	}
	if _, ok := s.OpenByMember["kid"]; ok {
		t.Errorf("open index entry survived delete")
	}
	if s.ActiveSessions["kid"] != nil {
		t.Errorf("active session survived delete")
	}
	if s.CurrentMemberID != constants.PrimaryMemberID {
		t.Errorf("current member = %s, want primary", s.CurrentMemberID)
	}
}

func TestPrimaryMemberIndelible(t *testing.T) {
	s := Default()
	next := Reduce(s, DeleteMember{ID: constants.PrimaryMemberID})
	if _, ok := next.MemberByID(constants.PrimaryMemberID); !ok {
		t.Fatalf("primary member was deleted")
	}
}

func TestReservedCategoriesProtected(t *testing.T) {
	s := Default()
	for _, id := range []string{constants.CategoryNothing, constants.CategoryNote, constants.CategoryReminder} {
		next := Reduce(s, DeleteCategory{ID: id})
		if _, ok := next.Categories[id]; !ok {
			t.Errorf("reserved category %s deleted", id)
		}
	}
}

func TestDeleteCategoryKeepsSoftReferences(t *testing.T) {
	s := Default()
	s = Reduce(s, AddRetroactive{ID: "r1", MemberID: "me", Title: "x", Category: "physical",
		StartTime: t0, EndTime: t0.Add(time.Hour)})
	s = Reduce(s, DeleteCategory{ID: "physical"})

	if _, ok := s.Categories["physical"]; ok {
		t.Fatalf("category not deleted")
	}
	act, _ := s.ActivityByID("r1")
	if act.Category != "physical" {
		t.Errorf("activity category rewritten to %s", act.Category)
	}
}

func TestNotesAndRemindersUseSentinelCategories(t *testing.T) {
	s := Default()
	s = Reduce(s, AddNote{ID: "n1", MemberID: "me", Title: "idea", StartTime: t0})
	s = Reduce(s, AddReminder{ID: "rem1", MemberID: "me", Title: "dentist", StartTime: t0.Add(time.Hour)})

	n, _ := s.ActivityByID("n1")
	if n.Category != constants.CategoryNote || n.Type != models.ActivityTypeNote {
		t.Errorf("note shape wrong: %+v", n)
	}
	r, _ := s.ActivityByID("rem1")
	if r.Category != constants.CategoryReminder || r.Type != models.ActivityTypeReminder {
		t.Errorf("reminder shape wrong: %+v", r)
	}
	if n.EndTime != nil || r.EndTime != nil {
		t.Errorf("notes and reminders must be instants")
	}
	if _, ok := s.OpenByMember["me"]; ok {
		t.Errorf("note/reminder must not occupy the open index")
	}
}

func TestToggleCompleted(t *testing.T) {
	s := Default()
	s = Reduce(s, AddNote{ID: "n1", MemberID: "me", Title: "idea", StartTime: t0})
	s = Reduce(s, ToggleCompleted{ID: "n1"})
	n, _ := s.ActivityByID("n1")
	if !n.Completed {
		t.Fatalf("expected completed")
	}
	s = Reduce(s, ToggleCompleted{ID: "n1"})
	n, _ = s.ActivityByID("n1")
	if n.Completed {
		t.Fatalf("expected re-opened")
	}
}

func TestAcknowledgeReminderIdempotent(t *testing.T) {
	s := Default()
	s = Reduce(s, AcknowledgeReminder{ID: "rem1"})
	s = Reduce(s, AcknowledgeReminder{ID: "rem1"})
	if len(s.AcknowledgedReminders) != 1 {
		t.Errorf("acks = %v, want one entry", s.AcknowledgedReminders)
	}
}

func TestLearnRuleLowercasesAndOverwrites(t *testing.T) {
	s := Default()
	s = Reduce(s, LearnRule{Keyword: "  Gym ", Category: "physical"})
	if s.CustomRules["gym"] != "physical" {
		t.Fatalf("rules = %v", s.CustomRules)
	}
	s = Reduce(s, LearnRule{Keyword: "gym", Category: "elite"})
	if s.CustomRules["gym"] != "elite" {
		t.Errorf("re-learn did not overwrite: %v", s.CustomRules)
	}
}

func TestDeleteSessionTypeDeactivatesSession(t *testing.T) {
	s := Default()
	s = Reduce(s, AddSessionType{MemberID: "me", SessionType: models.SessionType{ID: "st1", Label: "Office"}})
	s = Reduce(s, ToggleSession{MemberID: "me", SessionTypeID: "st1", Now: t0})
	if s.ActiveSessions["me"] == nil {
		t.Fatalf("session not active")
	}
	s = Reduce(s, DeleteSessionType{MemberID: "me", ID: "st1"})
	if s.ActiveSessions["me"] != nil {
		t.Errorf("session should deactivate with its type")
	}
	if len(s.SessionTypes["me"]) != 0 {
		t.Errorf("type not removed")
	}
}

func TestResolveStaleUsesGivenEnd(t *testing.T) {
	s := Default()
	s = Reduce(s, startAction("a1", "me", t0))
	end := t0.Add(14 * time.Hour)
	s = Reduce(s, ResolveStaleActivity{MemberID: "me", EndTime: end})

	act, _ := s.ActivityByID("a1")
	if act.EndTime == nil || !act.EndTime.Equal(end) {
		t.Errorf("end = %v, want %v", act.EndTime, end)
	}
	if _, ok := s.OpenByMember["me"]; ok {
		t.Errorf("open index should be cleared")
	}
}

func TestLoadStatePreservesOpenActivity(t *testing.T) {
	s := Default()
	s = Reduce(s, startAction("live1", "me", t0))

	remoteActs := []models.Activity{{
		ID: "srv1", Type: models.ActivityTypeActivity, MemberID: "me",
		Title: "from remote", Category: "good",
		StartTime: t0.Add(-3 * time.Hour),
		EndTime:   timePtr(t0.Add(-2 * time.Hour)),
		Context:   models.ContextPersonal,
	}}
	s = Reduce(s, LoadState{Activities: remoteActs})

	if _, ok := s.ActivityByID("srv1"); !ok {
		t.Fatalf("remote activity missing")
	}
	if s.OpenByMember["me"] != "live1" {
		t.Errorf("open activity lost in hydration: %v", s.OpenByMember)
	}
	if len(s.Activities) != 2 {
		t.Errorf("activities = %d, want 2", len(s.Activities))
	}
}

func TestLoadStateIdempotent(t *testing.T) {
	load := LoadState{
		Members: []models.Member{{ID: "me", Name: "Me", Role: models.RoleAdmin}},
		Activities: []models.Activity{{
			ID: "srv1", Type: models.ActivityTypeActivity, MemberID: "me",
			Title: "x", Category: "good", StartTime: t0,
			EndTime: timePtr(t0.Add(time.Hour)), Context: models.ContextPersonal,
		}},
		Theme: "light",
	}
	s := Reduce(Default(), load)
	again := Reduce(s, load)
	if len(again.Activities) != len(s.Activities) {
		t.Errorf("replaying hydration duplicated records")
	}
	if again.Theme != "light" {
		t.Errorf("theme = %s", again.Theme)
	}
}

func TestLoadStateParentPinRemoteWins(t *testing.T) {
	s := Default()
	s = Reduce(s, SetParentPin{Hash: "localhash"})

	// Remote without a PIN keeps the local one.
	s = Reduce(s, LoadState{})
	if s.ParentPin != "localhash" {
		t.Fatalf("local pin lost: %q", s.ParentPin)
	}

	remotePin := "remotehash"
	s = Reduce(s, LoadState{ParentPin: &remotePin})
	if s.ParentPin != "remotehash" {
		t.Errorf("remote pin should win: %q", s.ParentPin)
	}
}

func TestNilActionIsNoop(t *testing.T) {
	s := Default()
	next := Reduce(s, nil)
	if len(next.Activities) != len(s.Activities) || next.Theme != s.Theme {
		t.Errorf("nil action changed state")
	}
}

func timePtr(t time.Time) *time.Time { return &t }
