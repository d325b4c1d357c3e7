package timeline

import (
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func closed(id string, start, end time.Time) models.Activity {
	e := end
	return models.Activity{
		ID: id, Type: models.ActivityTypeActivity, MemberID: "me",
		Title: id, Category: "good", StartTime: start, EndTime: &e,
		Context: models.ContextPersonal,
	}
}

func stateWith(activities ...models.Activity) store.State {
	s := store.Default()
	for _, a := range activities {
		s = store.Reduce(s, store.AddRetroactive{
			ID: a.ID, MemberID: a.MemberID, Title: a.Title,
			Category: a.Category, StartTime: a.StartTime, EndTime: *a.EndTime,
		})
	}
	return s
}

func TestGapAboveThresholdSynthesized(t *testing.T) {
	// 90 seconds between activities: one gap entry.
	s := stateWith(
		closed("a", at(9, 0), at(10, 0)),
		closed("b", at(10, 1).Add(30*time.Second), at(11, 0)),
	)
	view := DayView(s, "me", day, at(11, 0))

	var gaps []Entry
	for _, e := range view {
		if e.IsGap {
			gaps = append(gaps, e)
		}
	}
	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}
	g := gaps[0]
	if !g.StartTime.Equal(at(10, 0)) || !g.End().Equal(at(10, 1).Add(30*time.Second)) {
		t.Errorf("gap bounds wrong: %v - %v", g.StartTime, g.End())
	}
	if g.Category != constants.CategoryNothing || g.Title != "Doing Nothing" {
		t.Errorf("gap shape wrong: %+v", g.Activity)
	}
}

func TestGapBelowThresholdIgnored(t *testing.T) {
	// 30 seconds between activities: no gap.
	s := stateWith(
		closed("a", at(9, 0), at(10, 0)),
		closed("b", at(10, 0).Add(30*time.Second), at(11, 0)),
	)
	view := DayView(s, "me", day, at(11, 0))
	for _, e := range view {
		if e.IsGap {
			t.Fatalf("unexpected gap: %+v", e)
		}
	}
}

func TestNestedActivitySuppressesGap(t *testing.T) {
	// A long activity spans a shorter one plus the apparent hole after it.
	s := stateWith(
		closed("outer", at(9, 0), at(12, 0)),
		closed("inner", at(9, 30), at(10, 0)),
	)
	view := DayView(s, "me", day, at(12, 0))
	for _, e := range view {
		if e.IsGap {
			t.Fatalf("overlap should suppress gap: %+v", e)
		}
	}
}

func TestTrailingGapOnlyTodayWithoutLive(t *testing.T) {
	s := stateWith(closed("a", at(9, 0), at(10, 0)))
	now := at(10, 30)

	view := DayView(s, "me", day, now)
	last := view[len(view)-1]
	if !last.IsGap {
		t.Fatalf("expected trailing gap, got %+v", last)
	}
	if !last.StartTime.Equal(at(10, 0)) || !last.End().Equal(now) {
		t.Errorf("trailing gap bounds: %v - %v", last.StartTime, last.End())
	}

	// Viewing a past day from a later "now": no trailing gap.
	view = DayView(s, "me", day, day.AddDate(0, 0, 2).Add(10*time.Hour))
	for _, e := range view {
		if e.IsGap {
			t.Errorf("past day grew a trailing gap")
		}
	}
}

func TestLiveActivitySuppressesTrailingGap(t *testing.T) {
	s := stateWith(closed("a", at(9, 0), at(10, 0)))
	s = store.Reduce(s, store.StartActivity{ID: "live", MemberID: "me", Title: "now", Now: at(10, 0)})

	now := at(11, 0)
	view := DayView(s, "me", day, now)

	var live *Entry
	for i := range view {
		if view[i].IsGap {
			t.Fatalf("live activity should suppress the trailing gap")
		}
		if view[i].IsLive {
			live = &view[i]
		}
	}
	if live == nil {
		t.Fatalf("live entry missing")
	}
	if !live.End().Equal(now) {
		t.Errorf("live synthetic end = %v, want %v", live.End(), now)
	}
}

func TestDayViewChronologicalOrder(t *testing.T) {
	s := stateWith(
		closed("b", at(11, 0), at(12, 0)),
		closed("a", at(9, 0), at(10, 0)),
	)
	view := DayView(s, "me", day, at(12, 0))
	for i := 1; i < len(view); i++ {
		if view[i].StartTime.Before(view[i-1].StartTime) {
			t.Fatalf("view not chronological at %d", i)
		}
	}
}

func TestGapsNeverPersisted(t *testing.T) {
	s := stateWith(
		closed("a", at(9, 0), at(10, 0)),
		closed("b", at(11, 0), at(12, 0)),
	)
	_ = DayView(s, "me", day, at(12, 0))
	for _, a := range s.Activities {
		if a.Category == constants.CategoryNothing {
			t.Fatalf("gap leaked into stored state: %+v", a)
		}
	}
	if len(s.Activities) != 2 {
		t.Errorf("activities = %d, want 2", len(s.Activities))
	}
}

func TestDayViewFiltersOtherMembers(t *testing.T) {
	s := store.Default()
	s = store.Reduce(s, store.AddMember{ID: "kid", Name: "Kid", Role: models.RoleChild})
	s = store.Reduce(s, store.AddRetroactive{ID: "mine", MemberID: "me", Title: "mine",
		StartTime: at(9, 0), EndTime: at(10, 0)})
	s = store.Reduce(s, store.AddRetroactive{ID: "theirs", MemberID: "kid", Title: "theirs",
		StartTime: at(9, 0), EndTime: at(10, 0)})

	view := DayView(s, "me", day, at(10, 0))
	for _, e := range view {
		if e.MemberID != "me" && !e.IsGap {
			t.Fatalf("foreign activity in view: %+v", e)
		}
	}
}

func TestDetectStale(t *testing.T) {
	s := store.Default()
	yesterday := day.AddDate(0, 0, -1).Add(22 * time.Hour)
	s = store.Reduce(s, store.StartActivity{ID: "old", MemberID: "me", Title: "tv", Now: yesterday})

	stale := DetectStale(s, at(9, 0))
	if len(stale) != 1 {
		t.Fatalf("stale = %d, want 1", len(stale))
	}
	want := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, yesterday.Location())
	if !stale[0].SuggestedEnd.Equal(want) {
		t.Errorf("suggested end = %v, want %v", stale[0].SuggestedEnd, want)
	}

	// Same-day open activity is not stale.
	s2 := store.Default()
	s2 = store.Reduce(s2, store.StartActivity{ID: "fresh", MemberID: "me", Title: "x", Now: at(8, 0)})
	if got := DetectStale(s2, at(9, 0)); len(got) != 0 {
		t.Errorf("same-day activity flagged stale")
	}
}
