// Package timeline computes read-only views over the activity log: the
// gap-filled day view, overlap-aware duration aggregation, goal progress,
// and stale open-activity detection. Nothing here mutates stored state.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// Entry is one row of the day view: a real activity, the live activity with
// a synthetic end, or a synthesized "Doing Nothing" gap. Gaps are never
// persisted; they exist only in the returned view.
type Entry struct {
	models.Activity
	IsGap  bool
	IsLive bool
}

// DayView returns the member's activities touching the given date in
// chronological order, with "Doing Nothing" entries synthesized for any
// uncovered interval longer than the gap threshold.
func DayView(s store.State, memberID string, date, now time.Time) []Entry {
	liveID := s.OpenByMember[memberID]

	var relevant []Entry
	for _, a := range s.Activities {
		if a.MemberID != memberID || a.ID == liveID {
			continue
		}
		if sameDay(a.StartTime, date) || sameDay(a.End(), date) {
			relevant = append(relevant, Entry{Activity: a})
		}
	}

	if live, ok := s.OpenActivity(memberID); ok {
		if sameDay(live.StartTime, date) || sameDay(now, date) {
			end := now
			live.EndTime = &end
			relevant = append(relevant, Entry{Activity: live, IsLive: true})
		}
	}

	if len(relevant) == 0 {
		return nil
	}

	// Latest extent across everything touching this date; the trailing
	// "since then" gap starts here.
	globalMaxEnd := relevant[0].End()
	for _, e := range relevant[1:] {
		if e.End().After(globalMaxEnd) {
			globalMaxEnd = e.End()
		}
	}

	sorted := append([]Entry{}, relevant...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	hasLive := liveID != ""
	var view []Entry
	for i, current := range sorted {
		// Trailing gap between the latest activity and "now", only when
		// looking at today with nothing running.
		if i == 0 && !hasLive && sameDay(now, date) {
			if now.Sub(globalMaxEnd) > constants.GapThreshold {
				view = append(view, gapEntry("gap-now", globalMaxEnd, now))
			}
		}

		view = append(view, current)

		if i == len(sorted)-1 {
			break
		}
		older := sorted[i+1]
		olderEnd := older.End()
		if current.StartTime.Sub(olderEnd) > constants.GapThreshold &&
			!covered(relevant, olderEnd, current.StartTime) {
			view = append(view, gapEntry(
				fmt.Sprintf("gap-%s-%s", older.ID, current.ID),
				olderEnd, current.StartTime))
		}
	}

	// The walk above runs newest-first; the returned view reads forward
	// through the day.
	for i, j := 0, len(view)-1; i < j; i, j = i+1, j-1 {
		view[i], view[j] = view[j], view[i]
	}
	return view
}

// covered reports whether any activity's own extent already spans the
// candidate gap. The tolerance absorbs clock rounding between a note's
// instantaneous timestamp and an overlapping activity's boundaries.
func covered(entries []Entry, gapStart, gapEnd time.Time) bool {
	for _, e := range entries {
		if !e.StartTime.After(gapStart.Add(constants.CoverageTolerance)) &&
			!e.End().Before(gapEnd.Add(-constants.CoverageTolerance)) {
			return true
		}
	}
	return false
}

func gapEntry(id string, start, end time.Time) Entry {
	e := end
	return Entry{
		Activity: models.Activity{
			ID:          id,
			Type:        models.ActivityTypeActivity,
			Title:       "Doing Nothing",
			Description: "Unrecorded gap detected",
			Category:    constants.CategoryNothing,
			StartTime:   start,
			EndTime:     &e,
		},
		IsGap: true,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
