package timeline

import (
	"sort"
	"time"

	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// Stale is an open activity left running across a day boundary. It needs
// explicit resolution before it silently accumulates unbounded duration and
// corrupts the aggregates.
type Stale struct {
	MemberID string
	Activity models.Activity
	// SuggestedEnd is midnight at the end of the day the activity started.
	SuggestedEnd time.Time
}

// DetectStale returns every member's open activity that started on a
// different calendar day than today. Run on app foreground.
func DetectStale(s store.State, now time.Time) []Stale {
	var stale []Stale
	for memberID := range s.OpenByMember {
		act, ok := s.OpenActivity(memberID)
		if !ok {
			continue
		}
		if sameDay(act.StartTime, now) {
			continue
		}
		start := act.StartTime.Local()
		y, m, d := start.Date()
		endOfDay := time.Date(y, m, d, 23, 59, 59, 0, start.Location())
		stale = append(stale, Stale{
			MemberID:     memberID,
			Activity:     act,
			SuggestedEnd: endOfDay,
		})
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].MemberID < stale[j].MemberID })
	return stale
}
