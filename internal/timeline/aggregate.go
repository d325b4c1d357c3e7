package timeline

import (
	"sort"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// Summary is the overlap-aware aggregation of a member's tracked time over
// an interval. ByCategory includes the synthesized "nothing" bucket, so
// Total equals tracked-time-with-gaps rather than recorded-activity time —
// the point is to show time slipping away unaccounted.
type Summary struct {
	ByCategory map[string]time.Duration
	Total      time.Duration
	Official   time.Duration
	Notes      int
	Reminders  int
}

// OfficialShare returns session-tagged time as a fraction of total tracked
// time, in [0, 1].
func (s Summary) OfficialShare() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Official) / float64(s.Total)
}

// Aggregate computes the member's per-category durations for activities
// overlapping [from, to), plus uncovered gap time under the "nothing"
// category using the same gap rules as the day view. Gaps only count
// between same-day neighbors, so multi-day intervals do not accumulate
// overnight hours. Notes and reminders are tallied by start time and stay
// out of the gap walk entirely.
func Aggregate(s store.State, memberID string, from, to, now time.Time) Summary {
	sum := Summary{ByCategory: map[string]time.Duration{}}
	liveID := s.OpenByMember[memberID]

	var filtered []models.Activity
	for _, a := range s.Activities {
		if a.MemberID != memberID {
			continue
		}
		// Notes and reminders are counted but never walked: they must not
		// act as gap boundaries or stretch the tracked extent.
		switch a.Type {
		case models.ActivityTypeNote:
			if !a.StartTime.Before(from) && a.StartTime.Before(to) {
				sum.Notes++
			}
			continue
		case models.ActivityTypeReminder:
			if !a.StartTime.Before(from) && a.StartTime.Before(to) {
				sum.Reminders++
			}
			continue
		}
		end := a.End()
		if a.ID == liveID {
			end = now
		}
		if a.StartTime.Before(to) && !end.Before(from) {
			if a.ID == liveID {
				e := end
				a.EndTime = &e
			}
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == 0 {
		return sum
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartTime.Before(filtered[j].StartTime)
	})

	var gapTotal time.Duration
	for i, a := range filtered {
		// Open records that are not the live one are defensive zero-points.
		if d := a.Duration(); d > 0 {
			sum.ByCategory[a.Category] += d
			if a.Context == models.ContextOfficial {
				sum.Official += d
			}
		}

		if i == len(filtered)-1 {
			continue
		}
		gapStart := a.End()
		gapEnd := filtered[i+1].StartTime
		// A gap spanning a day boundary is never booked as nothing time.
		if !sameDay(gapStart, gapEnd) {
			continue
		}
		if gapEnd.Sub(gapStart) > constants.GapThreshold && !coveredBy(filtered, gapStart, gapEnd) {
			gapTotal += gapEnd.Sub(gapStart)
		}
	}

	// Gap between the latest extent and "now" counts too, when the interval
	// reaches the present.
	globalMaxEnd := filtered[0].End()
	for _, a := range filtered[1:] {
		if a.End().After(globalMaxEnd) {
			globalMaxEnd = a.End()
		}
	}
	if !now.Before(from) && now.Before(to) && now.Sub(globalMaxEnd) > constants.GapThreshold {
		if !coveredBy(filtered, globalMaxEnd, now) {
			gapTotal += now.Sub(globalMaxEnd)
		}
	}

	if gapTotal > 0 {
		sum.ByCategory[constants.CategoryNothing] += gapTotal
	}
	for _, d := range sum.ByCategory {
		sum.Total += d
	}
	return sum
}

func coveredBy(activities []models.Activity, gapStart, gapEnd time.Time) bool {
	for _, a := range activities {
		if !a.StartTime.After(gapStart.Add(constants.CoverageTolerance)) &&
			!a.End().Before(gapEnd.Add(-constants.CoverageTolerance)) {
			return true
		}
	}
	return false
}

// PeriodInterval returns the [from, to) interval containing ref for the
// given period.
func PeriodInterval(period models.GoalPeriod, ref time.Time) (time.Time, time.Time) {
	ref = ref.Local()
	y, m, d := ref.Date()
	loc := ref.Location()
	switch period {
	case models.PeriodWeek:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		// Weeks start on Monday.
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case models.PeriodMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case models.PeriodYear:
		start := time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	}
}

// GoalProgress is the computed standing of a goal over an interval.
type GoalProgress struct {
	Achieved  time.Duration
	Target    time.Duration
	Percent   float64
	Completed bool
}

// Progress evaluates a goal against an aggregated summary. The target scales
// with the aggregation period: a minutes-per-day goal viewed over a week is
// measured against seven days' worth.
func Progress(goal models.Goal, sum Summary, period models.GoalPeriod) GoalProgress {
	scale := 1
	switch period {
	case models.PeriodWeek:
		scale = 7
	case models.PeriodMonth:
		scale = 30
	case models.PeriodYear:
		scale = 365
	}
	target := time.Duration(goal.TargetValue*scale) * time.Minute
	achieved := sum.ByCategory[goal.Category]

	p := GoalProgress{Achieved: achieved, Target: target}
	if target > 0 {
		p.Percent = float64(achieved) / float64(target) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
		p.Completed = achieved >= target
	}
	return p
}
