package models

import "time"

type ActivityType string

const (
	ActivityTypeActivity ActivityType = "activity"
	ActivityTypeNote     ActivityType = "note"
	ActivityTypeReminder ActivityType = "reminder"
)

type ActivityContext string

const (
	ContextPersonal ActivityContext = "personal"
	ContextOfficial ActivityContext = "official"
)

// Activity is a timed or point-in-time record. A nil EndTime means the
// activity is currently open (in progress) for its member.
type Activity struct {
	ID          string          `json:"id"`
	Type        ActivityType    `json:"type"`
	MemberID    string          `json:"member_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time,omitempty"`
	Context     ActivityContext `json:"context"`
	Completed   bool            `json:"completed"`
}

// Open reports whether the activity is still in progress.
func (a Activity) Open() bool {
	return a.EndTime == nil
}

// End returns the end time, or the start time for point-in-time records.
func (a Activity) End() time.Time {
	if a.EndTime != nil {
		return *a.EndTime
	}
	return a.StartTime
}

// Duration returns the recorded duration. Open or zero-length records
// contribute nothing.
func (a Activity) Duration() time.Duration {
	if a.EndTime == nil {
		return 0
	}
	d := a.EndTime.Sub(a.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// ActivityPatch is a partial update applied to an activity. Nil fields are
// left untouched. ClearEnd reopens the record (EndTime is ignored then).
type ActivityPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	StartTime   *time.Time       `json:"start_time,omitempty"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	ClearEnd    bool             `json:"clear_end,omitempty"`
	Context     *ActivityContext `json:"context,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
}

// Apply merges the patch onto the activity and returns the result.
func (p ActivityPatch) Apply(a Activity) Activity {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.ClearEnd {
		a.EndTime = nil
	} else if p.EndTime != nil {
		end := *p.EndTime
		a.EndTime = &end
	}
	if p.Context != nil {
		a.Context = *p.Context
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
	return a
}

// IsZero reports whether the patch changes nothing.
func (p ActivityPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.StartTime == nil && p.EndTime == nil && !p.ClearEnd &&
		p.Context == nil && p.Completed == nil
}
