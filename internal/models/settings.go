package models

import "time"

// ActiveSession marks a member as currently "at work/school". Nil in the
// ActiveSessions map (or a missing key) means no session is running.
type ActiveSession struct {
	SessionTypeID string    `json:"session_type_id"`
	StartedAt     time.Time `json:"started_at"`
}

// SessionType is a member-configured kind of tracked session.
type SessionType struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	DailyTarget float64 `json:"daily_target"` // hours
	Color       string  `json:"color,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// SessionTypePatch is a partial session type update.
type SessionTypePatch struct {
	Label       *string  `json:"label,omitempty"`
	DailyTarget *float64 `json:"daily_target,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Icon        *string  `json:"icon,omitempty"`
}

func (p SessionTypePatch) Apply(st SessionType) SessionType {
	if p.Label != nil {
		st.Label = *p.Label
	}
	if p.DailyTarget != nil {
		st.DailyTarget = *p.DailyTarget
	}
	if p.Color != nil {
		st.Color = *p.Color
	}
	if p.Icon != nil {
		st.Icon = *p.Icon
	}
	return st
}
