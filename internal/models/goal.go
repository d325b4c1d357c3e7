package models

type GoalPeriod string

const (
	PeriodDay   GoalPeriod = "day"
	PeriodWeek  GoalPeriod = "week"
	PeriodMonth GoalPeriod = "month"
	PeriodYear  GoalPeriod = "year"
)

// Goal is a per-member duration target for a category. Progress is computed
// from the activity log, never stored.
type Goal struct {
	ID          string     `json:"id"`
	MemberID    string     `json:"member_id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	TargetValue int        `json:"target_value"` // minutes per day
	Period      GoalPeriod `json:"period"`
}

// GoalPatch is a partial goal update.
type GoalPatch struct {
	Title       *string     `json:"title,omitempty"`
	Category    *string     `json:"category,omitempty"`
	TargetValue *int        `json:"target_value,omitempty"`
	Period      *GoalPeriod `json:"period,omitempty"`
}

func (p GoalPatch) Apply(g Goal) Goal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.TargetValue != nil {
		g.TargetValue = *p.TargetValue
	}
	if p.Period != nil {
		g.Period = *p.Period
	}
	return g
}
