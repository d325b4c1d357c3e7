package store

import (
	"sort"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
)

// State is the entire application state. Activities live in a single slice
// sorted descending by start time; "open activity for member X" is the
// derived OpenByMember index into that slice, so a record is never stored in
// two places.
type State struct {
	Activities   []models.Activity `json:"activities"`
	OpenByMember map[string]string `json:"open_by_member"` // member id -> activity id

	Members    []models.Member            `json:"members"`
	Categories map[string]models.Category `json:"categories"`
	Goals      []models.Goal              `json:"goals"`

	CurrentMemberID       string                           `json:"current_member_id"`
	Theme                 string                           `json:"theme"`
	ActiveSessions        map[string]*models.ActiveSession `json:"active_sessions"`
	SessionTypes          map[string][]models.SessionType  `json:"session_types"`
	AcknowledgedReminders []string                         `json:"acknowledged_reminders"`
	CustomRules           map[string]string                `json:"custom_rules"`
	ParentPin             string                           `json:"parent_pin,omitempty"`
}

// Default returns the zero-configuration state: a single primary member and
// the built-in category set.
func Default() State {
	return State{
		Activities:   []models.Activity{},
		OpenByMember: map[string]string{},
		Members: []models.Member{
			{ID: constants.PrimaryMemberID, Name: "Me", Role: models.RoleAdmin, Color: "#00ff88"},
		},
		Categories:            DefaultCategories(),
		Goals:                 []models.Goal{},
		CurrentMemberID:       constants.PrimaryMemberID,
		Theme:                 constants.DefaultTheme,
		ActiveSessions:        map[string]*models.ActiveSession{},
		SessionTypes:          map[string][]models.SessionType{},
		AcknowledgedReminders: []string{},
		CustomRules:           map[string]string{},
	}
}

// DefaultCategories returns the built-in category set, including the
// reserved ids the reducer depends on.
func DefaultCategories() map[string]models.Category {
	return map[string]models.Category{
		"elite":     {Label: "Elite", Color: "#00ff88", Icon: "zap"},
		"good":      {Label: "Good", Color: "#4ade80", Icon: "check"},
		"better":    {Label: "Better", Color: "#facc15", Icon: "trend-up"},
		"improving": {Label: "Improving", Color: "#60a5fa", Icon: "book"},
		"deep_work": {Label: "Deep Work", Color: "#68D391", Icon: "cpu"},
		"logistics": {Label: "Logistics", Color: "#63B3ED", Icon: "briefcase"},
		"physical":  {Label: "Physical", Color: "#F6AD55", Icon: "activity"},
		"personal":  {Label: "Personal", Color: "#A0AEC0", Icon: "user"},

		constants.CategoryNothing:  {Label: "Doing Nothing", Color: "#ef4444", Icon: "clock"},
		constants.CategoryNote:     {Label: "Note", Color: "#F6E05E", Icon: "file-text"},
		constants.CategoryReminder: {Label: "Reminder", Color: "#B794F4", Icon: "bell"},
	}
}

// ActivityByID returns the activity with the given id.
func (s State) ActivityByID(id string) (models.Activity, bool) {
	for _, a := range s.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return models.Activity{}, false
}

// OpenActivity returns the member's currently open activity, if any.
func (s State) OpenActivity(memberID string) (models.Activity, bool) {
	id, ok := s.OpenByMember[memberID]
	if !ok {
		return models.Activity{}, false
	}
	return s.ActivityByID(id)
}

// MemberByID returns the member with the given id.
func (s State) MemberByID(id string) (models.Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}

// GoalByID returns the goal with the given id.
func (s State) GoalByID(id string) (models.Goal, bool) {
	for _, g := range s.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

// Normalize fills in maps and slices a JSON snapshot from an older schema
// may be missing, and rebuilds the open index if absent. Schema evolution is
// optional-field defaulting, not versioning.
func (s State) Normalize() State {
	def := Default()
	if s.Activities == nil {
		s.Activities = []models.Activity{}
	}
	if s.OpenByMember == nil {
		s.OpenByMember = map[string]string{}
		for _, a := range s.Activities {
			if a.Open() && a.Type == models.ActivityTypeActivity {
				s.OpenByMember[a.MemberID] = a.ID
			}
		}
	}
	if len(s.Members) == 0 {
		s.Members = def.Members
	}
	if len(s.Categories) == 0 {
		s.Categories = def.Categories
	}
	if s.Goals == nil {
		s.Goals = []models.Goal{}
	}
	if s.CurrentMemberID == "" {
		s.CurrentMemberID = def.CurrentMemberID
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.ActiveSessions == nil {
		s.ActiveSessions = map[string]*models.ActiveSession{}
	}
	if s.SessionTypes == nil {
		s.SessionTypes = map[string][]models.SessionType{}
	}
	if s.AcknowledgedReminders == nil {
		s.AcknowledgedReminders = []string{}
	}
	if s.CustomRules == nil {
		s.CustomRules = map[string]string{}
	}
	return s
}

func sortActivitiesDesc(activities []models.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].StartTime.After(activities[j].StartTime)
	})
}

func cloneActivities(in []models.Activity) []models.Activity {
	out := make([]models.Activity, len(in))
	copy(out, in)
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneCategories(in map[string]models.Category) map[string]models.Category {
	out := make(map[string]models.Category, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneSessions(in map[string]*models.ActiveSession) map[string]*models.ActiveSession {
	out := make(map[string]*models.ActiveSession, len(in))
	for k, v := range in {
		if v != nil {
			s := *v
			out[k] = &s
		} else {
			out[k] = nil
		}
	}
	return out
}

func cloneSessionTypes(in map[string][]models.SessionType) map[string][]models.SessionType {
	out := make(map[string][]models.SessionType, len(in))
	for k, v := range in {
		types := make([]models.SessionType, len(v))
		copy(types, v)
		out[k] = types
	}
	return out
}
