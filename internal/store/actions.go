package store

import (
	"time"

	"github.com/gravityplanner/gravity/internal/models"
)

// Action is the closed set of state transitions. Every variant is a concrete
// struct so that both the reducer and the sync layer can switch over the
// full set; adding a variant without a sync decision fails review, not
// silently at runtime.
type Action interface {
	isAction()
}

// StartActivity opens a new live activity for a member, sealing any activity
// that member already has open. Now is captured at dispatch time so the
// reducer stays deterministic.
type StartActivity struct {
	ID          string
	MemberID    string // empty means the current member
	Title       string
	Description string
	Category    string
	Now         time.Time
}

// StopActivity seals the acting member's open activity.
type StopActivity struct {
	MemberID string // empty means the current member
	Now      time.Time
}

// ResolveStaleActivity seals a member's open activity with a caller-supplied
// end time, for activities left open across a day boundary.
type ResolveStaleActivity struct {
	MemberID string
	EndTime  time.Time
}

// AddRetroactive inserts a fully specified, closed activity into the log.
type AddRetroactive struct {
	ID          string
	MemberID    string
	Title       string
	Description string
	Category    string
	StartTime   time.Time
	EndTime     time.Time
}

// AddNote records a point-in-time note.
type AddNote struct {
	ID          string
	MemberID    string
	Title       string
	Description string
	StartTime   time.Time
}

// AddReminder records a reminder, possibly with a future start time.
type AddReminder struct {
	ID          string
	MemberID    string
	Title       string
	Description string
	StartTime   time.Time
}

// UpdateActivity shallow-merges a patch onto the matching record, wherever
// it lives.
type UpdateActivity struct {
	ID    string
	Patch models.ActivityPatch
}

// ToggleCompleted flips the completed flag of a note or reminder.
type ToggleCompleted struct {
	ID string
}

type AddMember struct {
	ID    string
	Name  string
	Role  models.MemberRole
	Color string
}

type UpdateMember struct {
	ID    string
	Name  *string
	Role  *models.MemberRole
	Color *string
}

// DeleteMember removes a member. Deleting the primary member is a no-op.
type DeleteMember struct {
	ID string
}

type SwitchMember struct {
	ID string
}

type AddCategory struct {
	ID       string
	Category models.Category
}

type UpdateCategory struct {
	ID    string
	Patch models.CategoryPatch
}

// DeleteCategory removes a category. Reserved ids are protected; activities
// referencing a deleted category keep their id as a soft reference.
type DeleteCategory struct {
	ID string
}

type AddGoal struct {
	ID          string
	MemberID    string
	Title       string
	Category    string
	TargetValue int
	Period      models.GoalPeriod
}

type UpdateGoal struct {
	ID    string
	Patch models.GoalPatch
}

type DeleteGoal struct {
	ID string
}

type AcknowledgeReminder struct {
	ID string
}

// ToggleSession deactivates the member's running session, or activates one
// using the given type (falling back to the member's first configured type).
type ToggleSession struct {
	MemberID      string
	SessionTypeID string
	Now           time.Time
}

type AddSessionType struct {
	MemberID    string
	SessionType models.SessionType
}

type UpdateSessionType struct {
	MemberID string
	ID       string
	Patch    models.SessionTypePatch
}

// DeleteSessionType removes a session type and deactivates the member's
// session if it referenced the deleted type.
type DeleteSessionType struct {
	MemberID string
	ID       string
}

type SetTheme struct {
	Theme string
}

// SetParentPin stores the PIN hash; an empty hash clears the PIN.
type SetParentPin struct {
	Hash string
}

// LearnRule stores a lowercased keyword -> category rule. Re-learning the
// same keyword overwrites.
type LearnRule struct {
	Keyword  string
	Category string
}

// LoadState merges remotely hydrated collections into the store. Dispatched
// once per session by the remote loader; it is the only inbound action and
// is never forwarded to the sync queue.
//
// Nil/empty fields keep the local value. In-flight open activities survive
// the merge, and a locally set parent PIN is only replaced when the remote
// carries one.
type LoadState struct {
	Members               []models.Member
	Activities            []models.Activity
	Categories            map[string]models.Category
	Goals                 []models.Goal
	Theme                 string
	CurrentMemberID       string
	ActiveSessions        map[string]*models.ActiveSession
	SessionTypes          map[string][]models.SessionType
	AcknowledgedReminders []string
	CustomRules           map[string]string
	ParentPin             *string
}

func (StartActivity) isAction()        {}
func (StopActivity) isAction()         {}
func (ResolveStaleActivity) isAction() {}
func (AddRetroactive) isAction()       {}
func (AddNote) isAction()              {}
func (AddReminder) isAction()          {}
func (UpdateActivity) isAction()       {}
func (ToggleCompleted) isAction()      {}
func (AddMember) isAction()            {}
func (UpdateMember) isAction()         {}
func (DeleteMember) isAction()         {}
func (SwitchMember) isAction()         {}
func (AddCategory) isAction()          {}
func (UpdateCategory) isAction()       {}
func (DeleteCategory) isAction()       {}
func (AddGoal) isAction()              {}
func (UpdateGoal) isAction()           {}
func (DeleteGoal) isAction()           {}
func (AcknowledgeReminder) isAction()  {}
func (ToggleSession) isAction()        {}
func (AddSessionType) isAction()       {}
func (UpdateSessionType) isAction()    {}
func (DeleteSessionType) isAction()    {}
func (SetTheme) isAction()             {}
func (SetParentPin) isAction()         {}
func (LearnRule) isAction()            {}
func (LoadState) isAction()            {}
