// Package remote talks to the backing store that synchronizes state across
// devices. Rows live in the remote identity space; the mappers and the
// identity map translate to and from local shapes.
package remote

import (
	"context"
	"time"

	"github.com/gravityplanner/gravity/internal/models"
)

// MemberRow is a member in remote shape. Role uses the remote vocabulary
// (me, spouse, child, other).
type MemberRow struct {
	ID     string
	Name   string
	Role   string
	Avatar string
}

// ActivityRow is an activity in remote shape, keyed by the remote id and
// referencing the remote member id.
type ActivityRow struct {
	ID          string
	Type        string
	Title       string
	Description string
	Category    string
	StartTime   time.Time
	EndTime     *time.Time
	Context     string
	Completed   bool
	Member      string
}

// ActivityRowPatch carries only the changed fields of an activity update.
type ActivityRowPatch struct {
	Title       *string
	Description *string
	Category    *string
	StartTime   *time.Time
	EndTime     *time.Time
	ClearEnd    bool
	Context     *string
	Completed   *bool
}

// IsZero reports whether the patch changes nothing.
func (p ActivityRowPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.StartTime == nil && p.EndTime == nil && !p.ClearEnd &&
		p.Context == nil && p.Completed == nil
}

// CategoryRow is a category in remote shape, keyed by the short string key.
type CategoryRow struct {
	Key   string
	Label string
	Color string
	Icon  string
}

// GoalRow is a goal in remote shape.
type GoalRow struct {
	ID            string
	Title         string
	Category      string
	TargetMinutes int
	Period        string
	Member        string
}

// GoalRowPatch carries only the changed fields of a goal update.
type GoalRowPatch struct {
	Title         *string
	Category      *string
	TargetMinutes *int
	Period        *string
}

// SettingsRow is the per-principal settings singleton.
type SettingsRow struct {
	Theme                 string
	CurrentMemberID       string
	ActiveSessions        map[string]*models.ActiveSession
	SessionTypes          map[string][]models.SessionType
	AcknowledgedReminders []string
	CustomRules           map[string]string
	ParentPin             string
	HasParentPin          bool
}

// SettingsPatch is a partial settings upsert. Nil fields are unchanged.
// Patches merge, so the debouncer can coalesce a burst of changes into one
// remote write.
type SettingsPatch struct {
	Theme                 *string
	CurrentMemberID       *string
	ActiveSessions        map[string]*models.ActiveSession
	SessionTypes          map[string][]models.SessionType
	AcknowledgedReminders []string
	CustomRules           map[string]string
	ParentPin             *string
}

// Merge overlays other onto p, other winning per field (last write wins
// within a debounce window).
func (p SettingsPatch) Merge(other SettingsPatch) SettingsPatch {
	if other.Theme != nil {
		p.Theme = other.Theme
	}
	if other.CurrentMemberID != nil {
		p.CurrentMemberID = other.CurrentMemberID
	}
	if other.ActiveSessions != nil {
		p.ActiveSessions = other.ActiveSessions
	}
	if other.SessionTypes != nil {
		p.SessionTypes = other.SessionTypes
	}
	if other.AcknowledgedReminders != nil {
		p.AcknowledgedReminders = other.AcknowledgedReminders
	}
	if other.CustomRules != nil {
		p.CustomRules = other.CustomRules
	}
	if other.ParentPin != nil {
		p.ParentPin = other.ParentPin
	}
	return p
}

// IsZero reports whether the patch changes nothing.
func (p SettingsPatch) IsZero() bool {
	return p.Theme == nil && p.CurrentMemberID == nil && p.ActiveSessions == nil &&
		p.SessionTypes == nil && p.AcknowledgedReminders == nil &&
		p.CustomRules == nil && p.ParentPin == nil
}

// Store is the remote collection contract. Every row is scoped to the
// authenticated principal; creates return the row with the remote-assigned
// id filled in.
type Store interface {
	Init(ctx context.Context) error
	Close() error

	ListMembers(ctx context.Context) ([]MemberRow, error)
	CreateMember(ctx context.Context, row MemberRow) (MemberRow, error)
	UpdateMember(ctx context.Context, id string, row MemberRow) error
	DeleteMember(ctx context.Context, id string) error

	ListActivities(ctx context.Context) ([]ActivityRow, error)
	CreateActivity(ctx context.Context, row ActivityRow) (ActivityRow, error)
	UpdateActivity(ctx context.Context, id string, patch ActivityRowPatch) error
	DeleteActivity(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]CategoryRow, error)
	UpsertCategory(ctx context.Context, row CategoryRow) error
	DeleteCategory(ctx context.Context, key string) error

	ListGoals(ctx context.Context) ([]GoalRow, error)
	CreateGoal(ctx context.Context, row GoalRow) (GoalRow, error)
	UpdateGoal(ctx context.Context, id string, patch GoalRowPatch) error
	DeleteGoal(ctx context.Context, id string) error

	// GetSettings returns nil when no settings row exists yet.
	GetSettings(ctx context.Context) (*SettingsRow, error)
	UpsertSettings(ctx context.Context, patch SettingsPatch) error
}
