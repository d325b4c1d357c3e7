package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/gravityplanner/gravity/internal/models"
)

// SQLStore implements Store over database/sql. The DSN picks the backend: a
// postgres:// URL uses lib/pq, anything else is treated as a sqlite file
// path. Queries are written with ? placeholders and rebound for postgres.
type SQLStore struct {
	db        *sql.DB
	principal string
	postgres  bool
}

// OpenSQL opens (and lazily creates) the remote store for a principal.
func OpenSQL(dsn, principal string) (*SQLStore, error) {
	if principal == "" {
		return nil, fmt.Errorf("remote store requires a principal id")
	}

	postgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	driver := "sqlite"
	if postgres {
		driver = "postgres"
	} else {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, fmt.Errorf("failed to create remote store directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote store: %w", err)
	}
	return &SQLStore{db: db, principal: principal, postgres: postgres}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	return err
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		avatar TEXT,
		created TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		context TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		member TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		user_id TEXT NOT NULL,
		key TEXT NOT NULL,
		label TEXT NOT NULL,
		color TEXT NOT NULL,
		icon TEXT,
		PRIMARY KEY (user_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		target_minutes INTEGER NOT NULL,
		period TEXT NOT NULL,
		member TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		user_id TEXT PRIMARY KEY,
		theme TEXT,
		current_member_id TEXT,
		active_sessions TEXT,
		session_types TEXT,
		acknowledged_reminders TEXT,
		custom_rules TEXT,
		parent_pin TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user_start ON activities (user_id, start_time)`,
}

// Init bootstraps the schema. Safe to call on every open.
func (s *SQLStore) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap remote schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ListMembers(ctx context.Context) ([]MemberRow, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, name, role, COALESCE(avatar, '') FROM members WHERE user_id = ? ORDER BY created`),
		s.principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []MemberRow
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Avatar); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLStore) CreateMember(ctx context.Context, row MemberRow) (MemberRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.exec(ctx,
		`INSERT INTO members (id, user_id, name, role, avatar, created) VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, s.principal, row.Name, row.Role, row.Avatar, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return MemberRow{}, fmt.Errorf("failed to create member: %w", err)
	}
	return row, nil
}

func (s *SQLStore) UpdateMember(ctx context.Context, id string, row MemberRow) error {
	return s.exec(ctx,
		`UPDATE members SET name = ?, role = ?, avatar = ? WHERE id = ? AND user_id = ?`,
		row.Name, row.Role, row.Avatar, id, s.principal)
}

func (s *SQLStore) DeleteMember(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM members WHERE id = ? AND user_id = ?`, id, s.principal)
}

func (s *SQLStore) ListActivities(ctx context.Context) ([]ActivityRow, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, type, title, COALESCE(description, ''), category, start_time, end_time, context, completed, member
		 FROM activities WHERE user_id = ? ORDER BY start_time DESC`), s.principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []ActivityRow
	for rows.Next() {
		var (
			a        ActivityRow
			startStr string
			endStr   sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Title, &a.Description, &a.Category,
			&startStr, &endStr, &a.Context, &a.Completed, &a.Member); err != nil {
			return nil, err
		}
		if a.StartTime, err = time.Parse(time.RFC3339Nano, startStr); err != nil {
			return nil, fmt.Errorf("invalid start_time for activity %s: %w", a.ID, err)
		}
		if endStr.Valid && endStr.String != "" {
			end, err := time.Parse(time.RFC3339Nano, endStr.String)
			if err != nil {
				return nil, fmt.Errorf("invalid end_time for activity %s: %w", a.ID, err)
			}
			a.EndTime = &end
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *SQLStore) CreateActivity(ctx context.Context, row ActivityRow) (ActivityRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.exec(ctx,
		`INSERT INTO activities (id, user_id, type, title, description, category, start_time, end_time, context, completed, member)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, s.principal, row.Type, row.Title, row.Description, row.Category,
		row.StartTime.UTC().Format(time.RFC3339Nano), nullableTime(row.EndTime),
		row.Context, row.Completed, row.Member)
	if err != nil {
		return ActivityRow{}, fmt.Errorf("failed to create activity: %w", err)
	}
	return row, nil
}

func (s *SQLStore) UpdateActivity(ctx context.Context, id string, patch ActivityRowPatch) error {
	sets := []string{}
	args := []interface{}{}
	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Category != nil {
		addSet("category", *patch.Category)
	}
	if patch.StartTime != nil {
		addSet("start_time", patch.StartTime.UTC().Format(time.RFC3339Nano))
	}
	if patch.ClearEnd {
		addSet("end_time", nil)
	} else if patch.EndTime != nil {
		addSet("end_time", patch.EndTime.UTC().Format(time.RFC3339Nano))
	}
	if patch.Context != nil {
		addSet("context", *patch.Context)
	}
	if patch.Completed != nil {
		addSet("completed", *patch.Completed)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, s.principal)
	query := fmt.Sprintf(`UPDATE activities SET %s WHERE id = ? AND user_id = ?`, strings.Join(sets, ", "))
	return s.exec(ctx, query, args...)
}

func (s *SQLStore) DeleteActivity(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM activities WHERE id = ? AND user_id = ?`, id, s.principal)
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT key, label, color, COALESCE(icon, '') FROM categories WHERE user_id = ? ORDER BY key`), s.principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.Key, &c.Label, &c.Color, &c.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLStore) UpsertCategory(ctx context.Context, row CategoryRow) error {
	return s.exec(ctx,
		`INSERT INTO categories (user_id, key, label, color, icon) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, key) DO UPDATE SET label = excluded.label, color = excluded.color, icon = excluded.icon`,
		s.principal, row.Key, row.Label, row.Color, row.Icon)
}

func (s *SQLStore) DeleteCategory(ctx context.Context, key string) error {
	return s.exec(ctx, `DELETE FROM categories WHERE key = ? AND user_id = ?`, key, s.principal)
}

func (s *SQLStore) ListGoals(ctx context.Context) ([]GoalRow, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, title, category, target_minutes, period, member FROM goals WHERE user_id = ?`), s.principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []GoalRow
	for rows.Next() {
		var g GoalRow
		if err := rows.Scan(&g.ID, &g.Title, &g.Category, &g.TargetMinutes, &g.Period, &g.Member); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *SQLStore) CreateGoal(ctx context.Context, row GoalRow) (GoalRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.exec(ctx,
		`INSERT INTO goals (id, user_id, title, category, target_minutes, period, member) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, s.principal, row.Title, row.Category, row.TargetMinutes, row.Period, row.Member)
	if err != nil {
		return GoalRow{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return row, nil
}

func (s *SQLStore) UpdateGoal(ctx context.Context, id string, patch GoalRowPatch) error {
	sets := []string{}
	args := []interface{}{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.TargetMinutes != nil {
		sets = append(sets, "target_minutes = ?")
		args = append(args, *patch.TargetMinutes)
	}
	if patch.Period != nil {
		sets = append(sets, "period = ?")
		args = append(args, *patch.Period)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id, s.principal)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = ? AND user_id = ?`, strings.Join(sets, ", "))
	return s.exec(ctx, query, args...)
}

func (s *SQLStore) DeleteGoal(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, s.principal)
}

func (s *SQLStore) GetSettings(ctx context.Context) (*SettingsRow, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COALESCE(theme, ''), COALESCE(current_member_id, ''), active_sessions, session_types,
		        acknowledged_reminders, custom_rules, parent_pin
		 FROM settings WHERE user_id = ?`), s.principal)

	var (
		out      SettingsRow
		sessions sql.NullString
		types    sql.NullString
		acks     sql.NullString
		rules    sql.NullString
		pinValue sql.NullString
	)
	err := row.Scan(&out.Theme, &out.CurrentMemberID, &sessions, &types, &acks, &rules, &pinValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := decodeJSON(sessions, &out.ActiveSessions); err != nil {
		return nil, err
	}
	if err := decodeJSON(types, &out.SessionTypes); err != nil {
		return nil, err
	}
	if !types.Valid || types.String == "" {
		out.SessionTypes = s.legacySessionTypes(ctx)
	}
	if err := decodeJSON(acks, &out.AcknowledgedReminders); err != nil {
		return nil, err
	}
	if err := decodeJSON(rules, &out.CustomRules); err != nil {
		return nil, err
	}
	if pinValue.Valid {
		out.ParentPin = pinValue.String
		out.HasParentPin = true
	}
	return &out, nil
}

// legacySessionTypes reads the session_requirements column written by older
// clients, converting { member: {label, dailyTarget} } into the list shape.
// The column only exists in databases predating session types; a query error
// means there is nothing to migrate.
func (s *SQLStore) legacySessionTypes(ctx context.Context) map[string][]models.SessionType {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT session_requirements FROM settings WHERE user_id = ?`), s.principal)
	var blob sql.NullString
	if err := row.Scan(&blob); err != nil || !blob.Valid || blob.String == "" {
		return nil
	}
	var legacy map[string]struct {
		Label       string  `json:"label"`
		DailyTarget float64 `json:"dailyTarget"`
	}
	if err := json.Unmarshal([]byte(blob.String), &legacy); err != nil || len(legacy) == 0 {
		return nil
	}
	out := make(map[string][]models.SessionType, len(legacy))
	for memberID, req := range legacy {
		st := models.SessionType{
			ID:          "st-migrated",
			Label:       req.Label,
			DailyTarget: req.DailyTarget,
			Color:       "#3b82f6",
			Icon:        "briefcase",
		}
		if st.Label == "" {
			st.Label = "Work"
		}
		if st.DailyTarget == 0 {
			st.DailyTarget = 8
		}
		out[memberID] = []models.SessionType{st}
	}
	return out
}

func (s *SQLStore) UpsertSettings(ctx context.Context, patch SettingsPatch) error {
	if patch.IsZero() {
		return nil
	}
	current, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	merged := SettingsRow{}
	if current != nil {
		merged = *current
	}
	if patch.Theme != nil {
		merged.Theme = *patch.Theme
	}
	if patch.CurrentMemberID != nil {
		merged.CurrentMemberID = *patch.CurrentMemberID
	}
	if patch.ActiveSessions != nil {
		merged.ActiveSessions = patch.ActiveSessions
	}
	if patch.SessionTypes != nil {
		merged.SessionTypes = patch.SessionTypes
	}
	if patch.AcknowledgedReminders != nil {
		merged.AcknowledgedReminders = patch.AcknowledgedReminders
	}
	if patch.CustomRules != nil {
		merged.CustomRules = patch.CustomRules
	}
	if patch.ParentPin != nil {
		merged.ParentPin = *patch.ParentPin
		merged.HasParentPin = true
	}

	sessions, err := encodeJSON(merged.ActiveSessions)
	if err != nil {
		return err
	}
	types, err := encodeJSON(merged.SessionTypes)
	if err != nil {
		return err
	}
	acks, err := encodeJSON(merged.AcknowledgedReminders)
	if err != nil {
		return err
	}
	rules, err := encodeJSON(merged.CustomRules)
	if err != nil {
		return err
	}

	var parentPin interface{}
	if merged.HasParentPin {
		parentPin = merged.ParentPin
	}

	return s.exec(ctx,
		`INSERT INTO settings (user_id, theme, current_member_id, active_sessions, session_types, acknowledged_reminders, custom_rules, parent_pin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
			theme = excluded.theme,
			current_member_id = excluded.current_member_id,
			active_sessions = excluded.active_sessions,
			session_types = excluded.session_types,
			acknowledged_reminders = excluded.acknowledged_reminders,
			custom_rules = excluded.custom_rules,
			parent_pin = excluded.parent_pin`,
		s.principal, merged.Theme, merged.CurrentMemberID, sessions, types, acks, rules, parentPin)
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeJSON(src sql.NullString, dst interface{}) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(src.String), dst); err != nil {
		return fmt.Errorf("corrupt settings blob: %w", err)
	}
	return nil
}

func encodeJSON(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings blob: %w", err)
	}
	return string(data), nil
}
