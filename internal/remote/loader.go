package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/logger"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/store"
)

// Loader hydrates local state from the remote store. It owns the shared
// identity map: hydration rebuilds it before any rows are translated.
type Loader struct {
	remote Store
	ids    *IdentityMap
}

func NewLoader(remote Store, ids *IdentityMap) *Loader {
	return &Loader{remote: remote, ids: ids}
}

// Load fetches all collections and returns the merge action to dispatch. On
// a first session (no remote members) it seeds the primary member and the
// built-in categories before returning.
func (l *Loader) Load(ctx context.Context) (store.LoadState, error) {
	members, err := l.remote.ListMembers(ctx)
	if err != nil {
		return store.LoadState{}, fmt.Errorf("failed to fetch members: %w", err)
	}

	if len(members) == 0 {
		members, err = l.seedFirstSession(ctx)
		if err != nil {
			return store.LoadState{}, err
		}
	}

	l.ids.Replace(BuildIdentityMap(members, constants.PrimaryMemberID))

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		firstErr   error
		activities []ActivityRow
		categories []CategoryRow
		goals      []GoalRow
		settings   *SettingsRow
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		rows, err := l.remote.ListActivities(ctx)
		if err != nil {
			fail(fmt.Errorf("failed to fetch activities: %w", err))
			return
		}
		activities = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := l.remote.ListCategories(ctx)
		if err != nil {
			fail(fmt.Errorf("failed to fetch categories: %w", err))
			return
		}
		categories = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := l.remote.ListGoals(ctx)
		if err != nil {
			fail(fmt.Errorf("failed to fetch goals: %w", err))
			return
		}
		goals = rows
	}()
	go func() {
		defer wg.Done()
		row, err := l.remote.GetSettings(ctx)
		if err != nil {
			fail(fmt.Errorf("failed to fetch settings: %w", err))
			return
		}
		settings = row
	}()
	wg.Wait()
	if firstErr != nil {
		return store.LoadState{}, firstErr
	}

	load := store.LoadState{
		Members:    make([]models.Member, 0, len(members)),
		Activities: make([]models.Activity, 0, len(activities)),
		Goals:      make([]models.Goal, 0, len(goals)),
		Categories: CategoriesFromRows(categories),
	}
	for _, row := range members {
		load.Members = append(load.Members, MemberFromRow(row, l.ids))
	}
	for _, row := range activities {
		load.Activities = append(load.Activities, ActivityFromRow(row, l.ids))
	}
	for _, row := range goals {
		load.Goals = append(load.Goals, GoalFromRow(row, l.ids))
	}

	if settings != nil {
		load.Theme = settings.Theme
		load.CurrentMemberID = l.ids.Local(settings.CurrentMemberID)
		load.ActiveSessions = settings.ActiveSessions
		load.SessionTypes = settings.SessionTypes
		load.AcknowledgedReminders = settings.AcknowledgedReminders
		load.CustomRules = settings.CustomRules
		if settings.HasParentPin {
			pinHash := settings.ParentPin
			load.ParentPin = &pinHash
		}
	}
	return load, nil
}

// seedFirstSession creates the primary member and the built-in categories on
// an empty remote store.
func (l *Loader) seedFirstSession(ctx context.Context) ([]MemberRow, error) {
	logger.Info("remote store is empty, seeding first session")

	created, err := l.remote.CreateMember(ctx, MemberRow{
		Name: "Me",
		Role: remoteRolePrimary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed primary member: %w", err)
	}

	defaults := store.DefaultCategories()
	for _, key := range sortedCategoryKeys(defaults) {
		if err := l.remote.UpsertCategory(ctx, CategoryToRow(key, defaults[key])); err != nil {
			return nil, fmt.Errorf("failed to seed category %s: %w", key, err)
		}
	}
	return []MemberRow{created}, nil
}

func sortedCategoryKeys(categories map[string]models.Category) []string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
