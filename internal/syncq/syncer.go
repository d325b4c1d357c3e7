package syncq

import (
	"context"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/remote"
	"github.com/gravityplanner/gravity/internal/store"
)

// Syncer translates applied actions into remote writes. It is wired into the
// store as a dispatch hook, so it observes every mutation in order; row and
// record writes are enqueued immediately, settings writes go through the
// debouncer.
type Syncer struct {
	queue    *Queue
	remote   remote.Store
	ids      *remote.IdentityMap
	settings *Debouncer
}

// NewSyncer constructs a syncer over the queue and remote store.
func NewSyncer(queue *Queue, rs remote.Store, ids *remote.IdentityMap) *Syncer {
	s := &Syncer{queue: queue, remote: rs, ids: ids}
	s.settings = NewDebouncer(constants.SettingsDebounceDelay, constants.SettingsDebounceMaxWait, s.flushSettings)
	return s
}

// Flush pushes any debounced settings immediately. Called on shutdown before
// the queue drains.
func (s *Syncer) Flush() {
	s.settings.Flush()
}

func (s *Syncer) flushSettings(patch remote.SettingsPatch) {
	s.queue.Enqueue(Task{
		Name: "settings.upsert",
		Run: func(ctx context.Context) error {
			return s.remote.UpsertSettings(ctx, patch)
		},
	})
}

// Hook is the store.Hook entry point.
func (s *Syncer) Hook(action store.Action, old, next store.State) {
	switch a := action.(type) {
	case store.StartActivity:
		member := a.MemberID
		if member == "" {
			member = old.CurrentMemberID
		}
		s.pushSealed(old, next, member)
		s.pushCreateActivity(next, a.ID)

	case store.StopActivity:
		member := a.MemberID
		if member == "" {
			member = old.CurrentMemberID
		}
		s.pushSealed(old, next, member)

	case store.ResolveStaleActivity:
		s.pushSealed(old, next, a.MemberID)

	case store.AddRetroactive:
		s.pushCreateActivity(next, a.ID)
	case store.AddNote:
		s.pushCreateActivity(next, a.ID)
	case store.AddReminder:
		s.pushCreateActivity(next, a.ID)

	case store.UpdateActivity:
		if _, ok := next.ActivityByID(a.ID); !ok {
			return
		}
		patch := remote.ActivityPatchToRow(a.Patch)
		if patch.IsZero() {
			return
		}
		id := a.ID
		s.queue.Enqueue(Task{
			Name: "activity.update",
			Run: func(ctx context.Context) error {
				return s.remote.UpdateActivity(ctx, id, patch)
			},
		})

	case store.ToggleCompleted:
		act, ok := next.ActivityByID(a.ID)
		if !ok {
			return
		}
		completed := act.Completed
		id := a.ID
		s.queue.Enqueue(Task{
			Name: "activity.toggle",
			Run: func(ctx context.Context) error {
				return s.remote.UpdateActivity(ctx, id, remote.ActivityRowPatch{Completed: &completed})
			},
		})

	case store.AddMember:
		m, ok := next.MemberByID(a.ID)
		if !ok {
			return
		}
		if _, existed := old.MemberByID(a.ID); existed {
			return
		}
		row := remote.MemberToRow(m)
		localID := m.ID
		s.queue.Enqueue(Task{
			Name: "member.create",
			Run: func(ctx context.Context) error {
				created, err := s.remote.CreateMember(ctx, row)
				if err != nil {
					return err
				}
				s.ids.Set(localID, created.ID)
				return nil
			},
		})

	case store.UpdateMember:
		m, ok := next.MemberByID(a.ID)
		if !ok {
			return
		}
		row := remote.MemberToRow(m)
		remoteID := s.ids.Remote(m.ID)
		s.queue.Enqueue(Task{
			Name: "member.update",
			Run: func(ctx context.Context) error {
				return s.remote.UpdateMember(ctx, remoteID, row)
			},
		})

	case store.DeleteMember:
		if _, stillThere := next.MemberByID(a.ID); stillThere {
			return
		}
		if _, existed := old.MemberByID(a.ID); !existed {
			return
		}
		remoteID := s.ids.Remote(a.ID)
		s.queue.Enqueue(Task{
			Name: "member.delete",
			Run: func(ctx context.Context) error {
				return s.remote.DeleteMember(ctx, remoteID)
			},
		})

	case store.SwitchMember:
		if next.CurrentMemberID == old.CurrentMemberID {
			return
		}
		current := s.ids.Remote(next.CurrentMemberID)
		s.settings.Add(remote.SettingsPatch{CurrentMemberID: &current})

	case store.AddCategory:
		s.pushUpsertCategory(next, a.ID)
	case store.UpdateCategory:
		s.pushUpsertCategory(next, a.ID)

	case store.DeleteCategory:
		if _, stillThere := next.Categories[a.ID]; stillThere {
			return
		}
		if _, existed := old.Categories[a.ID]; !existed {
			return
		}
		key := a.ID
		s.queue.Enqueue(Task{
			Name: "category.delete",
			Run: func(ctx context.Context) error {
				return s.remote.DeleteCategory(ctx, key)
			},
		})

	case store.AddGoal:
		g, ok := next.GoalByID(a.ID)
		if !ok {
			return
		}
		if _, existed := old.GoalByID(a.ID); existed {
			return
		}
		row := remote.GoalToRow(g, s.ids)
		s.queue.Enqueue(Task{
			Name: "goal.create",
			Run: func(ctx context.Context) error {
				_, err := s.remote.CreateGoal(ctx, row)
				return err
			},
		})

	case store.UpdateGoal:
		if _, ok := next.GoalByID(a.ID); !ok {
			return
		}
		patch := remote.GoalPatchToRow(a.Patch)
		id := a.ID
		s.queue.Enqueue(Task{
			Name: "goal.update",
			Run: func(ctx context.Context) error {
				return s.remote.UpdateGoal(ctx, id, patch)
			},
		})

	case store.DeleteGoal:
		if _, existed := old.GoalByID(a.ID); !existed {
			return
		}
		id := a.ID
		s.queue.Enqueue(Task{
			Name: "goal.delete",
			Run: func(ctx context.Context) error {
				return s.remote.DeleteGoal(ctx, id)
			},
		})

	case store.AcknowledgeReminder:
		s.settings.Add(remote.SettingsPatch{AcknowledgedReminders: next.AcknowledgedReminders})

	case store.ToggleSession:
		s.settings.Add(remote.SettingsPatch{ActiveSessions: next.ActiveSessions})
	case store.AddSessionType:
		s.settings.Add(remote.SettingsPatch{SessionTypes: next.SessionTypes})
	case store.UpdateSessionType:
		s.settings.Add(remote.SettingsPatch{SessionTypes: next.SessionTypes})
	case store.DeleteSessionType:
		s.settings.Add(remote.SettingsPatch{
			SessionTypes:   next.SessionTypes,
			ActiveSessions: next.ActiveSessions,
		})

	case store.SetTheme:
		if next.Theme == old.Theme {
			return
		}
		theme := next.Theme
		s.settings.Add(remote.SettingsPatch{Theme: &theme})

	case store.SetParentPin:
		hash := next.ParentPin
		s.settings.Add(remote.SettingsPatch{ParentPin: &hash})

	case store.LearnRule:
		s.settings.Add(remote.SettingsPatch{CustomRules: next.CustomRules})

	case store.LoadState:
		// Inbound hydration, nothing to push back.
	}
}

// pushSealed enqueues the end-time update for the activity that was open for
// the member before this dispatch.
func (s *Syncer) pushSealed(old, next store.State, member string) {
	openID, wasOpen := old.OpenByMember[member]
	if !wasOpen {
		return
	}
	sealed, ok := next.ActivityByID(openID)
	if !ok || sealed.Open() {
		return
	}
	end := *sealed.EndTime
	s.queue.Enqueue(Task{
		Name: "activity.seal",
		Run: func(ctx context.Context) error {
			return s.remote.UpdateActivity(ctx, openID, remote.ActivityRowPatch{EndTime: &end})
		},
	})
}

func (s *Syncer) pushCreateActivity(next store.State, id string) {
	act, ok := next.ActivityByID(id)
	if !ok {
		return
	}
	row := remote.ActivityToRow(act, s.ids)
	s.queue.Enqueue(Task{
		Name: "activity.create",
		Run: func(ctx context.Context) error {
			_, err := s.remote.CreateActivity(ctx, row)
			return err
		},
	})
}

func (s *Syncer) pushUpsertCategory(next store.State, key string) {
	cat, ok := next.Categories[key]
	if !ok {
		return
	}
	row := remote.CategoryToRow(key, cat)
	s.queue.Enqueue(Task{
		Name: "category.upsert",
		Run: func(ctx context.Context) error {
			return s.remote.UpsertCategory(ctx, row)
		},
	})
}
