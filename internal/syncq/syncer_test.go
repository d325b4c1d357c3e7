package syncq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
	"github.com/gravityplanner/gravity/internal/remote"
	"github.com/gravityplanner/gravity/internal/store"
)

// fakeRemote records every write in call order.
type fakeRemote struct {
	mu       sync.Mutex
	calls    []string
	created  []remote.ActivityRow
	patches  map[string][]remote.ActivityRowPatch
	members  []remote.MemberRow
	settings []remote.SettingsPatch
	deleted  []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{patches: map[string][]remote.ActivityRowPatch{}}
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeRemote) Init(ctx context.Context) error { return nil }
func (f *fakeRemote) Close() error                   { return nil }

func (f *fakeRemote) ListMembers(ctx context.Context) ([]remote.MemberRow, error) {
	return nil, nil
}
func (f *fakeRemote) CreateMember(ctx context.Context, row remote.MemberRow) (remote.MemberRow, error) {
	f.record("member.create")
	if row.ID == "" || row.Role == "me" {
		row.ID = "srv-" + row.Name
	}
	f.mu.Lock()
	f.members = append(f.members, row)
	f.mu.Unlock()
	return row, nil
}
func (f *fakeRemote) UpdateMember(ctx context.Context, id string, row remote.MemberRow) error {
	f.record("member.update:" + id)
	return nil
}
func (f *fakeRemote) DeleteMember(ctx context.Context, id string) error {
	f.record("member.delete:" + id)
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) ListActivities(ctx context.Context) ([]remote.ActivityRow, error) {
	return nil, nil
}
func (f *fakeRemote) CreateActivity(ctx context.Context, row remote.ActivityRow) (remote.ActivityRow, error) {
	f.record("activity.create:" + row.ID)
	f.mu.Lock()
	f.created = append(f.created, row)
	f.mu.Unlock()
	return row, nil
}
func (f *fakeRemote) UpdateActivity(ctx context.Context, id string, patch remote.ActivityRowPatch) error {
	f.record("activity.update:" + id)
	f.mu.Lock()
	f.patches[id] = append(f.patches[id], patch)
	f.mu.Unlock()
	return nil
}
func (f *fakeRemote) DeleteActivity(ctx context.Context, id string) error {
	f.record("activity.delete:" + id)
	return nil
}

func (f *fakeRemote) ListCategories(ctx context.Context) ([]remote.CategoryRow, error) {
	return nil, nil
}
func (f *fakeRemote) UpsertCategory(ctx context.Context, row remote.CategoryRow) error {
	f.record("category.upsert:" + row.Key)
	return nil
}
func (f *fakeRemote) DeleteCategory(ctx context.Context, key string) error {
	f.record("category.delete:" + key)
	return nil
}

func (f *fakeRemote) ListGoals(ctx context.Context) ([]remote.GoalRow, error) { return nil, nil }
func (f *fakeRemote) CreateGoal(ctx context.Context, row remote.GoalRow) (remote.GoalRow, error) {
	f.record("goal.create")
	return row, nil
}
func (f *fakeRemote) UpdateGoal(ctx context.Context, id string, patch remote.GoalRowPatch) error {
	f.record("goal.update:" + id)
	return nil
}
func (f *fakeRemote) DeleteGoal(ctx context.Context, id string) error {
	f.record("goal.delete:" + id)
	return nil
}

func (f *fakeRemote) GetSettings(ctx context.Context) (*remote.SettingsRow, error) {
	return nil, nil
}
func (f *fakeRemote) UpsertSettings(ctx context.Context, patch remote.SettingsPatch) error {
	f.record("settings.upsert")
	f.mu.Lock()
	f.settings = append(f.settings, patch)
	f.mu.Unlock()
	return nil
}

type syncHarness struct {
	store  *store.Store
	queue  *Queue
	syncer *Syncer
	remote *fakeRemote
	ids    *remote.IdentityMap
	cancel context.CancelFunc
}

func newHarness(t *testing.T) *syncHarness {
	t.Helper()
	fr := newFakeRemote()
	ids := remote.NewIdentityMap()
	q := New(nil)
	q.retryBackoff = time.Millisecond
	syncer := NewSyncer(q, fr, ids)

	st := store.New(store.Default(), nil)
	st.AddHook(syncer.Hook)

	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)
	t.Cleanup(func() {
		cancel()
		q.Wait()
	})
	return &syncHarness{store: st, queue: q, syncer: syncer, remote: fr, ids: ids, cancel: cancel}
}

func (h *syncHarness) drain(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if h.queue.Len() == 0 {
			// One more beat for the in-flight task.
			time.Sleep(20 * time.Millisecond)
			if h.queue.Len() == 0 {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("queue never drained")
}

var now0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestSyncerPushesActivityCreate(t *testing.T) {
	h := newHarness(t)
	h.ids.Set(constants.PrimaryMemberID, "srv-me")

	h.store.Dispatch(store.StartActivity{ID: "a1", MemberID: "me", Title: "work", Now: now0})
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.created) != 1 {
		t.Fatalf("creates = %d, want 1", len(h.remote.created))
	}
	row := h.remote.created[0]
	if row.ID != "a1" {
		t.Errorf("row id = %s", row.ID)
	}
	if row.Member != "srv-me" {
		t.Errorf("member id not translated: %s", row.Member)
	}
}

func TestSyncerSealsThenCreatesInOrder(t *testing.T) {
	h := newHarness(t)
	h.store.Dispatch(store.StartActivity{ID: "a1", MemberID: "me", Title: "one", Now: now0})
	h.store.Dispatch(store.StartActivity{ID: "a2", MemberID: "me", Title: "two", Now: now0.Add(time.Hour)})
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	want := []string{"activity.create:a1", "activity.update:a1", "activity.create:a2"}
	if len(h.remote.calls) != len(want) {
		t.Fatalf("calls = %v", h.remote.calls)
	}
	for i, c := range want {
		if h.remote.calls[i] != c {
			t.Fatalf("call %d = %s, want %s (all: %v)", i, h.remote.calls[i], c, h.remote.calls)
		}
	}
	patch := h.remote.patches["a1"][0]
	if patch.EndTime == nil || !patch.EndTime.Equal(now0.Add(time.Hour)) {
		t.Errorf("seal patch wrong: %+v", patch)
	}
}

func TestSyncerMemberCreateExtendsIdentityMap(t *testing.T) {
	h := newHarness(t)
	h.store.Dispatch(store.AddMember{ID: "kid-local", Name: "Kid", Role: models.RoleChild})
	h.drain(t)

	// Non-primary members keep their id, so the mapping stays verbatim.
	if got := h.ids.Remote("kid-local"); got != "kid-local" {
		t.Errorf("remote id = %s", got)
	}
	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.members) != 1 || h.remote.members[0].Role != "child" {
		t.Errorf("members = %+v", h.remote.members)
	}
}

func TestSyncerDeleteMemberUsesRemoteID(t *testing.T) {
	h := newHarness(t)
	h.store.Dispatch(store.AddMember{ID: "kid-local", Name: "Kid", Role: models.RoleChild})
	h.ids.Set("kid-local", "srv-kid")
	h.store.Dispatch(store.DeleteMember{ID: "kid-local"})
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.deleted) != 1 || h.remote.deleted[0] != "srv-kid" {
		t.Errorf("deleted = %v", h.remote.deleted)
	}
}

func TestSyncerDebouncesSettings(t *testing.T) {
	h := newHarness(t)
	h.store.Dispatch(store.SetTheme{Theme: "light"})
	h.store.Dispatch(store.LearnRule{Keyword: "gym", Category: "physical"})
	h.syncer.Flush()
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.settings) != 1 {
		t.Fatalf("settings upserts = %d, want 1 coalesced", len(h.remote.settings))
	}
	p := h.remote.settings[0]
	if p.Theme == nil || *p.Theme != "light" {
		t.Errorf("theme missing from patch")
	}
	if p.CustomRules["gym"] != "physical" {
		t.Errorf("rules missing from patch")
	}
}

func TestSyncerIgnoresLoadState(t *testing.T) {
	h := newHarness(t)
	h.store.Dispatch(store.LoadState{Theme: "light"})
	h.syncer.Flush()
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.calls) != 0 {
		t.Errorf("hydration produced writes: %v", h.remote.calls)
	}
}

func TestSyncerNoopActionsProduceNoWrites(t *testing.T) {
	h := newHarness(t)
	// Stopping with nothing open and deleting the indelible primary are
	// reducer no-ops and must not reach the remote.
	h.store.Dispatch(store.StopActivity{MemberID: "me", Now: now0})
	h.store.Dispatch(store.DeleteMember{ID: constants.PrimaryMemberID})
	h.syncer.Flush()
	h.drain(t)

	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	if len(h.remote.calls) != 0 {
		t.Errorf("no-op actions produced writes: %v", h.remote.calls)
	}
}
