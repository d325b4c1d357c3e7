// Package app wires the application together: config, logging, the local
// state mirror, the store, and (when a remote DSN is configured) the sync
// engine. The CLI and TUI layers only ever talk to an App.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravityplanner/gravity/internal/categorize"
	"github.com/gravityplanner/gravity/internal/config"
	"github.com/gravityplanner/gravity/internal/keyring"
	"github.com/gravityplanner/gravity/internal/logger"
	"github.com/gravityplanner/gravity/internal/mirror"
	"github.com/gravityplanner/gravity/internal/remote"
	"github.com/gravityplanner/gravity/internal/store"
	"github.com/gravityplanner/gravity/internal/syncq"
	"github.com/gravityplanner/gravity/internal/timeline"
)

// App is the composition root. Remote is nil when no DSN is configured; the
// app then runs fully local against the mirror.
type App struct {
	Config *config.Config
	Store  *store.Store
	IDs    *remote.IdentityMap

	Remote remote.Store
	queue  *syncq.Queue
	syncer *syncq.Syncer

	// statusMu guards status: the queue worker writes it while the TUI
	// polls it on every render.
	statusMu sync.Mutex
	status   syncq.Status

	cancel context.CancelFunc
}

// New builds the app from resolved configuration. Logging is initialized as a
// side effect.
func New(cfg *config.Config) (*App, error) {
	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	m := mirror.New(cfg.DataDir)
	a := &App{
		Config: cfg,
		Store:  store.New(m.Read(), m),
		IDs:    remote.NewIdentityMap(),
		status: syncq.StatusOffline,
	}

	dsn := cfg.RemoteDSN
	if dsn == "" {
		stored, err := keyring.GetConnectionString()
		if err == nil {
			dsn = stored
		} else if err != keyring.ErrNotFound {
			logger.Warn("keyring unavailable, staying offline", "error", err)
		}
	}
	if dsn == "" {
		logger.Info("no remote configured, running local-only")
		return a, nil
	}

	rs, err := remote.OpenSQL(dsn, cfg.Principal)
	if err != nil {
		logger.Warn("failed to open remote store, running local-only", "error", err)
		return a, nil
	}
	a.Remote = rs
	a.queue = syncq.New(a.setStatus)
	a.syncer = syncq.NewSyncer(a.queue, rs, a.IDs)
	a.Store.AddHook(a.syncer.Hook)
	return a, nil
}

// Start launches the sync worker and hydrates state from the remote store.
// Hydration failure is not fatal; the app continues on the local mirror.
func (a *App) Start(ctx context.Context) {
	if a.Remote == nil {
		return
	}
	qctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.queue.Start(qctx)

	if err := a.Remote.Init(ctx); err != nil {
		logger.Warn("remote init failed, continuing offline", "error", err)
		return
	}
	loader := remote.NewLoader(a.Remote, a.IDs)
	load, err := loader.Load(ctx)
	if err != nil {
		logger.Warn("remote hydration failed, continuing offline", "error", err)
		return
	}
	a.Store.Dispatch(load)
	a.setStatus(syncq.StatusSynced)
}

// Flush pushes any debounced settings write and waits briefly for queued
// tasks to drain.
func (a *App) Flush() {
	if a.Remote == nil {
		return
	}
	a.syncer.Flush()
	deadline := time.Now().Add(3 * time.Second)
	for a.queue.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}

// Shutdown flushes pending settings writes, drains the queue, and closes the
// remote connection.
func (a *App) Shutdown() {
	if a.Remote == nil {
		return
	}
	a.Flush()
	if a.cancel != nil {
		a.cancel()
		a.queue.Wait()
	}
	if err := a.Remote.Close(); err != nil {
		logger.Warn("failed to close remote store", "error", err)
	}
}

func (a *App) setStatus(s syncq.Status) {
	a.statusMu.Lock()
	a.status = s
	a.statusMu.Unlock()
}

// SyncStatus reports the coarse connection state for display.
func (a *App) SyncStatus() syncq.Status {
	if a.Remote == nil {
		return syncq.StatusOffline
	}
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.status
}

// StartActivity begins a live activity for the member (empty means the
// current member). An empty category is inferred from the title.
func (a *App) StartActivity(memberID, title, description, category string) store.State {
	s := a.Store.State()
	if category == "" {
		category = categorize.Categorize(title, s.CustomRules, s.Categories)
	}
	return a.Store.Dispatch(store.StartActivity{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Title:       title,
		Description: description,
		Category:    category,
		Now:         time.Now().UTC(),
	})
}

// StopActivity seals the member's open activity.
func (a *App) StopActivity(memberID string) store.State {
	return a.Store.Dispatch(store.StopActivity{MemberID: memberID, Now: time.Now().UTC()})
}

// AddRetroactive records a closed activity after the fact.
func (a *App) AddRetroactive(memberID, title, description, category string, start, end time.Time) store.State {
	s := a.Store.State()
	if category == "" {
		category = categorize.Categorize(title, s.CustomRules, s.Categories)
	}
	return a.Store.Dispatch(store.AddRetroactive{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Title:       title,
		Description: description,
		Category:    category,
		StartTime:   start,
		EndTime:     end,
	})
}

// AddNote records a point-in-time note.
func (a *App) AddNote(memberID, title, description string) store.State {
	return a.Store.Dispatch(store.AddNote{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Title:       title,
		Description: description,
		StartTime:   time.Now().UTC(),
	})
}

// AddReminder records a reminder at the given time (zero means now).
func (a *App) AddReminder(memberID, title, description string, at time.Time) store.State {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return a.Store.Dispatch(store.AddReminder{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Title:       title,
		Description: description,
		StartTime:   at,
	})
}

// Stale returns open activities left running across a day boundary.
func (a *App) Stale() []timeline.Stale {
	return timeline.DetectStale(a.Store.State(), time.Now())
}

// AutoStop seals live activities that exceeded their category's duration
// cap, ending them at the cap rather than now. Run on foreground alongside
// the stale check.
func (a *App) AutoStop() int {
	s := a.Store.State()
	now := time.Now()
	stopped := 0
	members := make([]string, 0, len(s.OpenByMember))
	for memberID := range s.OpenByMember {
		members = append(members, memberID)
	}
	sort.Strings(members)
	for _, memberID := range members {
		act, ok := s.OpenActivity(memberID)
		if !ok {
			continue
		}
		limit := categorize.AutoStopLimit(act.Category, act.Title)
		if limit <= 0 || now.Sub(act.StartTime) <= limit {
			continue
		}
		a.Store.Dispatch(store.ResolveStaleActivity{
			MemberID: memberID,
			EndTime:  act.StartTime.Add(limit),
		})
		stopped++
	}
	return stopped
}
