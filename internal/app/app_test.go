package app

import (
	"sync"
	"testing"

	"github.com/gravityplanner/gravity/internal/remote"
	"github.com/gravityplanner/gravity/internal/syncq"
)

// stubRemote satisfies remote.Store; none of its methods are called.
type stubRemote struct{ remote.Store }

func TestSyncStatusConcurrentReadsAndWrites(t *testing.T) {
	a := &App{Remote: stubRemote{}, status: syncq.StatusOffline}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				a.setStatus(syncq.StatusSyncing)
				if got := a.SyncStatus(); got != syncq.StatusSyncing && got != syncq.StatusSynced {
					t.Errorf("unexpected status %v", got)
				}
				a.setStatus(syncq.StatusSynced)
			}
		}()
	}
	wg.Wait()

	if got := a.SyncStatus(); got != syncq.StatusSynced {
		t.Errorf("status = %v, want synced", got)
	}
}
