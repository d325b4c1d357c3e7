package syncq

import (
	"sync"
	"testing"
	"time"

	"github.com/gravityplanner/gravity/internal/remote"
)

func strPtr(s string) *string { return &s }

func TestDebouncerCoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	var flushes []remote.SettingsPatch
	d := NewDebouncer(30*time.Millisecond, time.Second, func(p remote.SettingsPatch) {
		mu.Lock()
		flushes = append(flushes, p)
		mu.Unlock()
	})

	d.Add(remote.SettingsPatch{Theme: strPtr("light")})
	d.Add(remote.SettingsPatch{Theme: strPtr("dark")})
	d.Add(remote.SettingsPatch{CurrentMemberID: strPtr("kid")})

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(flushes) != 1 {
		t.Fatalf("flushes = %d, want 1", len(flushes))
	}
	p := flushes[0]
	if p.Theme == nil || *p.Theme != "dark" {
		t.Errorf("theme not last-write-wins: %v", p.Theme)
	}
	if p.CurrentMemberID == nil || *p.CurrentMemberID != "kid" {
		t.Errorf("member change lost")
	}
}

func TestDebouncerDelayResetsPerChange(t *testing.T) {
	var mu sync.Mutex
	count := 0
	d := NewDebouncer(60*time.Millisecond, time.Second, func(remote.SettingsPatch) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	// Keep poking inside the quiet period: nothing should flush yet.
	for i := 0; i < 5; i++ {
		d.Add(remote.SettingsPatch{Theme: strPtr("dark")})
		time.Sleep(20 * time.Millisecond)
	}
	mu.Lock()
	if count != 0 {
		mu.Unlock()
		t.Fatalf("flushed during active burst")
	}
	mu.Unlock()

	time.Sleep(120 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("flushes = %d, want 1 after quiet period", count)
	}
}

func TestDebouncerMaxWaitBoundsStarvation(t *testing.T) {
	var mu sync.Mutex
	count := 0
	d := NewDebouncer(50*time.Millisecond, 200*time.Millisecond, func(remote.SettingsPatch) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	// A steady stream faster than the quiet period would starve a plain
	// debouncer forever; the max wait forces a flush.
	stop := time.After(450 * time.Millisecond)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-stop:
			break loop
		case <-tick.C:
			d.Add(remote.SettingsPatch{Theme: strPtr("dark")})
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if count < 1 {
		t.Fatalf("steady stream starved the flush")
	}
}

func TestDebouncerFlushImmediate(t *testing.T) {
	var mu sync.Mutex
	count := 0
	d := NewDebouncer(time.Hour, 2*time.Hour, func(remote.SettingsPatch) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	d.Add(remote.SettingsPatch{Theme: strPtr("dark")})
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("explicit flush did not fire: %d", count)
	}
}

func TestDebouncerEmptyPatchIgnored(t *testing.T) {
	d := NewDebouncer(time.Millisecond, time.Second, func(remote.SettingsPatch) {
		t.Errorf("empty patch flushed")
	})
	d.Add(remote.SettingsPatch{})
	d.Flush()
	time.Sleep(20 * time.Millisecond)
}
