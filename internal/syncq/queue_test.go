package syncq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := New(nil)
	q.retryBackoff = time.Millisecond

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		i := i
		q.Enqueue(Task{Name: "t", Run: func(ctx context.Context) error {
			mu.Lock()
			got = append(got, i)
			if len(got) == 20 {
				close(done)
			}
			mu.Unlock()
			return nil
		}})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("queue did not drain")
	}
	cancel()
	q.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestQueueRetriesThenDrops(t *testing.T) {
	q := New(nil)
	q.retryBackoff = time.Millisecond

	var mu sync.Mutex
	attempts := 0
	ran := make(chan struct{})
	q.Enqueue(Task{Name: "failing", Run: func(ctx context.Context) error {
		mu.Lock()
		attempts++
		mu.Unlock()
		return errors.New("boom")
	}})
	q.Enqueue(Task{Name: "after", Run: func(ctx context.Context) error {
		close(ran)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("queue stuck on failing task")
	}
	cancel()
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestQueueStatusTransitions(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status
	q := New(func(s Status) {
		mu.Lock()
		statuses = append(statuses, s)
		mu.Unlock()
	})
	q.retryBackoff = time.Millisecond

	done := make(chan struct{})
	q.Enqueue(Task{Name: "ok", Run: func(ctx context.Context) error {
		return nil
	}})
	q.Enqueue(Task{Name: "bad", Run: func(ctx context.Context) error {
		return errors.New("boom")
	}})
	q.Enqueue(Task{Name: "last", Run: func(ctx context.Context) error {
		defer close(done)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)
	<-done
	// Give the final status callback a moment.
	time.Sleep(50 * time.Millisecond)
	cancel()
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	sawOffline, sawSynced := false, false
	for _, s := range statuses {
		if s == StatusOffline {
			sawOffline = true
		}
		if s == StatusSynced {
			sawSynced = true
		}
	}
	if !sawOffline {
		t.Errorf("dropped task never reported offline: %v", statuses)
	}
	if !sawSynced {
		t.Errorf("drained queue never reported synced: %v", statuses)
	}
}

func TestEnqueueAfterShutdownDrops(t *testing.T) {
	q := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)
	cancel()
	q.Wait()

	q.Enqueue(Task{Name: "late", Run: func(ctx context.Context) error { return nil }})
	if q.Len() != 0 {
		t.Errorf("task accepted after shutdown")
	}
}

func TestConcurrentEnqueuePreservesPerProducerOrder(t *testing.T) {
	q := New(nil)

	var mu sync.Mutex
	got := map[int][]int{}
	total := 0
	done := make(chan struct{})

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				p, i := p, i
				q.Enqueue(Task{Name: "t", Run: func(ctx context.Context) error {
					mu.Lock()
					got[p] = append(got[p], i)
					total++
					if total == 100 {
						close(done)
					}
					mu.Unlock()
					return nil
				}})
			}
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	go q.Start(ctx)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("queue did not drain")
	}
	cancel()
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	for p, seq := range got {
		for i, v := range seq {
			if v != i {
				t.Fatalf("producer %d order broken: %v", p, seq)
			}
		}
	}
}
