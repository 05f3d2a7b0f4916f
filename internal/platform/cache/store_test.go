package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, _ := store.GetOrLoad(context.Background(), "k", loader)
	second, _ := store.GetOrLoad(context.Background(), "k", loader)
	if first != 1 || second != 1 {
		t.Fatalf("expected cached value, got %d and %d", first, second)
	}

	now = now.Add(2 * time.Minute)
	third, _ := store.GetOrLoad(context.Background(), "k", loader)
	if third != 2 {
		t.Fatalf("expected reload after ttl, got %d", third)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")
	fail := true
	loader := func(context.Context) (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	fail = false
	if v, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || v != "ok" {
		t.Fatalf("expected retry to load, got %q %v", v, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[string](0)
	store.Set("competition:c1", "a")
	store.Set("competition:c2", "b")
	store.Set("questions:c1", "c")

	store.DeletePrefix("competition:")
	if _, ok := store.Get("competition:c1"); ok {
		t.Fatalf("expected competition:c1 to be deleted")
	}
	if v, ok := store.Get("questions:c1"); !ok || v != "c" {
		t.Fatalf("expected questions:c1 to remain")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
