package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "league-row", nil
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
			v, err := store.GetOrLoad(context.Background(), "league:id:lg-1", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "league-row" {
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

func TestStore_GetOrLoad_SecondCallHitsCache(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "league:id:lg-2", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "league:id:lg-2", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	wantErr := errors.New("store unavailable")

	failing := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, wantErr
	}

	if _, err := store.GetOrLoad(context.Background(), "league:id:lg-3", failing); !errors.Is(err, wantErr) {
		t.Fatalf("first GetOrLoad error = %v, want %v", err, wantErr)
	}

	recovered := func(context.Context) (any, error) {
		calls.Add(1)
		return "recovered", nil
	}
	v, err := store.GetOrLoad(context.Background(), "league:id:lg-3", recovered)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if got, _ := v.(string); got != "recovered" {
		t.Fatalf("second GetOrLoad = %q, want %q", got, "recovered")
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_DeleteInvalidatesKey(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "league:id:lg-4", "stale")
	store.Delete(ctx, "league:id:lg-4")

	if _, ok := store.Get(ctx, "league:id:lg-4"); ok {
		t.Fatal("deleted key still cached")
	}
}

func TestStore_TTLExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "league:id:lg-5", "short-lived")
	if _, ok := store.Get(ctx, "league:id:lg-5"); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(ctx, "league:id:lg-5"); ok {
		t.Fatal("expired entry still cached")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
