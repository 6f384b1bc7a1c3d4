package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string, []string]()
	var calls atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"Barcelona", "Real Madrid"}, nil
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
			v, err := store.GetOrLoad(context.Background(), "3869685", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 2 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	require.Eventually(t, func() bool { return store.InFlight("3869685") }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), store.Version("3869685"))
	assert.Equal(t, 1, store.Stats().Loads)
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string]()
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	_, err := store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)
	_, err = store.GetOrLoad(context.Background(), "k", loader)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	stats := store.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Loads)
}

func TestStore_GetOrLoad_FailureLeavesKeyEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string]()
	boom := errors.New("status 500")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, uint64(0), store.Version("k"))

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "second", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestStore_SetIfAbsent_FirstWriteWins(t *testing.T) {
	t.Parallel()

	store := NewStore[int, string]()
	ctx := context.Background()

	require.True(t, store.SetIfAbsent(ctx, 1, "first"))
	require.False(t, store.SetIfAbsent(ctx, 1, "second"))

	v, ok := store.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, uint64(1), store.Version(1))
	assert.Equal(t, 1, store.Stats().RejectedOverwrites)
}

func TestStore_TTLUsesInjectedClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	store := NewStore[string, string](WithTTL(time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.True(t, store.SetIfAbsent(ctx, "k", "v1"))
	storedAt, ok := store.StoredAt("k")
	require.True(t, ok)
	assert.Equal(t, now, storedAt)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)

	require.True(t, store.SetIfAbsent(ctx, "k", "v2"))
	assert.Equal(t, uint64(2), store.Version("k"))
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	store := NewStore[string, string](WithClock(func() time.Time { return now }))
	store.SetIfAbsent(context.Background(), "k", "v")

	now = now.Add(365 * 24 * time.Hour)
	_, ok := store.Get(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

var errUnexpectedValue = errors.New("unexpected loaded value")
