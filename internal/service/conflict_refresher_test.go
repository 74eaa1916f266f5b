package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWarmer struct {
	calls int32
	cache *CacheService
	key   string
}

func (w *countingWarmer) Warm(ctx context.Context) error {
	atomic.AddInt32(&w.calls, 1)
	return w.cache.Set(ctx, w.key, map[string]int{"total": 0}, time.Minute)
}

func TestConflictRefresherInvalidatesAndWarms(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	require.NoError(t, cache.Set(context.Background(), ReportKey(DomainWorkload, "50", "100", "all", "all"), "stale", 0))
	require.NoError(t, cache.Set(context.Background(), ReportKey(DomainTimetable, "all"), "kept", 0))

	warmer := &countingWarmer{cache: cache, key: ReportKey(DomainWorkload, "fresh")}
	refresher := NewConflictRefresher(cache, NewMetricsService(), map[string]ReportWarmer{DomainWorkload: warmer}, RefresherConfig{Workers: 1}, nil)
	refresher.Start(context.Background())
	defer refresher.Stop()

	refresher.Notify(context.Background(), DomainWorkload)

	assert.False(t, repo.has(ReportKey(DomainWorkload, "50", "100", "all", "all")))
	assert.True(t, repo.has(ReportKey(DomainTimetable, "all")))
	require.Eventually(t, func() bool { return repo.has(ReportKey(DomainWorkload, "fresh")) }, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&warmer.calls), int32(1))
}

func TestConflictRefresherSkipsRecomputeWithoutCache(t *testing.T) {
	cache := NewCacheService(nil, nil, time.Minute, nil, false)
	warmer := &countingWarmer{cache: cache}
	refresher := NewConflictRefresher(cache, nil, map[string]ReportWarmer{DomainTimetable: warmer}, RefresherConfig{}, nil)
	refresher.Start(context.Background())
	defer refresher.Stop()

	refresher.Notify(context.Background(), DomainTimetable)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&warmer.calls))
}
