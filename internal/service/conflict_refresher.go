package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-admin-api/pkg/jobs"
)

const recomputeJobKind = "conflict_recompute"

// changeNotifier is told when data feeding a detector changed.
type changeNotifier interface {
	Notify(ctx context.Context, domain string)
}

// ReportWarmer recomputes and caches the default report of one domain.
type ReportWarmer interface {
	Warm(ctx context.Context) error
}

// RefresherConfig tunes the recompute worker pool.
type RefresherConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ConflictRefresher invalidates cached reports after mutations and recomputes them in the background.
type ConflictRefresher struct {
	cache   *CacheService
	metrics *MetricsService
	warmers map[string]ReportWarmer
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewConflictRefresher constructs a refresher over the given per-domain warmers.
func NewConflictRefresher(cache *CacheService, metrics *MetricsService, warmers map[string]ReportWarmer, cfg RefresherConfig, logger *zap.Logger) *ConflictRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ConflictRefresher{
		cache:   cache,
		metrics: metrics,
		warmers: warmers,
		logger:  logger,
	}
	r.queue = jobs.NewQueue("conflict-refresher", r.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return r
}

// Start launches the worker pool.
func (r *ConflictRefresher) Start(ctx context.Context) {
	r.queue.Start(ctx)
}

// Stop drains the worker pool.
func (r *ConflictRefresher) Stop() {
	r.queue.Stop()
}

// Notify drops cached reports of domain and schedules a recompute. Bursts of changes
// collapse into a single pending job per domain.
func (r *ConflictRefresher) Notify(ctx context.Context, domain string) {
	if err := r.cache.InvalidateDomain(ctx, domain); err != nil {
		r.logger.Warn("failed to invalidate conflict reports", zap.String("domain", domain), zap.Error(err))
	}
	if !r.cache.Enabled() {
		return
	}
	if _, ok := r.warmers[domain]; !ok {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Key: domain, Kind: recomputeJobKind, Payload: domain}
	if _, err := r.queue.Enqueue(job); err != nil {
		r.logger.Warn("failed to schedule recompute", zap.String("domain", domain), zap.Error(err))
	}
}

func (r *ConflictRefresher) handle(ctx context.Context, job jobs.Job) error {
	domain, _ := job.Payload.(string)
	warmer, ok := r.warmers[domain]
	if !ok {
		return nil
	}
	start := time.Now()
	err := warmer.Warm(ctx)
	r.metrics.RecordRecompute(domain, err)
	if err == nil {
		r.logger.Debug("conflict report recomputed", zap.String("domain", domain), zap.Duration("took", time.Since(start)))
	}
	return err
}
