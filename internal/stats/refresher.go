// Package stats keeps the blog post gauges current.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/metrics"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 10 * time.Second

type BlogCounter interface {
	CountByStatus(ctx context.Context) (map[domain.BlogStatus]int, error)
}

// Refresher recounts posts by status on a cron schedule and publishes the
// counts on metrics.Posts.
type Refresher struct {
	repo     BlogCounter
	schedule cron.Schedule
	expr     string
	logger   *slog.Logger
}

// NewRefresher accepts standard five-field expressions and descriptors such
// as "@every 1m".
func NewRefresher(repo BlogCounter, expr string, logger *slog.Logger) (*Refresher, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse stats schedule %q: %w", expr, err)
	}
	return &Refresher{
		repo:     repo,
		schedule: schedule,
		expr:     expr,
		logger:   logger.With("component", "stats"),
	}, nil
}

// Refresh recounts once.
func (r *Refresher) Refresh(ctx context.Context) error {
	counts, err := r.repo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count blogs: %w", err)
	}
	for _, status := range []domain.BlogStatus{domain.BlogStatusDraft, domain.BlogStatusPublished} {
		metrics.Posts.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	return nil
}

// Start refreshes immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(r.schedule, cron.FuncJob(func() { r.tick(ctx) }))

	r.logger.InfoContext(ctx, "stats refresher started", "schedule", r.expr)
	r.tick(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("stats refresher stopped")
}

func (r *Refresher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := r.Refresh(refreshCtx); err != nil {
		r.logger.WarnContext(ctx, "refresh blog stats", "error", err)
	}
}
