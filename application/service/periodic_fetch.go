package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/helixml/newsdesk/internal/config"
)

// SelectionFetcher fetches articles for a keyword selection.
type SelectionFetcher interface {
	FetchSelection(ctx context.Context, sel Selection, limit int) (FetchReport, error)
}

// PeriodicFetch refreshes every stored keyword on a timer.
type PeriodicFetch struct {
	fetcher  SelectionFetcher
	logger   *slog.Logger
	interval time.Duration
	limit    int
	enabled  bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodicFetch creates a new PeriodicFetch from config and dependencies.
func NewPeriodicFetch(cfg config.FetchConfig, fetcher SelectionFetcher, logger *slog.Logger) *PeriodicFetch {
	return &PeriodicFetch{
		fetcher:  fetcher,
		logger:   logger,
		interval: cfg.Interval(),
		limit:    cfg.Limit(),
		enabled:  cfg.PeriodicEnabled(),
	}
}

// Start begins periodic fetching in a background goroutine.
// If disabled, this is a no-op.
func (p *PeriodicFetch) Start(ctx context.Context) {
	if !p.enabled {
		p.logger.Info("periodic fetch disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Go(func() {
		p.run(ctx)
	})

	p.logger.Info("periodic fetch started", slog.Duration("interval", p.interval))
}

// Stop cancels the background goroutine and waits for it to finish.
func (p *PeriodicFetch) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
	p.logger.Info("periodic fetch stopped")
}

func (p *PeriodicFetch) run(ctx context.Context) {
	p.fetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx)
		}
	}
}

func (p *PeriodicFetch) fetch(ctx context.Context) {
	report, err := p.fetcher.FetchSelection(ctx, Selection{}, p.limit)
	switch {
	case ctx.Err() != nil:
		return
	case errors.Is(err, ErrNothingToFetch):
		p.logger.Debug("periodic fetch skipped, no keywords stored")
		return
	case err != nil:
		p.logger.Error("periodic fetch failed", slog.String("error", err.Error()))
		return
	}

	for _, failure := range report.Failures {
		p.logger.Warn("periodic fetch keyword failed",
			slog.String("keyword", failure.Keyword),
			slog.String("error", failure.Err.Error()),
		)
	}
	p.logger.Info("periodic fetch finished",
		slog.Int("keywords", len(report.Terms)),
		slog.Int("created", report.Created),
	)
}
