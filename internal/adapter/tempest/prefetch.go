package tempest

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// Prefetcher keeps the forecast cache warm so viewers never wait on a cold
// fetch. It refreshes the imperial and metric bundles on a fixed interval.
type Prefetcher struct {
	fetcher   Fetcher
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// NewPrefetcher creates a prefetcher around a (typically cached) fetcher.
func NewPrefetcher(fetcher Fetcher, interval, timeout time.Duration, logger *slog.Logger) *Prefetcher {
	return &Prefetcher{
		fetcher:   fetcher,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the refresh job and runs the scheduler in the background.
func (p *Prefetcher) Start() error {
	if p.interval <= 0 {
		p.logger.Info("forecast prefetch disabled")
		return nil
	}

	_, err := p.scheduler.Every(p.interval).Do(p.refresh)
	if err != nil {
		return err
	}
	p.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler and cancels future refreshes.
func (p *Prefetcher) Stop() {
	p.scheduler.Stop()
}

func (p *Prefetcher) refresh() {
	for _, units := range []domain.Units{domain.UnitsImperial, domain.UnitsMetric} {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		bundle := p.fetcher.Fetch(ctx, units)
		cancel()

		if !bundle.OK() {
			p.logger.Warn("forecast prefetch failed", "units", units, "status", bundle.Status, "reason", bundle.Reason)
		}
	}
}
