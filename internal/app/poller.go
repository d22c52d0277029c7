package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/pkg/whatpulse"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the store from the WhatPulse client API.
type Poller struct {
	store   *state.Store
	client  whatpulse.StatsFetcher
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewPoller builds a Poller. A zero timeout leaves requests bounded only by ctx.
func NewPoller(store *state.Store, client whatpulse.StatsFetcher, logger *zap.Logger, timeout time.Duration) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:   store,
		client:  client,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Start launches a background goroutine that refreshes the store every
// interval, backing off while the API keeps failing. The first poll happens
// one interval after Start; callers wanting data up front call Refresh first.
// It returns immediately.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures := p.Refresh(ctx)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// Refresh fetches totals and unpulsed stats concurrently and updates the
// store. It returns the consecutive failure count after the update.
func (p *Poller) Refresh(ctx context.Context) int {
	reqCtx, cancel := p.requestContext(ctx)
	defer cancel()

	var (
		totals   whatpulse.AccountTotals
		unpulsed whatpulse.UnpulsedStats
	)
	g, gctx := errgroup.WithContext(reqCtx)
	g.Go(func() error {
		var err error
		totals, err = p.client.FetchAccountTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unpulsed, err = p.client.FetchUnpulsedStats(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		failures := p.store.Update(nil, nil, err)
		p.logger.Warn("stats poll failed",
			zap.Error(err),
			zap.Int("failures", failures))
		return failures
	}

	failures := p.store.Update(&totals, &unpulsed, nil)
	p.logger.Debug("stats polled",
		zap.Uint64("keys", totals.Keys),
		zap.Uint64("clicks", totals.Clicks),
		zap.Uint64("unpulsed_keys", unpulsed.Keys))
	return failures
}

// PulseNow asks the WhatPulse client to pulse, records the attempt and
// refreshes the store so the UI picks up the new totals.
func (p *Poller) PulseNow(ctx context.Context) error {
	reqCtx, cancel := p.requestContext(ctx)
	err := p.client.Pulse(reqCtx)
	cancel()

	p.store.RecordPulse(p.now(), err)
	if err != nil {
		p.logger.Error("pulse failed", zap.Error(err))
		return err
	}
	// The upstream never confirms a pulse; log the request, not a success.
	p.logger.Info("pulse requested")
	p.Refresh(ctx)
	return nil
}

func (p *Poller) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
