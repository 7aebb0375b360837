package usecase

import (
	"context"
	"sync"
	"time"

	applogger "FedPulse/pkg/logger"
)

// AlertPoller drives periodic alert evaluation. A fresh cycle never starts
// while the previous one is still running; slow cycles stretch the period
// instead of overlapping, which keeps the store's read-modify-write safe.
type AlertPoller struct {
	alerts   *AlertUseCase
	interval time.Duration
	l        *applogger.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewAlertPoller(alerts *AlertUseCase, interval time.Duration, l *applogger.Logger) *AlertPoller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AlertPoller{
		alerts:   alerts,
		interval: interval,
		l:        l,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the polling loop.
func (p *AlertPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.mu.Unlock()

	go p.loop(ctx)
	p.l.Info("alert poller started", applogger.Duration("interval", p.interval))
	return nil
}

func (p *AlertPoller) loop(ctx context.Context) {
	defer close(p.doneCh)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			triggers, err := p.alerts.EvaluateCycle(ctx)
			if err != nil {
				p.l.Error("alert cycle failed", applogger.Error(err))
				continue
			}
			if len(triggers) > 0 {
				p.l.Info("alert cycle complete", applogger.Int("fired", len(triggers)))
			}
		}
	}
}

// Shutdown stops the loop and waits for an in-flight cycle to finish.
func (p *AlertPoller) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	p.mu.Unlock()

	close(p.stopCh)
	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
