package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
)

// Sink is the minimal downstream interface the pipeline needs.
type Sink interface {
	Publish(ctx context.Context, t *models.AlertTrigger) error
}

// TriggerPipeline sits between the alert evaluator and the Kafka publisher.
// It validates triggers, throttles per signal type, and buffers when the
// downstream is unavailable so firings survive short broker outages.
type TriggerPipeline struct {
	sink      Sink
	metrics   domrepo.Metrics
	maxPerSec int
	bufSize   int
	bufCh     chan *models.AlertTrigger
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	mu        sync.Mutex
	lastSeen  map[models.SignalType]time.Time

	bufDepthGauge func(int)
}

type PipelineOption func(*TriggerPipeline)

// WithMaxPerSecond sets the max triggers per second per signal type.
func WithMaxPerSecond(n int) PipelineOption {
	return func(p *TriggerPipeline) {
		if n > 0 {
			p.maxPerSec = n
		}
	}
}

// WithBufferSize sets the retry buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *TriggerPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewTriggerPipeline creates a new pipeline.
func NewTriggerPipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *TriggerPipeline {
	p := &TriggerPipeline{
		sink:      sink,
		metrics:   metrics,
		maxPerSec: 10,
		bufSize:   500,
		bufCh:     make(chan *models.AlertTrigger, 500),
		stopCh:    make(chan struct{}),
		lastSeen:  make(map[models.SignalType]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.AlertTrigger, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	return p
}

// Start launches background flushing of buffered triggers.
func (p *TriggerPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case t := <-p.bufCh:
				if t == nil {
					continue
				}
				if err := p.sink.Publish(ctx, t); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- t:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
					// back off, but stay interruptible
					timer := time.NewTimer(backoff)
					select {
					case <-p.stopCh:
						timer.Stop()
						return
					case <-ctx.Done():
						timer.Stop()
						return
					case <-timer.C:
					}
				} else {
					p.metrics.RecordTriggerPublished("kafka", string(t.SignalType))
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing and waits for the flush goroutine to exit.
func (p *TriggerPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	done := p.doneCh
	p.mu.Unlock()
	close(p.stopCh)
	if done != nil {
		<-done
	}
}

// Process validates, throttles, and forwards a trigger, buffering on errors.
func (p *TriggerPipeline) Process(ctx context.Context, t *models.AlertTrigger) error {
	start := time.Now()
	if err := validateTrigger(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(t.SignalType, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Publish(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_publish")
		select {
		case p.bufCh <- t:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordTriggerPublished("kafka", string(t.SignalType))
	p.metrics.RecordLatency("pipeline_publish", time.Since(start).Seconds())
	return nil
}

func validateTrigger(t *models.AlertTrigger) error {
	if t == nil {
		return fmt.Errorf("trigger nil")
	}
	if t.AlertID == "" {
		return fmt.Errorf("alert id empty")
	}
	if !models.IsValidSignalType(t.SignalType) {
		return fmt.Errorf("unknown signal type: %s", t.SignalType)
	}
	if !models.IsValidAlertCondition(t.Condition) {
		return fmt.Errorf("unknown condition: %s", t.Condition)
	}
	if t.TriggeredAt.IsZero() {
		return fmt.Errorf("triggered_at unset")
	}
	return nil
}

func (p *TriggerPipeline) allow(signal models.SignalType, now time.Time) bool {
	if p.maxPerSec <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[signal]
	if last.IsZero() {
		p.lastSeen[signal] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxPerSec) {
		return false
	}
	p.lastSeen[signal] = now
	return true
}
