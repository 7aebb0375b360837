package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"FedPulse/internal/domain/models"
)

type fakeSink struct {
	mu        sync.Mutex
	published []*models.AlertTrigger
	failNext  bool
}

func (s *fakeSink) Publish(_ context.Context, t *models.AlertTrigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return fmt.Errorf("broker down")
	}
	s.published = append(s.published, t)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

type nopMetrics struct{}

func (nopMetrics) RecordTriggerPublished(string, string) {}
func (nopMetrics) RecordError(string)                    {}
func (nopMetrics) RecordSignalValue(string, float64)     {}
func (nopMetrics) RecordLatency(string, float64)         {}

type countingMetrics struct {
	nopMetrics
	mu        sync.Mutex
	published int
}

func (m *countingMetrics) RecordTriggerPublished(string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published++
}

func (m *countingMetrics) publishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published
}

type downSink struct{}

func (downSink) Publish(context.Context, *models.AlertTrigger) error {
	return fmt.Errorf("broker down")
}

func trigger(id string) *models.AlertTrigger {
	prev := 0.3
	return &models.AlertTrigger{
		AlertID:       id,
		SignalType:    models.SignalRate,
		Condition:     models.CrossesAbove,
		PreviousValue: prev,
		CurrentValue:  0.7,
		Threshold:     0.5,
		TriggeredAt:   time.Now().UTC(),
	}
}

func TestProcessPublishes(t *testing.T) {
	sink := &fakeSink{}
	p := NewTriggerPipeline(sink, nopMetrics{})
	if err := p.Process(context.Background(), trigger("a1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 publish, got %d", sink.count())
	}
}

func TestProcessRejectsInvalid(t *testing.T) {
	sink := &fakeSink{}
	p := NewTriggerPipeline(sink, nopMetrics{})

	bad := trigger("")
	if err := p.Process(context.Background(), bad); err == nil {
		t.Fatalf("expected error for empty alert id")
	}

	bad = trigger("a1")
	bad.SignalType = "weather"
	if err := p.Process(context.Background(), bad); err == nil {
		t.Fatalf("expected error for unknown signal type")
	}

	bad = trigger("a1")
	bad.TriggeredAt = time.Time{}
	if err := p.Process(context.Background(), bad); err == nil {
		t.Fatalf("expected error for zero triggered_at")
	}

	if sink.count() != 0 {
		t.Fatalf("invalid triggers must not reach the sink, got %d", sink.count())
	}
}

func TestProcessThrottlesPerSignal(t *testing.T) {
	sink := &fakeSink{}
	p := NewTriggerPipeline(sink, nopMetrics{}, WithMaxPerSecond(1))

	if err := p.Process(context.Background(), trigger("a1")); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	// same signal type immediately again: throttled, dropped without error
	if err := p.Process(context.Background(), trigger("a2")); err != nil {
		t.Fatalf("throttled trigger should not error: %v", err)
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 publish after throttle, got %d", sink.count())
	}

	// a different signal type has its own budget
	other := trigger("a3")
	other.SignalType = models.SignalCredit
	if err := p.Process(context.Background(), other); err != nil {
		t.Fatalf("other signal: %v", err)
	}
	if sink.count() != 2 {
		t.Fatalf("expected 2 publishes, got %d", sink.count())
	}
}

func TestProcessBuffersOnSinkError(t *testing.T) {
	sink := &fakeSink{failNext: true}
	p := NewTriggerPipeline(sink, nopMetrics{}, WithBufferSize(4))

	if err := p.Process(context.Background(), trigger("a1")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected trigger buffered, depth %d", len(p.bufCh))
	}

	// background flush drains the buffer once the sink recovers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sink.count() != 1 {
		t.Fatalf("expected buffered trigger flushed, got %d", sink.count())
	}
}

func TestPublishedCounterTracksDeliveries(t *testing.T) {
	m := &countingMetrics{}
	sink := &fakeSink{failNext: true}
	p := NewTriggerPipeline(sink, m, WithBufferSize(4))

	// failed publish is buffered, not counted
	if err := p.Process(context.Background(), trigger("a1")); err == nil {
		t.Fatalf("expected downstream error")
	}
	if m.publishedCount() != 0 {
		t.Fatalf("failed publish must not count as delivered, got %d", m.publishedCount())
	}

	second := trigger("a2")
	second.SignalType = models.SignalCredit
	if err := p.Process(context.Background(), second); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if m.publishedCount() != 1 {
		t.Fatalf("expected 1 delivery counted, got %d", m.publishedCount())
	}

	// flushing the buffered trigger counts once the sink recovers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for m.publishedCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.publishedCount() != 2 {
		t.Fatalf("expected flushed trigger counted, got %d", m.publishedCount())
	}
}

func TestStopReturnsPromptlyDuringBackoff(t *testing.T) {
	p := NewTriggerPipeline(downSink{}, nopMetrics{}, WithBufferSize(4))
	p.bufCh <- trigger("a1")

	p.Start(context.Background())
	// let the flush loop hit the failing sink and enter backoff
	time.Sleep(150 * time.Millisecond)

	done := make(chan struct{})
	start := time.Now()
	go func() {
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Stop did not return within 1s")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Stop took %v, backoff should be interruptible", elapsed)
	}
}

func TestFlushStopsWhenContextCanceled(t *testing.T) {
	sink := &fakeSink{}
	p := NewTriggerPipeline(sink, nopMetrics{}, WithBufferSize(4))

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()

	select {
	case <-p.doneCh:
	case <-time.After(time.Second):
		t.Fatalf("flush goroutine did not exit on context cancel")
	}
}
