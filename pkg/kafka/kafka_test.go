package kafka

import (
	"context"
	"testing"
	"time"
)

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue([]byte("raw"))
	if err != nil || string(b) != "raw" {
		t.Fatalf("byte slice passthrough: %q %v", b, err)
	}

	b, err = encodeValue("text")
	if err != nil || string(b) != "text" {
		t.Fatalf("string passthrough: %q %v", b, err)
	}

	b, err = encodeValue(map[string]int{"n": 1})
	if err != nil || string(b) != `{"n":1}` {
		t.Fatalf("json encoding: %q %v", b, err)
	}

	if _, err := encodeValue(make(chan int)); err == nil {
		t.Fatalf("expected error for unencodable value")
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	min := 50 * time.Millisecond
	max := 2 * time.Second
	for attempt := 1; attempt <= 10; attempt++ {
		d := backoffWithJitter(min, max, attempt)
		if d <= 0 || d > max {
			t.Fatalf("attempt %d: backoff %v out of (0, %v]", attempt, d, max)
		}
	}
	// degenerate config falls back to sane defaults
	if d := backoffWithJitter(0, 0, 1); d <= 0 {
		t.Fatalf("expected positive backoff, got %v", d)
	}
}

type stubHandler struct{ topic string }

func (h stubHandler) Topic() string { return h.topic }

func (h stubHandler) Handle(context.Context, []byte) error { return nil }

func TestNewConsumerRequiresBrokers(t *testing.T) {
	if _, err := NewConsumer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestConsumerStartRequiresHandler(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	if err := c.Start(); err == nil {
		t.Fatalf("expected error without a registered handler")
	}
}

func TestRegisterHandlerKeepsFirst(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	c.RegisterHandler(stubHandler{topic: "first"})
	c.RegisterHandler(stubHandler{topic: "second"})
	if c.handler.Topic() != "first" {
		t.Fatalf("expected first handler kept, got %s", c.handler.Topic())
	}
}
