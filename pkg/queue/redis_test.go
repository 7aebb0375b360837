package queue

import (
	"context"
	"encoding/json"
	"testing"

	"FedPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type noopJob struct{ name string }

func (j noopJob) Name() string { return j.name }
func (j noopJob) Type() string { return "noop" }

func (j noopJob) Handle(context.Context, interface{}) error { return nil }

func TestPublishRequiresRunningQueue(t *testing.T) {
	q := NewRedisQueue(testLogger(t), nil, nil)
	q.RegisterJob(noopJob{name: "noop-job"})

	if err := q.PublishMessage(context.Background(), "noop", "payload"); err == nil {
		t.Fatalf("expected error publishing before Start")
	}
}

func TestRegisterJobKeepsFirst(t *testing.T) {
	q := NewRedisQueue(testLogger(t), nil, nil)
	q.RegisterJob(noopJob{name: "first"})
	q.RegisterJob(noopJob{name: "second"})

	if got := q.jobs["noop"].Name(); got != "first" {
		t.Fatalf("expected first registration kept, got %s", got)
	}
}

func TestNormalizePayload(t *testing.T) {
	// decoded-JSON maps are re-encoded so jobs see raw JSON
	out := normalizePayload(map[string]interface{}{"alert_id": "a1"})
	raw, ok := out.(json.RawMessage)
	if !ok {
		t.Fatalf("expected json.RawMessage, got %T", out)
	}
	if string(raw) != `{"alert_id":"a1"}` {
		t.Fatalf("unexpected payload %s", raw)
	}

	// anything else passes through untouched
	if got := normalizePayload("plain"); got != "plain" {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestQueueKeys(t *testing.T) {
	q := NewRedisQueue(testLogger(t), nil, nil, WithKeyPrefix("test:notify"))
	if q.pendingKey() != "test:notify:pending" ||
		q.retryKey() != "test:notify:retry" ||
		q.deadKey() != "test:notify:dead" {
		t.Fatalf("unexpected keys %s %s %s", q.pendingKey(), q.retryKey(), q.deadKey())
	}
}
