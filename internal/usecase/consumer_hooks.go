package usecase

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	domrepo "FedPulse/internal/domain/repository"
	pkgkafka "FedPulse/pkg/kafka"
	applogger "FedPulse/pkg/logger"
)

// ConsumerTelemetryHook threads the trace id from message headers into
// the handler context, records handle latency, and logs handler errors.
func ConsumerTelemetryHook(l *applogger.Logger, m domrepo.Metrics) pkgkafka.ConsumerHook {
	trace := pkgkafka.HookFuncs{
		Before: func(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			return pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km)), km, data, nil
		},
	}

	timing := pkgkafka.HookFuncs{
		Before: func(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			return pkgkafka.WithStartTime(ctx, time.Now()), km, data, nil
		},
		After: func(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
			if start, ok := ctx.Value(pkgkafka.CtxStartTime).(time.Time); ok {
				m.RecordLatency("kafka_handle", time.Since(start).Seconds())
			}
		},
		Err: func(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
			m.RecordError("kafka_handle")
			l.Error("kafka handler error",
				applogger.String("topic", topic),
				applogger.Error(err),
			)
		},
	}

	return pkgkafka.NewHookChain(trace, timing)
}
