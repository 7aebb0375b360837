package di

import (
	"context"
	"fmt"
	"time"

	"FedPulse/internal/domain/repository"
	"FedPulse/internal/handler/api"
	mid "FedPulse/internal/middleware"
	internalrepo "FedPulse/internal/repository"
	icache "FedPulse/internal/service/cache"
	"FedPulse/internal/service/fred"
	"FedPulse/internal/service/notify"
	"FedPulse/internal/usecase"
	pkgcache "FedPulse/pkg/cache"
	pkgch "FedPulse/pkg/clickhouse"
	"FedPulse/pkg/config"
	pkgkafka "FedPulse/pkg/kafka"
	applogger "FedPulse/pkg/logger"
	"FedPulse/pkg/metrics"
	"FedPulse/pkg/queue"
	"FedPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lcfg.Level = "debug"
		lcfg.Format = "console"
	}
	return applogger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the
// trigger log schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".alert_triggers (" +
			"alert_id String, signal String, previous_value Float64, current_value Float64, " +
			"threshold Float64, condition String, triggered_at DateTime64(3), acknowledged UInt8" +
			") ENGINE=MergeTree ORDER BY (signal, triggered_at)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideRedisCache creates the shared Redis connection. Returns nil when
// Redis is disabled; dependents fall back to in-process implementations.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix("fedpulse"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideSnapshotCache creates the signal snapshot cache.
func ProvideSnapshotCache(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc != nil {
		return pkgcache.NewLayeredCache(rc)
	}
	return pkgcache.NewMemoryCache()
}

// ProvideBytesCache creates the byte cache used for series and HTTP
// response caching.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideSeriesSource creates the FRED observations client.
func ProvideSeriesSource(cfg *config.Config) repository.SeriesSource {
	return fred.New(cfg.Fred.APIKey, cfg.Fred.BaseURL, cfg.Fred.Timeout)
}

// ProvideSeriesUseCase creates the series fetch/merge use case.
func ProvideSeriesUseCase(src repository.SeriesSource, bc icache.BytesCache, cfg *config.Config) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(src, bc, cfg.Cache.SeriesTTL)
}

// ProvideSignalUseCase creates the signal derivation use case.
func ProvideSignalUseCase(
	series *usecase.SeriesUseCase,
	m repository.Metrics,
	snap pkgcache.Service,
	cfg *config.Config,
) *usecase.SignalUseCase {
	reg := usecase.SeriesRegistry{
		PolicyRate:      cfg.Fred.Series.PolicyRate,
		Yield10Y:        cfg.Fred.Series.Yield10Y,
		Yield3M:         cfg.Fred.Series.Yield3M,
		VIX:             cfg.Fred.Series.VIX,
		HighYieldSpread: cfg.Fred.Series.HighYieldSpread,
		InvGradeSpread:  cfg.Fred.Series.InvGradeSpread,
		HomePriceIndex:  cfg.Fred.Series.HomePriceIndex,
		HousingStarts:   cfg.Fred.Series.HousingStarts,
	}
	return usecase.NewSignalUseCase(series, reg, m, snap)
}

// ProvideTriggerPublisher creates the Kafka trigger publisher.
func ProvideTriggerPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.TriggerPublisher {
	return internalrepo.NewKafkaTriggerPublisher(producer, cfg.Kafka.Topic)
}

// ProvideTriggerPipeline builds the throttled pipeline between the alert
// evaluator and Kafka.
func ProvideTriggerPipeline(pub repository.TriggerPublisher, m repository.Metrics, cfg *config.Config) *mid.TriggerPipeline {
	return mid.NewTriggerPipeline(pub, m,
		mid.WithMaxPerSecond(cfg.Alerts.MaxPerSecond),
		mid.WithBufferSize(cfg.Alerts.BufferSize),
	)
}

// ProvideTriggerLog creates the ClickHouse trigger log.
func ProvideTriggerLog(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.TriggerLog {
	log := internalrepo.NewCHTriggerLog(ch, cfg.ClickHouse.Database+".alert_triggers")
	log.SetLogger(l)
	return log
}

// ProvideAlertStore creates the alert configuration store.
func ProvideAlertStore(rc *pkgcache.RedisCache) repository.AlertStore {
	if rc != nil {
		return internalrepo.NewRedisAlertStore(rc.Client())
	}
	return internalrepo.NewMemoryAlertStore()
}

// ProvideHub creates the WebSocket fan-out hub.
func ProvideHub(l *applogger.Logger) *notify.Hub {
	return notify.NewHub(l)
}

// ProvideNotifyQueue creates the Redis queue that fans triggers out to the
// WebSocket hub. Returns nil when Redis is disabled.
func ProvideNotifyQueue(cfg *config.Config, l *applogger.Logger, rc *pkgcache.RedisCache, hub *notify.Hub) *queue.RedisQueue {
	if rc == nil {
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Alerts.QueueWorkers,
		QueueSize:  cfg.Alerts.QueueSize,
		RetryLimit: cfg.Alerts.RetryLimit,
		RetryDelay: cfg.Alerts.RetryDelay,
	}, rc.Client())
	q.RegisterJob(notify.NewTriggerNotifyJob(hub))
	return q
}

// ProvideAlertUseCase creates the alert CRUD/evaluation use case.
func ProvideAlertUseCase(
	store repository.AlertStore,
	signals *usecase.SignalUseCase,
	pipe *mid.TriggerPipeline,
	notifyQ *queue.RedisQueue,
	log repository.TriggerLog,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.AlertUseCase {
	var q queue.QueueService
	if notifyQ != nil {
		q = notifyQ
	}
	return usecase.NewAlertUseCase(store, signals, pipe, q, log, m, l)
}

// ProvideAlertPoller creates the background evaluation loop.
func ProvideAlertPoller(alerts *usecase.AlertUseCase, cfg *config.Config, l *applogger.Logger) *usecase.AlertPoller {
	return usecase.NewAlertPoller(alerts, cfg.Alerts.PollInterval, l)
}

// ProvideKafkaTriggersHandler registers the handler for the triggers topic.
func ProvideKafkaTriggersHandler(log repository.TriggerLog, m repository.Metrics, cfg *config.Config) *usecase.KafkaTriggersHandler {
	return usecase.NewKafkaTriggersHandler(cfg.Kafka.Topic, log, m)
}

// ProvideAPIHandler creates the Echo HTTP handler.
func ProvideAPIHandler(
	l *applogger.Logger,
	series *usecase.SeriesUseCase,
	signals *usecase.SignalUseCase,
	alerts *usecase.AlertUseCase,
	hub *notify.Hub,
	bc icache.BytesCache,
) *api.Handler {
	h := api.New(l, series, signals, alerts, hub)
	h.SetCache(bc)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	m repository.Metrics,
	handler *api.Handler,
	pipe *mid.TriggerPipeline,
	poller *usecase.AlertPoller,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTriggersHandler,
	notifyQ *queue.RedisQueue,
	hub *notify.Hub,
	pub repository.TriggerPublisher,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(usecase.ConsumerTelemetryHook(l, m))
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          errorLogTopic,
			Publisher:      &kafkaLogPublisher{producer: producer},
		})
	}
	return server.New(cfg, l, handler, pipe, poller, consumer, kh, notifyQ, hub, pub, chClient)
}

const errorLogTopic = "fedpulse.error_logs"

// kafkaLogPublisher lets the logger's aggregation collector publish
// through the shared Kafka producer.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p *kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
