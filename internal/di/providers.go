package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"TruthSource/internal/domain/repository"
	"TruthSource/internal/domain/service"
	"TruthSource/internal/handler/api"
	internalrepo "TruthSource/internal/repository"
	svcmetrics "TruthSource/internal/service/metrics"
	"TruthSource/internal/service/ratelimit"
	"TruthSource/internal/services/oracle"
	"TruthSource/internal/usecase"
	"TruthSource/pkg/cache"
	pkgch "TruthSource/pkg/clickhouse"
	"TruthSource/pkg/config"
	xhttp "TruthSource/pkg/http"
	pkgkafka "TruthSource/pkg/kafka"
	"TruthSource/pkg/logger"
	"TruthSource/pkg/metrics"
	"TruthSource/pkg/queue"
	"TruthSource/pkg/server"
)

// ProvideRedisClient returns nil when redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideLogger builds the process logger. With the collector enabled,
// repeated errors are aggregated and shipped to a Redis list.
func ProvideLogger(cfg *config.Config, rdb *redis.Client) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Logging.Collector.Enabled && rdb != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.CountThreshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      queue.NewRedisPublisher(l, rdb),
		})
	}
	return l, nil
}

func ProvideRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// ProvideMetrics creates the pipeline metrics recorder.
func ProvideMetrics(reg prometheus.Registerer) repository.Metrics {
	return metrics.NewWithRegistry(reg)
}

func ProvideEndpointMetrics(reg prometheus.Registerer) *svcmetrics.Endpoint {
	return svcmetrics.NewEndpoint(reg)
}

// ProvideClickHouseClient connects and, when configured, creates the tables
// the record source reads.
func ProvideClickHouseClient(cfg *config.Config, l *logger.Logger) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if cfg.ClickHouse.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.Schema); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		l.Info("clickhouse schema ready", logger.String("database", cfg.ClickHouse.Database))
	}
	return client, nil
}

func ProvideClickHouseRecords(ch *pkgch.Client, cfg *config.Config, m repository.Metrics, l *logger.Logger) *internalrepo.ClickHouseRecords {
	return internalrepo.NewClickHouseRecords(ch.DB(), cfg.ClickHouse.RowLimit, m, l)
}

// ProvideWarehouses caches postal codes in Redis when it is enabled and in
// process memory otherwise.
func ProvideWarehouses(records *internalrepo.ClickHouseRecords, rdb *redis.Client, cfg *config.Config, l *logger.Logger) repository.WarehouseDirectory {
	var c cache.Service = cache.NewMemoryCache()
	if rdb != nil {
		c = cache.NewRedisCache(rdb, "truthsource:cache")
	}
	return internalrepo.NewCachedWarehouses(records, c, cfg.Analysis.WarehouseCacheTTL, l)
}

func ProvideRecordFetcher(src repository.RecordSource, m repository.Metrics, l *logger.Logger) repository.RecordFetcher {
	return internalrepo.NewRecordFetcher(src, m, l)
}

func ProvideOracle(cfg *config.Config, l *logger.Logger, m repository.Metrics) service.Oracle {
	return oracle.New(context.Background(), cfg, l, m)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, reg prometheus.Registerer) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEvents publishes to Kafka when a producer exists and drops events otherwise.
func ProvideEvents(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NopEvents{}
	}
	return internalrepo.NewKafkaEvents(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer returns nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger, reg prometheus.Registerer) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerRegisterer(reg),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideDeps collects what every analysis pipeline shares.
func ProvideDeps(
	cfg *config.Config,
	fetcher repository.RecordFetcher,
	warehouses repository.WarehouseDirectory,
	o service.Oracle,
	events repository.EventPublisher,
	m repository.Metrics,
	l *logger.Logger,
) usecase.Deps {
	return usecase.Deps{
		Fetcher:    fetcher,
		Warehouses: warehouses,
		Oracle:     o,
		Events:     events,
		Metrics:    m,
		Logger:     l,
		Clock:      time.Now,
		Windows: usecase.Windows{
			DemandLookback:   cfg.Analysis.DemandLookback,
			DeliveryLookback: cfg.Analysis.DeliveryLookback,
			Recent:           cfg.Analysis.RecentWindow,
		},
	}
}

func ProvideAnomalyCheckHandler(cfg *config.Config, detector *usecase.AnomalyDetector) *usecase.AnomalyCheckHandler {
	return usecase.NewAnomalyCheckHandler(cfg.Kafka.AnomalyChecksTopic, detector)
}

// ProvideRateLimiter returns nil when rate limiting is off.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.RateLimit.PerSecond <= 0 {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.PerSecond, cfg.Server.RateLimit.Burst)
}

func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.AnalysisEchoHandler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAllowOrigins(cfg.Server.AllowOrigins),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	}
	return xhttp.NewServer(l, []xhttp.Handler{h}, opts...)
}

// ProvideApp assembles the lifecycle and registers resources for shutdown.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	checks *usecase.AnomalyCheckHandler,
	events repository.EventPublisher,
	ch *pkgch.Client,
	rdb *redis.Client,
) *server.App {
	app := server.New(cfg, l, srv, consumer, checks)
	if rdb != nil {
		app.OnShutdown("redis", rdb.Close)
	}
	app.OnShutdown("clickhouse", ch.Close)
	app.OnShutdown("analysis events", events.Close)
	return app
}
