package di

import (
	"context"
	"fmt"
	"time"

	domrepo "RentRate/internal/domain/repository"
	domsvc "RentRate/internal/domain/service"
	"RentRate/internal/handler/api"
	internalrepo "RentRate/internal/repository"
	icache "RentRate/internal/service/cache"
	"RentRate/internal/services/catalog"
	"RentRate/internal/services/competitor"
	"RentRate/internal/services/forecast"
	"RentRate/internal/services/rules"
	"RentRate/internal/usecase"
	pkgch "RentRate/pkg/clickhouse"
	"RentRate/pkg/config"
	xhttp "RentRate/pkg/http"
	pkgkafka "RentRate/pkg/kafka"
	applogger "RentRate/pkg/logger"
	"RentRate/pkg/metrics"
	"RentRate/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideCatalog loads the fleet catalog, falling back to the built-in fleet.
func ProvideCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}

// ProvideClassifier creates the vehicle classifier.
func ProvideClassifier(cat *catalog.Catalog) domsvc.Classifier {
	return catalog.NewClassifier(cat)
}

// ProvideCompetitorStore creates the snapshot store with its cache file.
func ProvideCompetitorStore(cfg *config.Config, l *applogger.Logger) *competitor.Store {
	s := competitor.NewStore(cfg.Competitor.CachePath)
	s.SetLogger(l)
	return s
}

// ProvideAggregator creates the quote aggregator.
func ProvideAggregator(classifier domsvc.Classifier, l *applogger.Logger) *competitor.Aggregator {
	a := competitor.NewAggregator(classifier)
	a.SetLogger(l)
	return a
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
// Returns nil when no host is configured; the engine then prices without
// demand history.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
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
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideDemandHistory creates the demand history reader, nil without
// ClickHouse.
func ProvideDemandHistory(chClient *pkgch.Client, l *applogger.Logger) domrepo.DemandHistory {
	if chClient == nil {
		return nil
	}
	s := internalrepo.NewCHDemandHistory(chClient)
	s.SetLogger(l)
	return s
}

// ProvideDemandPredictor creates the hybrid demand predictor. Without a model
// service URL both models are nil and every estimate degrades to Low.
func ProvideDemandPredictor(cfg *config.Config, l *applogger.Logger) domsvc.DemandPredictor {
	var baseline domsvc.BaselineModel
	var elasticity domsvc.ElasticityModel
	if cfg.Models.ServiceURL != "" {
		baseline = forecast.NewHTTPBaselineModel(cfg)
		elasticity = forecast.NewHTTPElasticityModel(cfg)
	}
	c := forecast.NewHybridCombiner(baseline, elasticity)
	c.SetLogger(l)
	return c
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideRulesEngine creates the multiplier rules engine.
func ProvideRulesEngine() *rules.Engine {
	return rules.NewEngine()
}

// ProvidePriceCalculator wires the pricing orchestrator.
func ProvidePriceCalculator(
	classifier domsvc.Classifier,
	predictor domsvc.DemandPredictor,
	history domrepo.DemandHistory,
	store *competitor.Store,
	engine *rules.Engine,
	m domrepo.Metrics,
	decisions domrepo.DecisionPublisher,
	l *applogger.Logger,
) *usecase.PriceCalculator {
	calc := usecase.NewPriceCalculator(classifier, predictor, history, store, engine, m)
	calc.SetLogger(l)
	if decisions != nil {
		calc.SetDecisionPublisher(decisions)
	}
	return calc
}

// ProvideCache selects the response cache backend: Redis when enabled,
// otherwise the in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideKafkaConsumer creates a Kafka consumer, nil without brokers.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
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

// ProvideKafkaProducer creates a Kafka producer for the decision audit
// stream, nil without brokers or a decisions topic.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Pricing.DecisionsTopic == "" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideDecisionPublisher creates the pricing decision audit log, nil when
// the producer is disabled.
func ProvideDecisionPublisher(cfg *config.Config, producer *pkgkafka.Producer) domrepo.DecisionPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaDecisionLog(producer, cfg.Pricing.DecisionsTopic)
}

// ProvideQuoteIngestHandler registers the handler for the quotes topic.
func ProvideQuoteIngestHandler(
	cfg *config.Config,
	agg *competitor.Aggregator,
	store *competitor.Store,
	l *applogger.Logger,
) *usecase.QuoteIngestHandler {
	h := usecase.NewQuoteIngestHandler(cfg.Competitor.Topic, agg, store)
	h.SetLogger(l)
	return h
}

// ProvidePricingHandler creates the HTTP handler with response caching.
func ProvidePricingHandler(l *applogger.Logger, calc *usecase.PriceCalculator, c icache.BytesCache) xhttp.Handler {
	h := api.NewPricingEchoHandler(l, calc)
	h.SetCache(c)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	store *competitor.Store,
	consumer *pkgkafka.Consumer,
	producer *pkgkafka.Producer,
	kh *usecase.QuoteIngestHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	l *applogger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	var mh pkgkafka.MessageHandler
	if consumer != nil && kh != nil && kh.Topic() != "" {
		mh = kh
	}
	app := server.New(cfg, store, consumer, producer, mh, chClient)
	app.SetHTTPHandler(handler)
	app.SetLogger(l)
	return app
}
