package di

import (
	"fmt"

	"TrendPull/internal/domain/repository"
	"TrendPull/internal/handler/api"
	"TrendPull/internal/handler/ws"
	"TrendPull/internal/leader"
	internalrepo "TrendPull/internal/repository"
	"TrendPull/internal/service/exchange"
	"TrendPull/internal/service/telegram"
	"TrendPull/internal/usecase"
	"TrendPull/pkg/config"
	xhttp "TrendPull/pkg/http"
	pkgkafka "TrendPull/pkg/kafka"
	"TrendPull/pkg/logger"
	"TrendPull/pkg/metrics"
	"TrendPull/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideGuard creates the single-monitor guard.
func ProvideGuard() *leader.Guard {
	return leader.New()
}

// ProvideCandleSource creates the exchange candle client.
func ProvideCandleSource(cfg *config.Config) repository.CandleSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Exchange.Timeout))
	return exchange.NewClient(client, cfg.Exchange.BaseURL,
		usecase.Symbol, usecase.Resolution, usecase.BarDuration, usecase.CandleWindow)
}

// ProvideNotifier creates the Telegram notifier. With no credentials it
// degrades to a logging no-op.
func ProvideNotifier(cfg *config.Config, log *logger.Logger, m repository.Metrics) repository.Notifier {
	client := xhttp.NewClient()
	return telegram.NewNotifier(client, log, m, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
}

// ProvideHub creates the WebSocket hub.
func ProvideHub(log *logger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideKafkaSink creates the Kafka event sink, or nil when no brokers are
// configured.
func ProvideKafkaSink(cfg *config.Config, log *logger.Logger) (*internalrepo.KafkaEventSink, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers...),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventSink(producer, cfg.Kafka.Topic, log), nil
}

// ProvideEventSinks collects all configured event sinks.
func ProvideEventSinks(hub *ws.Hub, kafkaSink *internalrepo.KafkaEventSink) []repository.EventSink {
	sinks := []repository.EventSink{hub}
	if kafkaSink != nil {
		sinks = append(sinks, kafkaSink)
	}
	return sinks
}

// ProvideMonitor creates the trend monitor.
func ProvideMonitor(
	source repository.CandleSource,
	notifier repository.Notifier,
	sinks []repository.EventSink,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Monitor {
	return usecase.NewMonitor(source, notifier, sinks, m, log)
}

// ProvideHandler creates the HTTP route handler.
func ProvideHandler(log *logger.Logger, monitor *usecase.Monitor, hub *ws.Hub, guard *leader.Guard) xhttp.Handler {
	return api.NewEventsHandler(log, monitor, hub, guard)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	monitor *usecase.Monitor,
	guard *leader.Guard,
	hub *ws.Hub,
	handler xhttp.Handler,
	kafkaSink *internalrepo.KafkaEventSink,
) *server.App {
	return server.New(cfg, log, monitor, guard, hub, handler, kafkaSink)
}
