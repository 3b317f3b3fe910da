package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelops/internal/notifier"
	"hotelops/pkg/config"
	"hotelops/pkg/kafka"
	kafkamw "hotelops/pkg/kafka/middleware"
)

const (
	ServiceName   = "alert-notifier"
	statsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)

	if cfg.Kafka == nil || !cfg.Kafka.Enabled {
		cfg.Log.Fatal("Alert notifier requires Kafka, set KAFKA_ENABLED=true")
	}

	alertNotifier := notifier.NewAlertNotifier(cfg.Log)
	topic := cfg.Kafka.InventoryAlertsTopic

	consumer, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.Log,
		topic,
		cfg.Kafka.AlertNotifierGroupID,
		cfg.Kafka.DLQTopic(topic),
		alertNotifier.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "topic", topic, "error", err)
	}

	metrics := kafkamw.NewMetrics()
	if cfg.Kafka.EnableMiddleware {
		consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportStats(ctx, cfg, alertNotifier, metrics, consumer)

	cfg.Log.Info("Starting alert notifier",
		"topic", topic,
		"group_id", cfg.Kafka.AlertNotifierGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Shutting down alert notifier")
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Alert notifier stopped", "stats", alertNotifier.Stats())
}

func reportStats(ctx context.Context, cfg *config.Config, n *notifier.AlertNotifier, metrics *kafkamw.Metrics, consumer *kafka.Consumer) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cfg.Log.Info("Alert notifier stats",
				"notifier", n.Stats(),
				"kafka", metrics.Snapshot(),
				"lag", consumer.Lag(),
			)
		}
	}
}
