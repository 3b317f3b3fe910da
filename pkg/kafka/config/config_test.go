package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enabled {
		t.Error("expected kafka to be disabled by default")
	}
	if cfg.BookingEventsTopic != DefaultBookingEventsTopic {
		t.Errorf("unexpected booking topic %s", cfg.BookingEventsTopic)
	}
	if got := cfg.DLQTopic(cfg.InventoryAlertsTopic); got != DefaultInventoryAlertsTopic+DefaultDLQSuffix {
		t.Errorf("unexpected dlq topic %s", got)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaEnabled, "true")
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(EnvInventoryAlertsTopic, "alerts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Enabled {
		t.Error("expected kafka to be enabled")
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("brokers not trimmed: %v", cfg.Brokers)
	}
	if cfg.InventoryAlertsTopic != "alerts" {
		t.Errorf("unexpected alerts topic %s", cfg.InventoryAlertsTopic)
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "2")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "1. ProducerCompression") || !strings.Contains(msg, "2. ProducerRequireAcks") {
		t.Errorf("expected numbered errors, got %q", msg)
	}
}

func TestDLQTopic_Disabled(t *testing.T) {
	cfg := &Config{}
	if got := cfg.DLQTopic("events"); got != "" {
		t.Errorf("expected empty dlq topic, got %q", got)
	}
}

func TestValidate_TopicsMustDiffer(t *testing.T) {
	t.Setenv(EnvBookingEventsTopic, "hotel.events")
	t.Setenv(EnvInventoryAlertsTopic, "hotel.events")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected topic clash error, got %v", err)
	}
}
