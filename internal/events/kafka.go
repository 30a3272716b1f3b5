// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	kafkaGo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes JSON events to a single Kafka topic.
type KafkaPublisher struct {
	writer *kafkaGo.Writer
}

// NewKafkaPublisher creates a publisher for the given comma-separated
// broker list. It returns a NopPublisher when brokers is empty so the
// service runs without Kafka.
func NewKafkaPublisher(brokers, topic string) Publisher {
	addrs := splitBrokers(brokers)
	if len(addrs) == 0 {
		slog.Info("kafka not configured, events disabled")
		return NopPublisher{}
	}
	slog.Info("kafka publisher ready", "brokers", addrs, "topic", topic)
	return &KafkaPublisher{writer: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafkaGo.LeastBytes{},
		AllowAutoTopicCreation: true,
	}}
}

// Publish encodes the event and writes it with key as the message key.
func (k *KafkaPublisher) Publish(ctx context.Context, key string, event Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("write event %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
