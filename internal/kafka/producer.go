package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-marketplace/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes one message to a topic. A nil producer (Kafka disabled)
// drops the message.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	if p == nil || p.Writer == nil {
		return nil
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishEventCreated streams the event creation to Kafka
func (p *Producer) PublishEventCreated(topic string, event models.Event) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(topic, fmt.Sprintf("%d", event.ID), msgBytes)
}

// PublishListingCreated streams the listing creation to Kafka
func (p *Producer) PublishListingCreated(topic string, listing models.Listing) error {
	msgBytes, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return p.Publish(topic, fmt.Sprintf("%d", listing.ID), msgBytes)
}

// PublishOrderCreated streams the order creation to Kafka
func (p *Producer) PublishOrderCreated(topic string, order models.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.Publish(topic, fmt.Sprintf("%d", order.ID), msgBytes)
}

// PublishReportFiled streams a new moderation report to Kafka
func (p *Producer) PublishReportFiled(topic string, report models.Report) error {
	msgBytes, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return p.Publish(topic, fmt.Sprintf("%d", report.ID), msgBytes)
}

func (p *Producer) Close() error {
	if p == nil || p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
