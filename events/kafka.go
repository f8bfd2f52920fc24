package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Kariqs/tiendeo-api/models"
	"github.com/segmentio/kafka-go"
)

type KafkaMessage struct {
	EventID   string                   `json:"eventId"`
	Type      models.OrderEventType    `json:"type"`
	StoreID   string                   `json:"storeId"`
	OrderID   string                   `json:"orderId"`
	CreatedAt time.Time                `json:"createdAt"`
	Payload   models.OrderEventPayload `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *KafkaPublisher) Name() string { return "kafka" }

// Deliver keys messages by order id so all events of one order land on the same
// partition. Delivery order is not guaranteed; consumers order by createdAt.
func (k *KafkaPublisher) Deliver(ctx context.Context, event models.OrderEvent) error {
	payload, err := event.DecodePayload()
	if err != nil {
		return err
	}
	msg, err := json.Marshal(KafkaMessage{
		EventID:   event.ID,
		Type:      event.Type,
		StoreID:   event.StoreID,
		OrderID:   event.OrderID,
		CreatedAt: event.CreatedAt,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
