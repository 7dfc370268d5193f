package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// PaymentConfirmedEvent mirrors the payment collaborator's confirmation
// payload. Delivery is at-least-once; replays are tolerated downstream.
type PaymentConfirmedEvent struct {
	OrderID    string `json:"order_id"`
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

// OrderPlacer is the single entry point the consumer drives.
type OrderPlacer interface {
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) error
}

type Consumer struct {
	orders OrderPlacer
	reader *kafka.Reader
}

func NewConsumer(orders OrderPlacer, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "payment-events",
		GroupID:  "ordering-service",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{orders, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	c.handleEvent(ctx, m.Value)
}

func (c *Consumer) handleEvent(ctx context.Context, payload []byte) {
	event, err := ParseEvent(payload)
	if err != nil {
		log.Printf("skipping payment event: %v", err)
		return
	}
	if event.Status != "paid" {
		log.Printf("ignoring payment event with status %q for order %s", event.Status, event.OrderID)
		return
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		log.Printf("invalid order_id %q in payment event: %v", event.OrderID, err)
		return
	}

	if err := c.orders.MarkOrderPaid(ctx, orderID, event.PaymentRef); err != nil {
		log.Printf("failed to mark order %s paid: %v", orderID, err)
		return
	}
	log.Printf("payment confirmation processed for order %s", orderID)
}

func ParseEvent(payload []byte) (*PaymentConfirmedEvent, error) {
	var event PaymentConfirmedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.OrderID == "" {
		return nil, errors.New("payment event missing order_id")
	}
	return &event, nil
}
