package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type orderCreatedItem struct {
	ProductID       int64           `json:"product_id"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type orderCreatedEvent struct {
	OrderID     string           `json:"order_id"`
	UserID      int64            `json:"user_id"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Items       []orderCreatedItem `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notifier publishes order-created events for the notification fan-out
// (admin alerts, email, WhatsApp). Delivery is best-effort and sits entirely
// outside the placement transaction: a publish failure is logged and the
// placement result is unaffected.
type Notifier struct {
	writer  *kafka.Writer
	timeout time.Duration
	log     *logrus.Logger
}

func NewNotifier(log *logrus.Logger, brokers ...string) *Notifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Notifier{writer: w, timeout: 5 * time.Second, log: log}
}

// OrderCreated fires and forgets. Callers invoke it after a successful
// placement; there is nothing to roll back if it fails.
func (n *Notifier) OrderCreated(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.publish(ctx, order); err != nil {
		n.log.WithField("order_id", order.ID).WithError(err).Warn("order-created notification failed")
	}
}

func (n *Notifier) publish(ctx context.Context, order *domain.Order) error {
	items := make([]orderCreatedItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = orderCreatedItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		}
	}

	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:     order.ID.String(),
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order-created event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.created")},
		},
	}
	return n.writer.WriteMessages(ctx, msg)
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
