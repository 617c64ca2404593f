// Package events publishes order lifecycle notifications to the broker.
// Publishing happens after the database commit and is best-effort.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/common/metrics"
)

type Type string

const (
	OrderPlaced        Type = "order.placed"
	OrderStatusChanged Type = "order.status_changed"
	OrderPaid          Type = "order.paid"
)

type Event struct {
	ID          string    `json:"event_id"`
	Type        Type      `json:"type"`
	OrderID     int64     `json:"order_id"`
	Status      string    `json:"status"`
	OldStatus   string    `json:"old_status,omitempty"`
	TableNo     int       `json:"table_no,omitempty"`
	TotalAmount string    `json:"total_amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func New(t Type, orderID int64, status string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    orderID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when the broker is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table,
		contentType, messageID string, persistent bool) error
}

type AMQPPublisher struct {
	client   broker
	exchange string
	timeout  time.Duration
	m        *metrics.Metrics
}

func NewAMQPPublisher(client broker, exchange string, m *metrics.Metrics) *AMQPPublisher {
	return &AMQPPublisher{client: client, exchange: exchange, timeout: 3 * time.Second, m: m}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.client.Publish(ctx, p.exchange, string(ev.Type), body,
		amqp.Table{"x-source": "restaurant-api", "x-event-type": string(ev.Type)},
		"application/json", ev.ID, true)
	if p.m != nil {
		p.m.EventsPublished.WithLabelValues(string(ev.Type), metrics.Result(err)).Inc()
	}
	return errors.Wrapf(err, "publish %s for order %d", ev.Type, ev.OrderID)
}
