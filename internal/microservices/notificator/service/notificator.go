package service

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/events"
)

const (
	consumerTag = "kitchen-notificator"
	prefetch    = 10
)

// Source is the broker side the notificator reads from.
type Source interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
	Cancel(consumer string) error
}

// NotificatorService turns order events into kitchen notifications.
type NotificatorService struct {
	src   Source
	queue string
	lg    *logger.Logger
}

func NewNotificatorService(src Source, queue string, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{src: src, queue: queue, lg: lg}
}

// Run consumes until ctx is done or the broker closes the channel.
func (ns *NotificatorService) Run(ctx context.Context) error {
	msgs, err := ns.src.Consume(ns.queue, consumerTag, prefetch)
	if err != nil {
		return err
	}
	ns.lg.Info("notificator_started", map[string]any{"queue": ns.queue})

	for {
		select {
		case <-ctx.Done():
			if err := ns.src.Cancel(consumerTag); err != nil {
				ns.lg.Warn("consumer_cancel_failed", map[string]any{"error": err.Error()})
			}
			ns.lg.Info("notificator_stopped", nil)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			ns.handle(msg)
		}
	}
}

func (ns *NotificatorService) handle(msg amqp.Delivery) {
	var ev events.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.OrderID == 0 {
		if err == nil {
			err = errors.New("event without order id")
		}
		ns.lg.Error("event_rejected", err, map[string]any{"message_id": msg.MessageId})
		// Malformed messages would fail again on redelivery.
		_ = msg.Nack(false, false)
		return
	}

	fields := map[string]any{
		"event_id": ev.ID,
		"type":     string(ev.Type),
		"order_id": ev.OrderID,
		"status":   ev.Status,
	}
	if ev.TableNo != 0 {
		fields["table_no"] = ev.TableNo
	}
	switch ev.Type {
	case events.OrderPlaced:
		fields["total_amount"] = ev.TotalAmount
		ns.lg.Info("kitchen_new_order", fields)
	case events.OrderStatusChanged:
		fields["old_status"] = ev.OldStatus
		ns.lg.Info("kitchen_status_changed", fields)
	case events.OrderPaid:
		ns.lg.Info("kitchen_order_closed", fields)
	default:
		ns.lg.Debug("event_ignored", fields)
	}

	if err := msg.Ack(false); err != nil {
		ns.lg.Error("event_ack_failed", err, fields)
	}
}
