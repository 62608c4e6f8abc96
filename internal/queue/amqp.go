package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"leadengine/internal/config"
)

// maxDeliveries bounds how many times a failing job is redelivered before it
// is dropped with an acknowledgement.
const maxDeliveries = 3

// AMQP implements Publisher and Consumer over a durable RabbitMQ queue.
type AMQP struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue amqp.Queue
}

var (
	_ Publisher = (*AMQP)(nil)
	_ Consumer  = (*AMQP)(nil)
)

// NewAMQP dials the broker and declares the outreach queue. The queue is a
// quorum queue so the broker stamps x-delivery-count on redeliveries and
// drops a delivery once x-delivery-limit is spent.
func NewAMQP(cfg config.AMQPConfig) (*AMQP, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("amqp url is required")
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("amqp queue name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-queue-type":     "quorum",
			"x-delivery-limit": int32(maxDeliveries),
		},
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQP{conn: conn, ch: ch, queue: q}, nil
}

// Publish enqueues a single outreach job as persistent JSON.
func (a *AMQP) Publish(_ context.Context, job OutreachJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return a.ch.Publish(
		"",
		a.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume feeds deliveries to handle until ctx is canceled. Malformed bodies
// are acknowledged and skipped. Handler failures requeue the delivery until
// maxDeliveries is reached.
func (a *AMQP) Consume(ctx context.Context, handle func(context.Context, OutreachJob) error) error {
	msgs, err := a.ch.Consume(
		a.queue.Name,
		"",
		false, // manual ack for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed")
			}
			var job OutreachJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				d.Ack(false)
				continue
			}
			if err := handle(ctx, job); err != nil {
				if !d.Redelivered || deliveryAttempt(d) < maxDeliveries {
					d.Nack(false, true)
					continue
				}
			}
			d.Ack(false)
		}
	}
}

func deliveryAttempt(d amqp.Delivery) int {
	if v, ok := d.Headers["x-delivery-count"]; ok {
		if n, ok := v.(int32); ok {
			return int(n)
		}
		if n, ok := v.(int64); ok {
			return int(n)
		}
	}
	return 1
}

// Close releases the channel and the underlying connection.
func (a *AMQP) Close() error {
	if err := a.ch.Close(); err != nil {
		a.conn.Close()
		return err
	}
	return a.conn.Close()
}
