// Package service holds integrations the HTTP handlers call after a
// successful write.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/tv-show-library/internal/queue"
)

// EventPublisher delivers show change events.  Implementations log their
// own failures; callers may ignore the returned error.
type EventPublisher interface {
	PublishShowEvent(ctx context.Context, ev q.ShowEvent) error
}

// NewEventPublisher returns an AMQP publisher for url, or a no-op one when
// url is empty.
func NewEventPublisher(url string, log *slog.Logger) EventPublisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{url: url, log: log}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishShowEvent(context.Context, q.ShowEvent) error { return nil }

// AMQPPublisher publishes each event on its own short-lived connection to
// the default exchange, routed to the durable shows.changed queue.
type AMQPPublisher struct {
	url string
	log *slog.Logger
}

// dialTimeout bounds dial and handshake when ctx carries no deadline.
const dialTimeout = 5 * time.Second

// PublishShowEvent marks the message persistent and never panics; any
// error is logged and returned.  The whole exchange with the broker,
// handshake included, is bounded by ctx.
func (p *AMQPPublisher) PublishShowEvent(ctx context.Context, ev q.ShowEvent) error {
	timeout := dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	err := ctx.Err()
	if err == nil && timeout <= 0 {
		err = context.DeadlineExceeded
	}
	if err != nil {
		p.log.Warn("rabbitmq: publish skipped", "error", err, "action", ev.Action, "show_id", ev.ShowID)
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()
	// a broker that stalls after the handshake is cut off at the deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.ShowsQueue, // name
		true,         // durable
		false,        // autoDelete
		false,        // exclusive
		false,        // noWait
		nil,          // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", q.ShowsQueue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", "error", err, "action", ev.Action, "show_id", ev.ShowID)
		return err
	}
	return nil
}
