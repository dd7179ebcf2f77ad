package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
)

const (
	defaultSendTimeout = 30 * time.Second
	// dialTimeout bounds the TCP connect plus the AMQP handshake.
	dialTimeout = 2 * time.Second
)

// AsyncDispatcher sends each task from its own goroutine.
type AsyncDispatcher struct {
	mailer  mailer.Mailer
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(m mailer.Mailer, logger *slog.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{
		mailer:  m,
		logger:  logger.With("component", "mail.dispatcher"),
		timeout: defaultSendTimeout,
	}
}

// Dispatch detaches from the request context so the send outlives the response.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, task MailTask) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.mailer.Send(sendCtx, task.Message()); err != nil {
			d.logger.Error("email unexpected error", "subject", task.Subject, "to", task.To, "reason", task.Reason, "error", err)
			return
		}
		d.logger.Info("email sent", "subject", task.Subject, "to", task.To, "reason", task.Reason)
	}()
}

// Wait blocks until every dispatched send has finished.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

// AMQPDispatcher publishes tasks to the durable mail queue. When the broker
// cannot be reached the task is sent through the fallback instead.
type AMQPDispatcher struct {
	url      string
	logger   *slog.Logger
	fallback Dispatcher
	publish  func(ctx context.Context, url string, body []byte) error
}

func NewAMQPDispatcher(url string, fallback Dispatcher, logger *slog.Logger) *AMQPDispatcher {
	return &AMQPDispatcher{
		url:      url,
		logger:   logger.With("component", "mail.publisher"),
		fallback: fallback,
		publish:  publishPersistent,
	}
}

// Fallback returns the dispatcher used when publishing fails.
func (d *AMQPDispatcher) Fallback() Dispatcher {
	return d.fallback
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, task MailTask) {
	body, err := json.Marshal(task)
	if err != nil {
		d.logger.Error("marshal mail task failed", "reason", task.Reason, "error", err)
		return
	}
	if err := d.publish(ctx, d.url, body); err != nil {
		d.logger.Error("publish mail task failed, sending directly", "reason", task.Reason, "error", err)
		if d.fallback != nil {
			d.fallback.Dispatch(ctx, task)
		}
		return
	}
	d.logger.Info("mail task queued", "subject", task.Subject, "to", task.To, "reason", task.Reason)
}

func dial(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
}

func publishPersistent(ctx context.Context, url string, body []byte) error {
	conn, err := dial(url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(MailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx,
		"",            // default exchange
		MailQueueName, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
