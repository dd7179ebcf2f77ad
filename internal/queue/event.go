// Package queue hands mail delivery off the request path, either to a
// RabbitMQ queue drained by the worker or to a local goroutine.
package queue

import (
	"context"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
)

const MailQueueName = "mail.send"

// MailTask is the payload published to the mail queue.
type MailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	// Reason is only used for logging, e.g. "password-reset".
	Reason string `json:"reason"`
}

func (t MailTask) Message() mailer.Message {
	return mailer.Message{To: t.To, Subject: t.Subject, HTML: t.HTML}
}

// Dispatcher accepts a task without blocking on delivery. Failures are logged
// by the implementation and never reported to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, task MailTask)
}
