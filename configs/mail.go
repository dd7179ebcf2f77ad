package configs

import (
	"log/slog"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
)

// NewMailDispatcher sends in-process unless a broker URL is configured, in
// which case tasks go to the queue with in-process sending as fallback.
func NewMailDispatcher(cfg *Config, logger *slog.Logger) (queue.Dispatcher, error) {
	m, err := mailer.New(cfg.Mail)
	if err != nil {
		return nil, err
	}
	async := queue.NewAsyncDispatcher(m, logger)
	if cfg.Queue.URL == "" {
		return async, nil
	}
	return queue.NewAMQPDispatcher(cfg.Queue.URL, async, logger), nil
}
