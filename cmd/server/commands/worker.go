package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/mailer"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume queued mail tasks and deliver them",
	Long: `Consume the mail task queue on RABBITMQ_URL and deliver each task with
the configured mail transport. Reconnects with backoff until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Queue.URL == "" {
			return errors.New("RABBITMQ_URL is required for the worker")
		}

		m, err := mailer.New(cfg.Mail)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return queue.StartMailConsumer(ctx, cfg.Queue.URL, m, logger)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
