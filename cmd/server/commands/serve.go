package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/webshop-service/configs"
	"github.com/quochao170402/ecommerce-aws/webshop-service/internal/queue"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := configs.SetupDatabase(cfg)
	if err != nil {
		return err
	}
	if err := configs.InitDatabase(ctx, db, configs.NewRoleRegistry(db, cfg, logger)); err != nil {
		return err
	}

	products, err := configs.NewProductCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	dispatcher, err := configs.NewMailDispatcher(cfg, logger)
	if err != nil {
		return err
	}

	redisClient := configs.NewRedisClient(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.App.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	configs.SetupRoutes(router, configs.Dependencies{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Catalog: products,
		Mail:    dispatcher,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.App.AppPort, "env", cfg.App.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Let in-flight fire-and-forget mail finish.
	if waiter, ok := unwrapAsync(dispatcher); ok {
		waiter.Wait()
	}
	return nil
}

func unwrapAsync(d queue.Dispatcher) (*queue.AsyncDispatcher, bool) {
	switch v := d.(type) {
	case *queue.AsyncDispatcher:
		return v, true
	case *queue.AMQPDispatcher:
		return unwrapAsync(v.Fallback())
	}
	return nil, false
}
