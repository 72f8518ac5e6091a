package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservo/config"
	"reservo/database"
	"reservo/handlers"
	"reservo/middleware"
	"reservo/routes"
	"reservo/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		port     string
		seedPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger()
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := buildApp(ctx, logger, seedPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := handlers.RegisterValidators(); err != nil {
				return err
			}

			if config.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			router := gin.New()
			router.Use(gin.Recovery())
			router.Use(utils.ErrorHandler())
			router.Use(middleware.RequestLogger(logger))
			router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
			routes.RegisterRoutes(router, handlers.NewHandlerBundle(a.engine), config.AppConfig.AllowedOriginList())

			utils.StartHealthMonitor(ctx, 30*time.Second, utils.RedisClients(), database.MongoClient)

			if port == "" {
				port = config.AppConfig.AppPort
			}
			srv := &http.Server{
				Addr:              "0.0.0.0:" + port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting server", zap.String("addr", srv.Addr))
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
			logger.Info("Server is shutting down")

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("Server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to APP_PORT)")
	cmd.Flags().StringVar(&seedPath, "seed", "", "JSON file of resources to load into the memory storage driver")
	return cmd
}
