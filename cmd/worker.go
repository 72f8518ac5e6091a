package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"reservo/cron"
	"reservo/services/notification"
	"reservo/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background worker for notices and refund retries",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := utils.GetLogger()
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := buildApp(ctx, logger, "")
			if err != nil {
				return err
			}
			defer a.Close()

			var sender cron.NoticeSender
			if err := utils.FirebaseInit(ctx); err != nil {
				logger.Warn("Push delivery disabled, notices will only be logged", zap.Error(err))
				sender = cron.LogSender{Notifier: notification.NewLogNotifier(logger)}
			} else {
				sender = notification.NewPushSender(utils.FCMClient)
			}

			return cron.Run(ctx, sender, a.engine, logger)
		},
	}
}
