package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"reservo/config"
	"reservo/cron"
	"reservo/database"
	resourceRepo "reservo/database/repository/resource"
	reservationRepo "reservo/database/repository/reservation"
	"reservo/models"
	"reservo/services/availability"
	"reservo/services/locker"
	"reservo/services/notification"
	"reservo/services/payment"
	"reservo/services/reservation"
	"reservo/services/tasks"
	"reservo/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// app holds the engine and everything that must be closed on shutdown.
type app struct {
	engine  *reservation.Engine
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp connects the configured drivers and assembles the engine.
// seedPath is only honoured by the memory storage driver.
func buildApp(ctx context.Context, logger *zap.Logger, seedPath string) (*app, error) {
	cfg := config.AppConfig
	a := &app{}
	clock := utils.NewSystemClock()

	var (
		resources    resourceRepo.ResourceRepository
		reservations reservationRepo.ReservationRepository
		orders       payment.OrderStore
	)
	switch cfg.StorageDriver {
	case "mongo":
		if err := database.InitDB(logger); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.CloseDB)
		resources = resourceRepo.NewMongoResourceRepo()
		reservations = reservationRepo.NewMongoReservationRepo()
		if err := resources.EnsureIndexes(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("resource indexes: %w", err)
		}
		if err := reservations.EnsureIndexes(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("reservation indexes: %w", err)
		}

		if err := utils.InitCache(); err != nil {
			a.Close()
			return nil, fmt.Errorf("order store: %w", err)
		}
		a.closers = append(a.closers, utils.CloseCache)
		orders = payment.NewRedisOrderStore(utils.CacheClient, cfg.OrderTTL)
	case "memory":
		seed, err := loadSeed(seedPath)
		if err != nil {
			return nil, err
		}
		resources = resourceRepo.NewMemoryResourceRepo(seed...)
		reservations = reservationRepo.NewMemoryReservationRepo()
		orders = payment.NewMemoryOrderStore(cfg.OrderTTL, clock)
		logger.Warn("Using in-memory storage, data is lost on restart", zap.Int("seeded_resources", len(seed)))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	var l locker.Locker
	switch cfg.LockDriver {
	case "redis":
		if err := utils.InitLockCache(); err != nil {
			a.Close()
			return nil, fmt.Errorf("lock store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = utils.LockClient.Close() })
		l = locker.NewRedisLocker(utils.LockClient, cfg.LockTTL, logger)
	case "memory":
		l = locker.NewKeyedMutex()
	default:
		a.Close()
		return nil, fmt.Errorf("unknown LOCK_DRIVER %q", cfg.LockDriver)
	}
	store := availability.NewStore(resources, l, logger)
	store.LockWait = cfg.LockWait

	signer := payment.NewSigner(cfg.PaymentSigningSecret)
	var gateway payment.Gateway
	if cfg.StripeKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeKey, signer, logger)
	} else {
		if config.IsProduction() {
			a.Close()
			return nil, errors.New("STRIPE_KEY is required in production")
		}
		logger.Warn("STRIPE_KEY not set, using the local payment gateway")
		gateway = payment.NewLocalGateway(signer, logger)
	}

	var (
		notifier notification.Notifier
		refunds  reservation.RefundScheduler
	)
	switch cfg.NotifyDriver {
	case "queue":
		client := asynq.NewClient(cron.RedisOpt())
		a.closers = append(a.closers, func() { _ = client.Close() })
		queue := tasks.NewQueue(client, logger)
		notifier = notification.NewQueueNotifier(queue)
		refunds = queue
	case "log":
		notifier = notification.NewLogNotifier(logger)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown NOTIFY_DRIVER %q", cfg.NotifyDriver)
	}

	engine, err := reservation.NewEngine(reservation.Deps{
		Store:        store,
		Reservations: reservations,
		Gateway:      gateway,
		Orders:       orders,
		Notifier:     notifier,
		Refunds:      refunds,
		Clock:        clock,
		Policy: reservation.Policy{
			HostNoticeRanged:  cfg.HostNoticeRanged,
			HostNoticeSlotted: cfg.HostNoticeSlotted,
			VerifyTimeout:     cfg.PaymentVerifyTimeout,
		},
		Logger: logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine
	return a, nil
}

// loadSeed reads a JSON array of resources.
func loadSeed(path string) ([]models.Resource, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var out []models.Resource
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, r := range out {
		if r.ID == "" {
			return nil, fmt.Errorf("seed file %s: resource %d has no id", path, i)
		}
	}
	return out, nil
}
