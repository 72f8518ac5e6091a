package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservo/database/repository"
	resourceRepo "reservo/database/repository/resource"
	"reservo/models"
	"reservo/services/capacity"
	"reservo/services/locker"

	"go.uber.org/zap"
)

// maxWriteAttempts bounds optimistic retries of a ledger write that lost a
// version race to another process.
const maxWriteAttempts = 3

// ErrContention is returned when a ledger write kept losing version races.
var ErrContention = errors.New("ledger is under contention")

// Store is the only writer of resource ledgers. Every read-modify-write runs
// inside WithResource, which holds the per-resource lock.
type Store struct {
	Resources resourceRepo.ResourceRepository
	Locker    locker.Locker
	Logger    *zap.Logger
	// LockWait caps how long WithResource waits for the lock. Zero leaves
	// it to the caller's context.
	LockWait time.Duration
}

func NewStore(resources resourceRepo.ResourceRepository, l locker.Locker, logger *zap.Logger) *Store {
	return &Store{Resources: resources, Locker: l, Logger: logger}
}

// Snapshot loads a resource and its ledger without locking. The result may be
// stale by the time the caller acts on it.
func (s *Store) Snapshot(ctx context.Context, resourceID string) (*Tx, error) {
	return s.load(ctx, resourceID)
}

// WithResource locks the resource, loads it, and runs fn. Waiting for the
// lock honours ctx; once the lock is held fn runs with a context that is no
// longer cancelled by the caller so a started mutation always finishes.
func (s *Store) WithResource(ctx context.Context, resourceID string, fn func(tx *Tx) error) error {
	lockCtx := ctx
	if s.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.LockWait)
		defer cancel()
	}
	unlock, err := s.Locker.Lock(lockCtx, resourceID)
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := s.load(context.WithoutCancel(ctx), resourceID)
	if err != nil {
		return err
	}
	return fn(tx)
}

func (s *Store) load(ctx context.Context, resourceID string) (*Tx, error) {
	res, err := s.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	model, err := capacity.For(*res)
	if err != nil {
		return nil, err
	}
	return &Tx{
		ctx:      ctx,
		store:    s,
		Resource: *res,
		Model:    model,
		ledger:   NewLedger(model, res.Ledger),
	}, nil
}

// Tx is a loaded resource plus its ledger. Increase and Decrease persist
// immediately.
type Tx struct {
	ctx      context.Context
	store    *Store
	Resource models.Resource
	Model    capacity.Model
	ledger   *Ledger
}

func (tx *Tx) Context() context.Context { return tx.ctx }

func (tx *Tx) ConsumedAt(key models.LedgerKey) int { return tx.ledger.ConsumedAt(key) }

// Admit runs the conflict check against the loaded ledger.
func (tx *Tx) Admit(keys []models.LedgerKey, amount int) Decision {
	return Admit(tx.Model, tx.ledger, keys, amount)
}

// Entries exposes the current ledger state.
func (tx *Tx) Entries() []models.LedgerEntry { return tx.ledger.Entries() }

// Increase re-checks admission and persists the increase as one write. A
// rejected decision leaves the ledger untouched and returns a nil error.
func (tx *Tx) Increase(keys []models.LedgerKey, amount int) (Decision, error) {
	var d Decision
	err := tx.write(func(next *Ledger) bool {
		d = next.Increase(keys, amount)
		return d.Admitted
	})
	return d, err
}

// Decrease persists a release at every key and returns the units released.
func (tx *Tx) Decrease(keys []models.LedgerKey, amount int) (int, error) {
	var released int
	err := tx.write(func(next *Ledger) bool {
		released = next.Decrease(keys, amount)
		return true
	})
	if err == nil && released < len(keys)*amount {
		tx.store.Logger.Warn("ledger release clamped at zero",
			zap.String("resource_id", tx.Resource.ID),
			zap.Int("expected", len(keys)*amount),
			zap.Int("released", released),
		)
	}
	return released, err
}

// write applies mutate to a copy of the ledger and saves it under the loaded
// version. On a version conflict it reloads and tries again.
func (tx *Tx) write(mutate func(next *Ledger) bool) error {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		next := tx.ledger.Clone()
		if !mutate(next) {
			return nil
		}

		entries := next.Entries()
		err := tx.store.Resources.UpdateLedger(tx.ctx, tx.Resource.ID, tx.Resource.LedgerVersion, entries)
		if err == nil {
			tx.ledger = next
			tx.Resource.Ledger = entries
			tx.Resource.LedgerVersion++
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}

		tx.store.Logger.Info("ledger version conflict, reloading",
			zap.String("resource_id", tx.Resource.ID),
			zap.Int("attempt", attempt),
		)
		fresh, err := tx.store.load(tx.ctx, tx.Resource.ID)
		if err != nil {
			return err
		}
		tx.Resource, tx.Model, tx.ledger = fresh.Resource, fresh.Model, fresh.ledger
	}
	return fmt.Errorf("%w: resource %s", ErrContention, tx.Resource.ID)
}
