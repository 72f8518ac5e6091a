// Package locker serializes ledger read-modify-write sequences per resource.
package locker

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when a lock could not be acquired before the
// context ended.
var ErrLockTimeout = errors.New("timed out waiting for resource lock")

// Locker hands out exclusive locks keyed by resource id. The returned unlock
// function is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
