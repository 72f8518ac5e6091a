package reservationRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservo/database/repository"
	"reservo/models"
)

func TestMemoryReservationRepo_CancelOnlyFromConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepo()
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "res-1", OrderID: "o1", Status: models.StatusConfirmed}))

	c := models.Cancellation{By: "cust", At: time.Now().UTC(), RefundState: models.RefundPending}
	require.NoError(t, repo.MarkCancelled(ctx, "res-1", c))

	err := repo.MarkCancelled(ctx, "res-1", c)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)

	got, err := repo.GetByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	require.NotNil(t, got.Cancellation)
	assert.Equal(t, "cust", got.Cancellation.By)
}

func TestMemoryReservationRepo_OrderCanOnlyBeUsedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepo()
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "res-1", OrderID: "o1"}))

	err := repo.Create(ctx, &models.Reservation{ID: "res-2", OrderID: "o1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestMemoryReservationRepo_UpdateRefundRequiresCancelled(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepo()
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "res-1", Status: models.StatusConfirmed}))

	err := repo.UpdateRefund(ctx, "res-1", models.RefundSucceeded, 1, "")
	assert.ErrorIs(t, err, repository.ErrStatusConflict)

	require.NoError(t, repo.MarkCancelled(ctx, "res-1", models.Cancellation{At: time.Now()}))
	require.NoError(t, repo.UpdateRefund(ctx, "res-1", models.RefundFailed, 2, "gateway down"))

	got, err := repo.GetByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, models.RefundFailed, got.Cancellation.RefundState)
	assert.Equal(t, 2, got.Cancellation.Attempts)
}

func TestMemoryReservationRepo_ListByCustomerSortedByStart(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepo()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "b", CustomerID: "c1", StartsAt: now.Add(48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "a", CustomerID: "c1", StartsAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Reservation{ID: "z", CustomerID: "c2", StartsAt: now}))

	list, err := repo.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}
