package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reservo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit_ScenarioA_FillsEveryNight(t *testing.T) {
	f := newFixture(t, hotel(5))

	req := stay("2026-07-01", "2026-07-03", 5)
	res, err := f.engine.Commit(context.Background(), req, f.pay(t, req))
	require.NoError(t, err)
	assert.False(t, res.Degraded)

	r := res.Reservation
	assert.Equal(t, models.StatusConfirmed, r.Status)
	assert.Equal(t, hostID, r.HostID)
	assert.Equal(t, models.CapacityRanged, r.CapacityModel)
	assert.Equal(t, []models.LedgerKey{{Date: "2026-07-01"}, {Date: "2026-07-02"}}, r.Keys)
	assert.Equal(t, 1000.0, r.TotalPrice)
	assert.Equal(t, "2026-07-01T15:00:00Z", r.StartsAt.Format("2006-01-02T15:04:05Z07:00"))

	assert.Equal(t, []models.LedgerEntry{
		{Date: "2026-07-01", Consumed: 5},
		{Date: "2026-07-02", Consumed: 5},
	}, f.ledger(t, "hotel"))

	stored, err := f.reservations.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Keys, stored.Keys)
	assert.Len(t, f.notifier.notices, 2)
}

func TestCommit_ScenarioB_RecheckNamesTheFullNight(t *testing.T) {
	f := newFixture(t, hotel(5))

	first := stay("2026-07-01", "2026-07-03", 5)
	second := stay("2026-07-01", "2026-07-02", 1)
	firstConf := f.pay(t, first)
	// The second customer checked and paid while the night was still free.
	secondConf := f.pay(t, second)

	_, err := f.engine.Commit(context.Background(), first, firstConf)
	require.NoError(t, err)

	_, err = f.engine.Commit(context.Background(), second, secondConf)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "2026-07-01", re.Key)

	assert.Equal(t, []models.LedgerEntry{
		{Date: "2026-07-01", Consumed: 5},
		{Date: "2026-07-02", Consumed: 5},
	}, f.ledger(t, "hotel"))
}

func TestCommit_ScenarioC_FullSlotRejectsOneMore(t *testing.T) {
	f := newFixture(t, tour())

	late := slot("2026-07-01", "11:00 am", 1)
	lateConf := f.pay(t, late)

	f.commit(t, slot("2026-07-01", "11:00", 3))
	r := f.commit(t, slot("2026-07-01", " 11:00 ", 3))
	assert.Equal(t, "11:00", r.SlotStart)
	assert.Equal(t, "13:00", r.SlotEnd)
	assert.Equal(t, "2026-07-01", r.Date)

	_, err := f.engine.Commit(context.Background(), late, lateConf)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "2026-07-01 11:00", re.Key)

	assert.Equal(t, []models.LedgerEntry{{Date: "2026-07-01", Slot: "11:00", Consumed: 6}}, f.ledger(t, "tour"))
}

func TestCommit_MultiNightIsAtomic(t *testing.T) {
	f := newFixture(t, hotel(2))

	long := stay("2026-07-01", "2026-07-04", 1)
	longConf := f.pay(t, long)

	f.commit(t, stay("2026-07-02", "2026-07-03", 2))

	_, err := f.engine.Commit(context.Background(), long, longConf)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "2026-07-02", re.Key)

	// Nights 1 and 3 stay untouched.
	assert.Equal(t, []models.LedgerEntry{{Date: "2026-07-02", Consumed: 2}}, f.ledger(t, "hotel"))
}

func TestCommit_RaceForLastUnit(t *testing.T) {
	f := newFixture(t, hotel(1))

	req := stay("2026-07-01", "2026-07-02", 1)
	confs := []models.PaymentConfirmation{f.pay(t, req), f.pay(t, req)}

	var wg sync.WaitGroup
	errs := make([]error, len(confs))
	for i, conf := range confs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.engine.Commit(context.Background(), req, conf)
		}()
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, []models.LedgerEntry{{Date: "2026-07-01", Consumed: 1}}, f.ledger(t, "hotel"))

	list, err := f.engine.ListCustomerReservations(context.Background(), customerID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCommit_ManyConcurrentCommitsNeverOverbook(t *testing.T) {
	f := newFixture(t, hotel(5))

	req := stay("2026-07-01", "2026-07-03", 1)
	const n = 20
	confs := make([]models.PaymentConfirmation, n)
	for i := range confs {
		confs[i] = f.pay(t, req)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	confirmed := 0
	for _, conf := range confs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.engine.Commit(context.Background(), req, conf); err == nil {
				mu.Lock()
				confirmed++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrCapacityExceeded)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, confirmed)
	for _, e := range f.ledger(t, "hotel") {
		assert.Equal(t, 5, e.Consumed)
	}
}

func TestCommit_PersistenceFailureRollsBackLedger(t *testing.T) {
	f := newFixture(t, hotel(5))
	req := stay("2026-07-01", "2026-07-03", 2)
	conf := f.pay(t, req)

	f.reservations.failCreate = true
	_, err := f.engine.Commit(context.Background(), req, conf)
	require.ErrorIs(t, err, ErrCommitFailed)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.True(t, re.Retryable())

	assert.Empty(t, f.ledger(t, "hotel"))
	assert.Empty(t, f.notifier.notices)

	// The order survives a failed commit so the customer can retry.
	f.reservations.failCreate = false
	res, err := f.engine.Commit(context.Background(), req, conf)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Reservation.Status)
}

func TestCommit_WriteErrorAfterStoreKeepsLedger(t *testing.T) {
	f := newFixture(t, hotel(5))
	req := stay("2026-07-01", "2026-07-03", 2)

	f.reservations.failCreate = true
	f.reservations.writeThrough = true
	res, err := f.engine.Commit(context.Background(), req, f.pay(t, req))
	require.NoError(t, err)

	stored, err := f.reservations.GetByID(context.Background(), res.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	require.Len(t, f.ledger(t, "hotel"), 2)
	for _, e := range f.ledger(t, "hotel") {
		assert.Equal(t, 2, e.Consumed)
	}
}

func TestCommit_MisconfiguredResourceIsNotRetryable(t *testing.T) {
	broken := hotel(5)
	broken.Timezone = "Mars/Olympus"
	f := newFixture(t, broken)

	_, err := f.engine.Commit(context.Background(), stay("2026-07-01", "2026-07-02", 1),
		models.PaymentConfirmation{OrderID: "o", PaymentID: "p", Signature: "s"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.False(t, re.Retryable())
}

func TestCommit_NotificationFailureIsDegradedSuccess(t *testing.T) {
	f := newFixture(t, hotel(5))
	f.notifier.err = errors.New("queue unavailable")

	req := stay("2026-07-01", "2026-07-02", 1)
	res, err := f.engine.Commit(context.Background(), req, f.pay(t, req))
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnNotificationFailed, res.Warnings[0].Code)
	assert.Equal(t, []models.LedgerEntry{{Date: "2026-07-01", Consumed: 1}}, f.ledger(t, "hotel"))
}

func TestCommit_BadSignatureMutatesNothing(t *testing.T) {
	f := newFixture(t, hotel(5))
	req := stay("2026-07-01", "2026-07-02", 1)
	conf := f.pay(t, req)
	conf.Signature = f.signer.Sign(conf.OrderID, "someone-elses-payment")

	_, err := f.engine.Commit(context.Background(), req, conf)
	require.ErrorIs(t, err, ErrVerificationFailed)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "invalid payment confirmation", re.Message)
	assert.Empty(t, f.ledger(t, "hotel"))
}

func TestCommit_ConfirmationMustMatchOrder(t *testing.T) {
	f := newFixture(t, hotel(5), tour())
	req := stay("2026-07-01", "2026-07-02", 1)
	conf := f.pay(t, req)

	other := req
	other.CustomerID = "cust-2"
	_, err := f.engine.Commit(context.Background(), other, conf)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	bigger := stay("2026-07-01", "2026-07-02", 2)
	_, err = f.engine.Commit(context.Background(), bigger, conf)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	conf.OrderID = "order_unknown"
	_, err = f.engine.Commit(context.Background(), req, conf)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	assert.Empty(t, f.ledger(t, "hotel"))
}

func TestCommit_ConfirmationCannotBeReplayed(t *testing.T) {
	f := newFixture(t, hotel(5))
	req := stay("2026-07-01", "2026-07-02", 1)
	conf := f.pay(t, req)

	_, err := f.engine.Commit(context.Background(), req, conf)
	require.NoError(t, err)
	_, err = f.engine.Commit(context.Background(), req, conf)
	require.ErrorIs(t, err, ErrVerificationFailed)

	assert.Equal(t, []models.LedgerEntry{{Date: "2026-07-01", Consumed: 1}}, f.ledger(t, "hotel"))
}

func TestCommit_VerificationTimeoutIsRetryable(t *testing.T) {
	f := newFixture(t, hotel(5))
	f.engine.policy.VerifyTimeout = 10 * time.Millisecond
	req := stay("2026-07-01", "2026-07-02", 1)
	conf := f.pay(t, req)

	f.gateway.block = true
	_, err := f.engine.Commit(context.Background(), req, conf)
	require.ErrorIs(t, err, ErrCommitFailed)
	assert.Empty(t, f.ledger(t, "hotel"))
}

func TestCommit_RejectsBadInput(t *testing.T) {
	f := newFixture(t, hotel(5), tour())
	ctx := context.Background()
	conf := models.PaymentConfirmation{OrderID: "o", PaymentID: "p", Signature: "s"}

	tests := []struct {
		name string
		req  models.ReservationRequest
		want error
	}{
		{"unknown resource", models.ReservationRequest{ResourceID: "nope", CustomerID: customerID, Units: 1}, ErrNotFound},
		{"zero nights", stay("2026-07-02", "2026-07-02", 1), ErrInvalidRequest},
		{"checkout before checkin", stay("2026-07-03", "2026-07-01", 1), ErrInvalidRequest},
		{"zero units", stay("2026-07-01", "2026-07-02", 0), ErrInvalidRequest},
		{"unknown slot", slot("2026-07-01", "12:00", 1), ErrInvalidRequest},
		{"bad date", slot("07/01/2026", "11:00", 1), ErrInvalidRequest},
		{"wrong price", func() models.ReservationRequest {
			r := stay("2026-07-01", "2026-07-02", 1)
			r.TotalPrice = 1
			return r
		}(), ErrInvalidRequest},
		{"no customer", func() models.ReservationRequest {
			r := stay("2026-07-01", "2026-07-02", 1)
			r.CustomerID = ""
			return r
		}(), ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Commit(ctx, tt.req, conf)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.ledger(t, "hotel"))
	assert.Empty(t, f.ledger(t, "tour"))
}
