package notification

import (
	"context"
	"errors"
	"testing"

	"reservo/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmed() models.Reservation {
	return models.Reservation{
		ID:            "r1",
		CustomerID:    "c1",
		HostID:        "h1",
		ResourceID:    "cabin",
		CapacityModel: models.CapacityRanged,
		CheckIn:       "2026-06-01",
		CheckOut:      "2026-06-03",
		Units:         2,
		TotalPrice:    300,
		Currency:      "USD",
	}
}

func TestNoticesFor_BothParties(t *testing.T) {
	notices := NoticesFor(TypeReservationConfirmed, confirmed())
	require.Len(t, notices, 2)
	assert.Equal(t, "c1", notices[0].Recipient)
	assert.Equal(t, RoleCustomer, notices[0].Role)
	assert.Equal(t, "h1", notices[1].Recipient)
	assert.Equal(t, RoleHost, notices[1].Role)
	assert.Equal(t, "cabin from 2026-06-01 to 2026-06-03, 2 units", notices[0].Summary)
}

func TestNoticesFor_CancellationCarriesRefund(t *testing.T) {
	r := confirmed()
	r.Cancellation = &models.Cancellation{Refund: 150, Reason: "plans changed"}

	n := NoticesFor(TypeReservationCancelled, r)[0]
	assert.Equal(t, 150.0, n.Amount)
	assert.Contains(t, Body(n), "Refund 150.00 USD")
	assert.Contains(t, Body(n), "plans changed")
}

type recordingQueue struct {
	got  []models.ReservationNotice
	fail bool
}

func (q *recordingQueue) EnqueueNotice(_ context.Context, n models.ReservationNotice) error {
	if q.fail {
		return errors.New("queue down")
	}
	q.got = append(q.got, n)
	return nil
}

func TestQueueNotifier(t *testing.T) {
	q := &recordingQueue{}
	require.NoError(t, NewQueueNotifier(q).Notify(context.Background(), NoticesFor(TypeReservationConfirmed, confirmed())...))
	assert.Len(t, q.got, 2)

	assert.Error(t, NewQueueNotifier(&recordingQueue{fail: true}).Notify(context.Background(), models.ReservationNotice{}))
}

type fakeMessenger struct {
	sent []*messaging.Message
}

func (m *fakeMessenger) Send(_ context.Context, msg *messaging.Message) (string, error) {
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func TestPushSender_TargetsRecipientTopic(t *testing.T) {
	m := &fakeMessenger{}
	n := NoticesFor(TypeReservationConfirmed, confirmed())[1]

	require.NoError(t, NewPushSender(m).Send(context.Background(), n))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "host_h1", m.sent[0].Topic)
	assert.Equal(t, "New reservation", m.sent[0].Notification.Title)
	assert.Equal(t, "r1", m.sent[0].Data["reservationId"])
}

func TestPushSender_RejectsMissingRecipient(t *testing.T) {
	assert.Error(t, NewPushSender(&fakeMessenger{}).Send(context.Background(), models.ReservationNotice{}))
}
