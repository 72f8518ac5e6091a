package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservo/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task.Type(), task.Payload())
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func TestNotifyTaskRoundTrip(t *testing.T) {
	notice := models.ReservationNotice{
		Type:          "reservation_confirmed",
		Recipient:     "c1",
		Role:          "customer",
		ReservationID: "r1",
		StartsAt:      time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC),
		Amount:        120,
	}
	task, opts, err := NewNotifyTask(notice)
	require.NoError(t, err)
	assert.Equal(t, TypeNotifyReservation, task.Type())
	assert.NotEmpty(t, opts)

	got, err := ParseNotifyTask(task)
	require.NoError(t, err)
	assert.Equal(t, notice, got)
}

func TestParseRefundTask_RequiresReservation(t *testing.T) {
	_, err := ParseRefundTask(asynq.NewTask(TypeRetryRefund, []byte(`{}`)))
	assert.Error(t, err)

	task, _, err := NewRefundTask("r1")
	require.NoError(t, err)
	p, err := ParseRefundTask(task)
	require.NoError(t, err)
	assert.Equal(t, "r1", p.ReservationID)
}

func TestQueue_EnqueueNotice(t *testing.T) {
	m := &mockEnqueuer{}
	m.On("EnqueueContext", TypeNotifyReservation, mock.Anything).Return(&asynq.TaskInfo{ID: "t1"}, nil).Once()

	q := NewQueue(m, zap.NewNop())
	require.NoError(t, q.EnqueueNotice(context.Background(), models.ReservationNotice{Type: "reservation_confirmed"}))
	m.AssertExpectations(t)
}

func TestQueue_RefundRetryConflictIsScheduled(t *testing.T) {
	m := &mockEnqueuer{}
	m.On("EnqueueContext", TypeRetryRefund, mock.Anything).Return(nil, asynq.ErrTaskIDConflict).Once()

	q := NewQueue(m, zap.NewNop())
	assert.NoError(t, q.ScheduleRefundRetry(context.Background(), "r1"))
}

func TestQueue_RefundRetryError(t *testing.T) {
	m := &mockEnqueuer{}
	m.On("EnqueueContext", TypeRetryRefund, mock.Anything).Return(nil, errors.New("redis down")).Once()

	q := NewQueue(m, zap.NewNop())
	assert.Error(t, q.ScheduleRefundRetry(context.Background(), "r1"))
}
