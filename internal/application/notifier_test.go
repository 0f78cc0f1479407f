package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireForm/internal/tasks"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestTaskNotifier_EnqueuesReceivedTask(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := NewTaskNotifier(enq)
	created := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

	ctx := ContextWithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, n.ApplicationReceived(ctx, Record{ID: 7, FullName: "Mona", City: "Cairo", CreatedAt: created}))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypeApplicationReceived, enq.tasks[0].Type())

	payload, err := tasks.ParseApplicationReceived(enq.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, uint(7), payload.ApplicationID)
	assert.Equal(t, "Mona", payload.FullName)
	assert.Equal(t, "corr-1", payload.CorrelationID)
	assert.True(t, payload.CreatedAt.Equal(created))
}

func TestTaskNotifier_EnqueueFailure(t *testing.T) {
	n := NewTaskNotifier(&fakeEnqueuer{err: errors.New("redis unavailable")})
	err := n.ApplicationReceived(context.Background(), Record{ID: 1})
	assert.Error(t, err)
}
