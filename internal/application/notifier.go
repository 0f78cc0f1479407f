package application

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"hireForm/internal/tasks"
)

// Enqueuer is the subset of *asynq.Client used by TaskNotifier.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type correlationIDKey struct{}

// ContextWithCorrelationID 将请求的 Correlation ID 带入后续异步任务。
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func correlationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// TaskNotifier 通过 asynq 投递 application:received 任务。
type TaskNotifier struct {
	client Enqueuer
}

// NewTaskNotifier wraps an asynq client.
func NewTaskNotifier(client Enqueuer) *TaskNotifier {
	return &TaskNotifier{client: client}
}

// ApplicationReceived enqueues the post-commit notification for rec.
func (n *TaskNotifier) ApplicationReceived(ctx context.Context, rec Record) error {
	task, err := tasks.NewApplicationReceivedTask(tasks.ApplicationReceivedPayload{
		ApplicationID: rec.ID,
		FullName:      rec.FullName,
		City:          rec.City,
		CreatedAt:     rec.CreatedAt,
		CorrelationID: correlationIDFrom(ctx),
	})
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", tasks.TypeApplicationReceived, err)
	}
	return nil
}
