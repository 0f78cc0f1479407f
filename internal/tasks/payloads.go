package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeApplicationReceived = "application:received"
)

// ApplicationReceivedPayload 描述新申请入库后需要广播的最小信息。
type ApplicationReceivedPayload struct {
	ApplicationID uint      `json:"application_id"`
	FullName      string    `json:"full_name"`
	City          string    `json:"city"`
	CreatedAt     time.Time `json:"created_at"`
	CorrelationID string    `json:"correlation_id"`
}

// NewApplicationReceivedTask 构造一个新申请通知任务。
func NewApplicationReceivedTask(p ApplicationReceivedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeApplicationReceived, payload, asynq.MaxRetry(3)), nil
}

// ParseApplicationReceived decodes the payload of an application:received task.
func ParseApplicationReceived(task *asynq.Task) (ApplicationReceivedPayload, error) {
	var p ApplicationReceivedPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", TypeApplicationReceived, err)
	}
	return p, nil
}

// AdminNotifyChannel 是 worker 向管理后台 WebSocket 广播新申请的 Redis 频道。
const AdminNotifyChannel = "admin_notify:applications"
