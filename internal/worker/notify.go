package worker

import "time"

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给管理后台）。
// 字段名与前端解析保持一致。
type ApplicationNotifyMessage struct {
	Type          string    `json:"type"`
	ApplicationID uint      `json:"id"`
	FullName      string    `json:"fullName"`
	City          string    `json:"city"`
	CreatedAt     time.Time `json:"createdAt"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

const notifyTypeApplicationReceived = "application.received"
