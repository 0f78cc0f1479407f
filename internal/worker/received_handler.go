package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hireForm/internal/database"
	"hireForm/internal/tasks"
)

// Publisher is the subset of *redis.Client used to fan out notifications.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ReceivedTaskHandler 消费 application:received 任务，并向管理后台广播。
type ReceivedTaskHandler struct {
	db        *gorm.DB
	publisher Publisher
	logger    *slog.Logger
}

// NewReceivedTaskHandler 创建任务处理器。
func NewReceivedTaskHandler(db *gorm.DB, publisher Publisher, logger *slog.Logger) *ReceivedTaskHandler {
	return &ReceivedTaskHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ReceivedTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseApplicationReceived(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("application_id", uint64(payload.ApplicationID)),
	)

	// 以数据库为准，记录不存在时跳过。
	var app database.Application
	err = h.db.WithContext(ctx).
		Select("id", "full_name", "city", "created_at").
		First(&app, payload.ApplicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("application not found, skipping notification")
			return nil
		}
		log.Error("query application failed", slog.Any("error", err))
		return err
	}

	msg := ApplicationNotifyMessage{
		Type:          notifyTypeApplicationReceived,
		ApplicationID: app.ID,
		FullName:      app.FullName,
		City:          app.City,
		CreatedAt:     app.CreatedAt.UTC(),
		CorrelationID: payload.CorrelationID,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notify message: %w", err)
	}

	if err := h.publisher.Publish(ctx, tasks.AdminNotifyChannel, body).Err(); err != nil {
		log.Error("publish admin notification failed", slog.Any("error", err))
		return fmt.Errorf("publish admin notification: %w", err)
	}

	log.Info("admin notification published")
	return nil
}
