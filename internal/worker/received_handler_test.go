package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hireForm/internal/database"
	"hireForm/internal/tasks"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newReceivedTask(t *testing.T, id uint) *asynq.Task {
	t.Helper()
	task, err := tasks.NewApplicationReceivedTask(tasks.ApplicationReceivedPayload{
		ApplicationID: id,
		CorrelationID: "corr-42",
	})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestReceivedTaskHandler_PublishesToAdminChannel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	redisClient := newTestRedis(t)

	created := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	app := database.Application{FullName: "Mona Adel", City: "Cairo", CreatedAt: created}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}

	pubsub := redisClient.Subscribe(ctx, tasks.AdminNotifyChannel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	h := NewReceivedTaskHandler(db, redisClient, discardLogger())
	if err := h.ProcessTask(ctx, newReceivedTask(t, app.ID)); err != nil {
		t.Fatalf("process task: %v", err)
	}

	select {
	case msg := <-pubsub.Channel():
		var got ApplicationNotifyMessage
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if got.Type != "application.received" || got.ApplicationID != app.ID || got.FullName != "Mona Adel" {
			t.Fatalf("unexpected message %+v", got)
		}
		if got.CorrelationID != "corr-42" || !got.CreatedAt.Equal(created) {
			t.Fatalf("unexpected metadata %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for admin notification")
	}
}

func TestReceivedTaskHandler_MissingApplicationIsSkipped(t *testing.T) {
	h := NewReceivedTaskHandler(newTestDB(t), newTestRedis(t), discardLogger())
	if err := h.ProcessTask(context.Background(), newReceivedTask(t, 404)); err != nil {
		t.Fatalf("expected missing application to be skipped, got %v", err)
	}
}

func TestReceivedTaskHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewReceivedTaskHandler(newTestDB(t), newTestRedis(t), discardLogger())
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeApplicationReceived, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, _ string, _ interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(errors.New("redis down"))
	return cmd
}

func TestReceivedTaskHandler_PublishFailureIsRetried(t *testing.T) {
	db := newTestDB(t)
	app := database.Application{FullName: "A", CreatedAt: time.Now().UTC()}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}

	h := NewReceivedTaskHandler(db, failingPublisher{}, discardLogger())
	if err := h.ProcessTask(context.Background(), newReceivedTask(t, app.ID)); err == nil {
		t.Fatalf("expected publish failure to surface for retry")
	}
}
