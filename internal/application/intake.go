package application

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notifier 在记录提交成功后被调用，失败不影响提交结果。
type Notifier interface {
	ApplicationReceived(ctx context.Context, rec Record) error
}

// Service 串联校验、打时间戳、入库与通知。
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Option 调整 Service 的可选依赖。
type Option func(*Service)

// WithNotifier 设置提交成功后的通知器。
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTimeout 限制每次存储调用的耗时，0 表示不额外限制。
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithClock replaces the wall clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService 构造 Service。
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates raw and stores it. Validation failures are returned in Result.Fields
// with a nil error; storage failures are returned as an error wrapping ErrStorage.
func (s *Service) Submit(ctx context.Context, raw map[string]any, rawPayload []byte) (Result, error) {
	rec, fieldErrs := Validate(raw)
	if len(fieldErrs) > 0 {
		return Result{Fields: fieldErrs}, nil
	}

	rec.CreatedAt = s.stamp()

	storeCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.store.Insert(storeCtx, rec, rawPayload)
	if err != nil {
		return Result{}, err
	}
	rec.ID = id

	if s.notifier != nil {
		if err := s.notifier.ApplicationReceived(ctx, rec); err != nil {
			s.logger.Warn("notify application received failed",
				slog.Uint64("application_id", uint64(id)),
				slog.Any("error", err),
			)
		}
	}

	return Result{ID: id}, nil
}

// stamp 返回精确到微秒的 UTC 时间（与 PostgreSQL 精度一致），保证不早于上一次签发的时间。
func (s *Service) stamp() time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.lastSeen) {
		now = s.lastSeen
	}
	s.lastSeen = now
	return now
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
