package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hireForm/internal/api/middleware"
	"hireForm/internal/application"
	"hireForm/internal/metrics"
)

const maxSubmissionBytes = 64 << 10

// ApplicationHandler 处理公开的申请提交。
type ApplicationHandler struct {
	service  *application.Service
	throttle *hourlyThrottle
	logger   *slog.Logger
}

// NewApplicationHandler 构造提交处理器；counter 为 nil 时不限流。
func NewApplicationHandler(service *application.Service, counter redisRateCounter, rateLimitPerHour int, logger *slog.Logger) *ApplicationHandler {
	h := &ApplicationHandler{
		service: service,
		logger:  logger,
	}
	if counter != nil {
		h.throttle = &hourlyThrottle{
			counter: counter,
			prefix:  "intake",
			limit:   rateLimitPerHour,
			now:     time.Now,
		}
	}
	return h
}

// Submit 校验并保存一份申请。
func (h *ApplicationHandler) Submit(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()

	allowed, err := h.throttle.allow(ctx, c.ClientIP())
	if err != nil {
		logger.Warn("intake throttle unavailable", slog.Any("error", err))
	}
	if !allowed {
		metrics.ObserveSubmission(metrics.OutcomeThrottled, nil)
		TooManyRequests(c)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "request body too large or unreadable")
		return
	}

	raw, err := application.DecodeSubmission(body)
	if err != nil {
		logger.Info("submission rejected: bad shape", slog.Any("error", err))
		BadRequest(c, err.Error())
		return
	}

	ctx = application.ContextWithCorrelationID(ctx, middleware.GetCorrelationID(c))
	res, err := h.service.Submit(ctx, raw, body)
	if err != nil {
		metrics.ObserveSubmission(metrics.OutcomeFailed, nil)
		logger.Error("store application failed",
			slog.Any("error", err),
			slog.Bool("storage", errors.Is(err, application.ErrStorage)),
		)
		Internal(c)
		return
	}

	if !res.OK() {
		metrics.ObserveSubmission(metrics.OutcomeRejected, res.Fields)
		logger.Info("submission rejected: validation failed", slog.Int("field_errors", len(res.Fields)))
		ValidationFailed(c, res.Fields)
		return
	}

	metrics.ObserveSubmission(metrics.OutcomeAccepted, nil)
	logger.Info("application stored", slog.Uint64("application_id", uint64(res.ID)))
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}
