package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"hireForm/internal/api/middleware"
	"hireForm/internal/application"
	"hireForm/internal/auth"
	"hireForm/internal/metrics"
)

const exportLinkTTL = 15 * time.Minute

// ExportStorage 是导出功能依赖的对象存储能力。
type ExportStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	PresignDownload(ctx context.Context, objectKey, filename string, duration time.Duration) (string, error)
}

// AdminHandler 处理管理后台的登录、查询与导出。
type AdminHandler struct {
	gate          auth.Gate
	service       *application.Service
	storage       ExportStorage
	loginThrottle *hourlyThrottle
	logger        *slog.Logger
	now           func() time.Time
}

// NewAdminHandler 构造管理处理器；storage 为 nil 时关闭对象存储导出，counter 为 nil 时登录不限流。
func NewAdminHandler(gate auth.Gate, service *application.Service, storage ExportStorage, counter redisRateCounter, loginRateLimitPerHour int, logger *slog.Logger) *AdminHandler {
	h := &AdminHandler{
		gate:    gate,
		service: service,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
	if counter != nil {
		h.loginThrottle = &hourlyThrottle{
			counter: counter,
			prefix:  "login",
			limit:   loginRateLimitPerHour,
			now:     time.Now,
		}
	}
	return h
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login 用共享口令换取凭证。
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	logger := middleware.LoggerFromContext(c)
	allowed, err := h.loginThrottle.allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		logger.Warn("login throttle unavailable", slog.Any("error", err))
	}
	if !allowed {
		metrics.ObserveAdminLogin("throttled")
		logger.Warn("admin login throttled")
		TooManyRequests(c)
		return
	}

	cred, err := h.gate.Authenticate(c.Request.Context(), req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrMisconfigured):
		metrics.ObserveAdminLogin("misconfigured")
		logger.Error("admin login attempted without configured secret")
		Misconfigured(c)
		return
	case errors.Is(err, auth.ErrUnauthorized):
		metrics.ObserveAdminLogin("denied")
		logger.Info("admin login denied")
		Error(c, http.StatusUnauthorized, "invalid password")
		return
	default:
		logger.Error("admin login failed", slog.Any("error", err))
		Internal(c)
		return
	}

	metrics.ObserveAdminLogin("ok")
	c.JSON(http.StatusOK, gin.H{
		"message":    "ok",
		"token":      cred.Token,
		"token_type": cred.TokenType,
		"expires_in": int64(cred.ExpiresIn / time.Second),
	})
}

// ListApplications 返回全部申请，默认最新的在前；支持 q/sort/order 查询参数。
func (h *AdminHandler) ListApplications(c *gin.Context) {
	records, ok := h.loadRecords(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, records)
}

// Stats 返回看板统计。
func (h *AdminHandler) Stats(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("list applications failed", slog.Any("error", err))
		Internal(c)
		return
	}
	c.JSON(http.StatusOK, application.ComputeStats(records, h.now()))
}

// ExportCSV 以附件形式下载 CSV。
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := application.WriteCSV(&buf, records); err != nil {
		middleware.LoggerFromContext(c).Error("render csv failed", slog.Any("error", err))
		Internal(c)
		return
	}

	filename := application.ExportFilename(h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportToStorage 将 CSV 上传到对象存储并返回限时下载链接。
func (h *AdminHandler) ExportToStorage(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "export storage is not configured")
		return
	}

	records, ok := h.loadRecords(c)
	if !ok {
		return
	}

	logger := middleware.LoggerFromContext(c)
	var buf bytes.Buffer
	if err := application.WriteCSV(&buf, records); err != nil {
		logger.Error("render csv failed", slog.Any("error", err))
		Internal(c)
		return
	}

	now := h.now().UTC()
	filename := application.ExportFilename(now)
	objectKey := fmt.Sprintf("exports/%s/%s.csv", now.Format("2006-01-02"), uuid.NewString())

	ctx := c.Request.Context()
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv"); err != nil {
		logger.Error("upload export failed", slog.String("objectKey", objectKey), slog.Any("error", err))
		Internal(c)
		return
	}

	url, err := h.storage.PresignDownload(ctx, objectKey, filename, exportLinkTTL)
	if err != nil {
		logger.Error("presign export failed", slog.String("objectKey", objectKey), slog.Any("error", err))
		Internal(c)
		return
	}

	logger.Info("applications exported", slog.String("objectKey", objectKey), slog.Int("rows", len(records)))
	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey, "url": url})
}

func (h *AdminHandler) loadRecords(c *gin.Context) ([]application.Record, bool) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("list applications failed", slog.Any("error", err))
		Internal(c)
		return nil, false
	}

	if q := c.Query("q"); q != "" {
		records = application.Filter(records, q)
	}
	sortKey, hasSort := c.GetQuery("sort")
	order, hasOrder := c.GetQuery("order")
	if hasSort || hasOrder {
		records = application.Sort(records, application.ParseSortKey(sortKey), application.ParseSortOrder(order))
	}
	return records, true
}
