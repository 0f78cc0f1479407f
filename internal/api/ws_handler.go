package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"hireForm/internal/auth"
	"hireForm/internal/tasks"
)

const (
	wsAuthTimeout  = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WsHandler 负责管理后台实时通知：首条消息鉴权，之后转发 Redis 中的新申请事件。
type WsHandler struct {
	redisClient    *redis.Client
	gate           auth.Gate
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(redisClient *redis.Client, gate auth.Gate, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		redisClient:    redisClient,
		gate:           gate,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleConnection 负责升级连接并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With(slog.String("client_ip", c.ClientIP()))

	if err := h.authenticate(ctx, conn); err != nil {
		log.Warn("websocket authentication failed", slog.Any("error", err))
		return
	}
	log.Info("admin websocket authenticated")

	// 先完成订阅再回执，客户端收到 auth_ok 后不会漏掉事件。
	pubsub := h.redisClient.Subscribe(ctx, tasks.AdminNotifyChannel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Error("subscribe redis channel failed", slog.Any("error", err))
		writeClose(conn, websocket.CloseInternalServerErr, "subscribe failed")
		return
	}

	ack, _ := json.Marshal(map[string]string{"type": "auth_ok"})
	if err := conn.WriteMessage(websocket.TextMessage, ack); err != nil {
		log.Info("write auth ack failed", slog.Any("error", err))
		return
	}

	errCh := make(chan error, 2)
	go h.readLoop(conn, errCh)
	go h.forwardLoop(ctx, conn, pubsub, errCh)

	err = <-errCh
	cancel()
	if err != nil {
		log.Info("websocket connection closed", slog.Any("error", err))
	} else {
		log.Info("websocket connection closed")
	}
}

// authenticate 读取首条消息并交给 Gate 校验。
func (h *WsHandler) authenticate(ctx context.Context, conn *websocket.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read auth message: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var authMsg wsAuthMessage
	if err := json.Unmarshal(message, &authMsg); err != nil {
		writeClose(conn, websocket.ClosePolicyViolation, "invalid auth payload")
		return fmt.Errorf("decode auth payload: %w", err)
	}
	if authMsg.Type != "auth" || authMsg.Token == "" {
		writeClose(conn, websocket.ClosePolicyViolation, "auth required")
		return errors.New("invalid auth message")
	}

	if err := h.gate.Verify(ctx, auth.BearerFromHeader(authMsg.Token)); err != nil {
		if errors.Is(err, auth.ErrMisconfigured) {
			writeClose(conn, websocket.CloseInternalServerErr, "server misconfigured")
		} else {
			writeClose(conn, websocket.ClosePolicyViolation, "unauthorized")
		}
		return fmt.Errorf("verify credential: %w", err)
	}
	return nil
}

// readLoop 丢弃客户端后续消息，仅用于检测断开。
func (h *WsHandler) readLoop(conn *websocket.Conn, errCh chan<- error) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				errCh <- nil
				return
			}
			errCh <- fmt.Errorf("read message: %w", err)
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

// forwardLoop 将 Redis 消息原样推送给客户端，并定期发送 ping。
func (h *WsHandler) forwardLoop(ctx context.Context, conn *websocket.Conn, pubsub *redis.PubSub, errCh chan<- error) {
	ch := pubsub.Channel()
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				errCh <- errors.New("pubsub channel closed")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				errCh <- fmt.Errorf("write message: %w", err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				errCh <- fmt.Errorf("write ping: %w", err)
				return
			}
		}
	}
}
