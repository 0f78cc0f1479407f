// Package auth 实现管理后台的共享口令鉴权。
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hireForm/internal/config"
)

var (
	// ErrUnauthorized 表示口令或凭证不匹配。
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMisconfigured 表示服务端未配置管理口令。
	ErrMisconfigured = errors.New("admin secret is not configured")
)

// Credential 是登录成功后交给客户端的凭证。
type Credential struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
}

// Gate decides whether a caller may use the admin operations.
type Gate interface {
	// Authenticate exchanges the shared secret for a credential.
	Authenticate(ctx context.Context, candidate string) (Credential, error)
	// Verify checks a credential previously issued by Authenticate.
	Verify(ctx context.Context, bearer string) error
}

// BearerFromHeader 同时接受 "Bearer <cred>" 与裸凭证两种写法。
// 只去掉前缀，凭证本身的空白原样保留。
func BearerFromHeader(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return header
}

// NewGate 根据鉴权模式构造 Gate。
func NewGate(cfg config.AdminConfig) (Gate, error) {
	secret := NewSecretGate(cfg.Password, cfg.PasswordHash)
	switch cfg.AuthMode {
	case config.AuthModeSecret, "":
		return secret, nil
	case config.AuthModeToken:
		return NewTokenGate(secret, cfg.TokenSigningKey, cfg.TokenTTL)
	default:
		return nil, fmt.Errorf("unknown admin auth mode %q", cfg.AuthMode)
	}
}
