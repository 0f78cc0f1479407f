package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SecretGate 直接把共享口令作为凭证。配置了哈希时用 bcrypt 比较，否则做常量时间的精确比较。
type SecretGate struct {
	secret string
	hash   string
}

// NewSecretGate 构造 SecretGate；secret 与 hash 均为空时所有请求返回 ErrMisconfigured。
func NewSecretGate(secret, hash string) *SecretGate {
	return &SecretGate{
		secret: secret,
		hash:   strings.TrimSpace(hash),
	}
}

// Configured reports whether any admin secret is available.
func (g *SecretGate) Configured() bool {
	return g.secret != "" || g.hash != ""
}

// Check compares candidate with the configured secret.
func (g *SecretGate) Check(candidate string) error {
	if !g.Configured() {
		return ErrMisconfigured
	}
	if candidate == "" {
		return ErrUnauthorized
	}
	if g.hash != "" {
		if !CheckPasswordHash(candidate, g.hash) {
			return ErrUnauthorized
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(g.secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Authenticate 校验口令，凭证即口令本身。
func (g *SecretGate) Authenticate(_ context.Context, candidate string) (Credential, error) {
	if err := g.Check(candidate); err != nil {
		return Credential{}, err
	}
	return Credential{Token: candidate, TokenType: "Bearer"}, nil
}

// Verify 对每个请求重复口令比较。
func (g *SecretGate) Verify(_ context.Context, bearer string) error {
	return g.Check(bearer)
}

// HashPassword 使用 bcrypt 生成口令哈希。
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash 校验口令是否匹配哈希。
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
