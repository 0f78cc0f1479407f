package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const adminTokenType = "admin"

// AdminClaims 是管理令牌中的业务字段。
type AdminClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenGate 校验共享口令后签发 HS256 令牌，后续请求只需携带令牌。
type TokenGate struct {
	secret     *SecretGate
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenGate 构造 TokenGate。
func NewTokenGate(secret *SecretGate, signingKey string, ttl time.Duration) (*TokenGate, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token signing key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenGate{
		secret:     secret,
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Authenticate checks the shared secret and issues a signed admin token.
func (g *TokenGate) Authenticate(_ context.Context, candidate string) (Credential, error) {
	if err := g.secret.Check(candidate); err != nil {
		return Credential{}, err
	}

	now := g.now()
	claims := AdminClaims{
		TokenType: adminTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
	if err != nil {
		return Credential{}, fmt.Errorf("sign token: %w", err)
	}

	return Credential{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: g.ttl,
	}, nil
}

// Verify 校验签名、过期时间与令牌类型。
func (g *TokenGate) Verify(_ context.Context, bearer string) error {
	if !g.secret.Configured() {
		return ErrMisconfigured
	}
	if bearer == "" {
		return ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(bearer, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return g.signingKey, nil
	}, jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.TokenType != adminTokenType {
		return ErrUnauthorized
	}
	return nil
}
