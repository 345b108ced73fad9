package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken 請求未帶權杖
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken 權杖簽章或內容無效
	ErrInvalidToken = errors.New("auth: invalid token")
)

// User 由存取權杖推導出的使用者
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Plan  string `json:"plan"`
}

// Claims 身分服務簽發的 JWT 內容
type Claims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Verifier 以共享密鑰驗證 HS256 存取權杖
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier 創建權杖驗證器
func NewVerifier(secret string, now func() time.Time) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verify 驗證權杖並回傳使用者
func (v *Verifier) Verify(raw string) (*User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.user(), nil
}

func (c *Claims) user() *User {
	u := &User{
		ID:    c.Subject,
		Email: c.Email,
		Name:  stringClaim(c.UserMetadata, "name"),
		Plan:  stringClaim(c.AppMetadata, "plan"),
	}
	if u.Name == "" {
		u.Name, _, _ = strings.Cut(c.Email, "@")
	}
	if u.Plan == "" {
		u.Plan = "free"
	}
	return u
}

func stringClaim(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// BearerToken 從 Authorization 標頭取出權杖
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type contextKey string

const userContextKey contextKey = "receita-facil/auth/user"

// WithUser 將使用者放入 context
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext 取出先前放入的使用者
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}
