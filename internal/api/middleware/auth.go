package middleware

import (
	"receita-facil/internal/core/auth"
	"receita-facil/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// UserKey gin context 中的 *auth.User
	UserKey = "auth_user"
	// UserIDKey gin context 中的使用者 ID
	UserIDKey = "user_id"
	// AccessTokenKey gin context 中的原始存取權杖
	AccessTokenKey = "access_token"
)

// TokenVerifier 驗證存取權杖
type TokenVerifier interface {
	Verify(raw string) (*auth.User, error)
}

// RequireAuth 驗證 Bearer 權杖，失敗回傳 401
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		user, err := v.Verify(token)
		if err != nil {
			common.LogDebug("Rejected access token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			status, body := common.ToErrorResponse(common.ErrUnauthorized)
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(AccessTokenKey, token)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))

		c.Next()
	}
}

// CurrentUser 取出 RequireAuth 設定的使用者
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*auth.User)
	return u, ok && u != nil
}

// OptionalAuth 帶有有效權杖時設定使用者，否則以匿名身分繼續
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token != "" {
			if user, err := v.Verify(token); err == nil {
				c.Set(UserKey, user)
				c.Set(UserIDKey, user.ID)
				c.Set(AccessTokenKey, token)
				c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
			}
		}
		c.Next()
	}
}
