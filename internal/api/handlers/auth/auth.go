package auth

import (
	"net/http"
	"strings"

	"receita-facil/internal/api/handlers"
	"receita-facil/internal/api/middleware"
	coreauth "receita-facil/internal/core/auth"
	"receita-facil/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SignUpRequest 註冊
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest 登入
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest 只需要 email 的操作
type EmailRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest 更新密碼
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// Handler 身分服務代理
type Handler struct {
	client *coreauth.Client
}

// NewHandler 創建身分處理器
func NewHandler(client *coreauth.Client) *Handler {
	return &Handler{client: client}
}

// respond 身分操作一律回傳 AuthResponse；失敗以 success=false 表示
func respond(c *gin.Context, resp *coreauth.AuthResponse) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}

func requireFields(c *gin.Context, fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			handlers.RespondError(c, common.NewValidationError("Preencha todos os campos"))
			return false
		}
	}
	return true
}

// SignUp POST /auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !handlers.BindJSON(c, &req) || !requireFields(c, req.Email, req.Password, req.Name) {
		return
	}
	respond(c, h.client.SignUp(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.Name)))
}

// SignIn POST /auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !handlers.BindJSON(c, &req) || !requireFields(c, req.Email, req.Password) {
		return
	}
	respond(c, h.client.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password))
}

// SignOut POST /auth/signout（需登入）
func (h *Handler) SignOut(c *gin.Context) {
	respond(c, h.client.SignOut(c.Request.Context(), c.GetString(middleware.AccessTokenKey)))
}

// ResetPassword POST /auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req EmailRequest
	if !handlers.BindJSON(c, &req) || !requireFields(c, req.Email) {
		return
	}
	respond(c, h.client.ResetPassword(c.Request.Context(), strings.TrimSpace(req.Email)))
}

// UpdatePassword POST /auth/update-password（需登入）
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if !handlers.BindJSON(c, &req) || !requireFields(c, req.Password) {
		return
	}
	respond(c, h.client.UpdatePassword(c.Request.Context(), c.GetString(middleware.AccessTokenKey), req.Password))
}

// ResendConfirmation POST /auth/resend-confirmation
func (h *Handler) ResendConfirmation(c *gin.Context) {
	var req EmailRequest
	if !handlers.BindJSON(c, &req) || !requireFields(c, req.Email) {
		return
	}
	respond(c, h.client.ResendConfirmation(c.Request.Context(), strings.TrimSpace(req.Email)))
}

// Session GET /auth/session（需登入）
func (h *Handler) Session(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
