package feedback

import (
	"net/http"

	"receita-facil/internal/api/handlers"
	"receita-facil/internal/api/middleware"
	"receita-facil/internal/core/feedback"

	"github.com/gin-gonic/gin"
)

// Request 回饋內容
type Request struct {
	Text string `json:"text"`
}

// Handler 回饋處理器
type Handler struct {
	service *feedback.Service
}

// NewHandler 創建回饋處理器
func NewHandler(s *feedback.Service) *Handler {
	return &Handler{service: s}
}

// Submit POST /feedback，未登入時以匿名記錄
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if !handlers.BindJSON(c, &req) {
		return
	}

	userID := "anonymous"
	if u, ok := middleware.CurrentUser(c); ok {
		userID = u.ID
	}

	if _, err := h.service.Submit(c.Request.Context(), userID, req.Text); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Obrigado pelo seu feedback!"})
}
