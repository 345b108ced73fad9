// Package handlers 放置各 handler 子套件共用的回應工具。
package handlers

import (
	"errors"
	"io"

	"receita-facil/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為統一的 JSON 錯誤回應
func RespondError(c *gin.Context, err error) {
	status, body := common.ToErrorResponse(err)
	if status >= 500 {
		common.LogError("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BindJSON 解析請求 JSON；格式錯誤時回應 400 並回傳 false
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := common.DecodeJSON(c.Request.Body, v); err != nil {
		msg := "Formato de requisição inválido"
		if errors.Is(err, io.EOF) {
			msg = "Corpo da requisição vazio"
		}
		RespondError(c, common.ErrInvalidRequest.WithMessage(msg))
		return false
	}
	return true
}
