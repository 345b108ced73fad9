// Package feedback 接收使用者回饋，清理後寫入日誌。
package feedback

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	"receita-facil/internal/pkg/common"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// MaxLength 回饋文字上限（字元）
const MaxLength = 2000

// Service 回饋服務
type Service struct {
	policy *bluemonday.Policy
}

// NewService 建立回饋服務
func NewService() *Service {
	return &Service{policy: bluemonday.StrictPolicy()}
}

// Submit 清理並記錄回饋，回傳實際記錄的文字
func (s *Service) Submit(_ context.Context, userID, text string) (string, error) {
	clean := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
	if clean == "" {
		return "", common.NewValidationError("Por favor, escreva seu feedback antes de enviar.")
	}
	if utf8.RuneCountInString(clean) > MaxLength {
		clean = string([]rune(clean)[:MaxLength])
	}

	common.LogInfo("Feedback received",
		zap.String("user_id", userID),
		zap.String("feedback", clean),
	)
	return clean, nil
}
