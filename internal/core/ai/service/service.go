package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"receita-facil/internal/core/ai/cache"
	"receita-facil/internal/pkg/common"

	"golang.org/x/time/rate"
)

// Completer 單一 prompt 的文字生成
type Completer interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Response AI 回應
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務：限流、快取與模型呼叫
type Service struct {
	client       Completer
	cacheManager *cache.CacheManager
	limiter      *rate.Limiter
}

// NewService 創建 AI 服務，cacheManager 可為 nil；minInterval 為兩次上游呼叫的最小間隔
func NewService(client Completer, cacheManager *cache.CacheManager, minInterval time.Duration) *Service {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Service{
		client:       client,
		cacheManager: cacheManager,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	// 統一空白，確保快取 key 一致
	prompt = strings.Join(strings.Fields(prompt), " ")
	if prompt == "" {
		return nil, common.NewValidationError("prompt is empty")
	}

	if s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, common.ErrTooManyRequests.Wrap(err)
	}

	start := time.Now()
	content, err := s.client.GenerateResponse(ctx, prompt)
	common.LogAICall(time.Since(start), err, "")
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("generate response: %w", err))
	}

	if s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, content)
	}

	return &Response{Content: content}, nil
}
