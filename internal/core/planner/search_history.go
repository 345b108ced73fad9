package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"receita-facil/internal/core/store"
	"receita-facil/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// SearchHistoryKey 搜尋紀錄在儲存中的鍵
	SearchHistoryKey = "searchHistory"
	// MaxSearchHistory 最多保留的搜尋筆數
	MaxSearchHistory = 10
)

// SearchEntry 單筆搜尋紀錄
type SearchEntry struct {
	ID        string          `json:"id"`
	Query     string          `json:"query"`
	Timestamp int64           `json:"timestamp"` // 毫秒
	MealType  common.MealType `json:"mealType"`
}

// AddSearch 將查詢放到最前面，移除相同查詢的舊紀錄並截斷到上限
func AddSearch(history []SearchEntry, entry SearchEntry) []SearchEntry {
	out := make([]SearchEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.Query != entry.Query {
			out = append(out, h)
		}
	}
	if len(out) > MaxSearchHistory {
		out = out[:MaxSearchHistory]
	}
	return out
}

// SearchHistoryService 搜尋紀錄讀寫
type SearchHistoryService struct {
	store store.Store
	now   func() time.Time
}

// NewSearchHistoryService 建立搜尋紀錄服務
func NewSearchHistoryService(s store.Store) *SearchHistoryService {
	return &SearchHistoryService{store: s, now: time.Now}
}

// List 依時間由新到舊列出紀錄
func (s *SearchHistoryService) List(ctx context.Context, userID string) ([]SearchEntry, error) {
	raw, err := s.store.Get(ctx, store.UserKey(userID, SearchHistoryKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []SearchEntry{}, nil
		}
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}

	var history []SearchEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		common.LogWarn("Stored search history is corrupt, discarding",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return []SearchEntry{}, nil
	}
	return history, nil
}

// Add 記錄一次搜尋，空白查詢直接忽略
func (s *SearchHistoryService) Add(ctx context.Context, userID, query string, meal common.MealType) ([]SearchEntry, error) {
	query = strings.TrimSpace(query)

	history, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return history, nil
	}

	now := s.now()
	history = AddSearch(history, SearchEntry{
		ID:        common.GenerateID(),
		Query:     query,
		Timestamp: now.UnixMilli(),
		MealType:  meal,
	})

	data, err := common.ToJSON(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search history: %w", err)
	}
	if err := s.store.Set(ctx, store.UserKey(userID, SearchHistoryKey), data); err != nil {
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}
	return history, nil
}

// Clear 清除全部紀錄
func (s *SearchHistoryService) Clear(ctx context.Context, userID string) error {
	if err := s.store.Remove(ctx, store.UserKey(userID, SearchHistoryKey)); err != nil {
		return common.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
