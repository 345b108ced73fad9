// Package store 提供不透明的字串鍵值儲存，用來保存每位使用者的週計畫與搜尋紀錄。
package store

import (
	"context"
	"errors"
	"fmt"

	"receita-facil/internal/infrastructure/config"
)

// ErrNotFound 鍵不存在
var ErrNotFound = errors.New("store: key not found")

// Store 字串鍵值儲存，整筆覆寫、後寫者勝
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定建立對應的儲存實作
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// UserKey 以使用者 ID 為鍵加上命名空間
func UserKey(userID, key string) string {
	return "user:" + userID + ":" + key
}
