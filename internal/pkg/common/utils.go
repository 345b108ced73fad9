package common

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateID 生成以時間戳開頭、可排序的唯一 ID
func GenerateID() string {
	return ulid.Make().String()
}
