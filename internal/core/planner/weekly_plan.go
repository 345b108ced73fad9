// Package planner 管理每位使用者的週餐計畫與搜尋紀錄。
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"receita-facil/internal/core/store"
	"receita-facil/internal/pkg/common"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// WeeklyPlanKey 週計畫在儲存中的鍵
const WeeklyPlanKey = "weeklyPlan"

// Weekdays 週計畫的七天，依顯示順序
var Weekdays = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}

// DayPlan 單日三餐，欄位為 nil 代表該餐未安排
type DayPlan struct {
	ID        string         `json:"id"`
	DayOfWeek string         `json:"dayOfWeek"`
	Breakfast *common.Recipe `json:"breakfast"`
	Lunch     *common.Recipe `json:"lunch"`
	Dinner    *common.Recipe `json:"dinner"`
}

// WeeklyPlan 固定七天的週計畫
type WeeklyPlan []DayPlan

// NewWeeklyPlan 建立空白週計畫
func NewWeeklyPlan() WeeklyPlan {
	plan := make(WeeklyPlan, len(Weekdays))
	for i, day := range Weekdays {
		plan[i] = DayPlan{
			ID:        fmt.Sprintf("day-%d", i),
			DayOfWeek: day,
		}
	}
	return plan
}

// Slot 回傳指定餐別的欄位指標
func (d *DayPlan) Slot(meal common.MealType) **common.Recipe {
	switch meal {
	case common.MealBreakfast:
		return &d.Breakfast
	case common.MealLunch:
		return &d.Lunch
	case common.MealDinner:
		return &d.Dinner
	}
	return nil
}

// Day 依 ID 取得某天
func (p WeeklyPlan) Day(dayID string) (*DayPlan, bool) {
	for i := range p {
		if p[i].ID == dayID {
			return &p[i], true
		}
	}
	return nil, false
}

// Marshal 序列化為儲存用 JSON
func (p WeeklyPlan) Marshal() (string, error) {
	return common.ToJSON(p)
}

// UnmarshalWeeklyPlan 從儲存內容還原週計畫
func UnmarshalWeeklyPlan(data string) (WeeklyPlan, error) {
	var plan WeeklyPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode weekly plan: %w", err)
	}
	if len(plan) != len(Weekdays) {
		return nil, fmt.Errorf("weekly plan has %d days, want %d", len(plan), len(Weekdays))
	}
	return plan, nil
}

// WeeklyPlanService 週計畫讀寫，每次修改整份覆寫
type WeeklyPlanService struct {
	store    store.Store
	sanitize *bluemonday.Policy
}

// NewWeeklyPlanService 建立週計畫服務
func NewWeeklyPlanService(s store.Store) *WeeklyPlanService {
	return &WeeklyPlanService{
		store:    s,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Load 讀取使用者的週計畫，不存在或內容損壞時回傳空白計畫
func (s *WeeklyPlanService) Load(ctx context.Context, userID string) (WeeklyPlan, error) {
	raw, err := s.store.Get(ctx, store.UserKey(userID, WeeklyPlanKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewWeeklyPlan(), nil
		}
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}

	plan, err := UnmarshalWeeklyPlan(raw)
	if err != nil {
		common.LogWarn("Stored weekly plan is corrupt, starting fresh",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return NewWeeklyPlan(), nil
	}
	return plan, nil
}

// Save 整份寫回
func (s *WeeklyPlanService) Save(ctx context.Context, userID string, plan WeeklyPlan) error {
	data, err := plan.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode weekly plan: %w", err)
	}
	if err := s.store.Set(ctx, store.UserKey(userID, WeeklyPlanKey), data); err != nil {
		return common.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// AssignRecipe 將食譜放入某天的某一餐，覆蓋原有內容
func (s *WeeklyPlanService) AssignRecipe(ctx context.Context, userID, dayID string, meal common.MealType, recipe common.Recipe) (WeeklyPlan, error) {
	return s.update(ctx, userID, dayID, meal, &recipe)
}

// AssignCustom 以使用者輸入的文字建立自訂餐點
func (s *WeeklyPlanService) AssignCustom(ctx context.Context, userID, dayID string, meal common.MealType, title string) (WeeklyPlan, error) {
	// 移除 HTML 標籤後還原跳脫字元，保留 & 與引號
	title = strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(title)))
	if title == "" {
		return nil, common.NewValidationError("Digite o nome da refeição")
	}

	custom := common.Recipe{
		ID:           "custom-" + common.GenerateID(),
		Title:        title,
		MealType:     meal,
		Ingredients:  []string{},
		Instructions: []string{},
		PrepTime:     "-",
		Difficulty:   common.DifficultyEasy,
		IsHealthy:    false,
	}
	return s.update(ctx, userID, dayID, meal, &custom)
}

// ClearSlot 清空某天的某一餐
func (s *WeeklyPlanService) ClearSlot(ctx context.Context, userID, dayID string, meal common.MealType) (WeeklyPlan, error) {
	return s.update(ctx, userID, dayID, meal, nil)
}

func (s *WeeklyPlanService) update(ctx context.Context, userID, dayID string, meal common.MealType, recipe *common.Recipe) (WeeklyPlan, error) {
	if !meal.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("tipo de refeição inválido: %q", meal))
	}

	plan, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	day, ok := plan.Day(dayID)
	if !ok {
		return nil, common.ErrNotFound.WithMessage("Dia não encontrado: " + dayID)
	}
	*day.Slot(meal) = recipe

	if err := s.Save(ctx, userID, plan); err != nil {
		return nil, err
	}

	common.LogDebug("Weekly plan updated",
		zap.String("user_id", userID),
		zap.String("day_id", dayID),
		zap.String("meal_type", string(meal)),
		zap.Bool("cleared", recipe == nil),
	)
	return plan, nil
}
