package common

import "fmt"

// MealType 餐別
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes 依顯示順序列出所有餐別
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// Valid 檢查餐別是否合法
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// ParseMealType 解析餐別字串
func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.Valid() {
		return "", NewValidationError(fmt.Sprintf("tipo de refeição inválido: %q", s))
	}
	return m, nil
}

// Difficulty 難易度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient 食材目錄項目
type Ingredient struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Icon     string `json:"icon" yaml:"icon"`
}

// Recipe 食譜（目錄或生成）
type Recipe struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	MealType     MealType   `json:"mealType" yaml:"mealType"`
	Ingredients  []string   `json:"ingredients" yaml:"ingredients"`
	Instructions []string   `json:"instructions" yaml:"instructions"`
	PrepTime     string     `json:"prepTime" yaml:"prepTime"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	Calories     *int       `json:"calories,omitempty" yaml:"calories,omitempty"`
	Protein      *int       `json:"protein,omitempty" yaml:"protein,omitempty"`
	Carbs        *int       `json:"carbs,omitempty" yaml:"carbs,omitempty"`
	Fats         *int       `json:"fats,omitempty" yaml:"fats,omitempty"`
	IsHealthy    bool       `json:"isHealthy" yaml:"isHealthy"`
	Tags         []string   `json:"tags" yaml:"tags,omitempty"`
}

// Suggestion 食材匹配建議
type Suggestion struct {
	RecipeName         string   `json:"recipeName"`
	MatchPercentage    int      `json:"matchPercentage"`
	MissingIngredients []string `json:"missingIngredients"`
}

// IntPtr 回傳整數指標，方便填寫選填的營養欄位
func IntPtr(v int) *int {
	return &v
}
