package recipe

// Plan 使用者方案
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// ParsePlan 未知值一律視為免費方案
func ParsePlan(s string) Plan {
	if Plan(s) == PlanPremium {
		return PlanPremium
	}
	return PlanFree
}

// Usage 生成次數與方案上限，MaxRecipes 為 nil 表示無上限
type Usage struct {
	Plan        Plan `json:"plan"`
	RecipesUsed int  `json:"recipesUsed"`
	MaxRecipes  *int `json:"maxRecipes"`
}

// Remaining 剩餘可用次數，無上限時回傳 -1
func (u Usage) Remaining() int {
	if u.MaxRecipes == nil {
		return -1
	}
	if r := *u.MaxRecipes - u.RecipesUsed; r > 0 {
		return r
	}
	return 0
}

// Exhausted 是否已達免費上限
func (u Usage) Exhausted() bool {
	return u.MaxRecipes != nil && u.RecipesUsed >= *u.MaxRecipes
}

// usageRecord 持久化於 store 的內容
type usageRecord struct {
	RecipesUsed int `json:"recipesUsed"`
}
