package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/store"
	"receita-facil/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// UsageKey 生成次數在儲存中的鍵
	UsageKey = "usage"
	// MinBatchIngredients 一次生成所需的最少食材數
	MinBatchIngredients = 2
)

// RecipeService 儀表板的批次生成：三個變化版本並計入免費額度
type RecipeService struct {
	catalog   *catalog.Catalog
	generator Generator
	store     store.Store
	freeLimit int
}

// NewRecipeService 創建新的食譜生成服務
func NewRecipeService(c *catalog.Catalog, g Generator, s store.Store, freeLimit int) *RecipeService {
	return &RecipeService{
		catalog:   c,
		generator: g,
		store:     s,
		freeLimit: freeLimit,
	}
}

// Usage 讀取使用者目前的生成次數
func (s *RecipeService) Usage(ctx context.Context, userID string, plan Plan) (Usage, error) {
	raw, err := s.store.Get(ctx, store.UserKey(userID, UsageKey))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Usage{}, common.ErrStoreUnavailable.Wrap(err)
	}

	var rec usageRecord
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr != nil {
			common.LogWarn("Stored usage is corrupt, resetting",
				zap.String("user_id", userID),
				zap.Error(jsonErr),
			)
			rec = usageRecord{}
		}
	}

	u := Usage{Plan: plan, RecipesUsed: rec.RecipesUsed}
	if plan != PlanPremium {
		u.Plan = PlanFree
		u.MaxRecipes = common.IntPtr(s.freeLimit)
	}
	return u, nil
}

// GenerateBatch 以已選食材產生三份食譜，成功後使用次數加一
func (s *RecipeService) GenerateBatch(ctx context.Context, userID string, plan Plan, ingredientIDs []string, mealType common.MealType) ([]common.Recipe, Usage, error) {
	if !mealType.Valid() {
		return nil, Usage{}, common.NewValidationError(fmt.Sprintf("tipo de refeição inválido: %q", mealType))
	}

	usage, err := s.Usage(ctx, userID, plan)
	if err != nil {
		return nil, Usage{}, err
	}
	if usage.Exhausted() {
		return nil, usage, common.ErrQuotaExceeded
	}

	names := s.catalog.NamesFor(ingredientIDs)
	if len(names) < MinBatchIngredients {
		return nil, usage, common.NewValidationError("Selecione pelo menos 2 ingredientes!")
	}

	start := time.Now()
	recipes := make([]common.Recipe, 0, 3)
	for _, list := range variantLists(names) {
		r, err := s.generator.Generate(ctx, list, mealType)
		if err != nil {
			return nil, usage, fmt.Errorf("generate recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}

	usage.RecipesUsed++
	data, err := json.Marshal(usageRecord{RecipesUsed: usage.RecipesUsed})
	if err != nil {
		return nil, usage, err
	}
	if err := s.store.Set(ctx, store.UserKey(userID, UsageKey), string(data)); err != nil {
		return nil, usage, common.ErrStoreUnavailable.Wrap(err)
	}

	common.LogInfo("Recipes generated",
		zap.String("user_id", userID),
		zap.String("meal_type", string(mealType)),
		zap.Int("ingredients", len(names)),
		zap.Int("recipes_used", usage.RecipesUsed),
		zap.Duration("duration", time.Since(start)),
	)

	return recipes, usage, nil
}

// variantLists 三組食材清單：全部、去掉最後一個（至少保留三個）、略過第二個
func variantLists(names []string) [][]string {
	n := len(names)
	keep := n - 1
	if keep < 3 {
		keep = 3
	}
	if keep > n {
		keep = n
	}

	third := append([]string{names[0]}, names[min(2, n):]...)

	return [][]string{
		append([]string(nil), names...),
		append([]string(nil), names[:keep]...),
		third,
	}
}
