// Package catalog 提供靜態的食材目錄與健康食譜目錄。
package catalog

import (
	"embed"
	"fmt"
	"strings"

	"receita-facil/internal/pkg/common"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog 食材與食譜目錄，載入後不再變動
type Catalog struct {
	ingredients []common.Ingredient
	byID        map[string]common.Ingredient
	recipes     []common.Recipe
}

// IngredientGroup 依分類分組的食材
type IngredientGroup struct {
	Category    string              `json:"category"`
	Ingredients []common.Ingredient `json:"ingredients"`
}

// Load 從內嵌資料檔載入目錄
func Load() (*Catalog, error) {
	var ingredients []common.Ingredient
	if err := decodeFile("data/ingredients.yaml", &ingredients); err != nil {
		return nil, err
	}

	var recipes []common.Recipe
	if err := decodeFile("data/healthy_recipes.yaml", &recipes); err != nil {
		return nil, err
	}

	return New(ingredients, recipes)
}

// MustLoad 與 Load 相同，失敗時 panic
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func decodeFile(name string, v interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// New 以給定資料建立目錄，食材與食譜 ID 必須唯一
func New(ingredients []common.Ingredient, recipes []common.Recipe) (*Catalog, error) {
	byID := make(map[string]common.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		if ing.ID == "" {
			return nil, fmt.Errorf("ingredient %q has empty id", ing.Name)
		}
		if _, dup := byID[ing.ID]; dup {
			return nil, fmt.Errorf("duplicate ingredient id %q", ing.ID)
		}
		byID[ing.ID] = ing
	}

	seen := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		seen[r.ID] = true
		if !r.MealType.Valid() {
			return nil, fmt.Errorf("recipe %q has invalid meal type %q", r.ID, r.MealType)
		}
	}

	return &Catalog{
		ingredients: ingredients,
		byID:        byID,
		recipes:     recipes,
	}, nil
}

// Ingredients 回傳所有食材（目錄順序）
func (c *Catalog) Ingredients() []common.Ingredient {
	out := make([]common.Ingredient, len(c.ingredients))
	copy(out, c.ingredients)
	return out
}

// Recipes 回傳所有健康食譜（目錄順序）
func (c *Catalog) Recipes() []common.Recipe {
	out := make([]common.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Ingredient 依 ID 查詢食材
func (c *Catalog) Ingredient(id string) (common.Ingredient, bool) {
	ing, ok := c.byID[id]
	return ing, ok
}

// Recipe 依 ID 查詢健康食譜
func (c *Catalog) Recipe(id string) (common.Recipe, bool) {
	for _, r := range c.recipes {
		if r.ID == id {
			return r, true
		}
	}
	return common.Recipe{}, false
}

// NamesFor 將選取的食材 ID 轉為顯示名稱，依目錄順序輸出，無法解析的 ID 直接忽略
func (c *Catalog) NamesFor(ids []string) []string {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	names := make([]string, 0, len(selected))
	for _, ing := range c.ingredients {
		if selected[ing.ID] {
			names = append(names, ing.Name)
		}
	}
	return names
}

// GroupByCategory 依分類分組，分類順序為第一次出現的順序，組內保留原順序
func (c *Catalog) GroupByCategory() []IngredientGroup {
	return GroupByCategory(c.ingredients)
}

// GroupByCategory 依分類分組任意食材清單
func GroupByCategory(ingredients []common.Ingredient) []IngredientGroup {
	index := make(map[string]int)
	groups := make([]IngredientGroup, 0)
	for _, ing := range ingredients {
		i, ok := index[ing.Category]
		if !ok {
			i = len(groups)
			index[ing.Category] = i
			groups = append(groups, IngredientGroup{Category: ing.Category})
		}
		groups[i].Ingredients = append(groups[i].Ingredients, ing)
	}
	return groups
}

// Search 以標題、食材或標籤做不分大小寫的子字串搜尋，mealType 為空時不篩選餐別
func (c *Catalog) Search(query string, mealType common.MealType) []common.Recipe {
	q := strings.ToLower(query)
	results := make([]common.Recipe, 0)
	for _, r := range c.recipes {
		if mealType != "" && r.MealType != mealType {
			continue
		}
		if matchesQuery(r, q) {
			results = append(results, r)
		}
	}
	return results
}

func matchesQuery(r common.Recipe, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
