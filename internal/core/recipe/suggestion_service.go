package recipe

import (
	"math"
	"sort"
	"strings"

	"receita-facil/internal/core/catalog"
	"receita-facil/internal/pkg/common"
)

const (
	maxSuggestions        = 5
	maxMissingIngredients = 3
)

// SuggestionService 根據已選食材排序目錄中的健康食譜
type SuggestionService struct {
	catalog *catalog.Catalog
}

// NewSuggestionService 創建建議服務
func NewSuggestionService(c *catalog.Catalog) *SuggestionService {
	return &SuggestionService{catalog: c}
}

// Suggest 以食材 id 計算建議，未知 id 直接忽略
func (s *SuggestionService) Suggest(ingredientIDs []string) []common.Suggestion {
	if len(ingredientIDs) == 0 {
		return []common.Suggestion{}
	}
	return MatchRecipes(s.catalog.NamesFor(ingredientIDs), s.catalog.Recipes())
}

// MatchRecipes 依子字串重疊比例為食譜評分，回傳前 5 名
func MatchRecipes(selected []string, recipes []common.Recipe) []common.Suggestion {
	suggestions := []common.Suggestion{}
	if len(selected) == 0 {
		return suggestions
	}

	selectedNames := lowerAll(selected)

	for _, r := range recipes {
		if len(r.Ingredients) == 0 {
			continue
		}
		recipeNames := lowerAll(r.Ingredients)

		matching := 0
		for _, name := range selectedNames {
			if overlapsAny(name, recipeNames) {
				matching++
			}
		}
		if matching == 0 {
			continue
		}

		missing := make([]string, 0, maxMissingIngredients)
		for _, name := range recipeNames {
			if len(missing) == maxMissingIngredients {
				break
			}
			if !overlapsAny(name, selectedNames) {
				missing = append(missing, name)
			}
		}

		suggestions = append(suggestions, common.Suggestion{
			RecipeName:         r.Title,
			MatchPercentage:    matchPercentage(matching, len(recipeNames)),
			MissingIngredients: missing,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchPercentage > suggestions[j].MatchPercentage
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// matchPercentage 多個已選名稱可能命中同一食材，結果上限為 100
func matchPercentage(matching, total int) int {
	pct := int(math.Round(100 * float64(matching) / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}

// overlapsAny 任一方為另一方子字串即視為命中
func overlapsAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(c, name) || strings.Contains(name, c) {
			return true
		}
	}
	return false
}

func lowerAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
