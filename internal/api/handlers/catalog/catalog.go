package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"receita-facil/internal/api/handlers"
	"receita-facil/internal/api/middleware"
	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/planner"
	"receita-facil/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食材與健康食譜目錄
type Handler struct {
	catalog *catalog.Catalog
	history *planner.SearchHistoryService
}

// NewHandler 創建目錄處理器
func NewHandler(c *catalog.Catalog, history *planner.SearchHistoryService) *Handler {
	return &Handler{catalog: c, history: history}
}

// ListIngredients GET /catalog/ingredients[?grouped=true]
func (h *Handler) ListIngredients(c *gin.Context) {
	grouped, _ := strconv.ParseBool(c.Query("grouped"))
	if grouped {
		c.JSON(http.StatusOK, gin.H{"groups": h.catalog.GroupByCategory()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": h.catalog.Ingredients()})
}

// SearchRecipes GET /catalog/recipes?q=&mealType=，非空查詢寫入搜尋紀錄
func (h *Handler) SearchRecipes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var meal common.MealType
	if raw := c.Query("mealType"); raw != "" {
		m, err := common.ParseMealType(raw)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		meal = m
	}

	recipes := h.catalog.Search(query, meal)

	if user, ok := middleware.CurrentUser(c); ok && query != "" {
		historyMeal := meal
		if historyMeal == "" {
			historyMeal = common.MealLunch
		}
		if _, err := h.history.Add(c.Request.Context(), user.ID, query, historyMeal); err != nil {
			// 紀錄失敗不影響搜尋結果
			common.LogWarn("Failed to record search history",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"recipes": recipes,
		"total":   len(recipes),
	})
}
