package planner

import (
	"net/http"
	"strings"

	"receita-facil/internal/api/handlers"
	"receita-facil/internal/api/middleware"
	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/planner"
	"receita-facil/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AssignRequest 指定一餐：目錄食譜 id、完整食譜或自訂標題擇一
type AssignRequest struct {
	RecipeID string         `json:"recipeId,omitempty"`
	Recipe   *common.Recipe `json:"recipe,omitempty"`
	Title    *string        `json:"title,omitempty"`
}

// AddSearchRequest 新增搜尋紀錄
type AddSearchRequest struct {
	Query    string          `json:"query"`
	MealType common.MealType `json:"mealType"`
}

// Handler 週計畫與搜尋紀錄
type Handler struct {
	plans   *planner.WeeklyPlanService
	history *planner.SearchHistoryService
	catalog *catalog.Catalog
}

// NewHandler 創建週計畫處理器
func NewHandler(plans *planner.WeeklyPlanService, history *planner.SearchHistoryService, c *catalog.Catalog) *Handler {
	return &Handler{plans: plans, history: history, catalog: c}
}

// GetWeeklyPlan GET /plan/weekly
func (h *Handler) GetWeeklyPlan(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	plan, err := h.plans.Load(c.Request.Context(), user.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// AssignMeal PUT /plan/weekly/:dayId/:mealType
func (h *Handler) AssignMeal(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	dayID := c.Param("dayId")

	meal, err := common.ParseMealType(c.Param("mealType"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	var req AssignRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var plan planner.WeeklyPlan
	switch {
	case req.Title != nil:
		plan, err = h.plans.AssignCustom(ctx, user.ID, dayID, meal, *req.Title)
	case req.RecipeID != "":
		r, ok := h.catalog.Recipe(req.RecipeID)
		if !ok {
			handlers.RespondError(c, common.ErrNotFound.WithMessage("Receita não encontrada: "+req.RecipeID))
			return
		}
		plan, err = h.plans.AssignRecipe(ctx, user.ID, dayID, meal, r)
	case req.Recipe != nil:
		if strings.TrimSpace(req.Recipe.Title) == "" {
			handlers.RespondError(c, common.NewValidationError("Receita sem título"))
			return
		}
		plan, err = h.plans.AssignRecipe(ctx, user.ID, dayID, meal, *req.Recipe)
	default:
		handlers.RespondError(c, common.NewValidationError("Informe recipeId, recipe ou title"))
		return
	}
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// ClearMeal DELETE /plan/weekly/:dayId/:mealType
func (h *Handler) ClearMeal(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	meal, err := common.ParseMealType(c.Param("mealType"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	plan, err := h.plans.ClearSlot(c.Request.Context(), user.ID, c.Param("dayId"), meal)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// ListHistory GET /history
func (h *Handler) ListHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	history, err := h.history.List(c.Request.Context(), user.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// AddHistory POST /history
func (h *Handler) AddHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req AddSearchRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if req.MealType == "" {
		req.MealType = common.MealLunch
	}
	if !req.MealType.Valid() {
		handlers.RespondError(c, common.NewValidationError("tipo de refeição inválido"))
		return
	}

	history, err := h.history.Add(c.Request.Context(), user.ID, req.Query, req.MealType)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ClearHistory DELETE /history
func (h *Handler) ClearHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.history.Clear(c.Request.Context(), user.ID); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
