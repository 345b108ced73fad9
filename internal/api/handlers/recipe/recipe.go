package recipe

import (
	"net/http"

	"receita-facil/internal/api/handlers"
	"receita-facil/internal/api/middleware"
	recipeService "receita-facil/internal/core/recipe"
	"receita-facil/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuggestRequest 以已選食材取得建議
type SuggestRequest struct {
	IngredientIDs []string `json:"ingredientIds"`
}

// GenerateRequest 批次生成食譜
type GenerateRequest struct {
	IngredientIDs []string        `json:"ingredientIds"`
	MealType      common.MealType `json:"mealType"`
}

// GenerateResponse 批次生成結果
type GenerateResponse struct {
	Recipes []common.Recipe     `json:"recipes"`
	Usage   recipeService.Usage `json:"usage"`
}

// Handler 食譜處理程序
type Handler struct {
	recipeService     *recipeService.RecipeService
	suggestionService *recipeService.SuggestionService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.RecipeService, suggestionService *recipeService.SuggestionService) *Handler {
	return &Handler{
		recipeService:     recipeService,
		suggestionService: suggestionService,
	}
}

// HandleSuggest POST /recipes/suggest
func (h *Handler) HandleSuggest(c *gin.Context) {
	var req SuggestRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.suggestionService.Suggest(req.IngredientIDs),
	})
}

// HandleGenerate POST /recipes/generate
func (h *Handler) HandleGenerate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req GenerateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if req.MealType == "" {
		req.MealType = common.MealLunch
	}

	common.LogInfo("Recipe generation requested",
		zap.String("request_id", requestid.Get(c)),
		zap.String("user_id", user.ID),
		zap.Int("ingredients", len(req.IngredientIDs)),
		zap.String("meal_type", string(req.MealType)),
	)

	recipes, usage, err := h.recipeService.GenerateBatch(
		c.Request.Context(), user.ID, recipeService.ParsePlan(user.Plan), req.IngredientIDs, req.MealType,
	)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Recipes: recipes, Usage: usage})
}

// HandleUsage GET /usage
func (h *Handler) HandleUsage(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	usage, err := h.recipeService.Usage(c.Request.Context(), user.ID, recipeService.ParsePlan(user.Plan))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":        usage.Plan,
		"recipesUsed": usage.RecipesUsed,
		"maxRecipes":  usage.MaxRecipes,
		"remaining":   usage.Remaining(),
	})
}
