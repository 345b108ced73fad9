package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"receita-facil/internal/core/ai/service"
	"receita-facil/internal/pkg/common"

	"go.uber.org/zap"
)

// Processor LLM 請求入口
type Processor interface {
	ProcessRequest(ctx context.Context, prompt string) (*service.Response, error)
}

// LLMGenerator 透過 LLM 生成食譜，失敗時改用 fallback
type LLMGenerator struct {
	ai       Processor
	fallback Generator
}

// NewLLMGenerator 創建 LLM 生成器
func NewLLMGenerator(ai Processor, fallback Generator) *LLMGenerator {
	return &LLMGenerator{ai: ai, fallback: fallback}
}

// llmRecipe 模型回傳的 JSON 結構
type llmRecipe struct {
	Title        string   `json:"title"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prepTime"`
	Difficulty   string   `json:"difficulty"`
	Calories     *int     `json:"calories"`
	Protein      *int     `json:"protein"`
	Carbs        *int     `json:"carbs"`
	Fats         *int     `json:"fats"`
}

var mealLabels = map[common.MealType]string{
	common.MealBreakfast: "café da manhã",
	common.MealLunch:     "almoço",
	common.MealDinner:    "jantar",
}

// Generate 實作 Generator
func (g *LLMGenerator) Generate(ctx context.Context, ingredients []string, mealType common.MealType) (*common.Recipe, error) {
	r, err := g.generate(ctx, ingredients, mealType)
	if err == nil {
		return r, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	common.LogWarn("LLM generation failed, using template",
		zap.Error(err),
		zap.String("meal_type", string(mealType)),
	)
	return g.fallback.Generate(ctx, ingredients, mealType)
}

func (g *LLMGenerator) generate(ctx context.Context, ingredients []string, mealType common.MealType) (*common.Recipe, error) {
	resp, err := g.ai.ProcessRequest(ctx, buildPrompt(ingredients, mealType))
	if err != nil {
		return nil, err
	}

	var out llmRecipe
	raw := common.ExtractJSONObject(resp.Content)
	if err := common.ParseJSON(raw, &out); err != nil {
		// 模型偶爾輸出未加引號的鍵
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(raw), &out); retryErr != nil {
			return nil, fmt.Errorf("failed to parse AI response: %w", err)
		}
	}

	instructions := make([]string, 0, len(out.Instructions))
	for _, s := range out.Instructions {
		if s = strings.TrimSpace(s); s != "" {
			instructions = append(instructions, s)
		}
	}
	if strings.TrimSpace(out.Title) == "" || len(instructions) == 0 {
		return nil, errors.New("AI response missing title or instructions")
	}

	difficulty := common.Difficulty(out.Difficulty)
	switch difficulty {
	case common.DifficultyEasy, common.DifficultyMedium, common.DifficultyHard:
	default:
		difficulty = common.DifficultyMedium
	}
	if out.PrepTime == "" {
		out.PrepTime = "30 min"
	}

	return &common.Recipe{
		ID:           common.GenerateID(),
		Title:        strings.TrimSpace(out.Title),
		MealType:     mealType,
		Ingredients:  append([]string{}, ingredients...),
		Instructions: instructions,
		PrepTime:     out.PrepTime,
		Difficulty:   difficulty,
		Calories:     out.Calories,
		Protein:      out.Protein,
		Carbs:        out.Carbs,
		Fats:         out.Fats,
		IsHealthy:    true,
		Tags:         append([]string(nil), generatedTags...),
	}, nil
}

func buildPrompt(ingredients []string, mealType common.MealType) string {
	return fmt.Sprintf(`Crie uma receita caseira em português para %s usando apenas: %s.
Responda somente com JSON compacto no formato:
{"title":"nome","instructions":["passo"],"prepTime":"25 min","difficulty":"easy|medium|hard","calories":0,"protein":0,"carbs":0,"fats":0}`,
		mealLabels[mealType], strings.Join(ingredients, ", "))
}
