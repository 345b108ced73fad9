package recipe

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"receita-facil/internal/pkg/common"
)

// Generator 由食材清單與餐別產生一份食譜
type Generator interface {
	Generate(ctx context.Context, ingredients []string, mealType common.MealType) (*common.Recipe, error)
}

// DefaultGenerationDelay 模擬生成延遲
const DefaultGenerationDelay = 1500 * time.Millisecond

var generatedTags = []string{"Tradicional", "Caseiro", "Nutritivo"}

var slotPattern = regexp.MustCompile(`\{(\d)\}`)

// template 固定的說明片段與營養估計
type template struct {
	title      string
	fallback   string
	fragments  []string
	prepTime   string
	difficulty common.Difficulty
	calories   int
}

var templates = []template{
	{
		title:    "Refogado de {0}",
		fallback: "Refogado Caseiro",
		fragments: []string{
			"Lave bem {0} em água corrente e corte em pedaços uniformes.",
			"Pique {1} e reserve.",
			"Aqueça uma panela em fogo médio com 2 colheres de sopa de azeite.",
			"Refogue {0} por 5-7 minutos, mexendo ocasionalmente.",
			"Junte {1} e {2} e cozinhe até atingir a textura desejada.",
			"Tempere com sal, pimenta-do-reino e ervas frescas a gosto.",
			"Sirva imediatamente em pratos aquecidos. Bom apetite!",
		},
		prepTime:   "25 min",
		difficulty: common.DifficultyEasy,
		calories:   320,
	},
	{
		title:    "{0} Assado com {1}",
		fallback: "Assado da Casa",
		fragments: []string{
			"Preaqueça o forno a 200°C.",
			"Tempere {0} com sal, alho e um fio de azeite.",
			"Disponha {0} em uma assadeira e distribua {1} ao redor.",
			"Adicione {2} por cima para dar sabor.",
			"Asse por 35-40 minutos, virando na metade do tempo.",
			"Finalize com um toque de limão ou ervas frescas picadas.",
		},
		prepTime:   "45 min",
		difficulty: common.DifficultyMedium,
		calories:   480,
	},
	{
		title:    "Salada Morna de {0}",
		fallback: "Salada Morna",
		fragments: []string{
			"Cozinhe {0} no vapor até ficar macio.",
			"Enquanto isso, corte {1} em cubos pequenos.",
			"Misture {0} e {1} em uma tigela grande.",
			"Acrescente {2} e regue com azeite e limão.",
			"Ajuste o tempero e sirva ainda morno.",
		},
		prepTime:   "20 min",
		difficulty: common.DifficultyEasy,
		calories:   280,
	},
}

// TemplateGenerator 以固定模板填入食材名稱
type TemplateGenerator struct {
	delay time.Duration
	pick  func(n int) int
}

// TemplateOption 調整 TemplateGenerator
type TemplateOption func(*TemplateGenerator)

// WithDelay 設定模擬延遲
func WithDelay(d time.Duration) TemplateOption {
	return func(g *TemplateGenerator) {
		g.delay = d
	}
}

// WithPicker 指定模板選擇函式，預設為均勻隨機
func WithPicker(pick func(n int) int) TemplateOption {
	return func(g *TemplateGenerator) {
		g.pick = pick
	}
}

// NewTemplateGenerator 創建模板生成器
func NewTemplateGenerator(opts ...TemplateOption) *TemplateGenerator {
	g := &TemplateGenerator{
		delay: DefaultGenerationDelay,
		pick:  rand.Intn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 等待模擬延遲後回傳新食譜；僅在 ctx 結束時失敗
func (g *TemplateGenerator) Generate(ctx context.Context, ingredients []string, mealType common.MealType) (*common.Recipe, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	t := templates[g.pick(len(templates))]
	return t.render(ingredients, mealType), nil
}

func (t template) render(ingredients []string, mealType common.MealType) *common.Recipe {
	title, ok := fill(t.title, ingredients)
	if !ok {
		title = t.fallback
	}

	instructions := make([]string, 0, len(t.fragments))
	for _, f := range t.fragments {
		if line, ok := fill(f, ingredients); ok {
			instructions = append(instructions, line)
		}
	}

	protein, carbs, fats := macros(t.calories)
	return &common.Recipe{
		ID:           common.GenerateID(),
		Title:        title,
		MealType:     mealType,
		Ingredients:  append([]string{}, ingredients...),
		Instructions: instructions,
		PrepTime:     t.prepTime,
		Difficulty:   t.difficulty,
		Calories:     common.IntPtr(t.calories),
		Protein:      common.IntPtr(protein),
		Carbs:        common.IntPtr(carbs),
		Fats:         common.IntPtr(fats),
		IsHealthy:    true,
		Tags:         append([]string(nil), generatedTags...),
	}
}

// fill 代入 {n} 欄位；引用超出清單的欄位時回傳 false
func fill(fragment string, ingredients []string) (string, bool) {
	ok := true
	out := slotPattern.ReplaceAllStringFunc(fragment, func(m string) string {
		idx, _ := strconv.Atoi(m[1 : len(m)-1])
		if idx >= len(ingredients) || strings.TrimSpace(ingredients[idx]) == "" {
			ok = false
			return ""
		}
		return ingredients[idx]
	})
	return out, ok
}

// macros 以 25/45/30 的熱量比例估算蛋白質、碳水與脂肪克數
func macros(calories int) (protein, carbs, fats int) {
	c := float64(calories)
	return int(math.Round(c * 0.25 / 4)), int(math.Round(c * 0.45 / 4)), int(math.Round(c * 0.30 / 9))
}
