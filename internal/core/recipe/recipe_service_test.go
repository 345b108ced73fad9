package recipe

import (
	"context"
	"errors"
	"testing"

	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/store"
	"receita-facil/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	calls [][]string
	err   error
}

func (g *recordingGenerator) Generate(_ context.Context, ingredients []string, mealType common.MealType) (*common.Recipe, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.calls = append(g.calls, ingredients)
	return &common.Recipe{ID: common.GenerateID(), MealType: mealType, Ingredients: ingredients}, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]common.Ingredient{
		{ID: "1", Name: "Frango"},
		{ID: "2", Name: "Arroz"},
		{ID: "3", Name: "Brócolis"},
		{ID: "4", Name: "Cenoura"},
		{ID: "5", Name: "Batata"},
	}, nil)
	require.NoError(t, err)
	return c
}

func TestVariantLists(t *testing.T) {
	require.Equal(t, [][]string{
		{"a", "b"}, {"a", "b"}, {"a"},
	}, variantLists([]string{"a", "b"}))

	require.Equal(t, [][]string{
		{"a", "b", "c"}, {"a", "b", "c"}, {"a", "c"},
	}, variantLists([]string{"a", "b", "c"}))

	require.Equal(t, [][]string{
		{"a", "b", "c", "d", "e"}, {"a", "b", "c", "d"}, {"a", "c", "d", "e"},
	}, variantLists([]string{"a", "b", "c", "d", "e"}))
}

func TestGenerateBatch(t *testing.T) {
	ctx := context.Background()
	gen := &recordingGenerator{}
	svc := NewRecipeService(testCatalog(t), gen, store.NewMemoryStore(), 3)

	recipes, usage, err := svc.GenerateBatch(ctx, "u1", PlanFree, []string{"3", "1", "2", "4"}, common.MealLunch)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	require.Equal(t, [][]string{
		{"Frango", "Arroz", "Brócolis", "Cenoura"},
		{"Frango", "Arroz", "Brócolis"},
		{"Frango", "Brócolis", "Cenoura"},
	}, gen.calls)
	require.Equal(t, 1, usage.RecipesUsed)
	require.Equal(t, 2, usage.Remaining())

	stored, err := svc.Usage(ctx, "u1", PlanFree)
	require.NoError(t, err)
	require.Equal(t, 1, stored.RecipesUsed)

	other, err := svc.Usage(ctx, "u2", PlanFree)
	require.NoError(t, err)
	require.Equal(t, 0, other.RecipesUsed)
}

func TestGenerateBatchNeedsTwoIngredients(t *testing.T) {
	gen := &recordingGenerator{}
	svc := NewRecipeService(testCatalog(t), gen, store.NewMemoryStore(), 3)

	_, _, err := svc.GenerateBatch(context.Background(), "u1", PlanFree, []string{"1", "missing"}, common.MealLunch)
	require.True(t, common.IsValidationError(err))
	require.Equal(t, "Selecione pelo menos 2 ingredientes!", err.Error())
	require.Empty(t, gen.calls)
}

func TestGenerateBatchRejectsInvalidMealType(t *testing.T) {
	svc := NewRecipeService(testCatalog(t), &recordingGenerator{}, store.NewMemoryStore(), 3)

	_, _, err := svc.GenerateBatch(context.Background(), "u1", PlanFree, []string{"1", "2"}, common.MealType("brunch"))
	require.True(t, common.IsValidationError(err))
}

func TestGenerateBatchQuota(t *testing.T) {
	ctx := context.Background()
	svc := NewRecipeService(testCatalog(t), &recordingGenerator{}, store.NewMemoryStore(), 3)
	ids := []string{"1", "2"}

	for i := 0; i < 3; i++ {
		_, _, err := svc.GenerateBatch(ctx, "u1", PlanFree, ids, common.MealDinner)
		require.NoError(t, err)
	}

	_, usage, err := svc.GenerateBatch(ctx, "u1", PlanFree, ids, common.MealDinner)
	require.ErrorIs(t, err, common.ErrQuotaExceeded)
	require.True(t, usage.Exhausted())
	require.Equal(t, 0, usage.Remaining())

	_, usage, err = svc.GenerateBatch(ctx, "u1", PlanPremium, ids, common.MealDinner)
	require.NoError(t, err)
	require.Nil(t, usage.MaxRecipes)
	require.Equal(t, 4, usage.RecipesUsed)
	require.Equal(t, -1, usage.Remaining())
}

func TestGenerateBatchGeneratorErrorDoesNotCount(t *testing.T) {
	ctx := context.Background()
	svc := NewRecipeService(testCatalog(t), &recordingGenerator{err: errors.New("boom")}, store.NewMemoryStore(), 3)

	_, _, err := svc.GenerateBatch(ctx, "u1", PlanFree, []string{"1", "2"}, common.MealLunch)
	require.Error(t, err)

	usage, err := svc.Usage(ctx, "u1", PlanFree)
	require.NoError(t, err)
	require.Equal(t, 0, usage.RecipesUsed)
}

func TestParsePlan(t *testing.T) {
	require.Equal(t, PlanPremium, ParsePlan("premium"))
	require.Equal(t, PlanFree, ParsePlan(""))
	require.Equal(t, PlanFree, ParsePlan("gold"))
}
