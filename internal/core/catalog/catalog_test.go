package catalog

import (
	"testing"

	"receita-facil/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Len(t, c.Ingredients(), 175)
	require.Len(t, c.Recipes(), 12)

	ovos, ok := c.Ingredient("6")
	require.True(t, ok)
	assert.Equal(t, "Ovos", ovos.Name)
	assert.Equal(t, "Proteínas", ovos.Category)

	h2, ok := c.Recipe("h2")
	require.True(t, ok)
	assert.Equal(t, common.MealBreakfast, h2.MealType)
	require.NotNil(t, h2.Calories)
	assert.Equal(t, 180, *h2.Calories)
	assert.True(t, h2.IsHealthy)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]common.Ingredient{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}}, nil)
	require.Error(t, err)

	_, err = New(nil, []common.Recipe{
		{ID: "r", MealType: common.MealLunch},
		{ID: "r", MealType: common.MealLunch},
	})
	require.Error(t, err)
}

func TestNamesForDropsUnknownIDs(t *testing.T) {
	c := MustLoad()
	names := c.NamesFor([]string{"56", "does-not-exist", "6"})
	// 依目錄順序輸出
	assert.Equal(t, []string{"Ovos", "Espinafre"}, names)
}

func TestGroupByCategory(t *testing.T) {
	ingredients := []common.Ingredient{
		{ID: "1", Name: "Frango", Category: "Proteínas"},
		{ID: "2", Name: "Arroz", Category: "Carboidratos"},
		{ID: "3", Name: "Ovos", Category: "Proteínas"},
		{ID: "4", Name: "Tomate", Category: "Vegetais"},
		{ID: "5", Name: "Batata", Category: "Carboidratos"},
	}

	groups := GroupByCategory(ingredients)
	require.Len(t, groups, 3)
	assert.Equal(t, "Proteínas", groups[0].Category)
	assert.Equal(t, "Carboidratos", groups[1].Category)
	assert.Equal(t, "Vegetais", groups[2].Category)
	assert.Equal(t, []string{"1", "3"}, ids(groups[0].Ingredients))
	assert.Equal(t, []string{"2", "5"}, ids(groups[1].Ingredients))

	// 分組兩次結果相同
	assert.Equal(t, groups, GroupByCategory(ingredients))
}

func TestGroupByCategoryCoversEveryIngredientOnce(t *testing.T) {
	c := MustLoad()
	groups := c.GroupByCategory()

	seen := make(map[string]int)
	for _, g := range groups {
		for _, ing := range g.Ingredients {
			assert.Equal(t, g.Category, ing.Category)
			seen[ing.ID]++
		}
	}
	require.Len(t, seen, len(c.Ingredients()))
	for id, n := range seen {
		assert.Equal(t, 1, n, "ingredient %s", id)
	}
	assert.Equal(t, "Proteínas", groups[0].Category)
	assert.Equal(t, "Doces", groups[len(groups)-1].Category)
}

func TestSearch(t *testing.T) {
	c := MustLoad()

	all := c.Search("", "")
	assert.Len(t, all, 12)

	byTitle := c.Search("omelete", "")
	assert.Equal(t, []string{"h2", "h12"}, recipeIDs(byTitle))

	byTitleAndMeal := c.Search("omelete", common.MealDinner)
	assert.Equal(t, []string{"h12"}, recipeIDs(byTitleAndMeal))

	byTag := c.Search("VEGANO", "")
	assert.Equal(t, []string{"h4", "h7", "h9", "h11"}, recipeIDs(byTag))

	byIngredient := c.Search("tofu", "")
	assert.Equal(t, []string{"h11"}, recipeIDs(byIngredient))

	assert.Empty(t, c.Search("feijoada", ""))
}

func ids(ings []common.Ingredient) []string {
	out := make([]string, len(ings))
	for i, ing := range ings {
		out[i] = ing.ID
	}
	return out
}

func recipeIDs(recipes []common.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}
