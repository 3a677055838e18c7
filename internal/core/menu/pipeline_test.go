package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func names(recipes []Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Name)
	}
	return out
}

func TestDeriveVisibleRecipes_ArchivePartition(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{ID: "1", Name: "Beef Stew", IsArchived: false},
		{ID: "2", Name: "Old Special", IsArchived: true},
		{ID: "3", Name: "Tomato Soup", IsArchived: false},
		{ID: "4", Name: "Retired Dish", IsArchived: true},
	}

	active := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{})
	archived := DeriveVisibleRecipes(recipes, true, "", FilterCriteria{})

	for _, r := range active {
		assert.False(t, r.IsArchived)
	}
	for _, r := range archived {
		assert.True(t, r.IsArchived)
	}
	// 兩份清單合計正好是整個集合
	assert.Equal(t, len(recipes), len(active)+len(archived))
}

func TestDeriveVisibleRecipes_Search(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Tomato Soup"},
		{Name: "Tomato Salad"},
		{Name: "Beef Stew"},
	}

	got := DeriveVisibleRecipes(recipes, false, "tomato", FilterCriteria{})

	require.Len(t, got, 2)
	assert.Equal(t, []string{"Tomato Salad", "Tomato Soup"}, names(got))
}

func TestDeriveVisibleRecipes_CategoryMembership(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Espresso", Category: "drinks"},
		{Name: "Carbonara", Category: "mains"},
		{Name: "Tiramisu", Category: "desserts"},
	}

	got := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{Categories: []string{"drinks", "desserts"}})

	assert.Equal(t, []string{"Espresso", "Tiramisu"}, names(got))
}

func TestDeriveVisibleRecipes_AllergensConjunctive(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Pad Thai", Allergies: []string{"peanuts", "shellfish", "soy"}},
		{Name: "Satay", Allergies: []string{"peanuts"}},
		{Name: "Caesar Salad", Allergies: []string{"dairy", "gluten"}},
	}

	// 選擇多個過敏原會進一步縮小結果：品項必須包含「所有」選中的過敏原
	got := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{Allergens: []string{"peanuts", "soy"}})

	require.Len(t, got, 1)
	assert.Equal(t, "Pad Thai", got[0].Name)
}

func TestDeriveVisibleRecipes_PriceRange(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Cheap", Price: 10},
		{Name: "Mid", Price: 20},
		{Name: "Expensive", Price: 30},
	}

	got := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{MinPrice: f(15), MaxPrice: f(25)})

	require.Len(t, got, 1)
	assert.Equal(t, "Mid", got[0].Name)
}

func TestDeriveVisibleRecipes_PriceBoundsInclusive(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Lower", Price: 15},
		{Name: "Upper", Price: 25},
	}

	got := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{MinPrice: f(15), MaxPrice: f(25)})

	assert.Len(t, got, 2)
}

func TestDeriveVisibleRecipes_FoodCostZeroExcludedByMinBound(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "No Cost Recorded", FoodCost: 0},
		{Name: "Costed", FoodCost: 5},
	}

	// FoodCost 為 0 視為未填：任何下限條件都會排除，即使下限是 0
	got := DeriveVisibleRecipes(recipes, false, "", FilterCriteria{MinFoodCost: f(0)})
	require.Len(t, got, 1)
	assert.Equal(t, "Costed", got[0].Name)

	got = DeriveVisibleRecipes(recipes, false, "", FilterCriteria{MinFoodCost: f(3)})
	require.Len(t, got, 1)
	assert.Equal(t, "Costed", got[0].Name)

	// 只有上限時 0 成本品項不會被排除
	got = DeriveVisibleRecipes(recipes, false, "", FilterCriteria{MaxFoodCost: f(10)})
	assert.Len(t, got, 2)
}

func TestDeriveVisibleRecipes_SortByNameAscending(t *testing.T) {
	t.Parallel()

	unsorted := []Recipe{
		{Name: "Zucchini Fritti"},
		{Name: "apple Pie"},
		{Name: "Beef Stew"},
	}
	descending := []Recipe{
		{Name: "Zucchini Fritti"},
		{Name: "Beef Stew"},
		{Name: "apple Pie"},
	}

	want := []string{"apple Pie", "Beef Stew", "Zucchini Fritti"}

	// 不論輸入順序，輸出一律以名稱升冪排列（大小寫不敏感）
	assert.Equal(t, want, names(DeriveVisibleRecipes(unsorted, false, "", FilterCriteria{})))
	assert.Equal(t, want, names(DeriveVisibleRecipes(descending, false, "", FilterCriteria{})))
}

func TestDeriveVisibleRecipes_Idempotent(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Beef Stew", Price: 20, Category: "mains"},
		{Name: "Tomato Soup", Price: 10, Category: "starters"},
		{Name: "Tiramisu", Price: 8, Category: "desserts"},
	}
	criteria := FilterCriteria{Categories: []string{"mains", "starters"}, MinPrice: f(5)}

	first := DeriveVisibleRecipes(recipes, false, "", criteria)
	second := DeriveVisibleRecipes(recipes, false, "", criteria)

	assert.Equal(t, first, second)
}

func TestDeriveVisibleRecipes_EmptyInput(t *testing.T) {
	t.Parallel()

	got := DeriveVisibleRecipes(nil, false, "anything", FilterCriteria{MinPrice: f(1)})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeriveVisibleRecipes_AllPredicatesCombined(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Tomato Pasta", Category: "mains", Price: 18, FoodCost: 6, Allergies: []string{"gluten", "dairy"}},
		{Name: "Tomato Salad", Category: "starters", Price: 12, FoodCost: 4, Allergies: []string{"dairy"}},
		{Name: "Tomato Pizza", Category: "mains", Price: 40, FoodCost: 10, Allergies: []string{"gluten", "dairy"}},
		{Name: "Tomato Bruschetta", Category: "mains", Price: 18, FoodCost: 0, Allergies: []string{"gluten", "dairy"}},
		{Name: "Archived Tomato Pie", Category: "mains", Price: 18, FoodCost: 6, Allergies: []string{"gluten", "dairy"}, IsArchived: true},
	}
	criteria := FilterCriteria{
		Categories:  []string{"mains"},
		Allergens:   []string{"gluten", "dairy"},
		MinPrice:    f(10),
		MaxPrice:    f(30),
		MinFoodCost: f(1),
	}

	got := DeriveVisibleRecipes(recipes, false, "tomato", criteria)

	require.Len(t, got, 1)
	assert.Equal(t, "Tomato Pasta", got[0].Name)
}

func TestDeriveVisibleRecipes_WhitespaceQueryMatchesLiterally(t *testing.T) {
	t.Parallel()

	recipes := []Recipe{
		{Name: "Tomato Soup"},
		{Name: "Tomato"},
		{Name: "Bruschetta"},
	}

	// 純空白的查詢字串不會被忽略，仍以子字串比對
	got := DeriveVisibleRecipes(recipes, false, " ", FilterCriteria{})

	require.Len(t, got, 1)
	assert.Equal(t, "Tomato Soup", got[0].Name)
}
