package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_ScalesByServings(t *testing.T) {
	items, ok := Expand("pasta for two", 2)
	require.True(t, ok)
	require.Len(t, items, 2)

	byID := map[string]int{}
	for _, it := range items {
		byID[it.ProductID] = it.Quantity
	}
	assert.Equal(t, 2, byID["pasta_500g"])
	assert.Equal(t, 2, byID["pasta_sauce"])
}

func TestExpand_NameNormalization(t *testing.T) {
	for _, name := range []string{"Pasta For Two", "  pasta   FOR two  ", "pasta for two"} {
		_, ok := Expand(name, 1)
		assert.True(t, ok, "name %q should resolve", name)
	}
}

func TestExpand_ServingsClampedToOne(t *testing.T) {
	for _, servings := range []int{0, -3} {
		items, ok := Expand("pasta for two", servings)
		require.True(t, ok)
		for _, it := range items {
			assert.Equal(t, 1, it.Quantity)
		}
	}
}

func TestExpand_UnknownRecipe(t *testing.T) {
	items, ok := Expand("sushi platter", 1)
	assert.False(t, ok)
	assert.Nil(t, items)
}

func TestNames_ListsAllRecipes(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(recipes))
	assert.Contains(t, names, "pasta for two")
}
