// Package recipe maps named dishes to bundles of catalog items. The table is
// static configuration: it is compiled in and not editable at runtime.
package recipe

import "strings"

// Item is one catalog product plus the quantity a single serving needs.
type Item struct {
	ProductID string
	Quantity  int
}

var recipes = map[string][]Item{
	"pasta for two": {
		{ProductID: "pasta_500g", Quantity: 1},
		{ProductID: "pasta_sauce", Quantity: 1},
	},
	"pasta night": {
		{ProductID: "pasta_500g", Quantity: 1},
		{ProductID: "pasta_sauce", Quantity: 1},
		{ProductID: "parmesan_100g", Quantity: 1},
	},
	"coffee morning": {
		{ProductID: "coffee_250g", Quantity: 1},
		{ProductID: "mug-001", Quantity: 1},
	},
}

// Names lists the known recipe names, for callers that want to offer them.
func Names() []string {
	out := make([]string, 0, len(recipes))
	for name := range recipes {
		out = append(out, name)
	}
	return out
}

// Expand resolves a recipe name to its items, scaled by servings. The name
// is matched case-insensitively with runs of whitespace collapsed; servings
// below 1 are clamped to 1. ok is false when the name is unknown.
func Expand(name string, servings int) (items []Item, ok bool) {
	base, ok := recipes[normalize(name)]
	if !ok {
		return nil, false
	}
	if servings < 1 {
		servings = 1
	}

	items = make([]Item, len(base))
	for i, it := range base {
		items[i] = Item{ProductID: it.ProductID, Quantity: it.Quantity * servings}
	}
	return items, true
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
