package catalog

// defaultCatalog is the fallback product set used when no external catalog
// is configured or the configured one cannot be read.
func defaultCatalog() []Product {
	return []Product{
		{
			ID:         "mug-001",
			Name:       "Stoneware Coffee Mug",
			Price:      799,
			Currency:   "INR",
			Category:   "mug",
			Attributes: map[string]string{"color": "white"},
		},
		{
			ID:         "tee-001",
			Name:       "Basic Cotton T-shirt",
			Price:      699,
			Currency:   "INR",
			Category:   "tshirt",
			Attributes: map[string]string{"color": "black"},
			Sizes:      []string{"S", "M", "L", "XL"},
		},
		{
			ID:         "hoodie-001",
			Name:       "Cozy Fleece Hoodie",
			Price:      1599,
			Currency:   "INR",
			Category:   "hoodie",
			Attributes: map[string]string{"color": "black"},
			Sizes:      []string{"S", "M", "L", "XL"},
		},
		{
			ID:          "pasta_500g",
			Name:        "Durum Wheat Pasta 500g",
			Description: "Bronze-cut penne",
			Price:       249,
			Currency:    "INR",
			Category:    "grocery",
		},
		{
			ID:       "pasta_sauce",
			Name:     "Tomato Basil Pasta Sauce",
			Price:    329,
			Currency: "INR",
			Category: "grocery",
		},
		{
			ID:       "parmesan_100g",
			Name:     "Parmesan Wedge 100g",
			Price:    449,
			Currency: "INR",
			Category: "grocery",
		},
		{
			ID:          "coffee_250g",
			Name:        "Single Origin Coffee Beans 250g",
			Description: "Medium roast, washed arabica",
			Price:       599,
			Currency:    "INR",
			Category:    "grocery",
		},
	}
}
