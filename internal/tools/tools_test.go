package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acplabs/merchant-core/internal/cart"
	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/events"
	"github.com/acplabs/merchant-core/internal/ledger"
	"github.com/acplabs/merchant-core/internal/session"
)

func setupRegistry(t *testing.T) *Registry {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.New([]catalog.Product{
		{ID: "mug-001", Name: "Stoneware Coffee Mug", Price: 799, Currency: "INR", Category: "mug", Attributes: map[string]string{"color": "white"}},
		{ID: "tee-001", Name: "Basic Cotton T-shirt", Price: 699, Currency: "INR", Category: "tshirt", Sizes: []string{"S", "M", "L"}},
		{ID: "pasta_500g", Name: "Pasta 500g", Price: 249, Currency: "INR", Category: "grocery"},
		{ID: "pasta_sauce", Name: "Pasta Sauce", Price: 329, Currency: "INR", Category: "grocery"},
	})
	led := ledger.Open(filepath.Join(t.TempDir(), "orders.json"), log)
	sessions := session.NewMemory(0)
	t.Cleanup(func() { sessions.Close() })

	return NewRegistry(cat, led, sessions, events.Nop{}, log)
}

func call(t *testing.T, r *Registry, sessionID, tool, args string) Result {
	t.Helper()
	var raw json.RawMessage
	if args != "" {
		raw = json.RawMessage(args)
	}
	return r.Call(context.Background(), sessionID, tool, raw)
}

func TestCall_UnknownTool(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "teleport", "")
	assert.False(t, res.OK)
	assert.Equal(t, CodeUnknownTool, res.Code)
}

func TestListProducts(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "list_products", "")
	require.True(t, res.OK)

	data := res.Data.(map[string]any)
	products := data["products"].([]catalog.Product)
	assert.Len(t, products, 4)
}

func TestSearchProducts_CriteriaApplied(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "search_products", `{"category":"mug","max_price":1000}`)
	require.True(t, res.OK)

	products := res.Data.(map[string]any)["products"].([]catalog.Product)
	require.Len(t, products, 1)
	assert.Equal(t, "mug-001", products[0].ID)
}

func TestSearchProducts_MalformedCriterionIgnored(t *testing.T) {
	r := setupRegistry(t)

	// A non-numeric max_price is dropped, and the remaining criteria still
	// apply; imprecise extraction never hard-fails a browse.
	res := call(t, r, "conv-1", "search_products", `{"category":"mug","max_price":"1000"}`)
	require.True(t, res.OK)
	products := res.Data.(map[string]any)["products"].([]catalog.Product)
	require.Len(t, products, 1)
	assert.Equal(t, "mug-001", products[0].ID)

	// Every criterion malformed degrades to the full catalog.
	res = call(t, r, "conv-1", "search_products", `{"category":42,"max_price":"cheap"}`)
	require.True(t, res.OK)
	products = res.Data.(map[string]any)["products"].([]catalog.Product)
	assert.Len(t, products, 4)
}

func TestSearchProducts_BadJSON(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "search_products", `{category}`)
	assert.False(t, res.OK)
	assert.Equal(t, CodeBadArgs, res.Code)
}

func TestAddToCart_HappyPathAndPersistence(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "add_to_cart", `{"product_id":"mug-001","quantity":2}`)
	require.True(t, res.OK)
	summary := res.Data.(cart.Summary)
	assert.Equal(t, int64(1598), summary.Total)

	// A fresh call against the same session sees the stored cart.
	res = call(t, r, "conv-1", "view_cart", "")
	require.True(t, res.OK)
	summary = res.Data.(cart.Summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.Items[0].Quantity)

	// Other sessions are untouched.
	res = call(t, r, "conv-2", "view_cart", "")
	require.True(t, res.OK)
	assert.Empty(t, res.Data.(cart.Summary).Items)
}

func TestAddToCart_FailureCodes(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "add_to_cart", `{"product_id":"ghost-001"}`)
	assert.Equal(t, CodeUnknownProduct, res.Code)

	res = call(t, r, "conv-1", "add_to_cart", `{"product_id":"tee-001","variant":"XXL"}`)
	assert.Equal(t, CodeUnknownVariant, res.Code)

	res = call(t, r, "conv-1", "add_to_cart", `{}`)
	assert.Equal(t, CodeBadArgs, res.Code)

	// None of the failures touched the cart.
	res = call(t, r, "conv-1", "view_cart", "")
	assert.Empty(t, res.Data.(cart.Summary).Items)
}

func TestRemoveAndUpdateQuantity(t *testing.T) {
	r := setupRegistry(t)

	call(t, r, "conv-1", "add_to_cart", `{"product_id":"mug-001","quantity":2}`)

	res := call(t, r, "conv-1", "update_quantity", `{"product_id":"mug-001","quantity":5}`)
	require.True(t, res.OK)
	assert.Equal(t, int64(3995), res.Data.(cart.Summary).Total)

	res = call(t, r, "conv-1", "remove_from_cart", `{"product_id":"mug-001"}`)
	require.True(t, res.OK)
	data := res.Data.(map[string]any)
	assert.True(t, data["removed"].(bool))
	assert.Empty(t, data["cart"].(cart.Summary).Items)

	res = call(t, r, "conv-1", "remove_from_cart", `{"product_id":"mug-001"}`)
	require.True(t, res.OK, "removing an absent product is a no-op, not an error")
	assert.False(t, res.Data.(map[string]any)["removed"].(bool))
}

func TestAddRecipe_ExpandsIntoCart(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "add_recipe", `{"recipe":"Pasta For Two","servings":2}`)
	require.True(t, res.OK)

	data := res.Data.(map[string]any)
	summary := data["cart"].(cart.Summary)
	require.Len(t, summary.Items, 2)
	for _, it := range summary.Items {
		assert.Equal(t, 2, it.Quantity)
	}

	res = call(t, r, "conv-1", "add_recipe", `{"recipe":"sushi platter"}`)
	assert.Equal(t, CodeUnknownRecipe, res.Code)
}

func TestPlaceOrder_FullRoundTrip(t *testing.T) {
	r := setupRegistry(t)

	call(t, r, "conv-1", "add_to_cart", `{"product_id":"mug-001","quantity":2}`)
	call(t, r, "conv-1", "add_to_cart", `{"product_id":"tee-001","variant":"M"}`)

	res := call(t, r, "conv-1", "place_order", `{"customer_name":"Asha"}`)
	require.True(t, res.OK)

	order := res.Data.(map[string]any)["order"].(ledger.Order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(2297), order.Total)
	assert.Equal(t, "Asha", order.Customer.CustomerName)

	// Cart is cleared after placement.
	res = call(t, r, "conv-1", "view_cart", "")
	assert.Empty(t, res.Data.(cart.Summary).Items)
	assert.Zero(t, res.Data.(cart.Summary).Total)

	// latest_order reads the same order back.
	res = call(t, r, "conv-1", "latest_order", "")
	require.True(t, res.OK)
	latest := res.Data.(map[string]any)["order"].(ledger.Order)
	assert.Equal(t, order.ID, latest.ID)
	assert.Equal(t, order.Total, latest.Total)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "place_order", `{}`)
	assert.False(t, res.OK)
	assert.Equal(t, CodeEmptyCart, res.Code)

	res = call(t, r, "conv-1", "latest_order", "")
	assert.Equal(t, CodeNoOrders, res.Code, "no ledger write on empty cart")
}

func TestLatestOrder_NoOrdersYet(t *testing.T) {
	r := setupRegistry(t)

	res := call(t, r, "conv-1", "latest_order", "")
	assert.False(t, res.OK)
	assert.Equal(t, CodeNoOrders, res.Code)
}

func TestNames_CoversAllTools(t *testing.T) {
	r := setupRegistry(t)

	names := r.Names()
	assert.ElementsMatch(t, []string{
		"list_products", "search_products", "view_cart", "add_to_cart",
		"remove_from_cart", "update_quantity", "add_recipe", "place_order",
		"latest_order",
	}, names)
}
