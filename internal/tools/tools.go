package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/acplabs/merchant-core/internal/cart"
	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/ledger"
)

func (r *Registry) listProducts(_ context.Context, _ string, _ json.RawMessage) Result {
	return success(map[string]any{"products": r.catalog.Products()})
}

func (r *Registry) searchProducts(_ context.Context, _ string, args json.RawMessage) Result {
	// Criteria decode drops individually malformed fields; only JSON that
	// is not an object at all reaches this failure.
	var criteria catalog.Criteria
	if err := decodeArgs(args, &criteria); err != nil {
		return failure(CodeBadArgs, "search arguments are not valid JSON")
	}
	return success(map[string]any{"products": catalog.Filter(r.catalog.Products(), criteria)})
}

func (r *Registry) viewCart(ctx context.Context, sessionID string, _ json.RawMessage) Result {
	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}
	return success(s.List())
}

type addToCartArgs struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Note      string `json:"note,omitempty"`
}

func (r *Registry) addToCart(ctx context.Context, sessionID string, args json.RawMessage) Result {
	var a addToCartArgs
	if err := decodeArgs(args, &a); err != nil || a.ProductID == "" {
		return failure(CodeBadArgs, "add_to_cart needs a product_id")
	}

	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}

	summary, err := s.Add(a.ProductID, a.Variant, a.Quantity, a.Note)
	if err != nil {
		return cartFailure(err)
	}
	if err := r.saveCart(ctx, sessionID, s); err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}
	return success(summary)
}

type removeFromCartArgs struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
}

func (r *Registry) removeFromCart(ctx context.Context, sessionID string, args json.RawMessage) Result {
	var a removeFromCartArgs
	if err := decodeArgs(args, &a); err != nil || a.ProductID == "" {
		return failure(CodeBadArgs, "remove_from_cart needs a product_id")
	}

	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}

	summary, removed := s.Remove(a.ProductID, a.Variant)
	if err := r.saveCart(ctx, sessionID, s); err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}
	return success(map[string]any{"removed": removed, "cart": summary})
}

type updateQuantityArgs struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
}

func (r *Registry) updateQuantity(ctx context.Context, sessionID string, args json.RawMessage) Result {
	var a updateQuantityArgs
	if err := decodeArgs(args, &a); err != nil || a.ProductID == "" {
		return failure(CodeBadArgs, "update_quantity needs a product_id")
	}

	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}

	summary := s.UpdateQuantity(a.ProductID, a.Variant, a.Quantity)
	if err := r.saveCart(ctx, sessionID, s); err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}
	return success(summary)
}

type addRecipeArgs struct {
	Recipe   string `json:"recipe"`
	Servings int    `json:"servings,omitempty"`
}

func (r *Registry) addRecipe(ctx context.Context, sessionID string, args json.RawMessage) Result {
	var a addRecipeArgs
	if err := decodeArgs(args, &a); err != nil || a.Recipe == "" {
		return failure(CodeBadArgs, "add_recipe needs a recipe name")
	}

	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}

	summary, skipped, err := s.AddRecipe(a.Recipe, a.Servings)
	if err != nil {
		return cartFailure(err)
	}
	if err := r.saveCart(ctx, sessionID, s); err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}
	return success(map[string]any{"cart": summary, "skipped": skipped})
}

type placeOrderArgs struct {
	CustomerName string `json:"customer_name,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (r *Registry) placeOrder(ctx context.Context, sessionID string, args json.RawMessage) Result {
	var a placeOrderArgs
	if err := decodeArgs(args, &a); err != nil {
		return failure(CodeBadArgs, "place_order arguments are not valid JSON")
	}

	s, err := r.loadCart(ctx, sessionID)
	if err != nil {
		return failure(CodeSessionUnavailable, err.Error())
	}

	order, err := s.PlaceOrder(ctx, r.ledger, ledger.Metadata{
		CustomerName: a.CustomerName,
		Address:      a.Address,
		Notes:        a.Notes,
	})
	if err != nil {
		return cartFailure(err)
	}

	// The order is durable; losing the emptied cart state or an event is
	// recoverable, so neither failure is surfaced as one.
	if err := r.saveCart(ctx, sessionID, s); err != nil {
		r.log.Warn("saving cleared cart failed", "session_id", sessionID, "err", err)
	}
	if err := r.events.OrderPlaced(ctx, order); err != nil {
		r.log.Warn("order-placed event not published", "order_id", order.ID, "err", err)
	}

	return success(map[string]any{"order": order})
}

func (r *Registry) latestOrder(ctx context.Context, _ string, _ json.RawMessage) Result {
	order, err := r.ledger.Latest(ctx)
	if errors.Is(err, ledger.ErrNoOrders) {
		return failure(CodeNoOrders, "no orders have been placed yet")
	}
	if err != nil {
		return failure(CodeLedgerUnavailable, err.Error())
	}
	return success(map[string]any{"order": order})
}

// cartFailure maps cart and ledger errors onto result codes.
func cartFailure(err error) Result {
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		return failure(CodeUnknownProduct, err.Error())
	case errors.Is(err, cart.ErrUnknownVariant):
		return failure(CodeUnknownVariant, err.Error())
	case errors.Is(err, cart.ErrUnknownRecipe):
		return failure(CodeUnknownRecipe, err.Error())
	case errors.Is(err, cart.ErrEmptyCart):
		return failure(CodeEmptyCart, err.Error())
	case errors.Is(err, ledger.ErrStore):
		return failure(CodeLedgerUnavailable, err.Error())
	default:
		return failure(CodeInternal, err.Error())
	}
}
