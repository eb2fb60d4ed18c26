// Package tools is the agent-facing call surface. Each catalog, cart, and
// order operation is exposed as a named callable taking structured JSON
// arguments and returning a structured Result. The conversational layer
// decides which tool to invoke and with what arguments; nothing here parses
// natural language.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acplabs/merchant-core/internal/cart"
	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/events"
	"github.com/acplabs/merchant-core/internal/ledger"
	"github.com/acplabs/merchant-core/internal/session"
)

type handler func(ctx context.Context, sessionID string, args json.RawMessage) Result

// Registry binds tool names to operations over one catalog, ledger, and
// session store. Carts are loaded from and saved to the session store around
// each call, one cart per conversation.
type Registry struct {
	catalog  *catalog.Store
	ledger   *ledger.Ledger
	sessions session.Store
	events   events.Publisher
	log      *slog.Logger

	handlers map[string]handler
}

func NewRegistry(cat *catalog.Store, led *ledger.Ledger, sessions session.Store, pub events.Publisher, log *slog.Logger) *Registry {
	r := &Registry{
		catalog:  cat,
		ledger:   led,
		sessions: sessions,
		events:   pub,
		log:      log,
	}
	r.handlers = map[string]handler{
		"list_products":    r.listProducts,
		"search_products":  r.searchProducts,
		"view_cart":        r.viewCart,
		"add_to_cart":      r.addToCart,
		"remove_from_cart": r.removeFromCart,
		"update_quantity":  r.updateQuantity,
		"add_recipe":       r.addRecipe,
		"place_order":      r.placeOrder,
		"latest_order":     r.latestOrder,
	}
	return r
}

// Names lists the registered tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Call invokes a tool by name. It never panics and never returns a raw
// error: every outcome is a Result.
func (r *Registry) Call(ctx context.Context, sessionID, name string, args json.RawMessage) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tool call panicked", "tool", name, "panic", rec)
			res = failure(CodeInternal, "internal error")
		}
	}()

	h, ok := r.handlers[name]
	if !ok {
		return failure(CodeUnknownTool, fmt.Sprintf("no tool named %q", name))
	}
	return h(ctx, sessionID, args)
}

// loadCart rebuilds the conversation's cart from the session store. A
// session with no stored cart starts empty.
func (r *Registry) loadCart(ctx context.Context, sessionID string) (*cart.Session, error) {
	s := cart.NewSession(r.catalog, r.log)
	items, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return s, nil
		}
		return nil, err
	}
	s.Restore(items)
	return s, nil
}

func (r *Registry) saveCart(ctx context.Context, sessionID string, s *cart.Session) error {
	return r.sessions.Set(ctx, sessionID, s.Items())
}

func decodeArgs(args json.RawMessage, into any) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, into)
}
