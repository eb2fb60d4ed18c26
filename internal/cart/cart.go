// Package cart holds the per-conversation order draft. A Session is owned by
// exactly one conversation and is never shared, so it carries no locking;
// the shared resource is the ledger it hands finished orders to.
package cart

import (
	"context"
	"log/slog"
	"strings"

	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/ledger"
	"github.com/acplabs/merchant-core/internal/recipe"
)

const defaultCurrency = "INR"

// LineItem is one product in the cart. The unit price is a snapshot taken
// at add-time. Line identity is (ProductID, Variant): the same product in
// two sizes occupies two lines, repeated adds of the same key merge.
type LineItem struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Note      string `json:"note,omitempty"`
}

// Summary is the full cart view returned by every operation, so the caller
// always has a consistent state to narrate back.
type Summary struct {
	Items    []LineItem `json:"items"`
	Total    int64      `json:"total"`
	Currency string     `json:"currency"`
}

// OrderAppender is the slice of the ledger a session needs to finalize.
type OrderAppender interface {
	Append(ctx context.Context, draft ledger.Draft) (ledger.Order, error)
}

// Session is one conversation's mutable cart.
type Session struct {
	catalog *catalog.Store
	log     *slog.Logger
	items   []LineItem
}

func NewSession(cat *catalog.Store, log *slog.Logger) *Session {
	return &Session{catalog: cat, log: log}
}

// Add puts quantity units of a product into the cart, merging into an
// existing line with the same (product, variant) key. Quantity is
// normalized to at least 1. The cart is left untouched on error.
func (s *Session) Add(productID, variant string, quantity int, note string) (Summary, error) {
	product, ok := s.catalog.Get(productID)
	if !ok {
		return s.List(), ErrUnknownProduct
	}
	if !product.HasSize(variant) {
		return s.List(), ErrUnknownVariant
	}
	if quantity < 1 {
		quantity = 1
	}

	variant = product.CanonicalSize(strings.TrimSpace(variant))
	if i := s.find(productID, variant); i >= 0 {
		s.items[i].Quantity += quantity
		s.items[i].Note = appendNote(s.items[i].Note, note)
		return s.List(), nil
	}

	s.items = append(s.items, LineItem{
		ProductID: productID,
		Variant:   variant,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Note:      strings.TrimSpace(note),
	})
	return s.List(), nil
}

// Remove drops a line from the cart. Removing something that is not there
// is a no-op, reported through the boolean.
func (s *Session) Remove(productID, variant string) (Summary, bool) {
	i := s.find(productID, variant)
	if i < 0 {
		return s.List(), false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.List(), true
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Session) UpdateQuantity(productID, variant string, quantity int) Summary {
	if quantity <= 0 {
		summary, _ := s.Remove(productID, variant)
		return summary
	}
	if i := s.find(productID, variant); i >= 0 {
		s.items[i].Quantity = quantity
	}
	return s.List()
}

// List returns the current cart. The total is recomputed from the lines on
// every call and never cached, so it cannot drift from them.
func (s *Session) List() Summary {
	var total int64
	for _, it := range s.items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return Summary{
		Items:    s.snapshot(),
		Total:    total,
		Currency: s.currency(),
	}
}

// AddRecipe expands a named recipe and adds every resulting item. Recipe
// ids missing from the catalog are skipped (and returned) rather than
// failing the whole expansion; partial success beats all-or-nothing for a
// composite add.
func (s *Session) AddRecipe(name string, servings int) (Summary, []string, error) {
	items, ok := recipe.Expand(name, servings)
	if !ok {
		return s.List(), nil, ErrUnknownRecipe
	}

	var skipped []string
	for _, it := range items {
		if _, err := s.Add(it.ProductID, "", it.Quantity, ""); err != nil {
			s.log.Warn("recipe item not in catalog, skipping",
				"recipe", name, "product_id", it.ProductID, "err", err)
			skipped = append(skipped, it.ProductID)
		}
	}
	return s.List(), skipped, nil
}

// PlaceOrder snapshots the cart into an immutable order, appends it to the
// ledger, and clears the cart. A failed append leaves the cart untouched so
// the user can retry without re-composing it.
func (s *Session) PlaceOrder(ctx context.Context, orders OrderAppender, meta ledger.Metadata) (ledger.Order, error) {
	if len(s.items) == 0 {
		return ledger.Order{}, ErrEmptyCart
	}

	summary := s.List()
	lines := make([]ledger.Line, len(summary.Items))
	for i, it := range summary.Items {
		name := it.ProductID
		if p, ok := s.catalog.Get(it.ProductID); ok {
			name = p.Name
		}
		lines[i] = ledger.Line{
			ProductID: it.ProductID,
			Name:      name,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.UnitPrice * int64(it.Quantity),
			Note:      it.Note,
		}
	}

	order, err := orders.Append(ctx, ledger.Draft{
		Items:    lines,
		Total:    summary.Total,
		Currency: summary.Currency,
		Customer: meta,
	})
	if err != nil {
		return ledger.Order{}, err
	}

	s.items = nil
	return order, nil
}

// Items returns a copy of the current lines, for persisting the session.
func (s *Session) Items() []LineItem {
	return s.snapshot()
}

// Restore replaces the cart contents with previously persisted lines.
func (s *Session) Restore(items []LineItem) {
	s.items = make([]LineItem, len(items))
	copy(s.items, items)
}

func (s *Session) find(productID, variant string) int {
	for i, it := range s.items {
		if it.ProductID == productID && strings.EqualFold(it.Variant, variant) {
			return i
		}
	}
	return -1
}

func (s *Session) snapshot() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Session) currency() string {
	for _, it := range s.items {
		if p, ok := s.catalog.Get(it.ProductID); ok && p.Currency != "" {
			return p.Currency
		}
	}
	return defaultCurrency
}

func appendNote(existing, extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return existing
	}
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}
