// Package gateway exposes the catalog and order ledger over HTTP, for the
// deployment variant where a storefront talks to the merchant directly
// while the voice agent shares the same on-disk ledger.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/events"
	"github.com/acplabs/merchant-core/internal/ledger"
	"github.com/acplabs/merchant-core/internal/tools"
)

// SessionHeader carries the conversation id a tool call operates under.
const SessionHeader = "X-Session-ID"

type Handler struct {
	catalog *catalog.Store
	ledger  *ledger.Ledger
	tools   *tools.Registry
	events  events.Publisher
	log     *slog.Logger
}

func New(cat *catalog.Store, led *ledger.Ledger, reg *tools.Registry, pub events.Publisher, log *slog.Logger) *Handler {
	return &Handler{catalog: cat, ledger: led, tools: reg, events: pub, log: log}
}

// Routes mounts the merchant API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Route("/acp", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/latest", h.LatestOrder)
	})
	r.Post("/tools/{name}", h.CallTool)
	return r
}

// CallTool runs one registry tool for the conversation named in the session
// header; the request body is the tool's JSON arguments. The response is
// always the tool's structured result — failures ride inside it rather than
// on the HTTP status, so the conversational layer gets one shape to narrate.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		h.respondError(w, http.StatusBadRequest, "missing_session", SessionHeader+" header is required")
		return
	}

	args, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "unreadable request body")
		return
	}

	res := h.tools.Call(r.Context(), sessionID, chi.URLParam(r, "name"), args)
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogResponse struct {
	Products []catalog.Product `json:"products"`
}

func (h *Handler) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, catalogResponse{Products: h.catalog.Products()})
}

type orderLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type createOrderDTO struct {
	Items    []orderLineDTO  `json:"items"`
	Customer ledger.Metadata `json:"customer"`
}

type createOrderResponse struct {
	OK      bool         `json:"ok"`
	Order   ledger.Order `json:"order"`
	Skipped []string     `json:"skipped,omitempty"`
}

// CreateOrder prices the submitted lines against the catalog and appends
// the result to the ledger. Unrecognized product ids do not fail the order;
// they come back in a per-line skip report.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var (
		lines    []ledger.Line
		total    int64
		currency string
		skipped  []string
	)
	for _, it := range req.Items {
		product, ok := h.catalog.Get(it.ProductID)
		if !ok {
			skipped = append(skipped, it.ProductID)
			continue
		}
		// Variants follow the same line-identity rules as the cart path:
		// unknown sizes are skipped per line, known ones canonicalized.
		if !product.HasSize(it.Variant) {
			skipped = append(skipped, it.ProductID+"/"+it.Variant)
			continue
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		lineTotal := product.Price * int64(qty)
		total += lineTotal
		if currency == "" {
			currency = product.Currency
		}
		lines = append(lines, ledger.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Variant:   product.CanonicalSize(it.Variant),
			Quantity:  qty,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
	}

	if len(lines) == 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "empty_order", "no recognized items in order")
		return
	}

	order, err := h.ledger.Append(r.Context(), ledger.Draft{
		Items:    lines,
		Total:    total,
		Currency: currency,
		Customer: req.Customer,
	})
	if err != nil {
		h.handleLedgerError(w, err)
		return
	}

	if err := h.events.OrderPlaced(r.Context(), order); err != nil {
		h.log.Warn("order-placed event not published", "order_id", order.ID, "err", err)
	}

	h.respondJSON(w, http.StatusCreated, createOrderResponse{OK: true, Order: order, Skipped: skipped})
}

func (h *Handler) LatestOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.ledger.Latest(r.Context())
	if errors.Is(err, ledger.ErrNoOrders) {
		h.respondError(w, http.StatusNotFound, "no_orders", "no orders have been placed yet")
		return
	}
	if err != nil {
		h.handleLedgerError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]ledger.Order{"order": order})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", "err", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func (h *Handler) handleLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.respondError(w, http.StatusGatewayTimeout, "timeout", "ledger operation timed out")
		return
	}
	h.log.Error("ledger operation failed", "err", err)
	h.respondError(w, http.StatusServiceUnavailable, "ledger_unavailable", "order store unavailable, retry later")
}
