package ledger

import "time"

// Line is one priced line of a finalized order. Quantities and unit prices
// are snapshots taken at placement; later catalog changes never touch them.
type Line struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
	Note      string `json:"note,omitempty"`
}

// Metadata is optional caller-supplied order context.
type Metadata struct {
	CustomerName string `json:"customer_name,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Draft is an order before the ledger has assigned identity to it.
type Draft struct {
	Items    []Line
	Total    int64
	Currency string
	Customer Metadata
}

// Order is an immutable, finalized order as recorded in the ledger.
type Order struct {
	ID        string    `json:"id"`
	Items     []Line    `json:"items"`
	Total     int64     `json:"total"`
	Currency  string    `json:"currency"`
	Customer  Metadata  `json:"customer"`
	CreatedAt time.Time `json:"created_at"`
}
