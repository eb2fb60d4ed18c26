package ledger

import "errors"

var (
	// ErrNoOrders is returned by Latest when the ledger holds no orders yet.
	ErrNoOrders = errors.New("no orders recorded")

	// ErrEmptyDraft is returned by Append for a draft with no line items.
	ErrEmptyDraft = errors.New("order draft has no items")

	// ErrStore wraps any failure to read, lock, or write the ledger
	// document. Callers should treat it as retry-or-escalate rather than
	// a user mistake.
	ErrStore = errors.New("order ledger unavailable")
)
