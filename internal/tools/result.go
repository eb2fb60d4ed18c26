package tools

// Result is the structured outcome of every tool call. It is always a
// well-formed value: routine input mistakes come back as tagged failures
// the caller shapes its next utterance around, never as raw errors.
type Result struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Failure codes. Input errors describe a user mistake; ledger_unavailable
// and session_unavailable signal a persistence problem the caller should
// retry or escalate.
const (
	CodeUnknownTool        = "unknown_tool"
	CodeBadArgs            = "bad_args"
	CodeUnknownProduct     = "unknown_product"
	CodeUnknownVariant     = "unknown_variant"
	CodeUnknownRecipe      = "unknown_recipe"
	CodeEmptyCart          = "empty_cart"
	CodeNoOrders           = "no_orders"
	CodeLedgerUnavailable  = "ledger_unavailable"
	CodeSessionUnavailable = "session_unavailable"
	CodeInternal           = "internal_error"
)

func success(data any) Result {
	return Result{OK: true, Data: data}
}

func failure(code, message string) Result {
	return Result{OK: false, Code: code, Message: message}
}
