package domain

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrInvalidQuantity   = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Insufficient stock"}
)

// PriceTier names the price list a line item was priced from.
type PriceTier string

const (
	PriceTierRetail    PriceTier = "retail"
	PriceTierWholesale PriceTier = "wholesale"
)

// LineItem is one cart entry. Price and Discount are per unit; Total is
// Price x Quantity rounded to cents.
type LineItem struct {
	ProductID string
	Name      string
	Price     float64
	Discount  float64
	Quantity  int
	Total     float64
	Tier      PriceTier
	Product   Product
}

// Totals is the money summary derived from the cart's line items.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// Severity classifies a notification for the UI.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a toast-style message about the outcome of a cart operation.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}
