package cart

import (
	"strings"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/money"
	"github.com/dukerupert/tillcart/internal/pricing"
	"github.com/dukerupert/tillcart/internal/stock"
)

// Operation names, used as domain.Error.Op and as metric/log labels.
const (
	OpAdd     = "cart.add"
	OpUpdate  = "cart.update"
	OpRemove  = "cart.remove"
	OpClear   = "cart.clear"
	OpReplace = "cart.replace"
)

// Outcome describes what an operation did to the cart.
type Outcome string

const (
	OutcomeAdded    Outcome = "added"
	OutcomeUpdated  Outcome = "updated"
	OutcomeRemoved  Outcome = "removed"
	OutcomeCleared  Outcome = "cleared"
	OutcomeReplaced Outcome = "replaced"
	OutcomeNoop     Outcome = "noop"
	OutcomeRejected Outcome = "rejected"
)

// Result reports the outcome of one cart operation. Operations never fail at
// the API level; a rejection is an Outcome with Err describing why.
type Result struct {
	Op          string
	ProductID   string
	ProductName string
	Outcome     Outcome

	// Quantity is the line's quantity after the operation (unchanged on rejection).
	Quantity int

	// Added is the number of units an accepted add put in the cart.
	Added int

	// Available is the stock the request was checked against.
	Available int

	// StockLevel grades the stock left once Quantity is taken.
	StockLevel stock.Level

	Err error
}

// OK reports whether the operation was accepted.
func (r Result) OK() bool {
	return r.Outcome != OutcomeRejected
}

// Changed reports whether the operation produced a new snapshot.
func (r Result) Changed() bool {
	switch r.Outcome {
	case OutcomeAdded, OutcomeUpdated, OutcomeRemoved, OutcomeCleared, OutcomeReplaced:
		return true
	}
	return false
}

// Remaining is the stock left after the line's quantity is taken.
func (r Result) Remaining() int {
	return r.Available - r.Quantity
}

func (r Result) opName() string {
	return strings.TrimPrefix(r.Op, "cart.")
}

// Add adds quantity units of product, merging with an existing line. The merged
// quantity is checked against the product's stock before anything changes; on
// rejection s is returned untouched.
func Add(s Snapshot, r Rules, product domain.Product, quantity int) (Snapshot, Result) {
	res := Result{
		Op:          OpAdd,
		ProductID:   product.ID,
		ProductName: product.Name,
		Available:   product.StockQuantity,
	}

	existing, found := s.Find(product.ID)
	if found {
		res.Quantity = existing.Quantity
	}

	if quantity <= 0 {
		res.Outcome = OutcomeRejected
		res.Err = domain.ErrInvalidQuantity
		return s, res
	}

	candidate := quantity
	if found {
		candidate += existing.Quantity
	}

	if check := stock.Validate(product.StockQuantity, candidate, r.Stock); !check.Valid {
		res.Outcome = OutcomeRejected
		res.Err = insufficientStock(OpAdd, check)
		return s, res
	}

	res.Outcome = OutcomeAdded
	res.Quantity = candidate
	res.Added = quantity
	res.StockLevel = stock.Classify(res.Remaining(), product.MinStock, r.Stock)

	return s.upsert(priceLine(product, candidate, r.Pricing)), res
}

// Update sets the quantity of an existing line. A quantity <= 0 removes the
// line. Unknown products are a no-op. Stock is checked against the catalog's
// current product when available, otherwise against the line's own snapshot.
func Update(s Snapshot, r Rules, productID string, quantity int) (Snapshot, Result) {
	if quantity <= 0 {
		next, res := Remove(s, productID)
		res.Op = OpUpdate
		return next, res
	}

	res := Result{Op: OpUpdate, ProductID: productID}

	current, found := s.Find(productID)
	if !found {
		res.Outcome = OutcomeNoop
		return s, res
	}

	product := current.Product
	if p, ok := r.Pricing.Catalog.Lookup(productID); ok {
		product = p
	}

	res.ProductName = current.Name
	res.Quantity = current.Quantity
	res.Available = product.StockQuantity

	if check := stock.Validate(product.StockQuantity, quantity, r.Stock); !check.Valid {
		res.Outcome = OutcomeRejected
		res.Err = insufficientStock(OpUpdate, check)
		return s, res
	}

	res.Quantity = quantity
	res.StockLevel = stock.Classify(res.Remaining(), product.MinStock, r.Stock)

	line := priceLine(product, quantity, r.Pricing)
	if line == current {
		res.Outcome = OutcomeNoop
		return s, res
	}

	res.Outcome = OutcomeUpdated
	return s.upsert(line), res
}

// Remove deletes the line for productID. Removing an absent product is a no-op.
func Remove(s Snapshot, productID string) (Snapshot, Result) {
	res := Result{Op: OpRemove, ProductID: productID}

	current, found := s.Find(productID)
	if !found {
		res.Outcome = OutcomeNoop
		return s, res
	}

	res.ProductName = current.Name
	res.Outcome = OutcomeRemoved
	return s.without(productID), res
}

// Clear empties the cart.
func Clear(s Snapshot) (Snapshot, Result) {
	res := Result{Op: OpClear, Outcome: OutcomeCleared}
	if s.Len() == 0 {
		res.Outcome = OutcomeNoop
	}
	return Snapshot{}, res
}

// Replace swaps in items wholesale, for example when restoring a saved draft.
// Nothing is validated or repriced; follow with Recalculate before trusting
// the result for display.
func Replace(items []domain.LineItem) (Snapshot, Result) {
	return NewSnapshot(items), Result{Op: OpReplace, Outcome: OutcomeReplaced}
}

// priceLine builds the line for quantity units of product under pc.
func priceLine(product domain.Product, quantity int, pc PricingContext) domain.LineItem {
	q := pricing.Price(product, quantity, pc.Customer, pc.WholesaleMode)
	return domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     q.UnitPrice,
		Discount:  q.UnitDiscount,
		Quantity:  quantity,
		Total:     money.MulInt(q.UnitPrice, quantity),
		Tier:      q.Tier,
		Product:   product,
	}
}

func insufficientStock(op string, check stock.Result) error {
	return domain.WrapError(domain.ErrInsufficientStock, domain.ECONFLICT, op, check.Message)
}
