package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dukerupert/tillcart/internal/cart"
	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

// Scenario is a scripted till session read from JSON.
type Scenario struct {
	Catalog       []ProductDTO `json:"catalog"`
	Customer      *CustomerDTO `json:"customer"`
	WholesaleMode bool         `json:"wholesale_mode"`
	Discount      float64      `json:"discount"`
	Steps         []StepDTO    `json:"steps"`
}

type ProductDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	RetailPrice     float64  `json:"retail_price"`
	WholesalePrice  *float64 `json:"wholesale_price,omitempty"`
	MinWholesaleQty *int32   `json:"min_wholesale_qty,omitempty"`
	StockQuantity   int      `json:"stock_quantity"`
	MinStock        *int32   `json:"min_stock,omitempty"`
}

type CustomerDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Type              string   `json:"type"`
	WholesaleDiscount *float64 `json:"wholesale_discount,omitempty"`
	MinWholesaleQty   *int32   `json:"min_wholesale_qty,omitempty"`
}

// StepDTO is one till action. Op is add, update, remove, clear, discount or
// context. An add without a quantity adds one unit. A context step replaces
// the customer and wholesale mode.
type StepDTO struct {
	Op            string       `json:"op"`
	ProductID     string       `json:"product_id,omitempty"`
	Quantity      *int         `json:"quantity,omitempty"`
	Amount        float64      `json:"amount,omitempty"`
	Customer      *CustomerDTO `json:"customer,omitempty"`
	WholesaleMode bool         `json:"wholesale_mode,omitempty"`
}

// Report is what cartsim prints once the scenario has run.
type Report struct {
	CartID  string           `json:"cart_id"`
	Version uint64           `json:"version"`
	Steps   []StepReport     `json:"steps"`
	Items   []LineItemReport `json:"items"`
	Totals  domain.Totals    `json:"totals"`
}

type StepReport struct {
	Op        string `json:"op"`
	ProductID string `json:"product_id,omitempty"`
	Outcome   string `json:"outcome"`
	Quantity  int    `json:"quantity,omitempty"`
	Error     string `json:"error,omitempty"`
}

type LineItemReport struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	Tier      string  `json:"tier"`
}

// DecodeScenario reads a scenario, rejecting unknown fields.
func DecodeScenario(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, domain.WrapError(err, domain.EINVALID, "cartsim.decode", "Invalid scenario file")
	}
	return s, nil
}

func (p ProductDTO) toDomain() domain.Product {
	return domain.Product{
		ID:              p.ID,
		Name:            p.Name,
		RetailPrice:     p.RetailPrice,
		WholesalePrice:  float8(p.WholesalePrice),
		MinWholesaleQty: int4(p.MinWholesaleQty),
		StockQuantity:   p.StockQuantity,
		MinStock:        int4(p.MinStock),
	}
}

func (c *CustomerDTO) toDomain() *domain.Customer {
	if c == nil {
		return nil
	}
	return &domain.Customer{
		ID:                c.ID,
		Name:              c.Name,
		Type:              domain.CustomerType(c.Type),
		WholesaleDiscount: float8(c.WholesaleDiscount),
		MinWholesaleQty:   int4(c.MinWholesaleQty),
	}
}

func float8(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{}
	}
	return domain.Float8(*v)
}

func int4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return domain.Int4(*v)
}

// Play runs every step of sc against store and reports the final state.
// Rejected steps are recorded and the run carries on.
func Play(sc Scenario, store *cart.Store) (Report, error) {
	catalog := make([]domain.Product, 0, len(sc.Catalog))
	byID := make(map[string]domain.Product, len(sc.Catalog))
	for _, p := range sc.Catalog {
		dp := p.toDomain()
		catalog = append(catalog, dp)
		byID[dp.ID] = dp
	}

	store.OnContextChange(sc.Customer.toDomain(), sc.WholesaleMode, catalog)
	store.SetDiscount(sc.Discount)

	report := Report{CartID: store.ID().String()}

	for i, step := range sc.Steps {
		var res cart.Result
		switch step.Op {
		case "add":
			if err := requireProduct(i, step); err != nil {
				return Report{}, err
			}
			p, ok := byID[step.ProductID]
			if !ok {
				return Report{}, domain.NotFound("cartsim.play", "product", step.ProductID)
			}
			qty := 1
			if step.Quantity != nil {
				qty = *step.Quantity
			}
			res = store.AddToCart(p, qty)
		case "update":
			if err := requireProduct(i, step); err != nil {
				return Report{}, err
			}
			if step.Quantity == nil {
				return Report{}, domain.Invalid("cartsim.play", fmt.Sprintf("step %d: update needs a quantity", i+1))
			}
			res = store.UpdateQuantity(step.ProductID, *step.Quantity)
		case "remove":
			if err := requireProduct(i, step); err != nil {
				return Report{}, err
			}
			res = store.RemoveFromCart(step.ProductID)
		case "clear":
			res = store.ClearCart()
		case "discount":
			store.SetDiscount(step.Amount)
			report.Steps = append(report.Steps, StepReport{Op: step.Op, Outcome: "applied"})
			continue
		case "context":
			recalc := store.OnContextChange(step.Customer.toDomain(), step.WholesaleMode, catalog)
			report.Steps = append(report.Steps, StepReport{
				Op:      step.Op,
				Outcome: fmt.Sprintf("repriced %d", recalc.Repriced),
			})
			continue
		default:
			return Report{}, domain.Errorf(domain.EINVALID, "cartsim.play", "step %d: unknown op %q", i+1, step.Op)
		}

		sr := StepReport{
			Op:        step.Op,
			ProductID: res.ProductID,
			Outcome:   string(res.Outcome),
			Quantity:  res.Quantity,
		}
		if res.Err != nil {
			sr.Error = domain.ErrorMessage(res.Err)
		}
		report.Steps = append(report.Steps, sr)
	}

	for _, li := range store.Cart() {
		report.Items = append(report.Items, LineItemReport{
			ProductID: li.ProductID,
			Name:      li.Name,
			Price:     li.Price,
			Discount:  li.Discount,
			Quantity:  li.Quantity,
			Total:     li.Total,
			Tier:      string(li.Tier),
		})
	}
	report.Totals = store.CartTotals()
	report.Version = store.Version()

	return report, nil
}

func requireProduct(i int, step StepDTO) error {
	if step.ProductID != "" {
		return nil
	}
	return domain.NewValidationError("cartsim.play", fmt.Sprintf("steps[%d].product_id", i), "is required")
}
