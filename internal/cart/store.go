package cart

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/notify"
	"github.com/dukerupert/tillcart/internal/stock"
	"github.com/dukerupert/tillcart/internal/tax"
	"github.com/dukerupert/tillcart/internal/telemetry"
	"github.com/google/uuid"
)

// StoreConfig holds the collaborators and policies a Store is built with.
// Zero values fall back to: default stock policy, no tax, discarded
// notifications, no metrics, slog.Default().
type StoreConfig struct {
	StockPolicy *stock.Policy
	Tax         tax.Calculator
	Notifier    notify.Notifier
	Metrics     *telemetry.CartMetrics
	Logger      *slog.Logger
}

// Store owns one shopping session's cart. Every mutation runs a pure reducer
// against the latest snapshot and commits the result in one step, then reports
// the outcome to the notifier.
type Store struct {
	id uuid.UUID

	mu       sync.Mutex
	snapshot Snapshot
	version  uint64
	pricing  PricingContext
	discount float64

	policy   stock.Policy
	tax      tax.Calculator
	notifier notify.Notifier
	metrics  *telemetry.CartMetrics
	logger   *slog.Logger
}

// NewStore creates an empty cart.
func NewStore(cfg StoreConfig) *Store {
	policy := stock.DefaultPolicy()
	if cfg.StockPolicy != nil {
		policy = *cfg.StockPolicy
	}
	calc := cfg.Tax
	if calc == nil {
		calc = tax.NewNoTaxCalculator()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()

	return &Store{
		id:       id,
		policy:   policy,
		tax:      calc,
		notifier: notifier,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("cart_id", id.String())),
	}
}

// ID identifies the cart in logs.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Version increases by one for every committed change.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Cart returns the current line items in order.
func (s *Store) Cart() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Items()
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// CartTotals computes the summary from the current snapshot. Nothing is cached.
func (s *Store) CartTotals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalsWith(s.snapshot.items, s.discount, s.tax)
}

// Context returns the pricing context the cart is currently priced under.
func (s *Store) Context() PricingContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing
}

// Discount returns the pending flat discount.
func (s *Store) Discount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

// SetDiscount sets the flat discount taken off the subtotal. Negative
// amounts are stored as zero.
func (s *Store) SetDiscount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = max(amount, 0)
}

// AddToCart adds quantity units of product, merging with any existing line.
func (s *Store) AddToCart(product domain.Product, quantity int) Result {
	return s.commit(func(snap Snapshot, r Rules) (Snapshot, Result) {
		return Add(snap, r, product, quantity)
	})
}

// UpdateQuantity sets a line's quantity; quantity <= 0 removes the line.
func (s *Store) UpdateQuantity(productID string, quantity int) Result {
	return s.commit(func(snap Snapshot, r Rules) (Snapshot, Result) {
		return Update(snap, r, productID, quantity)
	})
}

// RemoveFromCart deletes a line if present.
func (s *Store) RemoveFromCart(productID string) Result {
	return s.commit(func(snap Snapshot, _ Rules) (Snapshot, Result) {
		return Remove(snap, productID)
	})
}

// ClearCart empties the cart and drops the pending discount in the same step.
func (s *Store) ClearCart() Result {
	s.mu.Lock()
	next, res := Clear(s.snapshot)
	s.apply(next, res)
	s.discount = 0
	s.mu.Unlock()

	s.report(res)
	return res
}

// SetCartItems replaces all line items as given, without validation. Call
// OnContextChange afterwards to reprice them.
func (s *Store) SetCartItems(items []domain.LineItem) Result {
	return s.commit(func(Snapshot, Rules) (Snapshot, Result) {
		return Replace(items)
	})
}

// OnContextChange installs a new pricing context and runs one recalculation
// pass over the current lines.
func (s *Store) OnContextChange(customer *domain.Customer, wholesaleMode bool, catalog []domain.Product) RecalcResult {
	pc := PricingContext{
		Customer:      cloneCustomer(customer),
		WholesaleMode: wholesaleMode,
		Catalog:       NewCatalog(catalog),
	}
	return s.recalculate(func(cur *PricingContext) { *cur = pc })
}

// SetCustomer changes the selected customer, keeping the rest of the context.
func (s *Store) SetCustomer(customer *domain.Customer) RecalcResult {
	c := cloneCustomer(customer)
	return s.recalculate(func(pc *PricingContext) { pc.Customer = c })
}

// SetWholesaleMode toggles wholesale mode, keeping the rest of the context.
func (s *Store) SetWholesaleMode(on bool) RecalcResult {
	return s.recalculate(func(pc *PricingContext) { pc.WholesaleMode = on })
}

// SetCatalog installs a refreshed catalog snapshot, keeping the rest of the context.
func (s *Store) SetCatalog(products []domain.Product) RecalcResult {
	catalog := NewCatalog(products)
	return s.recalculate(func(pc *PricingContext) { pc.Catalog = catalog })
}

// recalculate edits the pricing context and reprices the cart under one lock.
func (s *Store) recalculate(edit func(*PricingContext)) RecalcResult {
	s.mu.Lock()
	edit(&s.pricing)
	pc := s.pricing
	next, res := Recalculate(s.snapshot, pc)
	if res.Changed() {
		s.snapshot = next
		s.version++
	}
	s.mu.Unlock()

	s.metrics.ObserveRecalculation(res.Repriced)
	s.logger.Debug("cart recalculated",
		slog.Int("repriced", res.Repriced),
		slog.Int("refreshed", res.Refreshed),
		slog.Int("missing", len(res.Missing)),
		slog.Bool("wholesale_mode", pc.WholesaleMode),
	)

	return res
}

// commit runs reduce against the latest snapshot under the lock.
func (s *Store) commit(reduce func(Snapshot, Rules) (Snapshot, Result)) Result {
	s.mu.Lock()
	next, res := reduce(s.snapshot, Rules{Pricing: s.pricing, Stock: s.policy})
	s.apply(next, res)
	s.mu.Unlock()

	// Reported outside the lock so notifiers may read the store.
	s.report(res)
	return res
}

// apply installs next if res changed the cart. Callers hold s.mu.
func (s *Store) apply(next Snapshot, res Result) {
	if res.Changed() {
		s.snapshot = next
		s.version++
	}
}

func (s *Store) report(res Result) {
	s.metrics.ObserveOperation(res.opName(), string(res.Outcome))

	attrs := []any{
		slog.String("op", res.Op),
		slog.String("outcome", string(res.Outcome)),
	}
	if res.ProductID != "" {
		attrs = append(attrs, slog.String("product_id", res.ProductID), slog.Int("quantity", res.Quantity))
	}

	if !res.OK() {
		s.metrics.ObserveRejection(res.opName(), domain.ErrorCode(res.Err))
		s.logger.Info("cart operation rejected", append(attrs, slog.String("error", res.Err.Error()))...)
		s.notifier.Notify(rejectionNotice(res))
		return
	}

	s.logger.Debug("cart operation", attrs...)

	if !res.Changed() {
		return
	}

	switch res.Outcome {
	case OutcomeAdded:
		s.metrics.ObserveItemsAdded(res.Added)
		s.notifier.Notify(domain.Notification{
			Title:       "Added to cart",
			Description: fmt.Sprintf("%s x%d", res.ProductName, res.Added),
			Severity:    domain.SeveritySuccess,
		})
	case OutcomeRemoved:
		s.notifier.Notify(domain.Notification{
			Title:       "Removed from cart",
			Description: res.ProductName,
			Severity:    domain.SeveritySuccess,
		})
	case OutcomeCleared:
		s.notifier.Notify(domain.Notification{
			Title:       "Cart cleared",
			Description: "All items were removed from the cart",
			Severity:    domain.SeveritySuccess,
		})
	}

	if n, ok := stockNotice(res); ok {
		s.notifier.Notify(n)
	}
}

func rejectionNotice(res Result) domain.Notification {
	title := "Cannot update cart"
	switch {
	case domain.IsCode(res.Err, domain.ECONFLICT):
		title = "Insufficient stock"
	case domain.IsCode(res.Err, domain.EINVALID):
		title = "Invalid quantity"
	}

	return domain.Notification{
		Title:       title,
		Description: domain.ErrorMessage(res.Err),
		Severity:    domain.SeverityError,
	}
}

// stockNotice warns when an accepted add or update leaves stock running low.
func stockNotice(res Result) (domain.Notification, bool) {
	if res.Outcome != OutcomeAdded && res.Outcome != OutcomeUpdated {
		return domain.Notification{}, false
	}

	switch res.StockLevel {
	case stock.LevelWarning:
		return domain.Notification{
			Title:       "Low stock",
			Description: fmt.Sprintf("%s: %d left after this sale", res.ProductName, res.Remaining()),
			Severity:    domain.SeverityWarning,
		}, true
	case stock.LevelCritical, stock.LevelOut:
		return domain.Notification{
			Title:       "Stock critical",
			Description: fmt.Sprintf("%s: %d left after this sale", res.ProductName, max(res.Remaining(), 0)),
			Severity:    domain.SeverityWarning,
		}, true
	}
	return domain.Notification{}, false
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
