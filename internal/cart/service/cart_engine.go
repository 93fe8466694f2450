package service

import (
	"errors"
	"strconv"
	"sync"

	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/ridloal/retail-admin-console/internal/cart/repository"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	productdomain "github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/ridloal/retail-admin-console/internal/rate"
	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrStockLimitReached = errors.New("stock limit reached")
	ErrUnknownProduct    = errors.New("product is not in the catalog")
	ErrLineNotFound      = errors.New("product is not in the cart")
	ErrCheckoutInFlight  = errors.New("a checkout is already in progress")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrClosed            = errors.New("cart is closed")
)

// StockSource gives the current stock ceiling of a product. The catalog store
// satisfies it.
type StockSource interface {
	Stock(productID int64) (int, bool)
}

// Engine is the cart of one point-of-sale workspace together with its
// checkout state. All mutations are serialized and rejected while a checkout
// is in flight.
type Engine struct {
	stock     StockSource
	sales     repository.SaleRepository
	refresher CatalogRefresher
	notifier  notify.Notifier
	observer  func(from, to domain.CheckoutState)

	mu     sync.Mutex
	lines  []domain.CartLine
	state  domain.CheckoutState
	closed bool
}

// NewEngine builds an empty cart in the Idle state. refresher may be nil.
func NewEngine(stock StockSource, sales repository.SaleRepository, refresher CatalogRefresher, n notify.Notifier) *Engine {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &Engine{
		stock:     stock,
		sales:     sales,
		refresher: refresher,
		notifier:  n,
		state:     domain.StateIdle,
	}
}

// OnTransition registers fn to be called, with the engine locked, on every
// checkout state change. fn must not call back into the engine.
func (e *Engine) OnTransition(fn func(from, to domain.CheckoutState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = fn
}

// AddItem adds one unit of product, creating the line with the current name
// and price when it is new. The ceiling is product.Stock.
func (e *Engine) AddItem(product productdomain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}

	i := e.findLocked(product.ID)
	if i < 0 {
		if product.Stock <= 0 {
			e.notifier.Notify(notify.LevelWarning, "Out of stock", product.Name+" has no units available")
			return ErrOutOfStock
		}
		e.lines = append(e.lines, domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
		})
		return nil
	}

	if e.lines[i].Quantity >= product.Stock {
		e.notifier.Notify(notify.LevelWarning, "Limit reached", "No more units of "+product.Name+" available")
		return ErrStockLimitReached
	}
	e.lines[i].Quantity++
	return nil
}

// SetQuantity sets a line to exactly quantity, checked against the stock the
// catalog holds right now. Quantities below 1 remove the line; quantities
// above stock leave it as it was.
func (e *Engine) SetQuantity(productID int64, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}

	i := e.findLocked(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity < 1 {
		e.removeLocked(i)
		return nil
	}

	stock, ok := e.stock.Stock(productID)
	if !ok {
		return ErrUnknownProduct
	}
	if quantity > stock {
		e.notifier.Notify(notify.LevelWarning, "Limit reached", "Only "+strconv.Itoa(stock)+" units of "+e.lines[i].Name+" available")
		return ErrStockLimitReached
	}
	e.lines[i].Quantity = quantity
	return nil
}

func (e *Engine) RemoveItem(productID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	if i := e.findLocked(productID); i >= 0 {
		e.removeLocked(i)
	}
	return nil
}

func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	e.lines = nil
	return nil
}

// Reconcile clamps every line to the stock the catalog holds now, removing
// lines whose product is gone or sold out. It is a no-op while a checkout is
// in flight.
func (e *Engine) Reconcile() []domain.Adjustment {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == domain.StateSubmitting {
		return nil
	}

	var adjustments []domain.Adjustment
	kept := e.lines[:0]
	for _, l := range e.lines {
		stock, ok := e.stock.Stock(l.ProductID)
		if !ok {
			stock = 0
		}
		if l.Quantity <= stock {
			kept = append(kept, l)
			continue
		}
		adj := domain.Adjustment{ProductID: l.ProductID, Name: l.Name, OldQuantity: l.Quantity}
		if stock > 0 {
			l.Quantity = stock
			adj.NewQuantity = stock
			kept = append(kept, l)
		}
		adjustments = append(adjustments, adj)
	}
	e.lines = kept

	if len(adjustments) > 0 {
		logger.Warn("Cart reconciled against new stock: %d lines adjusted", len(adjustments))
		e.notifier.Notify(notify.LevelWarning, "Cart adjusted", "Some quantities exceeded the available stock")
	}
	return adjustments
}

// Lines returns a copy of the cart in insertion order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyLines(e.lines)
}

// SubtotalUSD uses the price captured on each line, not the live catalog price.
func (e *Engine) SubtotalUSD() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(e.lines)
}

// TotalLocal converts the subtotal; ok is false when the rate is unknown.
func (e *Engine) TotalLocal(r rate.Rate) (decimal.Decimal, bool) {
	return r.Convert(e.SubtotalUSD())
}

func (e *Engine) State() domain.CheckoutState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Close detaches the engine from its front end. Responses that arrive after
// Close are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *Engine) mutableLocked() error {
	if e.closed {
		return ErrClosed
	}
	if e.state == domain.StateSubmitting {
		return ErrCheckoutInFlight
	}
	return nil
}

func (e *Engine) findLocked(productID int64) int {
	for i, l := range e.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) removeLocked(i int) {
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

func subtotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
