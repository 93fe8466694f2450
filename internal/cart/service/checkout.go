package service

import (
	"context"
	"fmt"

	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

// CatalogRefresher reloads the product list after stock changed server-side.
type CatalogRefresher interface {
	Load(ctx context.Context) error
}

// Submit sends the cart as a sale. The payload is frozen before the request
// leaves; until it resolves every mutation and any second Submit fail with
// ErrCheckoutInFlight. On success the cart is emptied and the catalog
// reloaded. On failure the cart is left exactly as it was.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		if err == ErrCheckoutInFlight {
			logger.Warn("Checkout: submit ignored, request already in flight")
		}
		return err
	}
	if len(e.lines) == 0 {
		e.mu.Unlock()
		e.notifier.Notify(notify.LevelWarning, "Empty cart", "Add products before checking out")
		return ErrEmptyCart
	}
	req := saleRequest(e.lines)
	e.transitionLocked(domain.StateSubmitting)
	e.mu.Unlock()

	err := e.sales.CreateSale(ctx, req)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		logger.Warn("Checkout: response arrived after the cart was closed, dropping it")
		return ErrClosed
	}
	if err != nil {
		e.transitionLocked(domain.StateFailed)
		e.transitionLocked(domain.StateIdle)
		e.mu.Unlock()
		e.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "The sale could not be registered"))
		return fmt.Errorf("checkout failed: %w", err)
	}
	e.lines = nil
	e.transitionLocked(domain.StateSuccess)
	e.transitionLocked(domain.StateIdle)
	e.mu.Unlock()

	logger.Info("Checkout: sale registered with %d products", len(req.Products))
	e.notifier.Notify(notify.LevelSuccess, "Sale registered", "The sale was completed successfully")
	if e.refresher != nil {
		if err := e.refresher.Load(ctx); err != nil {
			logger.Warn("Checkout: catalog reload after sale failed: " + err.Error())
		}
	}
	return nil
}

func (e *Engine) transitionLocked(to domain.CheckoutState) {
	from := e.state
	e.state = to
	if e.observer != nil {
		e.observer(from, to)
	}
}

func saleRequest(lines []domain.CartLine) domain.SaleRequest {
	items := make([]domain.SaleItem, len(lines))
	for i, l := range lines {
		items[i] = domain.SaleItem{ID: l.ProductID, Quantity: l.Quantity}
	}
	return domain.SaleRequest{Products: items}
}
