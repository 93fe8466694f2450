package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine is one product in the sale being built. Name and Price are copied
// from the catalog when the line is created and never refreshed, so the total
// shown is the total charged.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type CheckoutState string

const (
	StateIdle       CheckoutState = "IDLE"
	StateSubmitting CheckoutState = "SUBMITTING"
	StateSuccess    CheckoutState = "SUCCESS"
	StateFailed     CheckoutState = "FAILED"
)

// SaleItem and SaleRequest are the body of POST /sales.
type SaleItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type SaleRequest struct {
	Products []SaleItem `json:"products"`
}

// Adjustment records a line changed by reconciliation against fresh stock.
type Adjustment struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	OldQuantity int    `json:"old_quantity"`
	NewQuantity int    `json:"new_quantity"` // 0 means the line was removed
}
