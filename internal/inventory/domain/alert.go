package domain

import (
	productdomain "github.com/ridloal/retail-admin-console/internal/product/domain"
)

// Alert is one low-stock warning reported by the backend.
type Alert struct {
	Message       string `json:"message"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
}

// StockSummary describes the catalog as the inventory screen shows it.
type StockSummary struct {
	Products   int `json:"products"`
	Units      int `json:"units"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

func Summarize(products []productdomain.Product) StockSummary {
	s := StockSummary{Products: len(products)}
	for _, p := range products {
		s.Units += p.Stock
		if !p.Available() {
			s.OutOfStock++
		}
		if p.LowStock() {
			s.LowStock++
		}
	}
	return s
}
