package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMinStock applies when a product has no low-stock threshold or a
// threshold of zero.
const DefaultMinStock = 5

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"` // USD
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	MinStock    *int            `json:"min_stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	CategoryID  int64           `json:"category_id"`
}

// Threshold is the stock level at or below which the product is flagged.
func (p Product) Threshold() int {
	if p.MinStock == nil || *p.MinStock <= 0 {
		return DefaultMinStock
	}
	return *p.MinStock
}

func (p Product) LowStock() bool {
	return p.Stock <= p.Threshold()
}

func (p Product) Available() bool {
	return p.Stock > 0
}

// Category ids known by the backend's product form.
var Categories = map[int64]string{
	1: "General",
	2: "Papelería",
}

var (
	ErrNameRequired     = errors.New("product name is required")
	ErrInvalidPrice     = errors.New("price must be a non-negative decimal")
	ErrInvalidCost      = errors.New("cost must be a non-negative decimal")
	ErrInvalidStock     = errors.New("stock must be a non-negative integer")
	ErrInvalidMinStock  = errors.New("low-stock threshold must be a non-negative integer")
	ErrCategoryRequired = errors.New("category is required")
)

// ProductForm is the create/edit form as submitted by the operator. Values are
// kept as text, the way they arrive from form inputs, and checked by Validate
// before anything is sent.
type ProductForm struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
	Cost        string `json:"cost" form:"cost"`
	Stock       string `json:"stock" form:"stock"`
	MinStock    string `json:"min_stock" form:"min_stock"`
	CategoryID  string `json:"category_id" form:"category_id"`
}

// FormFromProduct pre-fills the edit form.
func FormFromProduct(p Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Cost:        p.Cost.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
	}
	if p.MinStock != nil {
		f.MinStock = strconv.Itoa(*p.MinStock)
	}
	if p.CategoryID != 0 {
		f.CategoryID = strconv.FormatInt(p.CategoryID, 10)
	}
	return f
}

func (f ProductForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if !nonNegativeDecimal(f.Price) {
		return ErrInvalidPrice
	}
	if !nonNegativeDecimal(f.Cost) {
		return ErrInvalidCost
	}
	if !nonNegativeInt(f.Stock) {
		return ErrInvalidStock
	}
	// an empty threshold means the default applies
	if strings.TrimSpace(f.MinStock) != "" && !nonNegativeInt(f.MinStock) {
		return ErrInvalidMinStock
	}
	if strings.TrimSpace(f.CategoryID) == "" {
		return ErrCategoryRequired
	}
	return nil
}

// Fields renders the multipart fields the backend expects.
func (f ProductForm) Fields() map[string]string {
	return map[string]string{
		"name":        strings.TrimSpace(f.Name),
		"description": f.Description,
		"price":       strings.TrimSpace(f.Price),
		"cost":        strings.TrimSpace(f.Cost),
		"stock":       strings.TrimSpace(f.Stock),
		"min_stock":   strings.TrimSpace(f.MinStock),
		"category_id": strings.TrimSpace(f.CategoryID),
	}
}

func nonNegativeDecimal(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil && !d.IsNegative()
}

func nonNegativeInt(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n >= 0
}
