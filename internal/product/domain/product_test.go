package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProduct_LowStock(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minStock *int
		want     bool
	}{
		{"missing threshold defaults to 5, at threshold", 5, nil, true},
		{"missing threshold defaults to 5, above", 6, nil, false},
		{"zero threshold defaults to 5", 4, intPtr(0), true},
		{"explicit threshold", 10, intPtr(10), true},
		{"explicit threshold above", 11, intPtr(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Stock: tt.stock, MinStock: tt.minStock}
			assert.Equal(t, tt.want, p.LowStock())
		})
	}
}

func TestProduct_DecodesBackendShape(t *testing.T) {
	raw := `{"id":4,"name":"Pen","description":"Blue","price":"10.50","cost":7,"stock":3,"min_stock":null,"image_url":"/storage/pen.png","category_id":2}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, int64(4), p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(7)))
	assert.Nil(t, p.MinStock)
	assert.Equal(t, DefaultMinStock, p.Threshold())
	assert.True(t, p.Available())
}

func TestProductForm_Validate(t *testing.T) {
	valid := ProductForm{Name: "Pen", Price: "1.50", Cost: "1", Stock: "10", MinStock: "2", CategoryID: "1"}
	assert.NoError(t, valid.Validate())

	noThreshold := valid
	noThreshold.MinStock = ""
	assert.NoError(t, noThreshold.Validate())

	tests := []struct {
		name   string
		mutate func(*ProductForm)
		want   error
	}{
		{"blank name", func(f *ProductForm) { f.Name = "  " }, ErrNameRequired},
		{"bad price", func(f *ProductForm) { f.Price = "abc" }, ErrInvalidPrice},
		{"negative price", func(f *ProductForm) { f.Price = "-1" }, ErrInvalidPrice},
		{"bad cost", func(f *ProductForm) { f.Cost = "" }, ErrInvalidCost},
		{"fractional stock", func(f *ProductForm) { f.Stock = "1.5" }, ErrInvalidStock},
		{"negative min stock", func(f *ProductForm) { f.MinStock = "-2" }, ErrInvalidMinStock},
		{"no category", func(f *ProductForm) { f.CategoryID = "" }, ErrCategoryRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			assert.ErrorIs(t, f.Validate(), tt.want)
		})
	}
}

func TestFormFromProduct(t *testing.T) {
	p := Product{Name: "Pen", Price: decimal.RequireFromString("2.5"), Cost: decimal.NewFromInt(1), Stock: 4, MinStock: intPtr(3), CategoryID: 2}
	f := FormFromProduct(p)

	assert.Equal(t, ProductForm{Name: "Pen", Price: "2.50", Cost: "1.00", Stock: "4", MinStock: "3", CategoryID: "2"}, f)
	assert.Equal(t, "2", f.Fields()["category_id"])
}
