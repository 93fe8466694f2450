package mocks

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, req domain.SaleRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
