package mocks

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/sales/domain"
	"github.com/stretchr/testify/mock"
)

type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) ListSales(ctx context.Context) ([]domain.SaleRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleRecord), args.Error(1)
}
