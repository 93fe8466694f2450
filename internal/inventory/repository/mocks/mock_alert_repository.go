package mocks

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/inventory/domain"
	"github.com/stretchr/testify/mock"
)

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) ListLowStock(ctx context.Context) ([]domain.Alert, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]domain.Alert), args.Error(1)
	}
	return nil, args.Error(1)
}
