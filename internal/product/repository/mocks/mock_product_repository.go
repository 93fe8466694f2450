package mocks

import (
	"context"

	pDomain "github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/ridloal/retail-admin-console/internal/product/repository"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]pDomain.Product, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, form pDomain.ProductForm, image *repository.ImageFile) (*pDomain.Product, error) {
	args := m.Called(ctx, form, image)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, id int64, form pDomain.ProductForm, image *repository.ImageFile) (*pDomain.Product, error) {
	args := m.Called(ctx, id, form, image)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
