package repository

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/sales/domain"
)

type SalesRepository interface {
	ListSales(ctx context.Context) ([]domain.SaleRecord, error)
}

type httpSalesRepository struct {
	client *backend.Client
}

func NewHTTPSalesRepository(client *backend.Client) SalesRepository {
	return &httpSalesRepository{client: client}
}

func (r *httpSalesRepository) ListSales(ctx context.Context) ([]domain.SaleRecord, error) {
	records, err := backend.GetList[domain.SaleRecord](ctx, r.client, "/sales-history")
	if err != nil {
		logger.Error("ListSales: request failed", err)
		return nil, err
	}
	return records, nil
}
