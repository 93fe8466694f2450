package repository

import (
	"context"
	"net/http"

	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

type SaleRepository interface {
	CreateSale(ctx context.Context, req domain.SaleRequest) error
}

type httpSaleRepository struct {
	client *backend.Client
}

func NewHTTPSaleRepository(client *backend.Client) SaleRepository {
	return &httpSaleRepository{client: client}
}

// CreateSale registers the sale. The backend decrements stock and rejects
// quantities above what it has; that check is not repeated here.
func (r *httpSaleRepository) CreateSale(ctx context.Context, req domain.SaleRequest) error {
	if err := r.client.Do(ctx, http.MethodPost, "/sales", req, nil); err != nil {
		logger.Error("CreateSale: request failed for %d products", err, len(req.Products))
		return err
	}
	return nil
}
