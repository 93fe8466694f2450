package repository

import (
	"context"

	"github.com/ridloal/retail-admin-console/internal/inventory/domain"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

type AlertRepository interface {
	ListLowStock(ctx context.Context) ([]domain.Alert, error)
}

type httpAlertRepository struct {
	client *backend.Client
}

func NewHTTPAlertRepository(client *backend.Client) AlertRepository {
	return &httpAlertRepository{client: client}
}

func (r *httpAlertRepository) ListLowStock(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := backend.GetList[domain.Alert](ctx, r.client, "/lowstock")
	if err != nil {
		logger.Error("ListLowStock: request failed", err)
		return nil, err
	}
	return alerts, nil
}
