package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/ridloal/retail-admin-console/internal/product/repository"
)

var ErrDeleteCancelled = errors.New("deletion cancelled by operator")

type ProductService interface {
	CreateProduct(ctx context.Context, form domain.ProductForm, image *repository.ImageFile) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form domain.ProductForm, image *repository.ImageFile) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64, confirm notify.Confirmer) error
}

// CatalogRefresher reloads the catalog after a write. *CatalogStore is one;
// a console workspace also reconciles its cart.
type CatalogRefresher interface {
	Load(ctx context.Context) error
}

type productServiceImpl struct {
	repo      repository.ProductRepository
	refresher CatalogRefresher
	notifier  notify.Notifier
}

// NewProductService wires product maintenance to the refresher it calls after
// every successful change.
func NewProductService(repo repository.ProductRepository, refresher CatalogRefresher, n notify.Notifier) ProductService {
	return &productServiceImpl{
		repo:      repo,
		refresher: refresher,
		notifier:  n,
	}
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, form domain.ProductForm, image *repository.ImageFile) (*domain.Product, error) {
	if err := form.Validate(); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", err.Error())
		return nil, err
	}

	product, err := s.repo.CreateProduct(ctx, form, image)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "An error occurred"))
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	s.notifier.Notify(notify.LevelSuccess, "Created", "Product registered successfully")
	s.reload(ctx)
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id int64, form domain.ProductForm, image *repository.ImageFile) (*domain.Product, error) {
	if err := form.Validate(); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", err.Error())
		return nil, err
	}

	product, err := s.repo.UpdateProduct(ctx, id, form, image)
	if err != nil {
		s.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "An error occurred"))
		return nil, fmt.Errorf("could not update product %d: %w", id, err)
	}

	s.notifier.Notify(notify.LevelSuccess, "Updated", "Product updated successfully")
	s.reload(ctx)
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id int64, confirm notify.Confirmer) error {
	if !confirm.Confirm(ctx, "Are you sure?", "This action cannot be undone") {
		return ErrDeleteCancelled
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Error", "The product could not be deleted.")
		return fmt.Errorf("could not delete product %d: %w", id, err)
	}

	confirm.Alert(ctx, "Deleted!", "The product has been deleted.")
	s.reload(ctx)
	return nil
}

// reload refreshes the catalog after a successful write. Its failure does not
// undo the write; the previous list stays visible.
func (s *productServiceImpl) reload(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if err := s.refresher.Load(ctx); err != nil {
		logger.Warn("ProductService: catalog reload after write failed: " + err.Error())
	}
}
