package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/product/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ImageFile is the optional product picture attached to create/update.
type ImageFile = backend.FilePart

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, form domain.ProductForm, image *ImageFile) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form domain.ProductForm, image *ImageFile) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type httpProductRepository struct {
	client *backend.Client
}

func NewHTTPProductRepository(client *backend.Client) ProductRepository {
	return &httpProductRepository{client: client}
}

func (r *httpProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := backend.GetList[domain.Product](ctx, r.client, "/products")
	if err != nil {
		logger.Error("ListProducts: request failed", err)
		return nil, err
	}
	return products, nil
}

func (r *httpProductRepository) CreateProduct(ctx context.Context, form domain.ProductForm, image *ImageFile) (*domain.Product, error) {
	var p domain.Product
	if err := r.client.DoMultipart(ctx, "/products", form.Fields(), withField(image), &p); err != nil {
		logger.Error("CreateProduct: request failed", err)
		return nil, err
	}
	return &p, nil
}

// UpdateProduct posts multipart data with the _method=PUT override, since the
// backend cannot read multipart bodies on a real PUT.
func (r *httpProductRepository) UpdateProduct(ctx context.Context, id int64, form domain.ProductForm, image *ImageFile) (*domain.Product, error) {
	fields := form.Fields()
	fields["_method"] = http.MethodPut

	var p domain.Product
	err := r.client.DoMultipart(ctx, fmt.Sprintf("/products/%d", id), fields, withField(image), &p)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		logger.Error("UpdateProduct: request failed for product %d", err, id)
		return nil, err
	}
	return &p, nil
}

func (r *httpProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
	if err != nil {
		if isNotFound(err) {
			return ErrProductNotFound
		}
		logger.Error("DeleteProduct: request failed for product %d", err, id)
		return err
	}
	return nil
}

func withField(image *ImageFile) *ImageFile {
	if image == nil || image.Content == nil {
		return nil
	}
	img := *image
	if img.Field == "" {
		img.Field = "image"
	}
	return &img
}

func isNotFound(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
