package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, h http.HandlerFunc) ProductRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPProductRepository(backend.NewClient(srv.URL, time.Second, nil))
}

func TestHTTPProductRepository_ListProducts(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		io.WriteString(w, `{"data":[{"id":1,"name":"Pen","price":"1.00","stock":3}]}`)
	})

	products, err := repo.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pen", products[0].Name)
}

func TestHTTPProductRepository_UpdateUsesMethodOverride(t *testing.T) {
	var method, override, imageName string
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		override = r.FormValue("_method")
		if _, hdr, err := r.FormFile("image"); err == nil {
			imageName = hdr.Filename
		}
		io.WriteString(w, `{"id":9,"name":"Pencil"}`)
	})

	form := domain.ProductForm{Name: "Pencil", Price: "1", Cost: "1", Stock: "1", MinStock: "1", CategoryID: "1"}
	p, err := repo.UpdateProduct(context.Background(), 9, form, &ImageFile{Filename: "pencil.jpg", Content: strings.NewReader("x")})

	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, http.MethodPut, override)
	assert.Equal(t, "pencil.jpg", imageName)
}

func TestHTTPProductRepository_DeleteNotFound(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/5", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	err := repo.DeleteProduct(context.Background(), 5)

	assert.ErrorIs(t, err, ErrProductNotFound)
}
