package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSaleRepository_CreateSale(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string][]map[string]int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"ok"}`)
	}))
	defer srv.Close()
	repo := NewHTTPSaleRepository(backend.NewClient(srv.URL, time.Second, session.New()))

	err := repo.CreateSale(context.Background(), domain.SaleRequest{Products: []domain.SaleItem{{ID: 1, Quantity: 2}, {ID: 5, Quantity: 1}}})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/sales", gotPath)
	assert.Equal(t, map[string][]map[string]int64{
		"products": {{"id": 1, "quantity": 2}, {"id": 5, "quantity": 1}},
	}, gotBody)
}

func TestHTTPSaleRepository_CreateSale_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"Insufficient stock"}`)
	}))
	defer srv.Close()
	repo := NewHTTPSaleRepository(backend.NewClient(srv.URL, time.Second, session.New()))

	err := repo.CreateSale(context.Background(), domain.SaleRequest{Products: []domain.SaleItem{{ID: 1, Quantity: 99}}})

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Insufficient stock", apiErr.Message)
}
