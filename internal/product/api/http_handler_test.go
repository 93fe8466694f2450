package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/console/consoletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu       sync.Mutex
	products string
	deleted  []string
	updates  []map[string]string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/products":
		io.WriteString(w, b.products)
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/products/"):
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fields := map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		b.updates = append(b.updates, fields)
		io.WriteString(w, `{"id":1,"name":"`+fields["name"]+`","price":"1.00","stock":3}`)
	case r.Method == http.MethodDelete:
		b.deleted = append(b.deleted, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) calls() (deleted []string, updates []map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...), append([]map[string]string(nil), b.updates...)
}

func newEnv(t *testing.T, products string) (*consoletest.Env, *fakeBackend, *console.Workspace) {
	t.Helper()
	fb := &fakeBackend{products: products}
	env := consoletest.New(t, fb)
	NewProductHandler().RegisterRoutes(env.Group)
	return env, fb, env.Login("tok")
}

func TestGetCatalog(t *testing.T) {
	var items []string
	for i := 1; i <= 17; i++ {
		items = append(items, fmt.Sprintf(`{"id":%d,"name":"Item %02d","price":"2.00","stock":%d}`, i, i, i))
	}
	env, _, ws := newEnv(t, `{"data":[`+strings.Join(items, ",")+`]}`)

	w := env.Do(http.MethodGet, "/api/v1/catalog?page=3", nil, ws.ID)

	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			ID         int64  `json:"id"`
			PriceLocal string `json:"price_local"`
			LowStock   bool   `json:"low_stock"`
		} `json:"items"`
		Page       int    `json:"page"`
		TotalPages int    `json:"total_pages"`
		Rate       string `json:"rate"`
	}
	require.NoError(t, json.Unmarshal(consoletest.Decode(t, w).Data, &page))
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(17), page.Items[0].ID)
	assert.Equal(t, "73.00", page.Items[0].PriceLocal)
	assert.False(t, page.Items[0].LowStock)
	assert.Equal(t, "36.50", page.Rate)

	w = env.Do(http.MethodGet, "/api/v1/catalog?view=inventory&q=item%200", nil, ws.ID)
	require.NoError(t, json.Unmarshal(consoletest.Decode(t, w).Data, &page))
	assert.Len(t, page.Items, 9)
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.Items[0].LowStock)
}

func TestGetCatalog_RequiresSession(t *testing.T) {
	env, _, _ := newEnv(t, `[]`)

	w := env.Do(http.MethodGet, "/api/v1/catalog", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Do(http.MethodGet, "/api/v1/catalog", nil, "not-a-session")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProduct_InvalidForm(t *testing.T) {
	env, _, ws := newEnv(t, `[]`)

	w := env.Do(http.MethodPost, "/api/v1/products", map[string]string{"name": "Pen", "price": "-1"}, ws.ID)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := consoletest.Decode(t, w)
	assert.Equal(t, "price must be a non-negative decimal", resp.Error)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "error", resp.Notifications[0].Level)
}

func TestUpdateProduct_Multipart(t *testing.T) {
	env, fb, ws := newEnv(t, `[{"id":1,"name":"Pencil","price":"1.00","stock":3}]`)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range map[string]string{"name": "Pencil", "price": "1.00", "cost": "0.50", "stock": "3", "min_stock": "", "category_id": "2"} {
		mw.WriteField(k, v)
	}
	part, _ := mw.CreateFormFile("image", "pencil.png")
	part.Write([]byte("PNG"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/1", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(console.SessionHeader, ws.ID)
	w := httptest.NewRecorder()
	env.Engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, updates := fb.calls()
	require.Len(t, updates, 1)
	assert.Equal(t, "PUT", updates[0]["_method"])
	assert.Equal(t, "2", updates[0]["category_id"])
	assert.Equal(t, "success", consoletest.Decode(t, w).Notifications[0].Level)
}

func TestDeleteProduct_NeedsConfirmation(t *testing.T) {
	env, fb, ws := newEnv(t, `[]`)

	w := env.Do(http.MethodDelete, "/api/v1/products/4", nil, ws.ID)
	assert.Equal(t, http.StatusConflict, w.Code)
	deleted, _ := fb.calls()
	assert.Empty(t, deleted)

	w = env.Do(http.MethodDelete, "/api/v1/products/4?confirm=true", nil, ws.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	deleted, _ = fb.calls()
	assert.Equal(t, []string{"/products/4"}, deleted)

	w = env.Do(http.MethodDelete, "/api/v1/products/abc?confirm=true", nil, ws.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
