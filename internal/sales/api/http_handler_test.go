package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/ridloal/retail-admin-console/internal/console/consoletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const history = `{"data":[
 {"id":1,"created_at":"2024-05-01 09:30:00","total":"13.00","seller":{"name":"Ana"},"details":[{"name":"Pen","quantity":2},{"name":"Notebook","quantity":1}]},
 {"id":2,"created_at":"2024-05-02 16:05:00","total":2.5,"seller":{"name":"Luis"},"details":[{"name":"Eraser","quantity":1}]}
]}`

func TestGetHistory(t *testing.T) {
	env := consoletest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, history)
	}))
	NewSalesHandler().RegisterRoutes(env.Group)
	ws := env.Login("tok")

	var page struct {
		Records []struct {
			ID int64 `json:"id"`
		} `json:"records"`
		TotalUSD   string `json:"total_usd"`
		TotalLocal string `json:"total_local"`
	}

	w := env.Do(http.MethodGet, "/api/v1/sales-history", nil, ws.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(consoletest.Decode(t, w).Data, &page))
	assert.Len(t, page.Records, 2)
	assert.Equal(t, "15.50", page.TotalUSD)
	assert.Equal(t, "565.75", page.TotalLocal)

	w = env.Do(http.MethodGet, "/api/v1/sales-history?q=note", nil, ws.ID)
	require.NoError(t, json.Unmarshal(consoletest.Decode(t, w).Data, &page))
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(1), page.Records[0].ID)

	w = env.Do(http.MethodGet, "/api/v1/sales-history?q=note&date=2023-01-01", nil, ws.ID)
	require.NoError(t, json.Unmarshal(consoletest.Decode(t, w).Data, &page))
	assert.Empty(t, page.Records)
	assert.Equal(t, "0.00", page.TotalUSD)
}

func TestGetHistory_BackendDown(t *testing.T) {
	env := consoletest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	NewSalesHandler().RegisterRoutes(env.Group)
	ws := env.Login("tok")

	w := env.Do(http.MethodGet, "/api/v1/sales-history", nil, ws.ID)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := consoletest.Decode(t, w)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "error", resp.Notifications[0].Level)
}
