// Package consoletest runs console handlers against a fake backend.
package consoletest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/platform/config"
	"github.com/ridloal/retail-admin-console/internal/rate"
	"github.com/shopspring/decimal"
)

type Env struct {
	Backend  *httptest.Server
	Registry *console.Registry
	Engine   *gin.Engine
	// Public is /api/v1 without the session middleware; Group is with it.
	Public *gin.RouterGroup
	Group  *gin.RouterGroup
}

// New starts backend as the fake REST backend. Local prices convert at 36.50.
func New(t *testing.T, backend http.Handler) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := config.ConsoleConfig{
		Backend:           config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
		InventoryPageSize: 9,
		SalesPageSize:     8,
		POSPageSize:       8,
	}
	deps := console.Deps{Config: cfg, Rates: rate.Fixed(rate.Of(decimal.RequireFromString("36.50")))}
	reg := console.NewRegistry(func(id string) *console.Workspace {
		return console.NewWorkspace(id, deps)
	}, nil, nil, "@every 60s", time.Hour)

	engine := gin.New()
	public := engine.Group("/api/v1")
	return &Env{
		Backend:  srv,
		Registry: reg,
		Engine:   engine,
		Public:   public,
		Group:    public.Group("", reg.Middleware()),
	}
}

// Login opens a workspace that already holds token, without calling the backend.
func (e *Env) Login(token string) *console.Workspace {
	ws := e.Registry.Open()
	ws.Session.Set(token)
	return ws
}

// Do sends a JSON request. body may be nil; sessionID may be empty.
func (e *Env) Do(method, path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(console.SessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	e.Engine.ServeHTTP(w, req)
	return w
}

// Response is the envelope every console endpoint answers with.
type Response struct {
	Data          json.RawMessage `json:"data"`
	Error         string          `json:"error"`
	Notifications []struct {
		Level string `json:"level"`
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"notifications"`
}

func Decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return r
}
