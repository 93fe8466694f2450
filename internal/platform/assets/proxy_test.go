package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveAssets mounts the asset handler for target on a running test server.
func serveAssets(t *testing.T, target string) *httptest.Server {
	t.Helper()
	h, err := Handler(target)
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/assets/*path", h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_ForwardsPath(t *testing.T) {
	seen := make(chan *http.Request, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(r.Context())
		io.WriteString(w, "PNG")
	}))
	defer upstream.Close()
	srv := serveAssets(t, upstream.URL)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/assets/storage/products/pen.png", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PNG", string(body))
	forwarded := <-seen
	assert.Equal(t, "/storage/products/pen.png", forwarded.URL.Path)
	assert.Empty(t, forwarded.Header.Get("Authorization"))

	resp, err = http.Post(srv.URL+"/assets/x.png", "image/png", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandler_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := upstream.URL
	upstream.Close()
	srv := serveAssets(t, target)

	resp, err := http.Get(srv.URL + "/assets/pen.png")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestNewSingleHostReverseProxy_InvalidTarget(t *testing.T) {
	_, err := NewSingleHostReverseProxy("not a url")
	assert.Error(t, err)
}
