package console

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
)

// Respond writes data along with the notifications raised while handling the
// request.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data, "notifications": drain(c)})
}

// Fail writes an error body. message is what the operator sees.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message, "notifications": drain(c)})
}

// FailBackend maps a backend failure: *backend.APIError keeps its status,
// transport failures become 502, anything else 500.
func FailBackend(c *gin.Context, err error, fallback string) {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		Fail(c, status, backend.Message(err, fallback))
	case errors.Is(err, backend.ErrTransport):
		Fail(c, http.StatusBadGateway, fallback)
	default:
		Fail(c, http.StatusInternalServerError, fallback)
	}
}

func drain(c *gin.Context) []notify.Notification {
	if ws := FromContext(c); ws != nil {
		return ws.Notes.Drain()
	}
	return []notify.Notification{}
}

// WithWorkspace attaches ws to a request that did not go through Middleware,
// so Respond and Fail still drain its notifications.
func WithWorkspace(c *gin.Context, ws *Workspace) {
	c.Set(workspaceKey, ws)
}
