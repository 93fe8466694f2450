package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/inventory/domain"
)

type InventoryHandler struct{}

func NewInventoryHandler() *InventoryHandler {
	return &InventoryHandler{}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/alerts", h.GetAlerts)
}

type alertsView struct {
	Alerts  []domain.Alert      `json:"alerts"`
	Count   int                 `json:"count"`
	Summary domain.StockSummary `json:"summary"`
}

// GetAlerts returns the alerts from the last poll; ?refresh=true polls first.
func (h *InventoryHandler) GetAlerts(c *gin.Context) {
	ws := console.FromContext(c)
	if c.Query("refresh") == "true" {
		if err := ws.Alerts.Fetch(c.Request.Context()); err != nil {
			console.FailBackend(c, err, "Could not load low-stock alerts")
			return
		}
	}
	alerts := ws.Alerts.Alerts()
	console.Respond(c, http.StatusOK, alertsView{
		Alerts:  alerts,
		Count:   len(alerts),
		Summary: domain.Summarize(ws.Catalog.Products()),
	})
}
