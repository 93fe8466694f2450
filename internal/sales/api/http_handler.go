package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/sales/domain"
)

type SalesHandler struct{}

func NewSalesHandler() *SalesHandler {
	return &SalesHandler{}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sales-history", h.GetHistory)
}

type historyPage struct {
	Records    []domain.SaleRecord `json:"records"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	TotalItems int                 `json:"total_items"`
	TotalUSD   string              `json:"total_usd"`
	TotalLocal string              `json:"total_local"`
	Rate       string              `json:"rate"`
}

// GetHistory reloads the history from the backend on every call, like the
// history screen does on mount, then filters and pages it.
func (h *SalesHandler) GetHistory(c *gin.Context) {
	ws := console.FromContext(c)
	if err := ws.Sales.Load(c.Request.Context()); err != nil {
		console.FailBackend(c, err, "Could not load the sales history")
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	res := ws.SalesPage(c.Query("q"), c.Query("date"), page)
	r := ws.Rates.Current()

	console.Respond(c, http.StatusOK, historyPage{
		Records:    res.Page.Items,
		Page:       res.Page.Number,
		TotalPages: res.Page.TotalPages,
		TotalItems: res.Page.TotalItems,
		TotalUSD:   res.TotalUSD.StringFixed(2),
		TotalLocal: r.FormatLocal(res.TotalUSD),
		Rate:       r.Format(),
	})
}
