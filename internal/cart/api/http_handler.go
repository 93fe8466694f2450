package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/cart/domain"
	"github.com/ridloal/retail-admin-console/internal/cart/service"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PUT("/items/:id", h.SetQuantity)
		cartRoutes.DELETE("/items/:id", h.RemoveItem)
		cartRoutes.POST("/checkout", h.Checkout)
	}
}

type lineView struct {
	domain.CartLine
	LineTotal string `json:"line_total"`
}

type cartView struct {
	Lines       []lineView           `json:"lines"`
	SubtotalUSD string               `json:"subtotal_usd"`
	TotalLocal  string               `json:"total_local"`
	Rate        string               `json:"rate"`
	State       domain.CheckoutState `json:"state"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ws := console.FromContext(c)
	ws.Cart.Reconcile()
	console.Respond(c, http.StatusOK, h.view(ws))
}

// AddItem adds one unit of a catalog product.
func (h *CartHandler) AddItem(c *gin.Context) {
	ws := console.FromContext(c)
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("AddItem: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	product, ok := ws.Catalog.Product(req.ProductID)
	if !ok {
		console.Fail(c, http.StatusNotFound, service.ErrUnknownProduct.Error())
		return
	}
	if err := ws.Cart.AddItem(product); err != nil {
		h.fail(c, err)
		return
	}
	console.Respond(c, http.StatusOK, h.view(ws))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	ws := console.FromContext(c)
	id, ok := lineID(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("SetQuantity: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := ws.Cart.SetQuantity(id, *req.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	console.Respond(c, http.StatusOK, h.view(ws))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ws := console.FromContext(c)
	id, ok := lineID(c)
	if !ok {
		return
	}
	if err := ws.Cart.RemoveItem(id); err != nil {
		h.fail(c, err)
		return
	}
	console.Respond(c, http.StatusOK, h.view(ws))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	ws := console.FromContext(c)
	if err := ws.Cart.Clear(); err != nil {
		h.fail(c, err)
		return
	}
	console.Respond(c, http.StatusOK, h.view(ws))
}

// Checkout blocks until the backend answers. Concurrent calls for the same
// workspace get 409 while one is in flight.
func (h *CartHandler) Checkout(c *gin.Context) {
	ws := console.FromContext(c)
	if err := ws.Cart.Submit(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	console.Respond(c, http.StatusOK, h.view(ws))
}

func (h *CartHandler) view(ws *console.Workspace) cartView {
	lines := ws.Cart.Lines()
	out := make([]lineView, len(lines))
	for i, l := range lines {
		out[i] = lineView{CartLine: l, LineTotal: l.LineTotal().StringFixed(2)}
	}
	r := ws.Rates.Current()
	subtotal := ws.Cart.SubtotalUSD()
	return cartView{
		Lines:       out,
		SubtotalUSD: subtotal.StringFixed(2),
		TotalLocal:  r.FormatLocal(subtotal),
		Rate:        r.Format(),
		State:       ws.Cart.State(),
	}
}

func (h *CartHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOutOfStock), errors.Is(err, service.ErrStockLimitReached):
		console.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCheckoutInFlight):
		console.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		console.Fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrLineNotFound), errors.Is(err, service.ErrUnknownProduct):
		console.Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClosed):
		console.Fail(c, http.StatusGone, err.Error())
	default:
		console.FailBackend(c, err, "The sale could not be registered")
	}
}

func lineID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		console.Fail(c, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}
