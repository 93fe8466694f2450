package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/product/domain"
	"github.com/ridloal/retail-admin-console/internal/product/repository"
	"github.com/ridloal/retail-admin-console/internal/product/service"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/catalog", h.GetCatalog)
	router.POST("/catalog/reload", h.ReloadCatalog)

	productRoutes := router.Group("/products")
	{
		productRoutes.POST("", h.CreateProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
	}
}

type catalogItem struct {
	domain.Product
	PriceLocal string `json:"price_local"`
	Threshold  int    `json:"threshold"`
	LowStock   bool   `json:"low_stock"`
}

type catalogPage struct {
	Items      []catalogItem `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalItems int           `json:"total_items"`
	Filter     string        `json:"filter"`
	Rate       string        `json:"rate"`
}

// GetCatalog renders one page of the named view (pos or inventory). The
// catalog is loaded on first use.
func (h *ProductHandler) GetCatalog(c *gin.Context) {
	ws := console.FromContext(c)
	if ws.Catalog.LoadedAt().IsZero() {
		if err := ws.Load(c.Request.Context()); err != nil {
			console.FailBackend(c, err, "Could not load products")
			return
		}
	}

	term := c.Query("q")
	page, _ := strconv.Atoi(c.Query("page"))
	p := ws.CatalogPage(c.DefaultQuery("view", console.ViewPOS), term, page)
	r := ws.Rates.Current()

	items := make([]catalogItem, len(p.Items))
	for i, prod := range p.Items {
		items[i] = catalogItem{
			Product:    prod,
			PriceLocal: r.FormatLocal(prod.Price),
			Threshold:  prod.Threshold(),
			LowStock:   prod.LowStock(),
		}
	}
	console.Respond(c, http.StatusOK, catalogPage{
		Items:      items,
		Page:       p.Number,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		Filter:     term,
		Rate:       r.Format(),
	})
}

func (h *ProductHandler) ReloadCatalog(c *gin.Context) {
	ws := console.FromContext(c)
	if err := ws.Load(c.Request.Context()); err != nil {
		console.FailBackend(c, err, "Could not load products")
		return
	}
	console.Respond(c, http.StatusOK, gin.H{"products": len(ws.Catalog.Products())})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ws := console.FromContext(c)
	var form domain.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Error("CreateProduct: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	image, closeImage := imageFromRequest(c)
	defer closeImage()

	product, err := ws.Products.CreateProduct(c.Request.Context(), form, image)
	if err != nil {
		h.fail(c, err, "Failed to create product")
		return
	}
	console.Respond(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ws := console.FromContext(c)
	id, ok := productID(c)
	if !ok {
		return
	}
	var form domain.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Error("UpdateProduct: bad request", err)
		console.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	image, closeImage := imageFromRequest(c)
	defer closeImage()

	product, err := ws.Products.UpdateProduct(c.Request.Context(), id, form, image)
	if err != nil {
		h.fail(c, err, "Failed to update product")
		return
	}
	console.Respond(c, http.StatusOK, product)
}

// DeleteProduct needs ?confirm=true; without it the deletion is declined.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ws := console.FromContext(c)
	id, ok := productID(c)
	if !ok {
		return
	}
	confirm := notify.StaticConfirmer{Answer: c.Query("confirm") == "true", Notifier: ws.Notes}

	if err := ws.Products.DeleteProduct(c.Request.Context(), id, confirm); err != nil {
		h.fail(c, err, "Failed to delete product")
		return
	}
	console.Respond(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *ProductHandler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case isFormError(err):
		console.Fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		console.Fail(c, http.StatusNotFound, repository.ErrProductNotFound.Error())
	case errors.Is(err, service.ErrDeleteCancelled):
		console.Fail(c, http.StatusConflict, err.Error())
	default:
		console.FailBackend(c, err, fallback)
	}
}

func isFormError(err error) bool {
	for _, target := range []error{
		domain.ErrNameRequired, domain.ErrInvalidPrice, domain.ErrInvalidCost,
		domain.ErrInvalidStock, domain.ErrInvalidMinStock, domain.ErrCategoryRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		console.Fail(c, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

// imageFromRequest opens the optional "image" upload. The returned func
// closes it.
func imageFromRequest(c *gin.Context) (*repository.ImageFile, func()) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, func() {}
	}
	f, err := header.Open()
	if err != nil {
		logger.Warn("Product image could not be opened: " + err.Error())
		return nil, func() {}
	}
	return &repository.ImageFile{Field: "image", Filename: header.Filename, Content: f}, func() { f.Close() }
}
