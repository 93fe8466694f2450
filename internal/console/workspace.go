// Package console holds the per-operator workspaces of the console service:
// one session, backend client, catalog, cart and history per logged-in
// operator, looked up by the X-Console-Session header.
package console

import (
	"context"
	"sync"
	"time"

	authrepo "github.com/ridloal/retail-admin-console/internal/auth/repository"
	authservice "github.com/ridloal/retail-admin-console/internal/auth/service"
	cartdomain "github.com/ridloal/retail-admin-console/internal/cart/domain"
	cartrepo "github.com/ridloal/retail-admin-console/internal/cart/repository"
	cartservice "github.com/ridloal/retail-admin-console/internal/cart/service"
	inventoryrepo "github.com/ridloal/retail-admin-console/internal/inventory/repository"
	inventoryservice "github.com/ridloal/retail-admin-console/internal/inventory/service"
	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/config"
	"github.com/ridloal/retail-admin-console/internal/platform/metrics"
	"github.com/ridloal/retail-admin-console/internal/platform/pagination"
	"github.com/ridloal/retail-admin-console/internal/platform/session"
	productdomain "github.com/ridloal/retail-admin-console/internal/product/domain"
	productrepo "github.com/ridloal/retail-admin-console/internal/product/repository"
	productservice "github.com/ridloal/retail-admin-console/internal/product/service"
	"github.com/ridloal/retail-admin-console/internal/rate"
	salesrepo "github.com/ridloal/retail-admin-console/internal/sales/repository"
	salesservice "github.com/ridloal/retail-admin-console/internal/sales/service"
	userrepo "github.com/ridloal/retail-admin-console/internal/user/repository"
	userservice "github.com/ridloal/retail-admin-console/internal/user/service"
)

// Catalog view names accepted by CatalogPage.
const (
	ViewPOS       = "pos"
	ViewInventory = "inventory"
)

type Workspace struct {
	ID       string
	Session  *session.Session
	Client   *backend.Client
	Notes    *notify.Recorder
	Rates    rate.Source
	Catalog  *productservice.CatalogStore
	Products productservice.ProductService
	Cart     *cartservice.Engine
	Sales    *salesservice.History
	Users    userservice.UserService
	Auth     authservice.AuthService
	Alerts   *inventoryservice.AlertService

	metrics *metrics.ConsoleMetrics

	mu        sync.Mutex
	views     map[string]*productservice.CatalogView
	salesView *salesservice.View
	lastSeen  time.Time
}

// Deps are shared by every workspace of a console service.
type Deps struct {
	Config  config.ConsoleConfig
	Rates   rate.Source
	Metrics *metrics.ConsoleMetrics
}

// NewWorkspace wires a fresh, logged-out workspace against the backend.
func NewWorkspace(id string, deps Deps) *Workspace {
	cfg := deps.Config
	sess := session.New()
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, sess)
	notes := notify.NewRecorder()
	n := notify.Multi{notes, notify.LogNotifier{}}

	rates := deps.Rates
	if rates == nil {
		rates = rate.Fixed(rate.Unknown())
	}

	catalog := productservice.NewCatalogStore(productrepo.NewHTTPProductRepository(client))
	ws := &Workspace{
		ID:       id,
		Session:  sess,
		Client:   client,
		Notes:    notes,
		Rates:    rates,
		Catalog:  catalog,
		Sales:    salesservice.NewHistory(salesrepo.NewHTTPSalesRepository(client), n),
		Users:    userservice.NewUserService(userrepo.NewHTTPUserRepository(client), n),
		Auth:     authservice.NewAuthService(authrepo.NewHTTPAuthRepository(client), sess, n),
		Alerts:   inventoryservice.NewAlertService(inventoryrepo.NewHTTPAlertRepository(client)),
		metrics:  deps.Metrics,
		views: map[string]*productservice.CatalogView{
			ViewPOS:       productservice.NewCatalogView(cfg.POSPageSize),
			ViewInventory: productservice.NewCatalogView(cfg.InventoryPageSize),
		},
		salesView: salesservice.NewView(cfg.SalesPageSize),
		lastSeen:  time.Now(),
	}
	ws.Products = productservice.NewProductService(productrepo.NewHTTPProductRepository(client), ws, n)
	ws.Cart = cartservice.NewEngine(catalog, cartrepo.NewHTTPSaleRepository(client), ws, n)
	ws.Cart.OnTransition(ws.recordCheckout)
	return ws
}

// Load reloads the catalog and reconciles the cart against the new stock.
// The cart engine calls it after a successful sale and the product service
// after every product write.
func (w *Workspace) Load(ctx context.Context) error {
	err := w.Catalog.Load(ctx)
	if w.metrics != nil {
		w.metrics.CatalogReload(err)
	}
	if err != nil {
		return err
	}
	w.Cart.Reconcile()
	return nil
}

// CatalogPage applies the search term and page request of the named view.
// An unknown view name falls back to the point-of-sale view.
func (w *Workspace) CatalogPage(view, term string, page int) pagination.Page[productdomain.Product] {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.views[view]
	if !ok {
		v = w.views[ViewPOS]
	}
	v.SetFilter(term)
	if page != 0 {
		v.SetPage(page)
	}
	return v.Page(w.Catalog.Products())
}

func (w *Workspace) SalesPage(text, date string, page int) salesservice.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.salesView.SetFilters(text, date)
	if page != 0 {
		w.salesView.SetPage(page)
	}
	return w.salesView.Apply(w.Sales.Records())
}

func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Close makes late responses for this workspace no-ops.
func (w *Workspace) Close() {
	w.Cart.Close()
}

func (w *Workspace) recordCheckout(_, to cartdomain.CheckoutState) {
	if w.metrics == nil {
		return
	}
	switch to {
	case cartdomain.StateSuccess:
		w.metrics.CheckoutOutcome("success")
	case cartdomain.StateFailed:
		w.metrics.CheckoutOutcome("failed")
	}
}
