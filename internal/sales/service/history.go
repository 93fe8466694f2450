package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ridloal/retail-admin-console/internal/notify"
	"github.com/ridloal/retail-admin-console/internal/platform/backend"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/pagination"
	"github.com/ridloal/retail-admin-console/internal/sales/domain"
	"github.com/ridloal/retail-admin-console/internal/sales/repository"
	"github.com/shopspring/decimal"
)

// History holds the last sales history fetched for a workspace.
type History struct {
	repo     repository.SalesRepository
	notifier notify.Notifier

	mu      sync.RWMutex
	records []domain.SaleRecord
}

func NewHistory(repo repository.SalesRepository, n notify.Notifier) *History {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &History{repo: repo, notifier: n, records: []domain.SaleRecord{}}
}

// Load replaces the records. On failure the previous records stay.
func (h *History) Load(ctx context.Context) error {
	records, err := h.repo.ListSales(ctx)
	if err != nil {
		h.notifier.Notify(notify.LevelError, "Error", backend.Message(err, "Could not load the sales history"))
		return fmt.Errorf("could not load sales history: %w", err)
	}
	h.mu.Lock()
	h.records = records
	h.mu.Unlock()
	logger.Info("Sales history loaded with %d records", len(records))
	return nil
}

func (h *History) Records() []domain.SaleRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.SaleRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Filter keeps records where any product name or the seller name contains
// text (ignoring case) and, when date is set, created_at contains date.
// Empty text matches every record.
func Filter(list []domain.SaleRecord, text, date string) []domain.SaleRecord {
	needle := strings.ToLower(text)

	out := make([]domain.SaleRecord, 0, len(list))
	for _, rec := range list {
		if needle != "" && !matchesText(rec, needle) {
			continue
		}
		if date != "" && !strings.Contains(rec.CreatedAt, date) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesText(rec domain.SaleRecord, needle string) bool {
	if strings.Contains(strings.ToLower(rec.Seller.Name), needle) {
		return true
	}
	for _, d := range rec.Details {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return true
		}
	}
	return false
}

func AggregateTotal(list []domain.SaleRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range list {
		total = total.Add(rec.Total.Decimal)
	}
	return total
}

// View is the filter bar and pager of the sales history screen.
type View struct {
	PageSize int

	text   string
	date   string
	cursor pagination.Cursor
}

func NewView(pageSize int) *View {
	return &View{PageSize: pageSize}
}

// SetFilters changes the text and date filters; a change goes back to page 1.
func (v *View) SetFilters(text, date string) {
	if text != v.text || date != v.date {
		v.cursor.Reset()
	}
	v.text, v.date = text, date
}

func (v *View) SetPage(page int) { v.cursor.Set(page) }

// Result is one rendered page plus the aggregate of everything that matched.
type Result struct {
	Page     pagination.Page[domain.SaleRecord]
	TotalUSD decimal.Decimal
}

func (v *View) Apply(list []domain.SaleRecord) Result {
	filtered := Filter(list, v.text, v.date)
	return Result{
		Page:     pagination.Paginate(filtered, v.PageSize, v.cursor.Page()),
		TotalUSD: AggregateTotal(filtered),
	}
}
