package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	cartservice "github.com/ridloal/retail-admin-console/internal/cart/service"
	"github.com/ridloal/retail-admin-console/internal/console"
	"github.com/ridloal/retail-admin-console/internal/platform/pagination"
	productdomain "github.com/ridloal/retail-admin-console/internal/product/domain"
)

type model struct {
	ws       *console.Workspace
	page     pagination.Page[productdomain.Product]
	selected int
	term     string
	typing   bool
	input    string
	status   string
	busy     bool
	timeout  time.Duration
}

func newModel(ws *console.Workspace, timeout time.Duration) model {
	m := model{ws: ws, status: "Ready", timeout: timeout}
	m.page = ws.CatalogPage(console.ViewPOS, "", 1)
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

type checkoutResult struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateSearch(msg), nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
		case "down":
			if m.selected < len(m.page.Items)-1 {
				m.selected++
			}
		case "left":
			if m.page.HasPrev() {
				m.goToPage(m.page.Number - 1)
			}
		case "right":
			if m.page.HasNext() {
				m.goToPage(m.page.Number + 1)
			}
		case "/":
			m.typing = true
			m.input = m.term
		case "a":
			if p, ok := m.current(); ok {
				m.apply(m.ws.Cart.AddItem(p), "Added "+p.Name)
			}
		case "+", "-":
			if p, ok := m.current(); ok {
				delta := 1
				if msg.String() == "-" {
					delta = -1
				}
				m.apply(m.ws.Cart.SetQuantity(p.ID, m.quantityOf(p.ID)+delta), "")
			}
		case "x":
			if p, ok := m.current(); ok {
				m.apply(m.ws.Cart.RemoveItem(p.ID), "Removed "+p.Name)
			}
		case "c":
			m.apply(m.ws.Cart.Clear(), "Cart cleared")
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Submitting sale..."
			return m, m.checkoutCmd()
		}
	case checkoutResult:
		m.busy = false
		m.status = m.drainStatus("Sale recorded")
		if msg.err != nil && m.status == "Sale recorded" {
			m.status = "Checkout failed: " + msg.err.Error()
		}
		m.refresh()
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) model {
	switch msg.Type {
	case tea.KeyEnter:
		m.typing = false
		m.term = strings.TrimSpace(m.input)
		m.page = m.ws.CatalogPage(console.ViewPOS, m.term, 0)
		m.selected = 0
	case tea.KeyEsc:
		m.typing = false
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

func (m *model) goToPage(n int) {
	m.page = m.ws.CatalogPage(console.ViewPOS, m.term, n)
	m.selected = 0
}

func (m *model) refresh() {
	m.page = m.ws.CatalogPage(console.ViewPOS, m.term, m.page.Number)
	if m.selected >= len(m.page.Items) {
		m.selected = len(m.page.Items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m model) current() (productdomain.Product, bool) {
	if m.selected < 0 || m.selected >= len(m.page.Items) {
		return productdomain.Product{}, false
	}
	return m.page.Items[m.selected], true
}

func (m model) quantityOf(id int64) int {
	for _, l := range m.ws.Cart.Lines() {
		if l.ProductID == id {
			return l.Quantity
		}
	}
	return 0
}

func (m *model) apply(err error, ok string) {
	switch {
	case err == nil:
		m.status = m.drainStatus(ok)
	case errors.Is(err, cartservice.ErrCheckoutInFlight):
		m.status = "Checkout in progress, cart is locked"
	default:
		m.status = m.drainStatus(err.Error())
	}
}

// drainStatus shows the most recent notification, or fallback when there is none.
func (m model) drainStatus(fallback string) string {
	notes := m.ws.Notes.Drain()
	if len(notes) == 0 {
		if fallback == "" {
			return m.status
		}
		return fallback
	}
	n := notes[len(notes)-1]
	return fmt.Sprintf("[%s] %s: %s", n.Level, n.Title, n.Text)
}

func (m model) checkoutCmd() tea.Cmd {
	cart := m.ws.Cart
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return checkoutResult{err: cart.Submit(ctx)}
	}
}

func (m model) View() string {
	b := &strings.Builder{}
	r := m.ws.Rates.Current()
	fmt.Fprintf(b, "Point of Sale  (rate %s)\n\n", r.Format())

	fmt.Fprintf(b, "Products  page %d/%d", m.page.Number, m.page.TotalPages)
	if m.term != "" {
		fmt.Fprintf(b, "  search %q", m.term)
	}
	fmt.Fprintln(b)
	if len(m.page.Items) == 0 {
		fmt.Fprintln(b, "   (no products)")
	}
	for i, p := range m.page.Items {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-24s %8s USD %10s  %s\n", marker, p.Name, p.Price.StringFixed(2), r.FormatLocal(p.Price), badge(p))
	}

	fmt.Fprintln(b, "\nCart:")
	lines := m.ws.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(b, "   (empty)")
	}
	for _, l := range lines {
		fmt.Fprintf(b, "   %3d x %-22s %10s USD\n", l.Quantity, l.Name, l.LineTotal().StringFixed(2))
	}
	subtotal := m.ws.Cart.SubtotalUSD()
	fmt.Fprintf(b, "   Subtotal %s USD   Total %s\n", subtotal.StringFixed(2), r.FormatLocal(subtotal))

	fmt.Fprintln(b)
	if m.typing {
		fmt.Fprintf(b, "Search: %s_\n", m.input)
	}
	fmt.Fprintf(b, "Status: %s\n", m.status)
	fmt.Fprintln(b, "\nControls: up/down select, left/right page, a add, +/- quantity, x remove, / search, c clear, enter checkout, q quit")
	return b.String()
}

func badge(p productdomain.Product) string {
	switch {
	case !p.Available():
		return "OUT OF STOCK"
	case p.LowStock():
		return fmt.Sprintf("LOW (%d)", p.Stock)
	default:
		return fmt.Sprintf("stock %d", p.Stock)
	}
}
