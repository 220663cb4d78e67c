// Package render turns fetched state into terminal tables, applying the
// decoration rules per row. Formatting is presentation only and never
// mutates the underlying values.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stockctl/decor"
	"stockctl/domain"
)

// Renderer writes product and metrics tables. Color can be switched off
// without changing which bucket a row lands in.
type Renderer struct {
	theme   decor.Theme
	color   bool
	printer *message.Printer
	now     func() time.Time
}

// New constructs a Renderer for the given theme. color=false yields plain
// text.
func New(theme decor.Theme, color bool) *Renderer {
	return &Renderer{
		theme:   theme,
		color:   color,
		printer: message.NewPrinter(language.English),
		now:     time.Now,
	}
}

// Currency formats a monetary value for display, e.g. "$1,234.50".
func (r *Renderer) Currency(v float64) string {
	return r.printer.Sprintf("%v", currency.Symbol(currency.USD.Amount(v)))
}

func (r *Renderer) styled(text string, style decor.CellStyle, ok bool) string {
	if !r.color || !ok {
		return text
	}
	st := lipgloss.NewStyle().Background(lipgloss.Color(style.Background))
	if style.Foreground != "" {
		st = st.Foreground(lipgloss.Color(style.Foreground))
	}
	if style.Bold {
		st = st.Bold(true)
	}
	return st.Render(text)
}

const (
	colName     = 24
	colCategory = 16
	colPrice    = 12
	colExpire   = 12
	colStock    = 7
)

func pad(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return s + strings.Repeat(" ", width-len(s))
}

// ProductTable writes one page of products. Rows carry the expiration
// background and the stock cell carries its stock style.
func (r *Renderer) ProductTable(w io.Writer, page domain.PaginatedProducts) {
	fmt.Fprintf(w, "%s%s%s%s%s  ID\n",
		pad("NAME", colName),
		pad("CATEGORY", colCategory),
		pad("PRICE", colPrice),
		pad("EXPIRES", colExpire),
		pad("STOCK", colStock),
	)
	now := r.now()
	for _, p := range page.Products {
		expStyle, expOK := decor.ExpirationStyle(r.theme, p.ExpirationDate, now)
		stockStyle, stockOK := decor.StockStyle(r.theme, p.Stock)

		expCell := p.ExpirationDate
		if expCell == "" {
			expCell = "-"
		}
		fmt.Fprintf(w, "%s%s%s%s%s  %d\n",
			r.styled(pad(p.Name, colName), expStyle, expOK),
			pad(p.Category.Name, colCategory),
			pad(r.Currency(p.UnitPrice), colPrice),
			r.styled(pad(expCell, colExpire), expStyle, expOK),
			r.styled(pad(fmt.Sprintf("%d", p.Stock), colStock), stockStyle, stockOK),
			p.ID,
		)
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d products)\n",
		page.Page+1, max(page.TotalPages, 1), page.TotalElements)
}

// MetricsTable writes the per-category metrics with the synthetic Overall
// row in bold.
func (r *Renderer) MetricsTable(w io.Writer, metrics []domain.Metric) {
	fmt.Fprintf(w, "%s%s%s%s\n",
		pad("CATEGORY", colName),
		pad("IN STOCK", colPrice),
		pad("TOTAL VALUE", colPrice+4),
		pad("AVG PRICE", colPrice),
	)
	bold := lipgloss.NewStyle().Bold(true)
	for _, m := range metrics {
		line := fmt.Sprintf("%s%s%s%s",
			pad(m.Category.Name, colName),
			pad(fmt.Sprintf("%d", m.Quantity), colPrice),
			pad(r.Currency(m.Value), colPrice+4),
			pad(r.Currency(m.AveragePrice), colPrice),
		)
		if r.color && m.Category.Name == "Overall" {
			line = bold.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}
