package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"stockctl/decor"
	"stockctl/domain"
)

func testRenderer() *Renderer {
	r := New(decor.Light, false)
	r.now = func() time.Time {
		return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	}
	return r
}

func TestCurrency(t *testing.T) {
	r := testRenderer()

	if got := r.Currency(12.5); got != "$12.50" {
		t.Fatalf("Currency(12.5) = %q", got)
	}
	if got := r.Currency(0); got != "$0.00" {
		t.Fatalf("Currency(0) = %q", got)
	}
	if got := r.Currency(45); got != "$45.00" {
		t.Fatalf("Currency(45) = %q", got)
	}
}

func TestProductTablePlain(t *testing.T) {
	r := testRenderer()
	page := domain.PaginatedProducts{
		Products: []domain.Product{
			{
				ID:             7,
				Name:           "Milk",
				Category:       domain.Category{ID: 3, Name: "Food"},
				UnitPrice:      2.5,
				ExpirationDate: "2026-03-13",
				Stock:          8,
			},
			{
				ID:        8,
				Name:      "Radio",
				Category:  domain.Category{ID: 1, Name: "Electronics"},
				UnitPrice: 45,
				Stock:     0,
			},
		},
		TotalElements: 12,
		TotalPages:    2,
		Page:          0,
		Size:          10,
	}

	var buf bytes.Buffer
	r.ProductTable(&buf, page)
	out := buf.String()

	for _, want := range []string{"Milk", "Food", "$2.50", "2026-03-13", "Radio", "$45.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Page 1 of 2 (12 products)") {
		t.Fatalf("missing pagination footer:\n%s", out)
	}
	// no color requested: no escape sequences
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output contains ANSI escapes:\n%q", out)
	}
}

func TestMetricsTablePlain(t *testing.T) {
	r := testRenderer()
	metrics := []domain.Metric{
		{Category: domain.Category{ID: 3, Name: "Food"}, Quantity: 28, Value: 82, AveragePrice: 2.93},
		{Category: domain.Category{Name: "Overall"}, Quantity: 43, Value: 287.2, AveragePrice: 66.79},
	}

	var buf bytes.Buffer
	r.MetricsTable(&buf, metrics)
	out := buf.String()

	for _, want := range []string{"Food", "28", "$82.00", "Overall", "$287.20", "$66.79"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormattingDoesNotMutateValues(t *testing.T) {
	r := testRenderer()
	m := domain.Metric{Category: domain.Category{Name: "Food"}, Value: 82.5, AveragePrice: 2.93}

	var buf bytes.Buffer
	r.MetricsTable(&buf, []domain.Metric{m})

	if m.Value != 82.5 || m.AveragePrice != 2.93 {
		t.Fatalf("rendering mutated the metric: %+v", m)
	}
}
