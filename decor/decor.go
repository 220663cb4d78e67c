// Package decor holds the row-decoration rules: which background a product
// row gets from its expiration date and which style its stock cell gets
// from the stock level. Both are pure lookups over a fixed per-theme
// palette.
package decor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Theme selects one of the two fixed palettes.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ParseTheme accepts "light" or "dark" case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

// Palette is the five-color set a theme maps to.
type Palette struct {
	NearExpire   string
	MiddleExpire string
	FarExpire    string
	WarningStock string
	LowStock     string
}

var palettes = [2]Palette{
	Light: {
		NearExpire:   "#FAC3C3",
		MiddleExpire: "#F5EFB7",
		FarExpire:    "#B7F5BD",
		WarningStock: "#F9BB82",
		LowStock:     "#D96B6B",
	},
	Dark: {
		NearExpire:   "#632929",
		MiddleExpire: "#C4B265",
		FarExpire:    "#244B23",
		WarningStock: "#BE824A",
		LowStock:     "#9B4343",
	},
}

// Foreground colors for the out-of-stock cell: near-white on dark, near-black
// on light.
var stockForegrounds = [2]string{
	Light: "#1B1313",
	Dark:  "#F1FFF1",
}

// Palette returns the theme's color set.
func (t Theme) Palette() Palette {
	return palettes[t]
}

// CellStyle is the resolved decoration of a single table cell.
type CellStyle struct {
	Background string
	Foreground string
	Bold       bool
}

// Expiration thresholds in real-valued days.
const (
	nearExpireDays   = 7
	middleExpireDays = 14
)

// ExpirationStyle maps an expiration date to a background bucket: under 7
// days left is near, under 14 is middle, anything beyond is far. daysLeft is
// fractional, so a date exactly 7 days out lands in the middle bucket. A
// missing or unparseable date yields no styling; parse failures are logged
// and swallowed.
func ExpirationStyle(theme Theme, expirationDate string, now time.Time) (CellStyle, bool) {
	if expirationDate == "" {
		return CellStyle{}, false
	}
	exp, err := parseDate(expirationDate)
	if err != nil {
		slog.Debug("unparseable expiration date", "value", expirationDate, "error", err)
		return CellStyle{}, false
	}
	daysLeft := exp.Sub(now).Hours() / 24
	pal := theme.Palette()
	style := CellStyle{Background: pal.FarExpire}
	switch {
	case daysLeft < nearExpireDays:
		style.Background = pal.NearExpire
	case daysLeft < middleExpireDays:
		style.Background = pal.MiddleExpire
	}
	return style, true
}

// StockStyle maps a stock level to a cell style: zero stock gets the low
// background plus a bold themed foreground, 1-4 the low background, 5-10 the
// warning background. Eleven and above is an explicit no-override.
func StockStyle(theme Theme, stock int) (CellStyle, bool) {
	pal := theme.Palette()
	switch {
	case stock == 0:
		return CellStyle{
			Background: pal.LowStock,
			Foreground: stockForegrounds[theme],
			Bold:       true,
		}, true
	case stock < 5:
		return CellStyle{Background: pal.LowStock}, true
	case stock < 11:
		return CellStyle{Background: pal.WarningStock}, true
	}
	return CellStyle{}, false
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
