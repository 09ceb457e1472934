// Package table converts atlas values into rows for terminal tables.
package table

import (
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/agentstation/atlas/pkg/catalogs"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table: headers, rows and optional column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
	// Footer is printed under the table, e.g. pagination.
	Footer string
}

// Palette colours table cells. The zero value colours when the terminal
// supports it.
type Palette struct {
	NoColor bool
}

func (p Palette) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if p.NoColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Star colours a favorite marker.
func (p Palette) Star(s string) string {
	return p.paint(s, color.FgYellow, color.Bold)
}

// Kind colours a record kind label.
func (p Palette) Kind(k catalogs.Kind) string {
	switch k {
	case catalogs.KindProduct:
		return p.paint(k.String(), color.FgCyan)
	case catalogs.KindReport:
		return p.paint(k.String(), color.FgMagenta)
	case catalogs.KindDataSet:
		return p.paint(k.String(), color.FgGreen)
	default:
		return k.String()
	}
}

// Faint dims secondary text.
func (p Palette) Faint(s string) string {
	return p.paint(s, color.Faint)
}

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}

// orDash returns "-" for empty cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
