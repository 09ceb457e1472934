// Package filter restricts result lists to the record kind selected by a tab.
package filter

import (
	"strings"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/errors"
)

// Tab selects which record kinds are shown.
type Tab int

// Tabs in display order. The numeric keys "1".."4" follow this order.
const (
	TabAll Tab = iota
	TabProduct
	TabReport
	TabDataSet
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabAll, TabProduct, TabReport, TabDataSet}

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabAll:
		return "All"
	case TabProduct:
		return "Products"
	case TabReport:
		return "Reports"
	case TabDataSet:
		return "DataSets"
	default:
		return "Unknown"
	}
}

// Key returns the tab's numeric key ("1".."4").
func (t Tab) Key() string {
	return string(rune('1' + int(t)))
}

// Kind returns the record kind a tab selects. ok is false for TabAll.
func (t Tab) Kind() (catalogs.Kind, bool) {
	switch t {
	case TabProduct:
		return catalogs.KindProduct, true
	case TabReport:
		return catalogs.KindReport, true
	case TabDataSet:
		return catalogs.KindDataSet, true
	default:
		return "", false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tab) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(t.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tab) UnmarshalText(b []byte) error {
	parsed, err := ParseTab(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTab parses a tab name or numeric key. The empty string is TabAll.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "all":
		return TabAll, nil
	case "2", "product", "products":
		return TabProduct, nil
	case "3", "report", "reports":
		return TabReport, nil
	case "4", "dataset", "datasets", "data":
		return TabDataSet, nil
	default:
		return TabAll, errors.NewValidationError("tab", s, "must be all, products, reports or datasets")
	}
}

// Apply returns the records matching the tab, preserving order.
// TabAll returns the list unchanged.
func Apply(records []catalogs.Record, tab Tab) []catalogs.Record {
	kind, ok := tab.Kind()
	if !ok {
		return records
	}
	out := make([]catalogs.Record, 0, len(records))
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
