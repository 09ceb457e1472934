package catalogs

import (
	"strings"

	"github.com/agentstation/atlas/pkg/errors"
)

// Kind is the category of a catalog record.
type Kind string

// Record kinds.
const (
	KindProduct Kind = "Product"
	KindReport  Kind = "Report"
	KindDataSet Kind = "DataSet"
)

// Kinds lists every record kind in display order.
var Kinds = []Kind{KindProduct, KindReport, KindDataSet}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Plural returns the kind's tab label.
func (k Kind) Plural() string {
	switch k {
	case KindDataSet:
		return "DataSets"
	default:
		return string(k) + "s"
	}
}

// ParseKind parses a kind name case-insensitively. The empty string is a Product.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "product", "products":
		return KindProduct, nil
	case "report", "reports":
		return KindReport, nil
	case "dataset", "datasets", "data set", "data":
		return KindDataSet, nil
	default:
		return "", errors.NewValidationError("kind", s, "must be Product, Report or DataSet")
	}
}

// StatusPublished is the only status visible to search.
const StatusPublished = "Published"

// Record is one catalog entry. Records are immutable after load.
type Record struct {
	ID            string `json:"id" yaml:"id"`
	Kind          Kind   `json:"kind" yaml:"kind"`
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	Owner         string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Status        string `json:"publishedStatus" yaml:"publishedStatus"`
	LastPublished string `json:"lastPublishedAt,omitempty" yaml:"lastPublishedAt,omitempty"`
}

// IsPublished reports whether the record is eligible for search and display.
func (r Record) IsPublished() bool {
	return r.Status == StatusPublished
}

// Field returns a searchable field value by key name.
func (r Record) Field(key string) string {
	switch key {
	case "id":
		return r.ID
	case "title":
		return r.Title
	case "description":
		return r.Description
	case "kind", "type":
		return string(r.Kind)
	case "owner":
		return r.Owner
	default:
		return ""
	}
}
