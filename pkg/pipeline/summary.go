package pipeline

import (
	"strings"

	"github.com/agentstation/atlas/pkg/catalogs"
)

// NoDescription is shown for a dataset without a description.
const NoDescription = "No description available."

// DataSetSummary describes the first dataset of a result list.
type DataSetSummary struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	// ReportLink points at the associated report, when the dataset has an owner.
	ReportLink string `json:"reportLink,omitempty" yaml:"reportLink,omitempty"`
}

// Summary aggregates a result list for the summary panel.
type Summary struct {
	Total   int                   `json:"total" yaml:"total"`
	Counts  map[catalogs.Kind]int `json:"counts" yaml:"counts"`
	DataSet *DataSetSummary       `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	Loading bool                  `json:"loading" yaml:"loading"`
}

// Summarize aggregates items, typically ResultsChanged.Matches.
func Summarize(items []Item) Summary {
	sum := Summary{
		Total:  len(items),
		Counts: make(map[catalogs.Kind]int, len(catalogs.Kinds)),
	}
	for _, k := range catalogs.Kinds {
		sum.Counts[k] = 0
	}
	for _, it := range items {
		sum.Counts[it.Kind]++
		if sum.DataSet == nil && it.Kind == catalogs.KindDataSet {
			ds := &DataSetSummary{
				ID:          it.ID,
				Title:       it.Title,
				Description: it.Description,
				Link:        "/datasets/" + it.ID,
			}
			if strings.TrimSpace(ds.Description) == "" {
				ds.Description = NoDescription
			}
			if it.RelatedOwner != nil {
				ds.ReportLink = it.RelatedOwner.Link
			}
			sum.DataSet = ds
		}
	}
	return sum
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
