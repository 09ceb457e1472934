package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/internal/cmd/emoji"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/pagination"
	"github.com/agentstation/atlas/pkg/pipeline"
)

var plain = Palette{NoColor: true}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b c", Truncate("a\n  b\tc", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "…", Truncate("abcdefgh", 1))
	assert.Equal(t, "abcdefgh", Truncate("abcdefgh", 0))
}

func TestItemsToTableData(t *testing.T) {
	items := []pipeline.Item{
		{ID: "P001", Kind: catalogs.KindProduct, Title: "Sales Performance Hub", Favorite: true},
		{ID: "D001", Kind: catalogs.KindDataSet, Title: "Orders", Description: "All orders",
			RelatedOwner: &pipeline.OwnerLink{Name: "Sales Performance Hub", Link: "#"}},
	}

	td := ItemsToTableData(items, false, plain)
	assert.Equal(t, []string{"", "ID", "Kind", "Title", "Owner"}, td.Headers)
	assert.Equal(t, []string{emoji.Favorite, "P001", "Product", "Sales Performance Hub", "-"}, td.Rows[0])
	assert.Equal(t, []string{emoji.NotFavorite, "D001", "DataSet", "Orders", "Sales Performance Hub"}, td.Rows[1])

	wide := ItemsToTableData(items, true, plain)
	assert.Len(t, wide.Headers, 7)
	assert.Equal(t, "All orders", wide.Rows[1][5])
	assert.Equal(t, "-", wide.Rows[1][6])
}

func TestPageFooter(t *testing.T) {
	assert.Equal(t, "No results", PageFooter(pagination.Info{}))
	assert.Equal(t, "Page 1 of 1 (1 result)", PageFooter(pagination.Info{Page: 1, TotalPages: 1, TotalItems: 1}))
	assert.Equal(t, "Page 2 of 3 (23 results)", PageFooter(pagination.Info{Page: 2, TotalPages: 3, TotalItems: 23}))
}

func TestDetailsToTableData(t *testing.T) {
	d := atlas.Details{
		Item:   pipeline.Item{ID: "R001", Kind: catalogs.KindReport, Title: "Churn"},
		Status: "Published",
	}
	td := DetailsToTableData(d, plain)
	require.Len(t, td.Rows, 8)
	assert.Equal(t, []string{"Kind", "Report"}, td.Rows[1])
	assert.Equal(t, []string{"Description", "-"}, td.Rows[3])
	assert.Equal(t, []string{"Favorite", "false"}, td.Rows[7])
}

func TestHistoryToTableData(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	td := HistoryToTableData([]history.Entry{
		{Query: "sales", Timestamp: ts.UnixMilli()},
		{Query: "churn", Timestamp: ts.Add(-time.Hour).UnixMilli()},
	})
	require.Len(t, td.Rows, 2)
	assert.Equal(t, "0", td.Rows[0][0])
	assert.Equal(t, "sales", td.Rows[0][1])
	assert.Equal(t, "1", td.Rows[1][0])
}

func TestSuggestionsToTableData(t *testing.T) {
	td := SuggestionsToTableData([]pipeline.Suggestion{
		{Type: pipeline.SuggestionHistory, Value: "sales"},
		{Type: pipeline.SuggestionResult, Value: "Sales Performance Hub", ID: "P001"},
	}, plain)
	assert.Equal(t, []string{emoji.History, "History", "sales", "-"}, td.Rows[0])
	assert.Equal(t, []string{emoji.Result, "Result", "Sales Performance Hub", "P001"}, td.Rows[1])
}

func TestSummaryToTableData(t *testing.T) {
	sum := pipeline.Summary{
		Total:  3,
		Counts: map[catalogs.Kind]int{catalogs.KindProduct: 1, catalogs.KindReport: 1, catalogs.KindDataSet: 1},
		DataSet: &pipeline.DataSetSummary{
			ID: "D001", Title: "Orders", Description: pipeline.NoDescription, Link: "/datasets/D001",
		},
		Loading: true,
	}
	td := SummaryToTableData(sum, plain)
	assert.Equal(t, []string{"Total", "3"}, td.Rows[0])
	assert.Equal(t, []string{"Product", "1"}, td.Rows[1])
	assert.Equal(t, []string{"DataSet", "1"}, td.Rows[3])
	assert.Equal(t, []string{"Chart", emoji.Spinner}, td.Rows[4])
	assert.Equal(t, []string{"Dataset Link", "/datasets/D001"}, td.Rows[len(td.Rows)-1])
}
