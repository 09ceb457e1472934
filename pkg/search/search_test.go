package search_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas/internal/embedded"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/search"
)

func published(id string, kind catalogs.Kind, title, description string) catalogs.Record {
	return catalogs.Record{ID: id, Kind: kind, Title: title, Description: description, Status: catalogs.StatusPublished}
}

func sampleCatalog(t *testing.T) *catalogs.Catalog {
	t.Helper()
	cat, err := catalogs.Parse(embedded.Catalog(), catalogs.FormatJSON)
	require.NoError(t, err)
	return cat
}

func ids(results []search.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Record.ID
	}
	return out
}

func TestSearchTypoTolerance(t *testing.T) {
	ix := search.New([]catalogs.Record{
		published("A", catalogs.KindProduct, "Sales", ""),
		published("B", catalogs.KindReport, "Inventory", ""),
	})

	results := ix.Search("Salez")
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Record.ID)
	assert.InDelta(t, 0.2, results[0].Score, 1e-9)
	assert.Equal(t, "title", results[0].Key)

	assert.Empty(t, ix.Search("z9!!"))
}

func TestSearchMisspelledReportTitle(t *testing.T) {
	ix := search.New([]catalogs.Record{
		published("R1", catalogs.KindReport, "Sales Report 2024", ""),
	})

	results := ix.Search("Salez")
	require.Len(t, results, 1)
	assert.Equal(t, "R1", results[0].Record.ID)
	assert.InDelta(t, 0.2, results[0].Score, 1e-9)

	assert.Empty(t, ix.Search("z9!!"))
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())
	assert.Empty(t, ix.Search(""))
	assert.Empty(t, ix.Search("   "))
}

func TestSearchExcludesUnpublished(t *testing.T) {
	cat := sampleCatalog(t)
	ix := search.New(cat.All())
	assert.Equal(t, len(cat.Published()), ix.Len())

	for _, q := range []string{"forecast", "legacy orders", "energy", "sales", "data"} {
		for _, r := range ix.Search(q) {
			assert.True(t, r.Record.IsPublished(), "query %q returned unpublished %s", q, r.Record.ID)
		}
	}
	assert.NotContains(t, ids(ix.Search("Regional Sales Forecast")), "R009")
}

func TestSearchRanking(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())

	results := ix.Search("sales")
	require.GreaterOrEqual(t, len(results), 3)
	got := ids(results)
	assert.Equal(t, []string{"P001", "D001"}, got[:2], "exact prefix matches first, catalog order on ties")
	assert.Contains(t, got, "R001")

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())
	assert.Equal(t, ids(ix.Search("customer master")), ids(ix.Search("CUSTOMER MASTER")))
	assert.Contains(t, ids(ix.Search("CUSTOMER MASTER")), "D002")
}

func TestSearchKindKey(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())
	got := ids(ix.Search("dataset"))
	for _, id := range []string{"D001", "D002", "D003", "D004", "D005", "D006", "D007", "D008"} {
		assert.Contains(t, got, id)
	}
}

func TestSearchOwnerKey(t *testing.T) {
	records := []catalogs.Record{
		{ID: "A", Kind: catalogs.KindReport, Title: "Churn", Owner: "Customer Insights", Status: catalogs.StatusPublished},
	}
	assert.Empty(t, search.New(records).Search("insights"))
	assert.Equal(t, []string{"A"}, ids(search.New(records, search.WithOwnerKey()).Search("insights")))
}

func TestSearchLocationPenalty(t *testing.T) {
	// an exact match starting beyond Threshold*Distance characters scores above the threshold
	far := strings.Repeat("x", 40) + "pipeline"
	ix := search.New([]catalogs.Record{published("A", catalogs.KindProduct, far, "")})
	assert.Empty(t, ix.Search("pipeline"))

	ix = search.New([]catalogs.Record{published("A", catalogs.KindProduct, far, "")}, search.WithDistance(1000))
	assert.Len(t, ix.Search("pipeline"), 1)
}

func TestSearchMinMatchCharLength(t *testing.T) {
	ix := search.New([]catalogs.Record{published("A", catalogs.KindProduct, "a b c", "")})
	assert.Empty(t, ix.Search("a"), "single characters never satisfy the minimum run")

	ix = search.New([]catalogs.Record{published("A", catalogs.KindProduct, "abc", "")}, search.WithMinMatchCharLength(1))
	assert.Len(t, ix.Search("a"), 1)
}

func TestSearchThreshold(t *testing.T) {
	records := []catalogs.Record{published("A", catalogs.KindProduct, "sales", "")}
	assert.Empty(t, search.New(records, search.WithThreshold(0)).Search("salez"))
	assert.Len(t, search.New(records, search.WithThreshold(0)).Search("sales"), 1)
	assert.Len(t, search.New(records, search.WithThreshold(1)).Search("saxxx"), 1)
}

// One adjacent transposition costs one error. A query of n characters
// tolerates floor(0.3*n) errors, so the property holds from four characters
// on; shorter queries must match exactly.
func TestSearchTranspositionProperty(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())

	for _, r := range ix.Records() {
		title := []rune(strings.ToLower(r.Title))
		for n := 4; n <= min(len(title), 12); n++ {
			prefix := title[:n]
			for i := 0; i+1 < len(prefix); i++ {
				if prefix[i] == prefix[i+1] {
					continue
				}
				q := append([]rune(nil), prefix...)
				q[i], q[i+1] = q[i+1], q[i]
				query := string(q)
				if strings.TrimSpace(query) != query {
					continue
				}
				t.Run(fmt.Sprintf("%s/%s", r.ID, query), func(t *testing.T) {
					assert.Contains(t, ids(ix.Search(query)), r.ID)
				})
			}
		}
	}
}

func TestSearchShortQueriesMatchExactly(t *testing.T) {
	ix := search.New([]catalogs.Record{
		published("R1", catalogs.KindReport, "Sales Report 2024", ""),
	})

	assert.Equal(t, []string{"R1"}, ids(ix.Search("sal")))
	assert.Empty(t, ix.Search("asl"), "three characters leave no room for an error")
	assert.Equal(t, []string{"R1"}, ids(ix.Search("slaes")))
}

func TestPendingIndex(t *testing.T) {
	ix := search.NewPending()
	assert.False(t, ix.Ready())
	assert.Empty(t, ix.Search("sales"))

	ix.Rebuild([]catalogs.Record{published("A", catalogs.KindProduct, "Sales", "")})
	assert.True(t, ix.Ready())
	assert.Len(t, ix.Search("sales"), 1)

	var nilIndex *search.Index
	assert.False(t, nilIndex.Ready())
}

func TestOptions(t *testing.T) {
	o := search.New(nil, search.WithThreshold(2), search.WithDistance(-1), search.WithMinMatchCharLength(0)).Options()
	assert.Equal(t, 1.0, o.Threshold)
	assert.Equal(t, 100, o.Distance)
	assert.Equal(t, 2, o.MinMatchCharLength)
	assert.Equal(t, search.DefaultKeys, o.Keys)
}

func TestRecordsOf(t *testing.T) {
	ix := search.New(sampleCatalog(t).Published())
	results := ix.Search("churn")
	records := search.RecordsOf(results)
	require.Len(t, records, len(results))
	assert.Equal(t, results[0].Record.ID, records[0].ID)
}
