package atlas_test

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/filter"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pipeline"
	"github.com/agentstation/atlas/pkg/storage"
	"github.com/agentstation/atlas/pkg/storage/memory"
)

const catalogYAML = `records:
  - id: P1
    kind: Product
    title: Sales Performance Hub
    owner: Revenue Operations
    publishedStatus: Published
  - id: R1
    kind: Report
    title: Weekly Sales Summary
    publishedStatus: Published
`

func newClient(t *testing.T, opts ...atlas.Option) atlas.Client {
	t.Helper()
	base := []atlas.Option{atlas.WithLogger(logging.NewNopLogger()), atlas.WithChartDelay(0)}
	c, err := atlas.New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewEmbeddedCatalog(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, atlas.EmbeddedSource, c.Source())
	assert.Equal(t, 26, c.Catalog().Len())
	assert.Len(t, c.Catalog().Published(), 23)
	assert.Equal(t, 10, c.PageSize())

	res := c.Search(context.Background(), atlas.Query{Page: 3})
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Len(t, res.Items, 3)
	assert.False(t, res.Loading)
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := atlas.New(context.Background(), atlas.WithPageSize(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = atlas.New(context.Background(), atlas.WithCatalogFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)
}

func TestSearchMisspelling(t *testing.T) {
	c := newClient(t)
	res := c.Search(context.Background(), atlas.Query{Text: "Salez"})
	require.NotEmpty(t, res.Items)
	assert.True(t, res.Searching)
	for _, it := range res.Filtered {
		assert.NotEqual(t, "R009", it.ID, "unpublished records never match")
	}

	res = c.Search(context.Background(), atlas.Query{Text: "z9!!"})
	assert.True(t, res.Empty())

	res = c.Search(context.Background(), atlas.Query{Text: "sales", Tab: filter.TabDataSet})
	for _, it := range res.Filtered {
		assert.Equal(t, catalogs.KindDataSet, it.Kind)
	}
}

func TestRecord(t *testing.T) {
	c := newClient(t)

	d, err := c.Record("P001")
	require.NoError(t, err)
	assert.Equal(t, "Sales Performance Hub", d.Title)
	assert.Equal(t, catalogs.StatusPublished, d.Status)
	assert.Equal(t, "Revenue Operations", d.Owner)

	_, err = c.Record("R009")
	assert.True(t, errors.IsNotFound(err), "drafts are not shown")

	_, err = c.Record("P01")
	var nf *errors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.NotEmpty(t, nf.Suggestions)
}

func TestFavoritesSurviveReload(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	c := newClient(t, atlas.WithStore(store))
	var toggled []string
	c.OnFavoriteToggled(func(id string, fav bool) {
		if fav {
			toggled = append(toggled, id)
		}
	})

	on, err := c.ToggleFavorite(ctx, "X1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"X1"}, toggled)

	again := newClient(t, atlas.WithStore(store))
	assert.True(t, again.IsFavorite("X1"))
	assert.False(t, again.IsFavorite("P001"))
}

func TestFavoritesPageAndRecent(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, atlas.WithFavoritesPageSize(2))

	for _, id := range []string{"R001", "P001", "D001", "R009"} {
		_, err := c.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	page := c.FavoritesPage(1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []string{"P001", "R001"}, ids(page.Items), "catalog order")

	last := c.FavoritesPage(9)
	assert.Equal(t, 2, last.Page)

	recent := c.RecentFavorites(2)
	assert.Equal(t, []string{"D001", "P001"}, ids(recent), "drafts are skipped, newest first")

	assert.Equal(t, []string{"D001", "P001", "R001"}, ids(c.Shortcuts(atlas.ShortcutFavorites)))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	c := newClient(t, atlas.WithHistoryClock(func() time.Time { return now }))

	var changes [][]history.Entry
	c.OnHistoryChanged(func(entries []history.Entry) { changes = append(changes, entries) })

	_, err := c.AddHistory(ctx, "churn")
	require.NoError(t, err)
	e, err := c.AddHistory(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), e.Timestamp)

	require.Len(t, c.History(), 2)
	assert.Equal(t, "sales", c.History()[0].Query)

	removed, err := c.RemoveHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "churn", removed.Query)

	_, err = c.RemoveHistory(ctx, 5)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, c.ClearHistory(ctx))
	assert.Empty(t, c.History())
	assert.Len(t, changes, 4)
}

func TestSuggest(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	_, err := c.AddHistory(ctx, "sales pipeline")
	require.NoError(t, err)

	got := c.Suggest("sales")
	require.NotEmpty(t, got)
	assert.Equal(t, pipeline.SuggestionHistory, got[0].Type)
	assert.Equal(t, pipeline.SuggestionResult, got[len(got)-1].Type)

	// Owner is only searched from the search box.
	boxHits := c.Suggest("revenue operations")
	assert.NotEmpty(t, boxHits)
}

func TestPromptsAndShortcutsUseRand(t *testing.T) {
	a := newClient(t, atlas.WithRand(rand.New(rand.NewPCG(7, 7))))
	b := newClient(t, atlas.WithRand(rand.New(rand.NewPCG(7, 7))))

	pa, pb := a.PromptSuggestions(0), b.PromptSuggestions(0)
	assert.Len(t, pa, 10)
	assert.Equal(t, pa, pb)

	assert.Len(t, a.PromptSuggestions(3), 3)
	assert.Len(t, a.Shortcuts(atlas.ShortcutRecommended), 7)
}

func TestParseShortcutKind(t *testing.T) {
	k, err := atlas.ParseShortcutKind("")
	require.NoError(t, err)
	assert.Equal(t, atlas.ShortcutRecommended, k)

	k, err = atlas.ParseShortcutKind("Favorites")
	require.NoError(t, err)
	assert.Equal(t, atlas.ShortcutFavorites, k)

	_, err = atlas.ParseShortcutKind("popular")
	assert.True(t, errors.IsValidationError(err))
}

func TestSummary(t *testing.T) {
	c := newClient(t)
	sum := c.Summary(context.Background(), "sales")
	res := c.Search(context.Background(), atlas.Query{Text: "sales"})
	assert.Equal(t, len(res.Matches), sum.Total)
	require.NotNil(t, sum.DataSet)
	assert.Equal(t, "/datasets/"+sum.DataSet.ID, sum.DataSet.Link)
}

func TestSessionHooks(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	var events []pipeline.ResultsChanged
	var toggles int
	c.OnResultsChanged(func(ev pipeline.ResultsChanged) { events = append(events, ev) })
	c.OnFavoriteToggled(func(string, bool) { toggles++ })

	s := c.NewSession(pipeline.WithSessionID("s1"))
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Len(t, events[0].Items, 23)
	assert.False(t, s.ChartLoading())

	s.SetQuery("sales")
	value, res, err := s.ToggleFavorite(ctx, s.Result().Items[0].ID)
	require.NoError(t, err)
	assert.True(t, value)
	assert.True(t, res.Items[0].Favorite)
	assert.Equal(t, 1, toggles)
	assert.Len(t, events, 3)
	assert.True(t, c.IsFavorite(res.Items[0].ID))
}

func TestSessionChartDelay(t *testing.T) {
	c, err := atlas.New(context.Background(), atlas.WithLogger(logging.NewNopLogger()), atlas.WithChartDelay(time.Hour))
	require.NoError(t, err)
	defer c.Close()

	s := c.NewSession()
	assert.True(t, s.ChartLoading())
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	path := writeCatalog(t, catalogYAML)
	c := newClient(t, atlas.WithCatalogFile(path))
	assert.Equal(t, path, c.Source())
	require.Len(t, c.Catalog().Published(), 2)

	var reloaded *catalogs.Catalog
	c.OnCatalogReloaded(func(cat *catalogs.Catalog) { reloaded = cat })

	s := c.NewSession(pipeline.WithInitialQuery("zebra"))
	assert.True(t, s.Result().Empty())

	require.NoError(t, os.WriteFile(path, []byte(catalogYAML+`  - id: D1
    kind: DataSet
    title: Zebra Crossings
    publishedStatus: Published
`), 0o600))
	require.NoError(t, c.Reload(ctx))
	require.NotNil(t, reloaded)
	assert.Equal(t, 3, reloaded.Len())

	res := s.Refresh(pipeline.ReasonReload)
	assert.Equal(t, []string{"D1"}, ids(res.Items))

	require.NoError(t, os.WriteFile(path, []byte("records: [{id: P1}, {id: P1}]"), 0o600))
	assert.Error(t, c.Reload(ctx))
	assert.Equal(t, 3, c.Catalog().Len(), "failed reload keeps the current catalog")
}

func TestReloadWithoutFile(t *testing.T) {
	c := newClient(t)
	err := c.Reload(context.Background())
	assert.ErrorIs(t, err, errors.ErrReadOnly)
}

func TestBackgroundIndex(t *testing.T) {
	c := newClient(t, atlas.WithBackgroundIndex())
	require.Eventually(t, func() bool { return c.Index().Ready() }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, c.Search(context.Background(), atlas.Query{Text: "sales"}).Loading)
}

func TestBackgroundIndexRefreshesSessions(t *testing.T) {
	c := newClient(t, atlas.WithBackgroundIndex())

	s := c.NewSession()
	s.SetQuery("sales")

	require.Eventually(t, func() bool { return c.Index().Ready() }, 5*time.Second, 10*time.Millisecond)
	res := s.Result()
	assert.False(t, res.Loading)
	assert.True(t, res.Searching)
	assert.Contains(t, ids(res.Filtered), "P001")
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := newClient(t, atlas.WithStorage(storage.BackendSQLite, dir))
	_, err := c.ToggleFavorite(ctx, "P001")
	require.NoError(t, err)
	_, err = c.AddHistory(ctx, "sales")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	again := newClient(t, atlas.WithStorage(storage.BackendSQLite, dir))
	assert.True(t, again.IsFavorite("P001"))
	require.Len(t, again.History(), 1)
}

func ids(items []pipeline.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
