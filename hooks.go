package atlas

import (
	"sync"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// Hook function types for client events
type (
	// ResultsChangedHook is called whenever a session recomputes its result list
	ResultsChangedHook func(ev pipeline.ResultsChanged)

	// FavoriteToggledHook is called after a favorite flag is persisted
	FavoriteToggledHook func(id string, favorite bool)

	// HistoryChangedHook is called with the full history after every change
	HistoryChangedHook func(entries []history.Entry)

	// CatalogReloadedHook is called after the catalog is reloaded and reindexed
	CatalogReloadedHook func(catalog *catalogs.Catalog)

	// IndexReadyHook is called when a background index build completes
	IndexReadyHook func()
)

// Hooks registers callbacks for client events.
type Hooks interface {
	OnResultsChanged(fn ResultsChangedHook)
	OnFavoriteToggled(fn FavoriteToggledHook)
	OnHistoryChanged(fn HistoryChangedHook)
	OnCatalogReloaded(fn CatalogReloadedHook)
	OnIndexReady(fn IndexReadyHook)
}

// hooks manages event callbacks
type hooks struct {
	mu                sync.RWMutex
	onResultsChanged  []ResultsChangedHook
	onFavoriteToggled []FavoriteToggledHook
	onHistoryChanged  []HistoryChangedHook
	onCatalogReloaded []CatalogReloadedHook
	onIndexReady      []IndexReadyHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnResultsChanged registers a callback for session result changes
func (h *hooks) OnResultsChanged(fn ResultsChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResultsChanged = append(h.onResultsChanged, fn)
}

// OnFavoriteToggled registers a callback for favorite toggles
func (h *hooks) OnFavoriteToggled(fn FavoriteToggledHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFavoriteToggled = append(h.onFavoriteToggled, fn)
}

// OnHistoryChanged registers a callback for history changes
func (h *hooks) OnHistoryChanged(fn HistoryChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onHistoryChanged = append(h.onHistoryChanged, fn)
}

// OnCatalogReloaded registers a callback for catalog reloads
func (h *hooks) OnCatalogReloaded(fn CatalogReloadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogReloaded = append(h.onCatalogReloaded, fn)
}

// OnIndexReady registers a callback for background index completion
func (h *hooks) OnIndexReady(fn IndexReadyHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onIndexReady = append(h.onIndexReady, fn)
}

func (h *hooks) resultsChanged(ev pipeline.ResultsChanged) {
	h.mu.RLock()
	fns := append([]ResultsChangedHook(nil), h.onResultsChanged...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (h *hooks) favoriteToggled(id string, favorite bool) {
	h.mu.RLock()
	fns := append([]FavoriteToggledHook(nil), h.onFavoriteToggled...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(id, favorite)
	}
}

func (h *hooks) historyChanged(entries []history.Entry) {
	h.mu.RLock()
	fns := append([]HistoryChangedHook(nil), h.onHistoryChanged...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(entries)
	}
}

func (h *hooks) catalogReloaded(c *catalogs.Catalog) {
	h.mu.RLock()
	fns := append([]CatalogReloadedHook(nil), h.onCatalogReloaded...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}

func (h *hooks) indexReady() {
	h.mu.RLock()
	fns := append([]IndexReadyHook(nil), h.onIndexReady...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
