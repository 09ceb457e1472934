package pipeline

import (
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/search"
)

// SuggestionType distinguishes history entries from live matches.
type SuggestionType string

// Suggestion types.
const (
	SuggestionHistory SuggestionType = "history"
	SuggestionResult  SuggestionType = "result"
)

// Suggestion is one row of the search box dropdown.
type Suggestion struct {
	Type  SuggestionType `json:"type" yaml:"type"`
	Value string         `json:"value" yaml:"value"`
	// ID is set for result suggestions.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// HistoryIndex is the position in the full history list, for removal.
	// It is -1 for result suggestions.
	HistoryIndex int `json:"historyIndex" yaml:"historyIndex"`
}

// HistoryFilter is the part of the history store suggestions need.
type HistoryFilter interface {
	List() []history.Entry
}

// Suggest builds the search box dropdown for text: history entries
// containing text first (all history when text is empty), then the titles
// of matching records from index, best first. A nil or not-ready index
// contributes no results.
func Suggest(text string, hist HistoryFilter, index *search.Index) []Suggestion {
	var out []Suggestion
	if hist != nil {
		for i, e := range hist.List() {
			if containsFold(e.Query, text) {
				out = append(out, Suggestion{Type: SuggestionHistory, Value: e.Query, HistoryIndex: i})
			}
		}
	}
	if text == "" || !index.Ready() {
		return out
	}
	for _, r := range index.Search(text) {
		out = append(out, Suggestion{Type: SuggestionResult, Value: r.Record.Title, ID: r.Record.ID, HistoryIndex: -1})
	}
	return out
}
