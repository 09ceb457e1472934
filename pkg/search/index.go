// Package search provides typo-tolerant ranked search over the published
// catalog. An Index is built once from the published records and answers
// queries with results ordered by similarity, most similar first.
//
// Scoring follows the Bitap model of diff-match-patch: for each searched key
// the pattern is located in the field, then aligned allowing substitutions,
// insertions, deletions and adjacent transpositions. A key scores
//
//	errors/len(pattern) + matchStart/Distance
//
// and a record scores its best key. Records scoring above the threshold, or
// whose best alignment has no run of MinMatchCharLength consecutive matched
// characters, are excluded. Matching is case-insensitive.
//
// A query tolerates floor(Threshold*len) errors, so with the default
// threshold of 0.3 queries shorter than four characters must match exactly.
package search

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agentstation/atlas/pkg/catalogs"
)

// Result is a ranked search hit.
type Result struct {
	Record catalogs.Record `json:"record"`
	Score  float64         `json:"score"`
	Key    string          `json:"key"`
	// RefIndex is the record's position in the indexed list.
	RefIndex int `json:"refIndex"`
}

type entry struct {
	record catalogs.Record
	fields []string
}

// Index is a search index over published records. It is safe for concurrent use.
type Index struct {
	opts    Options
	mu      sync.RWMutex
	entries []entry
	ready   atomic.Bool
}

// New builds a ready index from records. Unpublished records are skipped.
func New(records []catalogs.Record, opts ...Option) *Index {
	ix := NewPending(opts...)
	ix.Rebuild(records)
	return ix
}

// NewPending returns an index that reports not ready until Rebuild is called.
func NewPending(opts ...Option) *Index {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Index{opts: o}
}

// Options returns the index configuration.
func (ix *Index) Options() Options {
	o := ix.opts
	o.Keys = append([]string(nil), o.Keys...)
	return o
}

// Rebuild replaces the indexed records and marks the index ready.
func (ix *Index) Rebuild(records []catalogs.Record) {
	entries := make([]entry, 0, len(records))
	for _, r := range records {
		if !r.IsPublished() {
			continue
		}
		e := entry{record: r, fields: make([]string, len(ix.opts.Keys))}
		for k, key := range ix.opts.Keys {
			e.fields[k] = strings.ToLower(r.Field(key))
		}
		entries = append(entries, e)
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
	ix.ready.Store(true)
}

// Ready reports whether the index has been built.
func (ix *Index) Ready() bool {
	return ix != nil && ix.ready.Load()
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Records returns the indexed records in catalog order.
func (ix *Index) Records() []catalogs.Record {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]catalogs.Record, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.record
	}
	return out
}

// Search returns matches for query, best first. Ties keep catalog order.
// An empty or blank query returns no results; callers show the unfiltered
// published list instead.
func (ix *Index) Search(query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || !ix.Ready() {
		return nil
	}
	mt := newMatcher(q, ix.opts)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var results []Result
	for i, e := range ix.entries {
		best, bestKey, found := 0.0, "", false
		for k, field := range e.fields {
			s, ok := mt.score(field)
			if ok && (!found || s < best) {
				best, bestKey, found = s, ix.opts.Keys[k], true
			}
		}
		if found {
			results = append(results, Result{Record: e.record, Score: best, Key: bestKey, RefIndex: i})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	return results
}

// RecordsOf extracts the records from results, preserving order.
func RecordsOf(results []Result) []catalogs.Record {
	out := make([]catalogs.Record, len(results))
	for i, r := range results {
		out[i] = r.Record
	}
	return out
}
