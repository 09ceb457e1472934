package search

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const epsilon = 1e-9

// matcher scores a lowercased pattern against lowercased field text.
//
// Bitap (diff-match-patch MatchMain) locates the best candidate position.
// Windows around that position and around the start of the field are then
// diffed against the pattern; the Levenshtein distance of the diff is the
// error count of that alignment. An adjacent transposition is one error.
type matcher struct {
	dmp       *diffmatchpatch.DiffMatchPatch
	pattern   string
	runes     []rune
	maxErrors int
	opts      Options
}

func newMatcher(pattern string, opts Options) *matcher {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	dmp.MatchDistance = opts.Distance
	// Bitap charges a transposition two errors
	dmp.MatchThreshold = min(1, 2*opts.Threshold)

	runes := []rune(pattern)
	return &matcher{
		dmp:       dmp,
		pattern:   pattern,
		runes:     runes,
		maxErrors: int(math.Floor(opts.Threshold*float64(len(runes)) + epsilon)),
		opts:      opts,
	}
}

// score returns the best score of the pattern within text and whether an
// acceptable alignment exists. Lower is better.
func (mt *matcher) score(text string) (float64, bool) {
	m := len(mt.runes)
	if m == 0 || text == "" || m < mt.opts.MinMatchCharLength {
		return 0, false
	}
	loc := mt.locate(text)
	if loc < 0 {
		return 0, false
	}

	field := []rune(text)
	n := len(field)
	k := mt.maxErrors
	center := utf8.RuneCountInString(text[:loc])

	best, found := 0.0, false
	for _, s := range starts(center, k, n) {
		for l := max(1, m-k); l <= m+k && s+l <= n; l++ {
			errs, run := mt.align(field[s : s+l])
			if errs > k || run < mt.opts.MinMatchCharLength {
				continue
			}
			sc := float64(errs)/float64(m) + float64(s)/float64(mt.opts.Distance)
			if sc > mt.opts.Threshold+epsilon {
				continue
			}
			if !found || sc < best {
				best, found = sc, true
			}
		}
	}
	return best, found
}

// locate returns the byte offset of the best Bitap match or -1.
func (mt *matcher) locate(text string) int {
	if len(mt.pattern) > mt.dmp.MatchMaxBits {
		// Bitap cannot represent longer patterns; they match exactly
		return strings.Index(text, mt.pattern)
	}
	return mt.dmp.MatchMain(text, mt.pattern, 0)
}

// align returns the errors and the longest matched run of the pattern
// against window.
func (mt *matcher) align(window []rune) (errs, run int) {
	if adjacentSwap(mt.runes, window) {
		return 1, len(window)
	}
	diffs := mt.dmp.DiffMainRunes(mt.runes, window, false)
	return mt.dmp.DiffLevenshtein(diffs), longestEqual(diffs)
}

// starts lists the window starts to try: the Bitap location and the start
// of the field, each widened by k.
func starts(center, k, n int) []int {
	seen := make(map[int]bool)
	var out []int
	add := func(from, to int) {
		for s := max(0, from); s <= to && s < n; s++ {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	add(0, k)
	add(center-k, center+k)
	return out
}

// adjacentSwap reports whether b is a with exactly one pair of adjacent
// characters exchanged.
func adjacentSwap(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	i := 0
	for i < len(a) && a[i] == b[i] {
		i++
	}
	if i+1 >= len(a) || a[i] == a[i+1] || a[i] != b[i+1] || a[i+1] != b[i] {
		return false
	}
	for j := i + 2; j < len(a); j++ {
		if a[j] != b[j] {
			return false
		}
	}
	return true
}

func longestEqual(diffs []diffmatchpatch.Diff) int {
	longest := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			longest = max(longest, utf8.RuneCountInString(d.Text))
		}
	}
	return longest
}
