// Package filter parses API query parameters into library requests.
package filter

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	tabs "github.com/agentstation/atlas/pkg/filter"
)

// ParseQuery reads q, tab, page and page_size. Missing values take their
// defaults; malformed ones are validation errors. Pages past the end are
// left for the pipeline to clamp.
func ParseQuery(r *http.Request) (atlas.Query, error) {
	q := r.URL.Query()

	tab, err := tabs.ParseTab(q.Get("tab"))
	if err != nil {
		return atlas.Query{}, err
	}
	page, err := parseInt(q.Get("page"), "page", 1, 1, 0)
	if err != nil {
		return atlas.Query{}, err
	}
	size, err := parseInt(q.Get("page_size"), "page_size", 0, 1, constants.MaxPageSize)
	if err != nil {
		return atlas.Query{}, err
	}

	return atlas.Query{
		Text:     strings.TrimSpace(q.Get("q")),
		Tab:      tab,
		Page:     page,
		PageSize: size,
	}, nil
}

// ParsePage reads the page parameter, defaulting to 1.
func ParsePage(r *http.Request) (int, error) {
	return parseInt(r.URL.Query().Get("page"), "page", 1, 1, 0)
}

// ParseLimit reads an integer parameter in [1, max], returning def when absent.
func ParseLimit(r *http.Request, name string, def, max int) (int, error) {
	return parseInt(r.URL.Query().Get(name), name, def, 1, max)
}

// parseInt parses s within [min, max]; max <= 0 means unbounded.
func parseInt(s, name string, def, min, max int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError(name, s, "must be an integer")
	}
	if n < min || (max > 0 && n > max) {
		msg := "must be at least " + strconv.Itoa(min)
		if max > 0 {
			msg = "must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)
		}
		return 0, errors.NewValidationError(name, n, msg)
	}
	return n, nil
}
