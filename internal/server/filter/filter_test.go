package filter

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/pkg/errors"
	tabs "github.com/agentstation/atlas/pkg/filter"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want atlas.Query
	}{
		{"defaults", "/records", atlas.Query{Page: 1}},
		{"all params", "/records?q=+sales+&tab=reports&page=3&page_size=25",
			atlas.Query{Text: "sales", Tab: tabs.TabReport, Page: 3, PageSize: 25}},
		{"numeric tab", "/records?tab=4", atlas.Query{Tab: tabs.TabDataSet, Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(httptest.NewRequest("GET", tt.url, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQueryInvalid(t *testing.T) {
	for _, url := range []string{
		"/records?tab=widgets",
		"/records?page=zero",
		"/records?page=0",
		"/records?page_size=0",
		"/records?page_size=101",
	} {
		t.Run(url, func(t *testing.T) {
			_, err := ParseQuery(httptest.NewRequest("GET", url, nil))
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit(httptest.NewRequest("GET", "/x", nil), "limit", 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = ParseLimit(httptest.NewRequest("GET", "/x?limit=3", nil), "limit", 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseLimit(httptest.NewRequest("GET", "/x?limit=11", nil), "limit", 7, 10)
	assert.Error(t, err)
}

func TestParsePage(t *testing.T) {
	n, err := ParsePage(httptest.NewRequest("GET", "/x?page=999", nil))
	require.NoError(t, err)
	assert.Equal(t, 999, n)
}
