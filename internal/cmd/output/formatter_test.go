package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/errors"
)

type sample struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Internal string `json:"-"`
	Count    int
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", " yaml ", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
	// go test never runs with a terminal on stdout
	assert.Equal(t, FormatJSON, DetectFormat(""))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, sample{ID: "P001", Title: "Hub"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "P001", got["id"])
	assert.NotContains(t, got, "Internal")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, map[string]any{"id": "P001", "ids": []string{"a", "b"}}))
	assert.Contains(t, buf.String(), "id: P001")
	assert.Contains(t, buf.String(), "- a")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{
		Headers:         []string{"ID", "Title"},
		Rows:            [][]string{{"P001", "Sales Performance Hub"}},
		ColumnAlignment: []table.Align{table.AlignRight},
		Footer:          "Page 1 of 1 (1 result)",
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "P001")
	assert.Contains(t, out, "Sales Performance Hub")
	assert.Contains(t, out, "Page 1 of 1 (1 result)")
}

func TestTableFormatterReflection(t *testing.T) {
	var buf bytes.Buffer
	rows := []sample{{ID: "P001", Title: "Hub", Internal: "secret", Count: 2}}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, rows))

	out := buf.String()
	assert.Contains(t, out, "P001")
	assert.Contains(t, out, "Hub")
	assert.NotContains(t, out, "secret")
}

func TestReflectTable(t *testing.T) {
	td, ok := reflectTable(sample{ID: "R010", Title: "Churn", Count: 3})
	require.True(t, ok)
	assert.Equal(t, []string{"Property", "Value"}, td.Headers)
	assert.Equal(t, [][]string{{"Id", "R010"}, {"Title", "Churn"}, {"Count", "3"}}, td.Rows)

	td, ok = reflectTable([]*sample{{ID: "a"}, {ID: "b"}})
	require.True(t, ok)
	assert.Equal(t, []string{"Id", "Title", "Count"}, td.Headers)
	assert.Len(t, td.Rows, 2)

	_, ok = reflectTable(42)
	assert.False(t, ok)
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"total": 23}))
	assert.JSONEq(t, `{"total": 23}`, buf.String())
}

func TestWrite(t *testing.T) {
	value := sample{ID: "P001"}
	var wideSeen bool
	toTable := func(wide bool) table.Data {
		wideSeen = wide
		return table.Data{Headers: []string{"ID"}, Rows: [][]string{{"from-table"}}}
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatWide, value, toTable))
	assert.True(t, wideSeen)
	assert.Contains(t, buf.String(), "from-table")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, value, toTable))
	assert.Contains(t, buf.String(), `"id": "P001"`)
	assert.NotContains(t, buf.String(), "from-table")
}
