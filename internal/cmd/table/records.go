package table

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/internal/cmd/emoji"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/pagination"
	"github.com/agentstation/atlas/pkg/pipeline"
)

const descriptionWidth = 60

var title = cases.Title(language.English)

// ItemsToTableData renders result cards. Wide adds description and
// publication date.
func ItemsToTableData(items []pipeline.Item, wide bool, p Palette) Data {
	headers := []string{"", "ID", "Kind", "Title", "Owner"}
	if wide {
		headers = append(headers, "Description", "Last Published")
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		star := emoji.Star(it.Favorite)
		if it.Favorite {
			star = p.Star(star)
		}
		owner := "-"
		if it.RelatedOwner != nil {
			owner = it.RelatedOwner.Name
		}
		row := []string{star, it.ID, p.Kind(it.Kind), it.Title, owner}
		if wide {
			row = append(row, Truncate(it.Description, descriptionWidth), orDash(it.LastPublished))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter},
	}
}

// PageFooter describes a pagination position, e.g. "Page 1 of 3 (23 results)".
func PageFooter(info pagination.Info) string {
	if info.TotalItems == 0 {
		return "No results"
	}
	noun := "results"
	if info.TotalItems == 1 {
		noun = "result"
	}
	return fmt.Sprintf("Page %d of %d (%d %s)", info.Page, info.TotalPages, info.TotalItems, noun)
}

// DetailsToTableData renders the record drawer as property/value rows.
func DetailsToTableData(d atlas.Details, p Palette) Data {
	owner := "-"
	if d.RelatedOwner != nil {
		owner = d.RelatedOwner.Name
	}
	rows := [][]string{
		{"ID", d.ID},
		{"Kind", p.Kind(d.Kind)},
		{"Title", d.Title},
		{"Description", orDash(d.Description)},
		{"Owner", owner},
		{"Status", orDash(d.Status)},
		{"Last Published", orDash(d.LastPublished)},
		{"Favorite", strconv.FormatBool(d.Favorite)},
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// HistoryToTableData renders saved searches, newest first, with the index
// used by `atlas history remove`.
func HistoryToTableData(entries []history.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i),
			e.Query,
			e.Time().Local().Format(constants.TimeFormatHuman),
		})
	}
	return Data{
		Headers:         []string{"#", "Query", "Saved"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight},
	}
}

// SuggestionsToTableData renders search box suggestions in display order.
func SuggestionsToTableData(suggestions []pipeline.Suggestion, p Palette) Data {
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		symbol := emoji.Result
		if s.Type == pipeline.SuggestionHistory {
			symbol = emoji.History
		}
		rows = append(rows, []string{
			p.Faint(symbol),
			title.String(string(s.Type)),
			s.Value,
			orDash(s.ID),
		})
	}
	return Data{
		Headers:         []string{"", "Type", "Value", "ID"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter},
	}
}

// PromptsToTableData renders prompt suggestions.
func PromptsToTableData(prompts []pipeline.Prompt, p Palette) Data {
	rows := make([][]string, 0, len(prompts))
	for _, pr := range prompts {
		rows = append(rows, []string{pr.ID, p.Kind(pr.Kind), pr.Label, pr.Icon})
	}
	return Data{Headers: []string{"ID", "Kind", "Label", "Icon"}, Rows: rows}
}

// SummaryToTableData renders per-kind counts followed by the first dataset.
func SummaryToTableData(sum pipeline.Summary, p Palette) Data {
	rows := [][]string{{"Total", strconv.Itoa(sum.Total)}}
	for _, k := range catalogs.Kinds {
		rows = append(rows, []string{p.Kind(k), strconv.Itoa(sum.Counts[k])})
	}
	if sum.Loading {
		rows = append(rows, []string{"Chart", emoji.Spinner})
	}
	if ds := sum.DataSet; ds != nil {
		rows = append(rows,
			[]string{"Dataset", ds.Title},
			[]string{"Dataset Description", Truncate(ds.Description, descriptionWidth)},
			[]string{"Dataset Link", ds.Link},
		)
		if ds.ReportLink != "" {
			rows = append(rows, []string{"Report Link", ds.ReportLink})
		}
	}
	return Data{
		Headers:         []string{"Summary", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}
