// Package search provides the search command.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/filter"
)

// NewCommand creates the search command.
func NewCommand(app application.Application) *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:     "search [query...]",
		GroupID: "core",
		Short:   "Search published products, reports and datasets",
		Long: `Search the published catalog with fuzzy matching on title,
description and kind. Without a query every published record is listed
in catalog order.

Results are paginated; use --tab to restrict them to one record kind.`,
		Example: `  atlas search                        # List every published record
  atlas search salez                  # Typos still match "Sales"
  atlas search churn --tab reports    # Only reports
  atlas search --page 2 --page-size 5 # Second page of five
  atlas search revenue --save         # Also add "revenue" to history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, strings.Join(args, " "), tab)
		},
	}

	cmdutil.AddPageFlags(cmd, true)
	cmdutil.AddTabFlag(cmd, &tab)
	cmd.Flags().Bool("save", false, "Save the query to search history")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, text, tabName string) error {
	t, err := filter.ParseTab(tabName)
	if err != nil {
		return err
	}
	page := cmdutil.MustGetInt(cmd, "page")
	if page < 1 {
		return errors.NewValidationError("page", page, "must be at least 1")
	}
	// an unset --page-size uses the configured size
	size := cmdutil.MustGetInt(cmd, "page-size")
	if cmd.Flags().Changed("page-size") && (size < 1 || size > constants.MaxPageSize) {
		return errors.NewValidationError("page-size", size, fmt.Sprintf("must be between 1 and %d", constants.MaxPageSize))
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res := client.Search(ctx, atlas.Query{Text: text, Tab: t, Page: page, PageSize: size})

	if cmdutil.MustGetBool(cmd, "save") && strings.TrimSpace(text) != "" {
		if _, err := client.AddHistory(ctx, text); err != nil {
			return err
		}
	}

	app.Logger().Debug().
		Str("query", text).
		Str("tab", t.String()).
		Int("total", res.Pagination.TotalItems).
		Msg("Search finished")

	return cmdutil.Render(cmd, app, res, func(wide bool, p table.Palette) table.Data {
		td := table.ItemsToTableData(res.Items, wide, p)
		td.Footer = table.PageFooter(res.Pagination)
		return td
	})
}
