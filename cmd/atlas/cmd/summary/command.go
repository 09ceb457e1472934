// Package summary provides the summary command.
package summary

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
)

// NewCommand creates the summary command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "summary [query...]",
		GroupID: "discover",
		Short:   "Summarize the results of a search across all tabs",
		Long: `Count the matching records per kind and describe the first
matching dataset, as the summary panel of the search screen does.`,
		Example: `  atlas summary
  atlas summary orders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			sum := client.Summary(cmd.Context(), strings.Join(args, " "))
			return cmdutil.Render(cmd, app, sum, func(_ bool, p table.Palette) table.Data {
				return table.SummaryToTableData(sum, p)
			})
		},
	}
}
