// Package show provides the show command for a single record.
package show

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
)

// NewCommand creates the show command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		GroupID: "core",
		Short:   "Show the details of a record",
		Args:    cobra.ExactArgs(1),
		Example: `  atlas show P001
  atlas show P001 -o yaml`,
		ValidArgsFunction: cmdutil.CompleteRecordIDs(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			details, err := client.Record(args[0])
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, details, func(_ bool, p table.Palette) table.Data {
				return table.DetailsToTableData(details, p)
			})
		},
	}
}
