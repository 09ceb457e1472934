// Package suggest provides the suggest command for search box suggestions.
package suggest

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// NewCommand creates the suggest command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "suggest [text...]",
		GroupID: "discover",
		Short:   "Show search box suggestions for partial input",
		Long: `Show what the search box would suggest for the typed text:
matching saved searches first, then titles of matching records.`,
		Example: `  atlas suggest        # Every saved search
  atlas suggest sal    # History containing "sal", then matching titles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			suggestions := client.Suggest(strings.Join(args, " "))
			if suggestions == nil {
				suggestions = []pipeline.Suggestion{}
			}
			return cmdutil.Render(cmd, app, suggestions, func(_ bool, p table.Palette) table.Data {
				return table.SuggestionsToTableData(suggestions, p)
			})
		},
	}
}
