// Package shortcuts provides the shortcuts command.
package shortcuts

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
)

// NewCommand creates the shortcuts command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:       "shortcuts [recommended|favorites]",
		GroupID:   "discover",
		Short:     "Show the home screen shortcuts",
		Long:      `Show seven random recommended records, or the seven most recently starred ones.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(atlas.ShortcutRecommended), string(atlas.ShortcutFavorites)},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			kind, err := atlas.ParseShortcutKind(name)
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			items := client.Shortcuts(kind)
			return cmdutil.Render(cmd, app, items, func(wide bool, p table.Palette) table.Data {
				return table.ItemsToTableData(items, wide, p)
			})
		},
	}
}
