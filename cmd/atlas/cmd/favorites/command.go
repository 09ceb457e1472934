// Package favorites provides the favorites command and its subcommands.
package favorites

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/emoji"
	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
)

// State is the result of a toggle.
type State struct {
	ID       string `json:"id" yaml:"id"`
	Favorite bool   `json:"favorite" yaml:"favorite"`
}

// NewCommand creates the favorites command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		GroupID: "core",
		Short:   "List and toggle favorite records",
		Example: `  atlas favorites list           # Favorited published records, 12 per page
  atlas favorites toggle P001    # Star or unstar P001
  atlas favorites recent         # The 7 most recently starred`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewToggleCommand(app))
	cmd.AddCommand(NewRecentCommand(app))

	return cmd
}

// NewListCommand creates the favorites list subcommand.
func NewListCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List favorited published records in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page := cmdutil.MustGetInt(cmd, "page")
			if page < 1 {
				return errors.NewValidationError("page", page, "must be at least 1")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			result := client.FavoritesPage(page)
			return cmdutil.Render(cmd, app, result, func(wide bool, p table.Palette) table.Data {
				td := table.ItemsToTableData(result.Items, wide, p)
				td.Footer = table.PageFooter(result.Info)
				return td
			})
		},
	}
	cmdutil.AddPageFlags(cmd, false)
	return cmd
}

// NewToggleCommand creates the favorites toggle subcommand.
func NewToggleCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <id>",
		Short:             "Star or unstar a record",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmdutil.CompleteRecordIDs(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			id := args[0]
			if _, ok := client.Catalog().Get(id); !ok {
				app.Logger().Warn().Str("record_id", id).Msg("Toggling a favorite that is not in the catalog")
			}
			fav, err := client.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := State{ID: id, Favorite: fav}
			return cmdutil.Render(cmd, app, state, func(_ bool, p table.Palette) table.Data {
				return table.Data{
					Headers: []string{"", "ID", "Favorite"},
					Rows:    [][]string{{p.Star(emoji.Star(fav)), id, boolWord(fav)}},
				}
			})
		},
	}
}

// NewRecentCommand creates the favorites recent subcommand.
func NewRecentCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently starred records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit := cmdutil.MustGetInt(cmd, "limit")
			if limit < 1 || limit > constants.MaxPageSize {
				return errors.NewValidationError("limit", limit, "must be between 1 and 100")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			items := client.RecentFavorites(limit)
			return cmdutil.Render(cmd, app, items, func(wide bool, p table.Palette) table.Data {
				return table.ItemsToTableData(items, wide, p)
			})
		},
	}
	cmd.Flags().IntP("limit", "n", constants.ShortcutLimit, "Maximum number of records")
	return cmd
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
