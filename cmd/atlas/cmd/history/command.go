// Package history provides the search history command and its subcommands.
package history

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/history"
)

// NewCommand creates the history command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "core",
		Short:   "Manage saved searches",
		Long: `Manage the saved search history. The newest entry comes first,
duplicates are moved to the front and at most 10 entries are kept.`,
		Example: `  atlas history list
  atlas history add "quarterly revenue"
  atlas history remove 0
  atlas history clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newRemoveCommand(app))
	cmd.AddCommand(newClearCommand(app))

	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved searches, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			return render(cmd, app, client.History())
		},
	}
}

func newAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "add <query...>",
		Short: "Save a search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			client, err := app.Client()
			if err != nil {
				return err
			}
			if _, err := client.AddHistory(cmd.Context(), query); err != nil {
				return err
			}
			return render(cmd, app, client.History())
		},
	}
}

func newRemoveCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the saved search at index (0 is the newest)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.NewValidationError("index", args[0], "must be an integer")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			removed, err := client.RemoveHistory(cmd.Context(), index)
			if err != nil {
				return err
			}
			cmdutil.Success(cmd, "Removed %q", removed.Query)
			return render(cmd, app, client.History())
		},
	}
}

func newClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			cmdutil.Success(cmd, "Search history cleared")
			return nil
		},
	}
}

func render(cmd *cobra.Command, app application.Application, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	return cmdutil.Render(cmd, app, entries, func(bool, table.Palette) table.Data {
		return table.HistoryToTableData(entries)
	})
}
