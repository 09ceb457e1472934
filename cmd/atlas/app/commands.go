package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/atlas/cmd/favorites"
	"github.com/agentstation/atlas/cmd/atlas/cmd/history"
	"github.com/agentstation/atlas/cmd/atlas/cmd/prompts"
	"github.com/agentstation/atlas/cmd/atlas/cmd/search"
	"github.com/agentstation/atlas/cmd/atlas/cmd/serve"
	"github.com/agentstation/atlas/cmd/atlas/cmd/shortcuts"
	"github.com/agentstation/atlas/cmd/atlas/cmd/show"
	"github.com/agentstation/atlas/cmd/atlas/cmd/suggest"
	"github.com/agentstation/atlas/cmd/atlas/cmd/summary"
	"github.com/agentstation/atlas/cmd/atlas/cmd/version"
)

// registerCommands wires every subcommand to the app.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(favorites.NewCommand(a))
	rootCmd.AddCommand(history.NewCommand(a))

	// Discovery commands
	rootCmd.AddCommand(suggest.NewCommand(a))
	rootCmd.AddCommand(prompts.NewCommand(a))
	rootCmd.AddCommand(shortcuts.NewCommand(a))
	rootCmd.AddCommand(summary.NewCommand(a))

	// Server commands
	rootCmd.AddCommand(serve.NewCommand(a, serve.Options{
		Server: a.config.Server,
		Watch:  a.config.Watch,
	}))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
