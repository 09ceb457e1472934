package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/internal/cmd/output"
	"github.com/agentstation/atlas/internal/config"
	"github.com/agentstation/atlas/pkg/logging"
)

// Execute runs the CLI with args. It is the entry point called from main.
func (a *App) Execute(ctx context.Context, args []string) error {
	// --config decides every other default, so it is read before the
	// command tree captures config values as flag defaults.
	if path := configFlag(args); path != "" {
		cfg, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "atlas",
		Short:   "Analytics catalog search",
		Version: a.version,
		Long: `Atlas searches a catalog of analytics products, reports and datasets.

It fuzzy-matches titles and descriptions, keeps favorites and a search
history in a local state directory, and can serve everything over a REST
API with live WebSocket and SSE updates.

Without --catalog an embedded sample catalog is used.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "discover", Title: "Discovery Commands:"},
		&cobra.Group{ID: "server", Title: "Server Commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.atlas.yaml)")
	flags.String("catalog", a.config.CatalogPath, "catalog file (JSON or YAML); empty uses the embedded catalog")
	flags.String("state-dir", a.config.StateDir, "directory for favorites and history")
	flags.String("storage", a.config.Storage, "state backend: files, sqlite, memory")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	_ = rootCmd.RegisterFlagCompletionFunc("storage", cobra.FixedCompletions(
		[]string{"files", "sqlite", "memory"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"table", "json", "yaml", "wide"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.MarkPersistentFlagFilename("catalog", "json", "yaml", "yml")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	_ = rootCmd.MarkPersistentFlagDirname("state-dir")

	rootCmd.SetVersionTemplate("atlas {{.Version}}\n")
	if a.stdout != nil {
		rootCmd.SetOut(a.stdout)
	}
	if a.stderr != nil {
		rootCmd.SetErr(a.stderr)
	}

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand applies flags over the loaded configuration and rebuilds the
// logger before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	if cmd.Flags().Changed("catalog") {
		path, err := config.ExpandPath(mustGetString(cmd, "catalog"))
		if err != nil {
			return err
		}
		a.config.CatalogPath = path
	}
	if cmd.Flags().Changed("state-dir") {
		dir, err := config.ExpandPath(mustGetString(cmd, "state-dir"))
		if err != nil {
			return err
		}
		a.config.StateDir = dir
	}
	if cmd.Flags().Changed("storage") {
		a.config.Storage = mustGetString(cmd, "storage")
	}

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	if err := a.config.Validate(); err != nil {
		return err
	}

	if !a.fixedLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// configFlag returns the value of --config in args, if any. Parsing stops
// at "--" like pflag does.
func configFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
