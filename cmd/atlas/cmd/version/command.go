// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
)

// Info is the build information printed by the version command.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"builtBy" yaml:"builtBy"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version:   app.Version(),
				Commit:    app.Commit(),
				Date:      app.Date(),
				BuiltBy:   app.BuiltBy(),
				GoVersion: runtime.Version(),
				Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			}
			if app.OutputFormat() == "" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "atlas %s (%s, %s) %s %s\n",
					info.Version, info.Commit, info.Date, info.GoVersion, info.Platform)
				return err
			}
			return cmdutil.Render(cmd, app, info, func(bool, table.Palette) table.Data {
				return table.Data{
					Headers: []string{"Property", "Value"},
					Rows: [][]string{
						{"Version", info.Version},
						{"Commit", info.Commit},
						{"Date", info.Date},
						{"Built By", info.BuiltBy},
						{"Go", info.GoVersion},
						{"Platform", info.Platform},
					},
				}
			})
		},
	}
}
