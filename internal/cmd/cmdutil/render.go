package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/emoji"
	"github.com/agentstation/atlas/internal/cmd/output"
	"github.com/agentstation/atlas/internal/cmd/table"
)

// Format resolves the output format from the app configuration, falling
// back to terminal detection.
func Format(app application.Application) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", err
	}
	return output.DetectFormat(string(format)), nil
}

// Palette returns the table palette for the app's colour setting.
func Palette(app application.Application) table.Palette {
	return table.Palette{NoColor: app.NoColor()}
}

// Render writes value to the command's stdout in the configured format.
func Render(cmd *cobra.Command, app application.Application, value any, toTable func(wide bool, p table.Palette) table.Data) error {
	format, err := Format(app)
	if err != nil {
		return err
	}
	var tableFn func(bool) table.Data
	if toTable != nil {
		palette := Palette(app)
		tableFn = func(wide bool) table.Data { return toTable(wide, palette) }
	}
	return output.Write(cmd.OutOrStdout(), format, value, tableFn)
}

// Success prints a confirmation line to stderr so stdout stays parseable.
func Success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.Success, fmt.Sprintf(format, args...))
}
