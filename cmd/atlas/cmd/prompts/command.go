// Package prompts provides the prompts command.
package prompts

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/cmd/table"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
)

// NewCommand creates the prompts command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prompts",
		GroupID: "discover",
		Short:   "Show a random sample of records to try",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n := cmdutil.MustGetInt(cmd, "count")
			if n < 1 || n > constants.PromptLimit {
				return errors.NewValidationError("count", n, "must be between 1 and 10")
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			prompts := client.PromptSuggestions(n)
			return cmdutil.Render(cmd, app, prompts, func(_ bool, p table.Palette) table.Data {
				return table.PromptsToTableData(prompts, p)
			})
		},
	}
	cmd.Flags().IntP("count", "n", constants.PromptLimit, "Number of prompts (1-10)")
	return cmd
}
