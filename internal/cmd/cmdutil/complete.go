package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/cmd/application"
)

// CompleteRecordIDs completes the first argument with published record ids,
// showing titles as descriptions.
func CompleteRecordIDs(app application.Application) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		client, err := app.Client()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		published := client.Published()
		ids := make([]string, 0, len(published))
		for _, r := range published {
			ids = append(ids, r.ID+"\t"+r.Title)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
