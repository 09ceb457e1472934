// Package cmdutil provides flag and rendering helpers shared by atlas commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/atlas/pkg/filter"
)

// PageFlags holds the paging flags of list commands.
type PageFlags struct {
	Page     int
	PageSize int
}

// AddPageFlags adds --page and, when withSize is set, --page-size.
func AddPageFlags(cmd *cobra.Command, withSize bool) *PageFlags {
	flags := &PageFlags{}
	cmd.Flags().IntVarP(&flags.Page, "page", "p", 1,
		"Page number (1-based)")
	if withSize {
		cmd.Flags().IntVar(&flags.PageSize, "page-size", 0,
			"Results per page (default from config)")
	}
	return flags
}

// AddTabFlag adds --tab with shell completion for the tab names.
func AddTabFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "tab", "t", "all",
		"Result tab: all, products, reports, datasets (or 1-4)")
	_ = cmd.RegisterFlagCompletionFunc("tab", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(filter.Tabs))
		for _, t := range filter.Tabs {
			name, _ := t.MarshalText()
			names = append(names, string(name))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// MustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. Only use it for flags the calling command defines.
func MustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetString retrieves a string flag value or panics if the flag doesn't exist.
func MustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetInt retrieves an int flag value or panics if the flag doesn't exist.
func MustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
