package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/macos/addressbook"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List macOS Contacts databases",
	Long: `List the Contacts databases of the current macOS user: the local
database first, then one per synced account. Any of the listed paths can be
passed as --path with --source addressbook.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	sources, err := addressbook.Discover()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No Contacts databases found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tPATH")
	for _, s := range sources {
		account := s.Account
		if account == "" {
			account = "(local)"
		}
		fmt.Fprintf(w, "%s\t%s\n", account, s.Path)
	}
	return w.Flush()
}
