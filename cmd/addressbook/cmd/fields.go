package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/contacts"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields find can match on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tRELATION\tCOLUMN")
		for _, f := range contacts.SearchFields() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f, f.Relation(), f.Column())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
