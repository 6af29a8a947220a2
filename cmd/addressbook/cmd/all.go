package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/dispatch"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Print every contact as JSON",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	book, closeBook, err := openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	result, err := dispatch.Run(cmd.Context(), book.GetAll)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
