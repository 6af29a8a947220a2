package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/dispatch"
)

var (
	findProperty string
	findValue    string
)

var findCmd = &cobra.Command{
	Use:   "find [field] [prefix]",
	Short: "Print contacts whose field starts with a prefix",
	Long: `Print the contacts whose field value starts with the given prefix.

Fields: name, firstName, lastName, phone, email. Matching is a prefix match
on the stored value; an empty prefix matches nothing.

Examples:
  addressbook find --property lastName --value Sm
  addressbook find phone +1415`,
	Args: cobra.MaximumNArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findProperty, "property", "", "field to match: name, firstName, lastName, phone or email")
	findCmd.Flags().StringVar(&findValue, "value", "", "prefix to match")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	property, value := findProperty, findValue
	switch len(args) {
	case 2:
		property, value = args[0], args[1]
	case 1:
		return fmt.Errorf("find: give both a field and a prefix, or use --property and --value")
	}
	if property == "" {
		return fmt.Errorf("find: --property is required")
	}

	book, closeBook, err := openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	result, err := dispatch.Run(cmd.Context(), func() (contacts.Collection, error) {
		return book.FindByName(property, value)
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
