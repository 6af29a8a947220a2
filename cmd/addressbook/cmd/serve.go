package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/browser"
	"github.com/spachava753/addressbook/internal/api"
)

var (
	serveAddr string
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve contacts over HTTP",
	Long: `Serve the address book as a JSON HTTP API.

Routes:
  GET /health
  GET /fields
  GET /contacts
  GET /contacts/find?property=<field>&value=<prefix>

The listen address comes from --addr, ADDRESSBOOK_ADDR or [server] addr in
config.toml. Use Ctrl+C to stop the server gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the contacts listing in a browser once serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	book, closeBook, err := openBook()
	if err != nil {
		return err
	}
	defer closeBook()

	url := "http://" + addr
	fmt.Fprintf(cmd.ErrOrStderr(), "addressbook serving %s contacts on %s\n", cfg.Source.Kind, url)
	if serveOpen {
		// A browser that fails to open is not fatal to serving.
		if err := browser.OpenURL(url + "/contacts"); err != nil {
			logger.Warn("could not open browser", "error", err)
		}
	}
	return api.NewServer(book, logger, api.DefaultTimeout).Serve(cmd.Context(), addr)
}
