package cmd

import (
	"encoding/json"
	"io"

	"github.com/spachava753/addressbook/contacts"
)

// errorOutput is the JSON shape of a failed command.
type errorOutput struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintError writes err to w in the same JSON shape the HTTP API uses.
func PrintError(w io.Writer, err error) {
	_ = writeJSON(w, errorOutput{
		Error: err.Error(),
		Code:  string(contacts.CodeOf(err)),
	})
}
