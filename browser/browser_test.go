package browser

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestCommand(t *testing.T) {
	name, args, err := command("darwin", "http://127.0.0.1:8080/contacts")
	be.Err(t, err, nil)
	be.Equal(t, name, "open")
	be.Equal(t, args, []string{"http://127.0.0.1:8080/contacts"})

	name, _, err = command("linux", "http://x")
	be.Err(t, err, nil)
	be.Equal(t, name, "xdg-open")

	_, _, err = command("plan9", "http://x")
	be.Err(t, err, ErrNotImplemented)

	_, _, err = command("darwin", "")
	be.Err(t, err, "url is required")
}
