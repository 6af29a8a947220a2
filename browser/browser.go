// Package browser opens URLs in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNotImplemented is returned on platforms with no known URL opener.
var ErrNotImplemented = errors.New("browser: not implemented")

// OpenURL opens a URL in a browser session. It returns once the opener has
// started; it does not wait for the browser.
func OpenURL(url string) error {
	name, args, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("browser: start %s: %w", name, err)
	}
	return nil
}

func command(goos, url string) (string, []string, error) {
	if url == "" {
		return "", nil, errors.New("browser: url is required")
	}
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	}
	return "", nil, fmt.Errorf("%w on %s", ErrNotImplemented, goos)
}
