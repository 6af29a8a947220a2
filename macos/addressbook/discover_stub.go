//go:build !darwin

package addressbook

func discover(string) ([]Source, error) {
	return nil, ErrUnsupportedPlatform
}
