package cmd

import (
	"fmt"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/internal/config"
	"github.com/spachava753/addressbook/macos/addressbook"
	"github.com/spachava753/addressbook/sqlitestore"
	"github.com/spachava753/addressbook/vcard"
)

// openBook opens the configured source. The returned close func releases it.
func openBook() (*contacts.Book, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source.Kind {
	case config.SourceSQLite:
		s, err := sqlitestore.Open(cfg.Source.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite source: %w", err)
		}
		logger.Debug("opened source", "kind", cfg.Source.Kind, "path", s.Path(), "driver", sqlitestore.Driver())
		return contacts.New(s, logger), s.Close, nil

	case config.SourceAddressBook:
		path := cfg.Source.Path
		if path == "" {
			sources, err := addressbook.Discover()
			if err != nil {
				return nil, nil, err
			}
			if len(sources) == 0 {
				return nil, nil, fmt.Errorf("no Contacts database found")
			}
			path = sources[0].Path
		}
		s, err := addressbook.Open(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened source", "kind", cfg.Source.Kind, "path", path)
		return contacts.New(s, logger), s.Close, nil

	case config.SourceVCard:
		s, err := vcard.Open(cfg.Source.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened source", "kind", cfg.Source.Kind, "path", cfg.Source.Path,
			"contacts", s.Len(contacts.RelationContacts))
		return contacts.New(s, logger), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}
