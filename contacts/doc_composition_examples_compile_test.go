package contacts_test

import (
	"errors"
	"log/slog"

	"github.com/spachava753/addressbook/contacts"
)

func composeEveryone(store contacts.Storage, logger *slog.Logger) (contacts.Collection, error) {
	book := contacts.New(store, logger)
	return book.GetAll()
}

func composeByAreaCode(store contacts.Storage) (contacts.Collection, error) {
	book := contacts.New(store, nil)
	ids, err := book.Resolve(contacts.FieldPhone, "+1415")
	if err != nil {
		return contacts.Collection{}, err
	}
	return book.Aggregate(contacts.Only(ids))
}

func composeFromRequest(store contacts.Storage, property, value string) (contacts.Collection, error) {
	book := contacts.New(store, nil)
	found, err := book.FindByName(property, value)
	if errors.Is(err, contacts.ErrUnsupportedField) {
		return contacts.EmptyCollection(), err
	}
	return found, err
}

var (
	_ = composeEveryone
	_ = composeByAreaCode
	_ = composeFromRequest
)
