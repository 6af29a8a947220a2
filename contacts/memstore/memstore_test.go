package memstore

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/spachava753/addressbook/contacts"
)

func collect(t *testing.T, s *Store, q contacts.Query) []contacts.Row {
	t.Helper()
	var rows []contacts.Row
	err := s.Scan(q, func(r contacts.Row) error {
		rows = append(rows, r)
		return nil
	})
	be.Err(t, err, nil)
	return rows
}

func TestScanPredicates(t *testing.T) {
	s := New()
	s.AddPhone(1, "5550100").AddPhone(2, "5551234").AddPhone(3, "4440000").AddPhone(1, "5559999")

	rows := collect(t, s, contacts.Query{
		Relation: contacts.RelationPhones,
		Columns:  []contacts.Column{contacts.ColumnContactID, contacts.ColumnNormalizedNumber},
		Where:    []contacts.Predicate{contacts.Prefix(contacts.ColumnNormalizedNumber, "555")},
	})
	be.Equal(t, rows, []contacts.Row{{"1", "5550100"}, {"2", "5551234"}, {"1", "5559999"}})

	rows = collect(t, s, contacts.Query{
		Relation: contacts.RelationPhones,
		Columns:  []contacts.Column{contacts.ColumnNormalizedNumber},
		Where: []contacts.Predicate{
			contacts.Equal(contacts.ColumnContactID, int64(1)),
			contacts.Prefix(contacts.ColumnNormalizedNumber, "5550"),
		},
	})
	be.Equal(t, rows, []contacts.Row{{"5550100"}})

	rows = collect(t, s, contacts.Query{
		Relation: contacts.RelationPhones,
		Columns:  []contacts.Column{contacts.ColumnContactID},
		Where:    []contacts.Predicate{contacts.In(contacts.ColumnContactID, []contacts.ID{3, 2})},
	})
	be.Equal(t, rows, []contacts.Row{{"2"}, {"3"}})
}

func TestScanOrderByIsStable(t *testing.T) {
	s := New()
	s.AddName(1, "Bea", "Bea", "One")
	s.AddName(2, "Al", "Al", "Two")
	s.AddName(3, "Bea", "Bea", "Three")

	rows := collect(t, s, contacts.Query{
		Relation: contacts.RelationNames,
		Columns:  []contacts.Column{contacts.ColumnFamilyName},
		OrderBy:  contacts.ColumnDisplayName,
	})
	be.Equal(t, rows, []contacts.Row{{"Two"}, {"One"}, {"Three"}})
}

func TestScanStopsOnCallbackError(t *testing.T) {
	s := New()
	s.AddContact(1).AddContact(2)
	stop := errors.New("stop")

	calls := 0
	err := s.Scan(contacts.Query{Relation: contacts.RelationContacts, Columns: []contacts.Column{contacts.ColumnID}}, func(contacts.Row) error {
		calls++
		return stop
	})
	be.Err(t, err, stop)
	be.Equal(t, calls, 1)
}

func TestFailOnAndQueries(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.FailOn(contacts.RelationEmails, boom)

	q := contacts.Query{Relation: contacts.RelationEmails, Columns: []contacts.Column{contacts.ColumnAddress}}
	err := s.Scan(q, func(contacts.Row) error { return nil })
	be.Err(t, err, boom)
	be.Equal(t, len(s.Queries()), 1)

	s.FailOn(contacts.RelationEmails, nil)
	be.Err(t, s.Scan(q, func(contacts.Row) error { return nil }), nil)

	s.ResetQueries()
	be.Equal(t, len(s.Queries()), 0)
}

func TestUnsupportedOperator(t *testing.T) {
	s := New()
	s.AddContact(1)
	err := s.Scan(contacts.Query{
		Relation: contacts.RelationContacts,
		Where:    []contacts.Predicate{{Column: contacts.ColumnID, Op: "like", Args: []any{"1"}}},
	}, func(contacts.Row) error { return nil })
	be.Err(t, err, "unsupported operator")
}

func TestDelete(t *testing.T) {
	s := New()
	s.AddContact(1).AddContact(2).AddPhone(1, "1")
	s.Delete(1)
	be.Equal(t, s.Len(contacts.RelationContacts), 1)
	be.Equal(t, s.Len(contacts.RelationPhones), 1)
}
