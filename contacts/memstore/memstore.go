// Package memstore is an in-memory contacts.Storage.
//
// It keeps rows per relation in insertion order, evaluates predicates in Go
// and records every query it serves, which makes it the storage of choice for
// tests and for backends that load a whole address book into memory (see
// package vcard).
package memstore

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/spachava753/addressbook/contacts"
)

type row map[contacts.Column]string

// Store is a concurrency-safe in-memory contacts.Storage.
type Store struct {
	mu      sync.Mutex
	rows    map[contacts.Relation][]row
	fail    map[contacts.Relation]error
	queries []contacts.Query
}

// New returns an empty store.
func New() *Store {
	return &Store{
		rows: make(map[contacts.Relation][]row),
		fail: make(map[contacts.Relation]error),
	}
}

// Insert appends a raw row to rel. Columns not given read as "".
func (s *Store) Insert(rel contacts.Relation, values map[contacts.Column]string) {
	r := make(row, len(values))
	for k, v := range values {
		r[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[rel] = append(s.rows[rel], r)
}

// AddContact adds id to the base relation.
func (s *Store) AddContact(id contacts.ID) *Store {
	s.Insert(contacts.RelationContacts, map[contacts.Column]string{
		contacts.ColumnID: formatID(id),
	})
	return s
}

// AddName adds a structured-name row for id.
func (s *Store) AddName(id contacts.ID, displayName, givenName, familyName string) *Store {
	return s.AddNameRow(id, contacts.MimeStructuredName, displayName, givenName, familyName)
}

// AddNameRow adds a name row with an explicit mime type.
func (s *Store) AddNameRow(id contacts.ID, mimeType, displayName, givenName, familyName string) *Store {
	s.Insert(contacts.RelationNames, map[contacts.Column]string{
		contacts.ColumnContactID:   formatID(id),
		contacts.ColumnMimeType:    mimeType,
		contacts.ColumnDisplayName: displayName,
		contacts.ColumnGivenName:   givenName,
		contacts.ColumnFamilyName:  familyName,
	})
	return s
}

// AddPhone adds a phone row for id.
func (s *Store) AddPhone(id contacts.ID, number string) *Store {
	s.Insert(contacts.RelationPhones, map[contacts.Column]string{
		contacts.ColumnContactID:        formatID(id),
		contacts.ColumnNormalizedNumber: number,
	})
	return s
}

// AddEmail adds an email row for id.
func (s *Store) AddEmail(id contacts.ID, address string) *Store {
	s.Insert(contacts.RelationEmails, map[contacts.Column]string{
		contacts.ColumnContactID: formatID(id),
		contacts.ColumnAddress:   address,
	})
	return s
}

// Delete removes id from the base relation, leaving its detail rows behind.
func (s *Store) Delete(id contacts.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := formatID(id)
	s.rows[contacts.RelationContacts] = slices.DeleteFunc(s.rows[contacts.RelationContacts], func(r row) bool {
		return r[contacts.ColumnID] == want
	})
}

// Len returns the number of rows in rel.
func (s *Store) Len(rel contacts.Relation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[rel])
}

// FailOn makes every scan of rel return err. A nil err clears the failure.
func (s *Store) FailOn(rel contacts.Relation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, rel)
		return
	}
	s.fail[rel] = err
}

// Queries returns the queries served so far, oldest first.
func (s *Store) Queries() []contacts.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

// ResetQueries forgets the recorded queries.
func (s *Store) ResetQueries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = nil
}

// Scan implements contacts.Storage.
func (s *Store) Scan(q contacts.Query, fn func(contacts.Row) error) error {
	matched, err := s.snapshot(q)
	if err != nil {
		return err
	}
	for _, r := range matched {
		out := make(contacts.Row, len(q.Columns))
		for i, col := range q.Columns {
			out[i] = r[col]
		}
		if err := fn(out); err != nil {
			return err
		}
	}
	return nil
}

// snapshot copies the matching rows so fn runs without the lock held.
func (s *Store) snapshot(q contacts.Query) ([]row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, q)
	if err := s.fail[q.Relation]; err != nil {
		return nil, err
	}

	var matched []row
	for _, r := range s.rows[q.Relation] {
		ok, err := matches(r, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}
	if q.OrderBy != "" {
		slices.SortStableFunc(matched, func(a, b row) int {
			return strings.Compare(a[q.OrderBy], b[q.OrderBy])
		})
	}
	return matched, nil
}

func matches(r row, where []contacts.Predicate) (bool, error) {
	for _, p := range where {
		v := r[p.Column]
		switch p.Op {
		case contacts.OpEqual:
			if len(p.Args) != 1 || v != fmt.Sprint(p.Args[0]) {
				return false, nil
			}
		case contacts.OpPrefix:
			if len(p.Args) != 1 || !strings.HasPrefix(v, fmt.Sprint(p.Args[0])) {
				return false, nil
			}
		case contacts.OpIn:
			found := false
			for _, arg := range p.Args {
				if v == fmt.Sprint(arg) {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		default:
			return false, fmt.Errorf("memstore: unsupported operator %q", p.Op)
		}
	}
	return true, nil
}

func formatID(id contacts.ID) string {
	return strconv.FormatInt(int64(id), 10)
}
