package contacts

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Book answers contact queries against one Storage.
//
// A Book holds no mutable state; concurrent calls are independent and each
// reflects whatever the storage returns at scan time.
type Book struct {
	store  Storage
	logger *slog.Logger
}

// New returns a Book reading from store. A nil logger discards output.
func New(store Storage, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Book{store: store, logger: logger}
}

// GetAll returns every contact in the base relation's natural order.
func (b *Book) GetAll() (Collection, error) {
	return b.Aggregate(All())
}

// Find returns the contacts whose field value starts with term. An empty term
// matches nothing and issues no scan.
func (b *Book) Find(field SearchField, term string) (Collection, error) {
	if !field.Valid() {
		return Collection{}, unsupportedField(field.String())
	}
	if term == "" {
		return EmptyCollection(), nil
	}
	ids, err := b.Resolve(field, term)
	if err != nil {
		return Collection{}, err
	}
	return b.Aggregate(Only(ids))
}

// FindByName is Find with the field given by its wire name, as received from
// a request ("name", "firstName", "lastName", "phone" or "email").
func (b *Book) FindByName(property, term string) (Collection, error) {
	field, err := ParseSearchField(property)
	if err != nil {
		return Collection{}, err
	}
	return b.Find(field, term)
}

// Resolve returns the ids of contacts whose value in field's column starts
// with term. Ids are unique and in first-seen order of the relation's natural
// scan order. Callers reject empty terms before calling Resolve.
func (b *Book) Resolve(field SearchField, term string) ([]ID, error) {
	if !field.Valid() {
		return nil, unsupportedField(field.String())
	}

	q := Query{
		Relation: field.Relation(),
		Columns:  []Column{ColumnContactID},
		Where:    []Predicate{Prefix(field.Column(), term)},
	}

	ids := []ID{}
	seen := make(map[ID]struct{})
	err := b.store.Scan(q, func(row Row) error {
		id, err := rowID(row)
		if err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return nil
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, storageUnavailable(q.Relation, err)
	}

	b.logger.Debug("resolved search", "field", field.String(), "relation", q.Relation, "matches", len(ids))
	return ids, nil
}

// Aggregate joins the name, phone and email relations for every contact the
// restriction selects and returns one record per contact.
//
// Records follow the base relation's natural scan order in both cases. All
// scans it in full; Only scans it with an inclusion filter, so ids missing
// from the base relation are skipped and duplicate ids emit once. An empty
// Only returns an empty collection without scanning.
// Any failed scan fails the whole call: no partial collection is returned.
func (b *Book) Aggregate(r Restriction) (Collection, error) {
	if !r.all && len(r.ids) == 0 {
		return EmptyCollection(), nil
	}

	ids, err := b.baseIDs(r)
	if err != nil {
		return Collection{}, err
	}

	out := Collection{Contacts: make([]ContactRecord, 0, len(ids))}
	for _, id := range ids {
		rec, err := b.record(id)
		if err != nil {
			return Collection{}, err
		}
		out.Contacts = append(out.Contacts, rec)
	}

	b.logger.Debug("aggregated contacts", "restricted", !r.all, "contacts", len(out.Contacts))
	return out, nil
}

// baseIDs scans the base relation and returns the ids to hydrate.
func (b *Book) baseIDs(r Restriction) ([]ID, error) {
	q := Query{
		Relation: RelationContacts,
		Columns:  []Column{ColumnID},
	}
	if !r.all {
		q.Where = []Predicate{In(ColumnID, r.ids)}
	}

	var ids []ID
	seen := make(map[ID]struct{})
	err := b.store.Scan(q, func(row Row) error {
		id, err := rowID(row)
		if err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return nil
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, storageUnavailable(q.Relation, err)
	}

	if !r.all {
		for _, id := range r.ids {
			if _, ok := seen[id]; !ok {
				b.logger.Debug("skipped contact missing from base relation", "contact_id", int64(id))
				// Log each missing id once.
				seen[id] = struct{}{}
			}
		}
	}
	return ids, nil
}

// record runs the name, phone and email lookups for one contact.
func (b *Book) record(id ID) (ContactRecord, error) {
	rec := ContactRecord{
		PhoneNumbers:   []string{},
		EmailAddresses: []string{},
	}

	names := Query{
		Relation: RelationNames,
		Columns:  []Column{ColumnGivenName, ColumnFamilyName},
		Where: []Predicate{
			Equal(ColumnContactID, int64(id)),
			Equal(ColumnMimeType, MimeStructuredName),
		},
		OrderBy: ColumnDisplayName,
	}
	// Last row wins when a contact has more than one structured name.
	err := b.store.Scan(names, func(row Row) error {
		rec.FirstName = column(row, 0)
		rec.LastName = column(row, 1)
		return nil
	})
	if err != nil {
		return ContactRecord{}, storageUnavailable(names.Relation, err)
	}

	rec.PhoneNumbers, err = b.values(RelationPhones, ColumnNormalizedNumber, id)
	if err != nil {
		return ContactRecord{}, err
	}
	rec.EmailAddresses, err = b.values(RelationEmails, ColumnAddress, id)
	if err != nil {
		return ContactRecord{}, err
	}
	return rec, nil
}

// values collects col for every row of rel belonging to id, duplicates kept.
func (b *Book) values(rel Relation, col Column, id ID) ([]string, error) {
	q := Query{
		Relation: rel,
		Columns:  []Column{col},
		Where:    []Predicate{Equal(ColumnContactID, int64(id))},
	}
	out := []string{}
	err := b.store.Scan(q, func(row Row) error {
		out = append(out, column(row, 0))
		return nil
	})
	if err != nil {
		return nil, storageUnavailable(rel, err)
	}
	return out, nil
}

func column(row Row, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func rowID(row Row) (ID, error) {
	raw := column(row, 0)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed contact id %q: %w", raw, err)
	}
	return ID(n), nil
}
