package contacts

import (
	"errors"
	"fmt"
)

// ID is the stable key joining rows across the four relations for one contact.
type ID int64

// Relation names one of the read-only tables the core scans.
type Relation string

const (
	// RelationContacts is the base relation: one row per contact.
	RelationContacts Relation = "contacts"
	// RelationNames holds structured-name rows.
	RelationNames Relation = "names"
	// RelationPhones holds phone-number rows.
	RelationPhones Relation = "phones"
	// RelationEmails holds email-address rows.
	RelationEmails Relation = "emails"
)

// Relations returns every relation in a fixed order.
func Relations() []Relation {
	return []Relation{RelationContacts, RelationNames, RelationPhones, RelationEmails}
}

// Column names a column of a Relation.
type Column string

const (
	ColumnID               Column = "_id"
	ColumnContactID        Column = "contact_id"
	ColumnMimeType         Column = "mimetype"
	ColumnDisplayName      Column = "display_name"
	ColumnGivenName        Column = "given_name"
	ColumnFamilyName       Column = "family_name"
	ColumnNormalizedNumber Column = "normalized_number"
	ColumnAddress          Column = "address"
)

// MimeStructuredName marks name rows that carry the contact's structured name.
const MimeStructuredName = "vnd.android.cursor.item/name"

// Op is a predicate operator understood by every Storage.
type Op string

const (
	// OpEqual matches rows whose column equals Args[0].
	OpEqual Op = "eq"
	// OpPrefix matches rows whose column starts with Args[0].
	OpPrefix Op = "prefix"
	// OpIn matches rows whose column equals any of Args.
	OpIn Op = "in"
)

// Predicate is one filter clause. All predicates of a Query must match.
type Predicate struct {
	Column Column
	Op     Op
	Args   []any
}

// Equal builds an OpEqual predicate.
func Equal(col Column, v any) Predicate {
	return Predicate{Column: col, Op: OpEqual, Args: []any{v}}
}

// Prefix builds an OpPrefix predicate.
func Prefix(col Column, term string) Predicate {
	return Predicate{Column: col, Op: OpPrefix, Args: []any{term}}
}

// In builds an OpIn predicate over contact ids.
func In(col Column, ids []ID) Predicate {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return Predicate{Column: col, Op: OpIn, Args: args}
}

// Query is one read-only scan request: relation, projection, filter and an
// optional sort column.
type Query struct {
	Relation Relation
	Columns  []Column
	Where    []Predicate
	OrderBy  Column
}

// Row holds the values of one scanned row in Query.Columns order. NULL values
// are returned as empty strings.
type Row []string

// Storage is the read-only access collaborator.
//
// Scan runs q and calls fn for every row in the relation's natural order (or
// OrderBy order when set). The implementation owns the underlying cursor and
// must release it before returning, including when fn returns an error, in
// which case that error is returned unchanged.
type Storage interface {
	Scan(q Query, fn func(Row) error) error
}

// ContactRecord is one normalized contact. Missing names are empty strings and
// the slices are never nil.
type ContactRecord struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	PhoneNumbers   []string `json:"phoneNumbers"`
	EmailAddresses []string `json:"emailAddresses"`
}

// Collection is the result of one aggregation.
type Collection struct {
	Contacts []ContactRecord `json:"contacts"`
}

// EmptyCollection returns a collection that encodes as {"contacts": []}.
func EmptyCollection() Collection {
	return Collection{Contacts: []ContactRecord{}}
}

// Restriction narrows an aggregation to a prior filter result.
//
// The zero value is an explicit empty restriction, not "everything": use All
// to scan the whole base relation.
type Restriction struct {
	ids []ID
	all bool
}

// All returns the "no restriction" sentinel.
func All() Restriction {
	return Restriction{all: true}
}

// Only restricts aggregation to ids, in the given order. An empty ids yields
// an empty collection without any scan.
func Only(ids []ID) Restriction {
	return Restriction{ids: append([]ID(nil), ids...)}
}

// IsAll reports whether r is the "no restriction" sentinel.
func (r Restriction) IsAll() bool { return r.all }

// IDs returns a copy of the restriction set.
func (r Restriction) IDs() []ID { return append([]ID(nil), r.ids...) }

// ErrorCode classifies errors surfaced by the core.
type ErrorCode string

const (
	// ErrorCodeUnsupportedField indicates a search field outside the five
	// supported values.
	ErrorCodeUnsupportedField ErrorCode = "unsupported_field"
	// ErrorCodeStorageUnavailable indicates an underlying scan failed.
	ErrorCodeStorageUnavailable ErrorCode = "storage_unavailable"
)

var (
	// ErrUnsupportedField matches any unsupported-field error via errors.Is.
	ErrUnsupportedField = &Error{Code: ErrorCodeUnsupportedField}
	// ErrStorageUnavailable matches any storage failure via errors.Is.
	ErrStorageUnavailable = &Error{Code: ErrorCodeStorageUnavailable}
)

// Error is a typed package error.
type Error struct {
	Code     ErrorCode
	Field    string
	Relation Relation
	Message  string
	Err      error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e == nil {
		return "contacts: <nil>"
	}
	msg := e.Message
	switch {
	case e.Code == ErrorCodeUnsupportedField && msg == "":
		msg = fmt.Sprintf("unsupported search field %q", e.Field)
	case e.Code == ErrorCodeStorageUnavailable && msg == "" && e.Relation != "":
		msg = fmt.Sprintf("scan %s", e.Relation)
	}
	switch {
	case msg == "" && e.Err == nil:
		return fmt.Sprintf("contacts: %s", e.Code)
	case e.Err == nil:
		return fmt.Sprintf("contacts: %s: %s", e.Code, msg)
	case msg == "":
		return fmt.Sprintf("contacts: %s: %v", e.Code, e.Err)
	default:
		return fmt.Sprintf("contacts: %s: %s: %v", e.Code, msg, e.Err)
	}
}

// Unwrap returns the storage cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && t.Code == e.Code
}

// CodeOf returns the ErrorCode of err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func unsupportedField(name string) error {
	return &Error{Code: ErrorCodeUnsupportedField, Field: name}
}

func storageUnavailable(rel Relation, err error) error {
	return &Error{Code: ErrorCodeStorageUnavailable, Relation: rel, Err: err}
}
