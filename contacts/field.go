package contacts

import "strconv"

// SearchField selects the single column a Find matches against.
//
// The set is closed: the only valid values are the constants FieldName,
// FieldFirstName, FieldLastName, FieldPhone and FieldEmail. Each maps to
// exactly one relation and column. The zero SearchField is invalid.
type SearchField uint8

const (
	// FieldName matches the display name.
	FieldName SearchField = iota + 1
	// FieldFirstName matches the given name.
	FieldFirstName
	// FieldLastName matches the family name.
	FieldLastName
	// FieldPhone matches the normalized phone number.
	FieldPhone
	// FieldEmail matches the email address.
	FieldEmail
)

type fieldTarget struct {
	name     string
	relation Relation
	column   Column
}

// targets is indexed by SearchField; index 0 is the invalid zero value.
var targets = [...]fieldTarget{
	FieldName:      {"name", RelationNames, ColumnDisplayName},
	FieldFirstName: {"firstName", RelationNames, ColumnGivenName},
	FieldLastName:  {"lastName", RelationNames, ColumnFamilyName},
	FieldPhone:     {"phone", RelationPhones, ColumnNormalizedNumber},
	FieldEmail:     {"email", RelationEmails, ColumnAddress},
}

// SearchFields returns every supported field in a fixed order.
func SearchFields() []SearchField {
	return []SearchField{FieldName, FieldFirstName, FieldLastName, FieldPhone, FieldEmail}
}

// ParseSearchField maps a wire name such as "firstName" to its SearchField.
// Unknown names fail with an ErrorCodeUnsupportedField error naming the value.
func ParseSearchField(name string) (SearchField, error) {
	for _, f := range SearchFields() {
		if targets[f].name == name {
			return f, nil
		}
	}
	return 0, unsupportedField(name)
}

// Valid reports whether f is one of the supported fields.
func (f SearchField) Valid() bool {
	return f >= FieldName && f <= FieldEmail
}

// String returns the wire name, or SearchField(n) for invalid values.
func (f SearchField) String() string {
	if !f.Valid() {
		return "SearchField(" + strconv.Itoa(int(f)) + ")"
	}
	return targets[f].name
}

// Relation returns the relation the field is matched on, or "" if f is
// invalid.
func (f SearchField) Relation() Relation {
	if !f.Valid() {
		return ""
	}
	return targets[f].relation
}

// Column returns the column the field is matched on, or "" if f is invalid.
func (f SearchField) Column() Column {
	if !f.Valid() {
		return ""
	}
	return targets[f].column
}

// MarshalText implements encoding.TextMarshaler.
func (f SearchField) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, unsupportedField(f.String())
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *SearchField) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
