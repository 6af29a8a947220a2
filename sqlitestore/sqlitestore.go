// Package sqlitestore implements contacts.Storage over a SQLite database.
//
// The default Mapping reads the tables created by schema.sql. Other physical
// layouts (for example the macOS Contacts database) supply their own Mapping
// and reuse the same scanner.
package sqlitestore

import (
	"cmp"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spachava753/addressbook/contacts"
)

//go:embed schema.sql
var schemaSQL string

// inChunkSize keeps IN lists under SQLite's default variable limit (999).
const inChunkSize = 500

// Table maps one contacts.Relation onto SQL.
type Table struct {
	// From is the FROM clause body: a table name or a join.
	From string
	// Where is an optional fixed filter ANDed with every scan.
	Where string
	// Columns maps each column the core may request to a SQL expression.
	Columns map[contacts.Column]string
}

// Mapping maps every relation the core scans onto SQL.
type Mapping map[contacts.Relation]Table

// DefaultMapping reads the tables created by InitSchema.
func DefaultMapping() Mapping {
	return Mapping{
		contacts.RelationContacts: {
			From:    "contacts",
			Columns: identity(contacts.ColumnID),
		},
		contacts.RelationNames: {
			From: "names",
			Columns: identity(contacts.ColumnContactID, contacts.ColumnMimeType, contacts.ColumnDisplayName,
				contacts.ColumnGivenName, contacts.ColumnFamilyName),
		},
		contacts.RelationPhones: {
			From:    "phones",
			Columns: identity(contacts.ColumnContactID, contacts.ColumnNormalizedNumber),
		},
		contacts.RelationEmails: {
			From:    "emails",
			Columns: identity(contacts.ColumnContactID, contacts.ColumnAddress),
		},
	}
}

func identity(cols ...contacts.Column) map[contacts.Column]string {
	m := make(map[contacts.Column]string, len(cols))
	for _, c := range cols {
		m[c] = string(c)
	}
	return m
}

// Validate reports relations the mapping does not cover.
func (m Mapping) Validate() error {
	var missing []string
	for _, rel := range contacts.Relations() {
		t, ok := m[rel]
		if !ok || t.From == "" {
			missing = append(missing, string(rel))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sqlitestore: mapping has no table for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Store provides read-only scans over a SQLite address book.
type Store struct {
	db      *sql.DB
	path    string
	mapping Mapping
}

// Open opens the database at path read-only with the default mapping.
func Open(path string) (*Store, error) {
	return OpenMapped(path, DefaultMapping())
}

// OpenMapped opens the database at path read-only using m.
func OpenMapped(path string, m Mapping) (*Store, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	return open(path, dsn(path, true), m)
}

// Create opens or creates a writable database at path and initializes the
// schema. It exists for fixtures and tooling; the Store itself never writes.
func Create(path string) (*Store, error) {
	s, err := open(path, dsn(path, false), DefaultMapping())
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func open(path, source string, m Mapping) (*Store, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ping database: %w", err)
	}
	return &Store{db: db, path: path, mapping: m}, nil
}

// InitSchema creates the default tables if they do not exist.
func (s *Store) InitSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlitestore: execute schema.sql: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Driver returns the name of the database/sql driver in use.
func Driver() string {
	return driverName
}

// Scan implements contacts.Storage. An IN predicate with more ids than
// SQLite accepts is run as consecutive chunked queries.
func (s *Store) Scan(q contacts.Query, fn func(contacts.Row) error) error {
	t, ok := s.mapping[q.Relation]
	if !ok {
		return fmt.Errorf("sqlitestore: unknown relation %q", q.Relation)
	}

	in := -1
	for i, p := range q.Where {
		if p.Op != contacts.OpIn {
			continue
		}
		if in >= 0 {
			return fmt.Errorf("sqlitestore: %s: at most one IN predicate per scan", q.Relation)
		}
		in = i
	}
	if in < 0 || len(q.Where[in].Args) <= inChunkSize {
		return s.run(t, q, fn)
	}

	// Rowid tables return IN matches in key order; sorting before chunking
	// keeps that order across chunks.
	args := slices.Clone(q.Where[in].Args)
	slices.SortStableFunc(args, compareArgs)
	for i := 0; i < len(args); i += inChunkSize {
		end := min(i+inChunkSize, len(args))
		chunk := q
		chunk.Where = append([]contacts.Predicate(nil), q.Where...)
		chunk.Where[in].Args = args[i:end]
		if err := s.run(t, chunk, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) run(t Table, q contacts.Query, fn func(contacts.Row) error) error {
	query, args, err := buildSelect(t, q)
	if err != nil {
		return err
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return s.queryError(q.Relation, t, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(q.Columns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("sqlitestore: scan %s row: %w", q.Relation, err)
		}
		row := make(contacts.Row, len(values))
		for i, v := range values {
			row[i] = v.String
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return s.queryError(q.Relation, t, err)
	}
	return nil
}

func (s *Store) queryError(rel contacts.Relation, t Table, err error) error {
	if isSQLiteError(err, "no such table") {
		return fmt.Errorf("sqlitestore: %s: schema not initialized (%s): %w", rel, t.From, err)
	}
	return fmt.Errorf("sqlitestore: query %s: %w", rel, err)
}

// buildSelect renders q against t as a parameterized SELECT.
func buildSelect(t Table, q contacts.Query) (string, []any, error) {
	if len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("sqlitestore: %s: no columns requested", q.Relation)
	}

	expr := func(c contacts.Column) (string, error) {
		e, ok := t.Columns[c]
		if !ok {
			return "", fmt.Errorf("sqlitestore: relation %s has no column %s", q.Relation, c)
		}
		return e, nil
	}

	selects := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		e, err := expr(c)
		if err != nil {
			return "", nil, err
		}
		selects[i] = e
	}

	var where []string
	var args []any
	if t.Where != "" {
		where = append(where, "("+t.Where+")")
	}
	for _, p := range q.Where {
		e, err := expr(p.Column)
		if err != nil {
			return "", nil, err
		}
		switch p.Op {
		case contacts.OpEqual:
			if len(p.Args) != 1 {
				return "", nil, fmt.Errorf("sqlitestore: %s: equal needs one argument", p.Column)
			}
			where = append(where, e+" = ?")
			args = append(args, p.Args[0])
		case contacts.OpPrefix:
			if len(p.Args) != 1 {
				return "", nil, fmt.Errorf("sqlitestore: %s: prefix needs one argument", p.Column)
			}
			where = append(where, e+` LIKE ? ESCAPE '\'`)
			args = append(args, escapeLike(fmt.Sprint(p.Args[0]))+"%")
		case contacts.OpIn:
			if len(p.Args) == 0 {
				where = append(where, "0")
				continue
			}
			where = append(where, e+" IN ("+strings.TrimSuffix(strings.Repeat("?,", len(p.Args)), ",")+")")
			args = append(args, p.Args...)
		default:
			return "", nil, fmt.Errorf("sqlitestore: unsupported operator %q", p.Op)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selects, ", "))
	b.WriteString(" FROM ")
	b.WriteString(t.From)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if q.OrderBy != "" {
		e, err := expr(q.OrderBy)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(e)
	}
	return b.String(), args, nil
}

func compareArgs(a, b any) int {
	x, xok := a.(int64)
	y, yok := b.(int64)
	if xok && yok {
		return cmp.Compare(x, y)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// ErrNotSQLite is returned by CheckHeader when a file is not a SQLite database.
var ErrNotSQLite = errors.New("sqlitestore: not a sqlite database")

// CheckHeader reports whether path starts with the SQLite file header.
func CheckHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	header := make([]byte, 16)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: %s", ErrNotSQLite, path)
	}
	if string(header) != "SQLite format 3\x00" {
		return fmt.Errorf("%w: %s", ErrNotSQLite, path)
	}
	return nil
}
