package addressbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/sqlitestore"
)

const (
	addressBookRelativeDir = "Library/Application Support/AddressBook"
	databaseFileName       = "AddressBook-v22.abcddb"
)

// ErrUnsupportedPlatform is returned when the Contacts database cannot exist
// on the current OS.
var ErrUnsupportedPlatform = errors.New("addressbook: unsupported platform")

// ErrPermissionDenied is returned when the Contacts database exists but the
// process may not read it (on macOS, Full Disk Access is required).
var ErrPermissionDenied = errors.New("addressbook: permission denied")

// Source is one Contacts database on disk. macOS keeps a local database plus
// one per synced account under Sources/.
type Source struct {
	Path    string
	Account string
}

// personFilter selects person records; groups and containers have no name.
const personFilter = "ZFIRSTNAME IS NOT NULL OR ZLASTNAME IS NOT NULL OR ZORGANIZATION IS NOT NULL"

// Mapping maps the core relations onto the Core Data tables of
// AddressBook-v22.abcddb.
func Mapping() sqlitestore.Mapping {
	return sqlitestore.Mapping{
		contacts.RelationContacts: {
			From:  "ZABCDRECORD",
			Where: personFilter,
			Columns: map[contacts.Column]string{
				contacts.ColumnID: "Z_PK",
			},
		},
		contacts.RelationNames: {
			From:  "ZABCDRECORD",
			Where: personFilter,
			Columns: map[contacts.Column]string{
				contacts.ColumnContactID: "Z_PK",
				contacts.ColumnMimeType:  "'" + contacts.MimeStructuredName + "'",
				contacts.ColumnDisplayName: "COALESCE(NULLIF(TRIM(COALESCE(ZFIRSTNAME, '') || ' ' || " +
					"COALESCE(ZLASTNAME, '')), ''), ZORGANIZATION)",
				contacts.ColumnGivenName:  "ZFIRSTNAME",
				contacts.ColumnFamilyName: "ZLASTNAME",
			},
		},
		contacts.RelationPhones: {
			From: "ZABCDPHONENUMBER",
			Columns: map[contacts.Column]string{
				contacts.ColumnContactID:        "ZOWNER",
				contacts.ColumnNormalizedNumber: normalizedNumberExpr("ZFULLNUMBER"),
			},
		},
		contacts.RelationEmails: {
			From: "ZABCDEMAILADDRESS",
			Columns: map[contacts.Column]string{
				contacts.ColumnContactID: "ZOWNER",
				contacts.ColumnAddress:   "ZADDRESS",
			},
		},
	}
}

// normalizedNumberExpr strips the punctuation Contacts keeps in ZFULLNUMBER.
func normalizedNumberExpr(col string) string {
	expr := col
	for _, ch := range []string{" ", "-", "(", ")", ".", "\u00a0"} {
		expr = fmt.Sprintf("REPLACE(%s, '%s', '')", expr, ch)
	}
	return expr
}

// Open opens the Contacts database at path read-only.
func Open(path string) (*sqlitestore.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("addressbook: open %s: %w", path, err)
	}
	f.Close()

	if err := sqlitestore.CheckHeader(path); err != nil {
		return nil, fmt.Errorf("addressbook: %w", err)
	}
	return sqlitestore.OpenMapped(path, Mapping())
}

// Discover lists the Contacts databases of the current user, local database
// first.
func Discover() ([]Source, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("addressbook: home directory: %w", err)
	}
	return discover(filepath.Join(home, addressBookRelativeDir))
}

// DiscoverIn lists the Contacts databases under an AddressBook directory.
func DiscoverIn(root string) ([]Source, error) {
	return scanRoot(root)
}

func scanRoot(root string) ([]Source, error) {
	var sources []Source

	local := filepath.Join(root, databaseFileName)
	if _, err := os.Stat(local); err == nil {
		sources = append(sources, Source{Path: local})
	} else if errors.Is(err, fs.ErrPermission) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, root)
	}

	entries, err := os.ReadDir(filepath.Join(root, "Sources"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sources, nil
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, root)
	case err != nil:
		return nil, fmt.Errorf("addressbook: list sources: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, "Sources", entry.Name(), databaseFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		sources = append(sources, Source{Path: path, Account: entry.Name()})
	}
	return sources, nil
}
