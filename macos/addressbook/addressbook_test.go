package addressbook

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/sqlitestore"
)

// coreDataFixture creates the subset of the AddressBook-v22 schema this
// package reads.
func coreDataFixture(t *testing.T, path string) {
	t.Helper()

	w, err := sqlitestore.Create(path)
	be.Err(t, err, nil)
	defer w.Close()

	_, err = w.DB().Exec(`
		CREATE TABLE ZABCDRECORD (
			Z_PK INTEGER PRIMARY KEY, Z_ENT INTEGER,
			ZFIRSTNAME VARCHAR, ZLASTNAME VARCHAR, ZORGANIZATION VARCHAR, ZNAME VARCHAR
		);
		CREATE TABLE ZABCDPHONENUMBER (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZFULLNUMBER VARCHAR);
		CREATE TABLE ZABCDEMAILADDRESS (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZADDRESS VARCHAR);

		INSERT INTO ZABCDRECORD (Z_PK, Z_ENT, ZFIRSTNAME, ZLASTNAME, ZORGANIZATION, ZNAME) VALUES
			(1, 22, NULL, NULL, NULL, 'Family'),
			(2, 19, 'Priya', 'Shah', NULL, NULL),
			(3, 19, NULL, NULL, 'Acme Clinic', NULL),
			(4, 19, 'Dana', NULL, NULL, NULL);
		INSERT INTO ZABCDPHONENUMBER (ZOWNER, ZFULLNUMBER) VALUES
			(2, '+1 (415) 555-0100'),
			(3, '415.555.0199'),
			(2, '+1 415 555 0100');
		INSERT INTO ZABCDEMAILADDRESS (ZOWNER, ZADDRESS) VALUES
			(2, 'priya@acme.example'),
			(3, 'front@acme.example');
	`)
	be.Err(t, err, nil)
}

func TestOpenMapsCoreDataTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), databaseFileName)
	coreDataFixture(t, path)

	store, err := Open(path)
	be.Err(t, err, nil)
	defer store.Close()
	book := contacts.New(store, nil)

	got, err := book.GetAll()
	be.Err(t, err, nil)
	want := contacts.Collection{Contacts: []contacts.ContactRecord{
		{FirstName: "Priya", LastName: "Shah", PhoneNumbers: []string{"+14155550100", "+14155550100"}, EmailAddresses: []string{"priya@acme.example"}},
		{FirstName: "", LastName: "", PhoneNumbers: []string{"4155550199"}, EmailAddresses: []string{"front@acme.example"}},
		{FirstName: "Dana", LastName: "", PhoneNumbers: []string{}, EmailAddresses: []string{}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}

	found, err := book.Find(contacts.FieldName, "Acme")
	be.Err(t, err, nil)
	be.Equal(t, found, contacts.Collection{Contacts: want.Contacts[1:2]})

	found, err = book.Find(contacts.FieldPhone, "+1415")
	be.Err(t, err, nil)
	be.Equal(t, found, contacts.Collection{Contacts: want.Contacts[:1]})
}

func TestOpenRejectsNonSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), databaseFileName)
	be.Err(t, os.WriteFile(path, []byte("definitely not sqlite"), 0o644), nil)

	_, err := Open(path)
	be.Err(t, err, sqlitestore.ErrNotSQLite)
}

func TestOpenUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	path := filepath.Join(t.TempDir(), databaseFileName)
	coreDataFixture(t, path)
	be.Err(t, os.Chmod(path, 0o000), nil)

	_, err := Open(path)
	be.Err(t, err, ErrPermissionDenied)
}

func TestDiscoverIn(t *testing.T) {
	root := t.TempDir()
	coreDataFixture(t, filepath.Join(root, databaseFileName))
	account := filepath.Join(root, "Sources", "4F1C-ACCOUNT")
	be.Err(t, os.MkdirAll(account, 0o755), nil)
	coreDataFixture(t, filepath.Join(account, databaseFileName))
	be.Err(t, os.MkdirAll(filepath.Join(root, "Sources", "empty"), 0o755), nil)

	sources, err := DiscoverIn(root)
	be.Err(t, err, nil)
	be.Equal(t, sources, []Source{
		{Path: filepath.Join(root, databaseFileName)},
		{Path: filepath.Join(account, databaseFileName), Account: "4F1C-ACCOUNT"},
	})

	sources, err = DiscoverIn(filepath.Join(root, "missing"))
	be.Err(t, err, nil)
	be.Equal(t, len(sources), 0)
}

func TestMappingIsComplete(t *testing.T) {
	be.Err(t, Mapping().Validate(), nil)

	db, err := sql.Open(sqlitestore.Driver(), ":memory:")
	be.Err(t, err, nil)
	defer db.Close()

	var got string
	be.Err(t, db.QueryRow("SELECT "+normalizedNumberExpr("?"), "+1 (415) 555-0100").Scan(&got), nil)
	be.Equal(t, got, "+14155550100")
}
