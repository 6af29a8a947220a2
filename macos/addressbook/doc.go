// Package addressbook reads the macOS Contacts database as a contacts.Storage.
//
// Contacts.app keeps its data in Core Data SQLite files named
// AddressBook-v22.abcddb: one local database and one per synced account under
// Sources/. Mapping projects their ZABCDRECORD, ZABCDPHONENUMBER and
// ZABCDEMAILADDRESS tables onto the four relations the contacts package
// scans, so
//
//	store, err := addressbook.Open(path)
//	if err != nil {
//		// handle
//	}
//	defer store.Close()
//	all, err := contacts.New(store, logger).GetAll()
//
// works unchanged against a live address book.
//
// # Safety Model
//
// Databases are opened read-only. Nothing in this package writes to them.
//
// # Platform
//
// Discover only finds databases on Darwin; other platforms return
// ErrUnsupportedPlatform. Open works anywhere, which lets a copied database
// be inspected on another machine.
//
// # Authorization
//
// macOS guards the AddressBook directory behind Full Disk Access. When the
// process lacks it, Open and Discover return ErrPermissionDenied. Granting
// access is left to the user; the contacts package itself never checks
// permissions.
//
// # Known Limitation
//
// Contacts linked across accounts live in separate databases and are not
// merged: each database yields its own records.
package addressbook
