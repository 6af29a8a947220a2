// Package addressbook is a lightweight index for the subpackages in this
// module.
//
// This root package is documentation-only. Import specific subpackages to use
// concrete helpers.
//
// Available subpackages:
//   - github.com/spachava753/addressbook/contacts
//     Filter resolution and contact aggregation over a read-only Storage.
//   - github.com/spachava753/addressbook/contacts/memstore
//     In-memory Storage for tests and file-backed sources.
//   - github.com/spachava753/addressbook/sqlitestore
//     SQLite Storage with pluggable table mappings.
//   - github.com/spachava753/addressbook/macos/addressbook
//     Read-only access to the macOS Contacts database.
//   - github.com/spachava753/addressbook/vcard
//     .vcf import into an in-memory Storage.
//   - github.com/spachava753/addressbook/dispatch
//     Cancellable waiting on blocking lookups.
//   - github.com/spachava753/addressbook/browser
//     Opening URLs in the default browser.
//
// The addressbook command (cmd/addressbook) wires these together as a CLI and
// a JSON HTTP server.
//
// Discovery workflow for agents:
//   - Run: go doc github.com/spachava753/addressbook
//   - Then drill in with:
//     go doc github.com/spachava753/addressbook/contacts
//     go doc github.com/spachava753/addressbook/sqlitestore
//     go doc github.com/spachava753/addressbook/macos/addressbook
package addressbook
