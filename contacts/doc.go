// Package contacts assembles address-book records into normalized contacts.
//
// The package exposes two primitives over a read-only Storage:
//
//   - Resolve: select contact ids whose value in one SearchField starts with a
//     term.
//   - Aggregate: hydrate ids (or the whole base relation) into ContactRecords
//     by joining the name, phone and email relations.
//
// and the request surface built from them:
//
//   - GetAll: Aggregate(All()).
//   - Find / FindByName: Resolve then Aggregate(Only(ids)).
//
// The intended composition model is:
//
//	resolve/select -> aggregate/hydrate
//
// # Storage Model
//
// Storage exposes a single scan primitive over four relations: the base
// contacts relation, structured names, phone numbers and email addresses, all
// keyed by contact id. The core issues read-only scans only. Implementations
// live in memstore (in memory), sqlitestore (SQLite files) and
// macos/addressbook (the macOS Contacts database).
//
// # Restrictions
//
// All() and Only(ids) are distinct on purpose. Only with no ids is an explicit
// "zero matches" and returns an empty collection without touching storage;
// it is never widened to the whole address book.
//
// # Errors
//
// An unknown search field fails with an *Error whose Code is
// ErrorCodeUnsupportedField; a failed scan fails the whole call with
// ErrorCodeStorageUnavailable wrapping the storage error. Contacts that vanish
// between Resolve and Aggregate are skipped, not reported. Use errors.Is with
// ErrUnsupportedField or ErrStorageUnavailable to classify.
//
// # Concurrency
//
// Calls are synchronous and run their scans sequentially. A Book has no
// mutable state, so concurrent calls are independent. There is no
// cancellation at this layer; see package dispatch for running calls off the
// caller's goroutine.
//
// # Composition Examples
//
// 1) Everyone in the address book:
//
//	book := contacts.New(store, logger)
//	all, err := book.GetAll()
//	if err != nil {
//		// handle
//	}
//
// 2) Contacts whose phone number starts with an area code:
//
//	ids, err := book.Resolve(contacts.FieldPhone, "+1415")
//	if err != nil {
//		// handle
//	}
//	matched, err := book.Aggregate(contacts.Only(ids))
//
// 3) A request arriving as strings:
//
//	found, err := book.FindByName("email", "jdoe@")
//	if errors.Is(err, contacts.ErrUnsupportedField) {
//		// reject the request
//	}
//
//nolint:revive // package comment documents API composition examples.
package contacts
