// Package state provides the item store shared by the views.
//
// # Overview
//
// Store holds the in-memory item collection together with a loading flag and
// the failure message of the last operation. It is the only writer of that
// state; views call its operations and read snapshots.
//
// # Operations
//
// Each operation performs exactly one round trip through api.ItemService:
//
//	FetchAll  GET    /items       replace the collection, server order
//	GetByID   GET    /items/{id}  collection untouched
//	Create    POST   /items       append the server's item
//	Update    PUT    /items/{id}  replace the cached entry in place
//	Delete    DELETE /items/{id}  drop every entry with that id
//
// Every operation follows the same shape:
//
//	start:   Loading = true, Err = ""
//	call:    one ItemService request (no state changes while it runs)
//	success: apply the collection change
//	failure: Err = the fixed message for the operation kind
//	end:     Loading = false
//
// # Errors
//
// A failed operation returns an error wrapping both the kind sentinel and the
// transport error:
//
//	_, err := store.Create(ctx, dto)
//	errors.Is(err, state.ErrCreateFailed) // true
//	var terr *api.TransportError
//	errors.As(err, &terr)                 // true when the transport failed
//
// Snapshot.Err never contains transport details. The text comes from the
// Messages catalog chosen at construction (EnglishMessages by default).
//
// # Concurrency Model
//
// Two locks are used:
//
//   - op serializes operations, so at most one request per Store is in
//     flight and results apply in invocation order
//   - mu guards the snapshot, so readers see Loading = true while a request
//     is outstanding
//
// # Notifications
//
// Subscribe returns a channel carrying the newest snapshot after each state
// transition. The channel has room for one value and an unread snapshot is
// replaced, so a slow view never blocks the store.
//
//	updates, stop := store.Subscribe()
//	defer stop()
//	for snap := range updates {
//		render(snap)
//	}
package state
