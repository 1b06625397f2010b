// Package ui renders the taskflow terminal interface with Bubble Tea.
//
// The root Model keeps a copy of the item store's latest state.Snapshot and
// never mutates items itself: every create, edit, delete and refresh runs as
// a tea.Cmd that calls the corresponding Store operation. Snapshots published
// by Store.Subscribe arrive as messages, so the loading spinner and the error
// line in the header track the store while a request is in flight.
//
// Views: the item list, the detail of one item, a create/edit form that
// checks the API's field limits before submitting, and a diagnostics view that
// tails the client's own log file. Colors come from the Dracula and Slate
// themes; T cycles between them for the current session.
package ui
