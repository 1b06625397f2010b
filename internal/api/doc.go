// Package api provides the HTTP client for the item management API.
//
// # Overview
//
// Client is the only component that talks to the remote service. It applies a
// fixed base address and timeout, unwraps successful response bodies into Go
// values and normalizes every failure into a *TransportError.
//
// # Files
//
//   - client.go: construction options and the generic Send round trip
//   - items.go: the item endpoints (ItemService) and the health check
//   - error.go: TransportError and "detail" extraction from failure bodies
//   - metrics.go: optional prometheus collectors for outgoing requests
//   - types.go: Item and the create/update payloads
//
// # Usage
//
//	client, err := api.NewClient("http://localhost:8000/api",
//		api.WithLogger(logger),
//		api.WithTimeout(5*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//	items, err := client.ListItems(ctx)
//
// # Errors
//
// A response with status >= 400 yields a TransportError whose Message is the
// "detail" field of the body, or "request failed" when the body carries none.
// A list of validation errors is reduced to its "msg" entries.
// When no response arrives (refused connection, timeout, cancelled context)
// the Message is the text of the underlying error and Err holds the cause.
//
//	var terr *api.TransportError
//	if errors.As(err, &terr) && terr.NotFound() {
//		...
//	}
//
// There are no retries. A timeout surfaces like any other network failure.
//
// # Diagnostics
//
// Each request carries a fresh X-Request-ID. Requests, responses and failures
// are logged through zap at debug and warn level; logging never changes the
// outcome of a call.
package api
