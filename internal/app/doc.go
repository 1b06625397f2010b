// Package app is the composition root for taskflow.
//
// # Start-up
//
// Run performs these steps in order:
//
//  1. Load ~/.config/taskflow/config.toml (or the -config override)
//  2. Open the JSON diagnostics log with diaglog.New
//  3. Register transport metrics on a private Prometheus registry and build
//     the api.Client with the configured timeout
//  4. Create the state.Store with the messages for the configured locale
//  5. Serve /metrics when metrics_addr is set
//  6. Call GET /health and log the outcome
//  7. Start the optional refresher, load the item list, then hand the store
//     to ui.Run, which blocks until the user quits or ctx is cancelled
//
// # Components
//
//   - app.go: Run, wiring, and the health check
//   - refresher.go: optional background reload with exponential backoff
//   - metrics.go: the /metrics listener
//
// # Errors
//
// Configuration, logger, metrics-listener and client construction failures
// are returned from Run. An unreachable API is not fatal: the health check
// logs a warning and the failed initial load shows up in the UI header like
// any other store error.
package app
