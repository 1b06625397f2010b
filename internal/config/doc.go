// Package config loads taskflow's TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/taskflow/config.toml
//  3. If the file doesn't exist, use Default()
//  4. Blank fields in an existing file fall back to their defaults
//
// # TOML Format
//
//	api_base_url = "http://localhost:8000/api"
//	timeout = "5s"
//	log_file = "~/.local/state/taskflow/taskflow.log"
//	log_level = "info"        # debug, info, warn, error
//	locale = "en"             # en or zh, selects failure messages
//	metrics_addr = ""         # e.g. "127.0.0.1:9100" to serve /metrics
//	theme = "Dracula"
//
// All fields are optional. Tilde expansion is applied to log_file.
//
// # Errors
//
// Load returns errors for unreadable files, invalid TOML and timeouts that do
// not parse as a positive duration. A missing file is not an error.
package config
