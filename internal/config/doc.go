// Package config handles loading and parsing Hitch connection settings.
//
// # Overview
//
// This package reads Hitch's TOML configuration to discover where the
// Corral backend lives and which endpoints serve job partials and saves.
// The file is tiny on purpose: Hitch needs a host and two paths, nothing
// else.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/hitch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/hitch/config.toml
//   - Backend: 127.0.0.1:8053
//   - Edit partial path: /jobs/edit
//   - Save path: /jobs/save
//
// # TOML Format
//
// Example hitch config.toml:
//
//	base_url = "127.0.0.1:8053"
//	partial_path = "/jobs/edit"
//	save_path = "/jobs/save"
//
// All fields are optional. Tilde expansion is performed on the config
// path automatically.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
// This allows Hitch to work out-of-the-box against a local Corral.
//
// # Design Philosophy
//
// This package follows the principle of sensible defaults. The config
// package is read-only and stateless - it loads configuration once at
// startup and returns an immutable Config struct. No global state or
// singleton patterns are used.
package config
