// Package config loads and validates the shelfsort TOML configuration.
//
// Configuration resolution order: explicit --config flag, then
// ~/.config/shelfsort/config.toml, then a project-local shelfsort.toml.
// Missing files fall back to repository defaults, so shelfsort runs without
// any configuration when invoked inside the library directory.
package config
