// Package paths provides centralized path handling for modshelf.
//
// It implements the XDG Base Directory layout for modshelf's own files and
// normalizes the game install root handed in by the user.
//
// # Environment Variables
//
//   - MODSHELF_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/modshelf)
//   - MODSHELF_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/modshelf)
//
// # Layout
//
//   - Data: registry.json (the catalog) and metadata.json
//   - Config: config.toml
//   - State: modshelf.log
package paths
