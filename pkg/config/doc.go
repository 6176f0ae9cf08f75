// Package config loads modshelf configuration.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file ($XDG_CONFIG_HOME/modshelf/config.toml or --config)
//  3. MODSHELF_* environment variables (MODSHELF_GAME_ROOT -> game.root)
//  4. explicit overrides from the command line
//
// A category describes one collection of toggleable entries: how to locate
// its active root inside the game install (a trailing suffix with an optional
// canonical layout, a named directory identified by marker files, or an
// explicit path), where its disabled root lives relative to the active
// root's parent, which extension marks a primary file, and which file names
// ship with the game and must never be managed.
package config
