package modshelf

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Enable, disable and organise game mods"
	MsgListShort       = "List managed entries by category"
	MsgShowShort       = "Show one entry in full"
	MsgReconcileShort  = "Sync the catalog with the files on disk"
	MsgEnableShort     = "Move entries to their active folder"
	MsgDisableShort    = "Move entries to their disabled folder"
	MsgAddShort        = "Copy a mod file and its sidecars into a category"
	MsgRemoveShort     = "Delete an entry's files"
	MsgRenameShort     = "Set the display name of an entry"
	MsgGroupShort      = "Put an entry in a display group"
	MsgTagShort        = "Set or clear a note on an entry"
	MsgResolveShort    = "Show which directories match a folder pattern"
	MsgLoadOrderShort  = "Show or change the plugin load order"
	MsgSessionShort    = "Run commands interactively with undo and redo"
	MsgWatchShort      = "Keep the catalog in sync while mod folders change"
	MsgGenConfigShort  = "Print a commented default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Confirmations
	MsgEnabled        = "Enabled %s"
	MsgDisabled       = "Disabled %s"
	MsgEnabledMany    = "Enabled %d entries"
	MsgDisabledMany   = "Disabled %d entries"
	MsgAdded          = "Added %s"
	MsgRemoved        = "Removed %s"
	MsgRemovedNoUndo  = "Removed %s (too large to undo)"
	MsgRenamed        = "Renamed %s to %q"
	MsgRenameCleared  = "Cleared the display name of %s"
	MsgGrouped        = "Moved %s to group %s"
	MsgTagged         = "Set %s on %s"
	MsgUntagged       = "Cleared %s on %s"
	MsgUngrouped      = "Removed %s from its group"
	MsgLoadOrderSaved = "Saved load order (%d plugins)"
	MsgConfigWritten  = "Wrote %s"
	MsgHistoryCleared = "History cleared"
	MsgUndone         = "Undid: %s"
	MsgRedone         = "Redid: %s"

	// Errors
	MsgErrNoCommand      = "no command specified"
	MsgErrNeedPattern    = "give a suffix or --marker-dir"
	MsgErrConfigExists   = "%s already exists, use --force to overwrite"
	MsgErrNothingToWatch = "no category folders found to watch"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagGame      = "Game install root (overrides game.root)"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/modshelf/config.toml)"
	MsgFlagDataDir   = "Directory holding the catalog (overrides storage.dir)"
	MsgFlagFormat    = "Output format: text, json or yaml"
	MsgFlagNoColor   = "Disable colored output"
	MsgFlagTree      = "Show entries nested by display group"
	MsgFlagSubfolder = "Subfolder of the category root to install into"
	MsgFlagCategory  = "Category to install into (default: the default category)"
	MsgFlagCanonical = "Preferred path for the pattern, relative to the game root"
	MsgFlagMarkerDir = "Match directories with this name instead of a suffix"
	MsgFlagMarkers   = "Globs a --marker-dir directory must contain one of"
	MsgFlagWrite     = "Write to the user config file instead of stdout"
	MsgFlagForce     = "Overwrite an existing file"
	MsgFlagDebounce  = "Quiet period before reconciling after a change"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/session-long.txt
	msgSessionLongRaw string
	MsgSessionLong    = strings.TrimSpace(msgSessionLongRaw)
)
