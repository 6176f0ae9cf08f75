package modshelf

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/internal/version"
	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/core"
	"github.com/arthur-debert/modshelf/pkg/display"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/paths"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// app is the state shared by every command of one invocation. In a session
// it outlives the per-line command trees, so the manager and its undo
// history survive between lines.
type app struct {
	verbosity  int
	gameRoot   string
	configFile string
	dataDir    string
	format     string
	noColor    bool

	in  io.Reader
	out io.Writer
	fs  types.FS

	manager *core.Manager
	printer *display.Printer
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "modshelf",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			a.bind(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&a.gameRoot, "game", "g", "", MsgFlagGame)
	flags.StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	flags.StringVar(&a.dataDir, "data-dir", "", MsgFlagDataDir)
	flags.StringVarP(&a.format, "format", "f", string(display.FormatText), MsgFlagFormat)
	flags.BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	addCommands(rootCmd, a)
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// addCommands installs the groups, usage template and the commands that
// work on a catalog. Session lines get a tree built only from these.
func addCommands(root *cobra.Command, a *app) {
	root.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	root.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	root.SetUsageTemplate(MsgUsageTemplate)

	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newReconcileCmd(a))
	root.AddCommand(newToggleCmd(a, true))
	root.AddCommand(newToggleCmd(a, false))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newRenameCmd(a))
	root.AddCommand(newGroupCmd(a))
	root.AddCommand(newTagCmd(a))
	root.AddCommand(newLoadOrderCmd(a))
	root.AddCommand(newResolveCmd(a))
}

// bind picks up the command's streams unless a session already set them
func (a *app) bind(cmd *cobra.Command) {
	if a.out == nil {
		a.out = cmd.OutOrStdout()
	}
	if a.in == nil {
		a.in = cmd.InOrStdin()
	}
}

// setup loads the configuration and opens the install once per app
func (a *app) setup() (*core.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	format, err := display.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}

	overrides := map[string]interface{}{}
	if a.gameRoot != "" {
		overrides["game.root"] = a.gameRoot
	}
	if a.dataDir != "" {
		overrides["storage.dir"] = a.dataDir
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:     a.configFile,
		UserConfigFile: paths.UserConfigPath(),
		Overrides:      overrides,
	})
	if err != nil {
		return nil, err
	}

	p, err := paths.New(cfg.Game.Root, cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	if p.GameRoot() == "" {
		log.Warn().Msg("no game root configured, use --game or game.root")
	}

	printer, err := display.NewPrinter(a.out, format, a.noColor)
	if err != nil {
		return nil, err
	}

	if a.fs == nil {
		a.fs = filesystem.NewOS()
	}
	a.printer = printer
	a.manager = core.New(cfg, p, a.fs)
	log.Debug().Str("game", p.GameRoot()).Str("data", p.DataDir()).Msg("Manager ready")
	return a.manager, nil
}

// parseIDs resolves every argument to an entry id
func parseIDs(m *core.Manager, args []string) ([]types.EntryID, error) {
	ids := make([]types.EntryID, 0, len(args))
	for _, arg := range args {
		id, err := m.ParseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
