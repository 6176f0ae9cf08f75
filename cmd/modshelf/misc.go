package modshelf

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/internal/version"
	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/display"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/paths"
	"github.com/arthur-debert/modshelf/pkg/resolver"
)

func newResolveCmd(a *app) *cobra.Command {
	var p resolver.Pattern

	cmd := &cobra.Command{
		Use:     "resolve [suffix]",
		Short:   MsgResolveShort,
		Example: "  modshelf resolve Content/Paks/~mods --canonical OblivionRemastered/Content/Paks/~mods\n  modshelf resolve --marker-dir Data --markers '*.esm'",
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				p.Suffix = args[0]
			}
			if p.Suffix == "" && p.MarkerDir == "" {
				return errors.New(errors.ErrInvalidInput, MsgErrNeedPattern)
			}
			m, err := a.setup()
			if err != nil {
				return err
			}
			res, err := m.Resolve(p)
			if err != nil {
				return err
			}
			return a.printer.Print(display.NewResolveView(p, res))
		},
	}

	cmd.Flags().StringVar(&p.Canonical, "canonical", "", MsgFlagCanonical)
	cmd.Flags().StringVar(&p.MarkerDir, "marker-dir", "", MsgFlagMarkerDir)
	cmd.Flags().StringSliceVar(&p.Markers, "markers", nil, MsgFlagMarkers)
	return cmd
}

func newGenConfigCmd() *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to generate config")
			}
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := paths.UserConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrConflict, MsgErrConfigExists, path)
			}
			if err := filesystem.WriteAtomic(filesystem.NewOS(), path, []byte(content)); err != nil {
				return errors.Wrapf(err, errors.ErrIOFailure, "failed to write %s", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
