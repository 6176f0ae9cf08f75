package modshelf

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/pkg/display"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}

			sync := func() error {
				report, err := m.Reconcile()
				if err != nil {
					return err
				}
				if !report.Changed() && len(report.Duplicates) == 0 {
					return nil
				}
				return a.printer.Print(display.NewReportView(report))
			}
			if err := sync(); err != nil {
				return err
			}

			dirs := m.WatchDirs()
			if len(dirs) == 0 {
				return errors.New(errors.ErrNotFound, MsgErrNothingToWatch)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watch.New(dirs, debounce).Run(ctx, sync)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, MsgFlagDebounce)
	return cmd
}
