package modshelf

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/pkg/core"
	"github.com/arthur-debert/modshelf/pkg/display"
)

func newLoadOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load-order",
		Aliases: []string{"plugins"},
		Short:   MsgLoadOrderShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			return printLoadOrder(a, m)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <plugin>...",
		Short: "Replace the load order with the given plugins, in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			if err := m.SetLoadOrder(args); err != nil {
				return err
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgLoadOrderSaved, len(args)))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "available",
		Short: "List plugin files present in the plugin directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			available, err := m.AvailablePlugins()
			if err != nil {
				return err
			}
			return a.printer.Print(display.NewLoadOrderView(available, nil, nil))
		},
	})

	return cmd
}

func printLoadOrder(a *app, m *core.Manager) error {
	order, err := m.LoadOrder()
	if err != nil {
		return err
	}
	available, err := m.AvailablePlugins()
	if err != nil {
		return err
	}
	missing, err := m.MissingPlugins(order)
	if err != nil {
		return err
	}
	return a.printer.Print(display.NewLoadOrderView(order, available, missing))
}
