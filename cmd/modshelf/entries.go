package modshelf

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/pkg/core"
	"github.com/arthur-debert/modshelf/pkg/display"
)

func newListCmd(a *app) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}

			if tree {
				nodes, err := m.Tree()
				if err != nil {
					return err
				}
				return a.printer.Print(display.NewTreeView(nodes, m.Info))
			}

			report, err := m.Reconcile()
			if err != nil {
				return err
			}
			active, disabled, err := m.ListEntries()
			if err != nil {
				return err
			}
			return a.printer.Print(display.NewListView(m.Categories(), active, disabled, report.Missing, m.Info))
		},
	}

	cmd.Flags().BoolVarP(&tree, "tree", "t", false, MsgFlagTree)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <entry>",
		Short:   MsgShowShort,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			id, err := m.ParseID(args[0])
			if err != nil {
				return err
			}
			e, err := m.Entry(id)
			if err != nil {
				return err
			}
			return a.printer.Print(display.NewEntryDetailView(e, m.Info(id)))
		},
	}
}

func newReconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "reconcile",
		Aliases: []string{"sync"},
		Short:   MsgReconcileShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			report, err := m.Reconcile()
			if err != nil {
				return err
			}
			return a.printer.Print(display.NewReportView(report))
		},
	}
}

// newToggleCmd builds enable (active) or disable (!active). Several ids
// are moved as one undoable change.
func newToggleCmd(a *app, active bool) *cobra.Command {
	use, short, one, many := "disable", MsgDisableShort, MsgDisabled, MsgDisabledMany
	if active {
		use, short, one, many = "enable", MsgEnableShort, MsgEnabled, MsgEnabledMany
	}

	return &cobra.Command{
		Use:     use + " <entry>...",
		Short:   short,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			ids, err := parseIDs(m, args)
			if err != nil {
				return err
			}

			if len(ids) == 1 {
				if err := m.Toggle(ids[0], active); err != nil {
					return err
				}
				return a.printer.Message("Success", fmt.Sprintf(one, ids[0].Name))
			}

			reqs := make([]core.ToggleRequest, len(ids))
			for i, id := range ids {
				reqs[i] = core.ToggleRequest{ID: id, Active: active}
			}
			if err := m.ToggleMany(reqs); err != nil {
				return err
			}
			return a.printer.Message("Success", fmt.Sprintf(many, len(ids)))
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var category, subfolder string

	cmd := &cobra.Command{
		Use:     "add <file>",
		Aliases: []string{"install"},
		Short:   MsgAddShort,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			e, err := m.AddEntry(category, args[0], subfolder)
			if err != nil {
				return err
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgAdded, e.ID()))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", MsgFlagCategory)
	cmd.Flags().StringVarP(&subfolder, "subfolder", "s", "", MsgFlagSubfolder)
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <entry>",
		Aliases: []string{"rm"},
		Short:   MsgRemoveShort,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			id, err := m.ParseID(args[0])
			if err != nil {
				return err
			}
			undoable, err := m.RemoveEntry(id)
			if err != nil {
				return err
			}
			if !undoable {
				return a.printer.Message("Warning", fmt.Sprintf(MsgRemovedNoUndo, id.Name))
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgRemoved, id.Name))
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <entry> <name>",
		Short:   MsgRenameShort,
		Long:    MsgRenameShort + `. An empty name ("") clears it.`,
		Args:    cobra.ExactArgs(2),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			id, err := m.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := m.Rename(id, args[1]); err != nil {
				return err
			}
			name := m.Info(id).Display
			if name == "" {
				return a.printer.Message("Success", fmt.Sprintf(MsgRenameCleared, id.Name))
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgRenamed, id.Name, name))
		},
	}
}

func newGroupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "group <entry> [group]",
		Short:   MsgGroupShort,
		Long:    MsgGroupShort + ". Nested groups use slashes (Armor/Heavy); no group ungroups the entry.",
		Args:    cobra.RangeArgs(1, 2),
		GroupID: "core",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 1 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			m, err := a.setup()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return m.Groups(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			id, err := m.ParseID(args[0])
			if err != nil {
				return err
			}
			group := ""
			if len(args) == 2 {
				group = args[1]
			}
			if err := m.SetGroup(id, group); err != nil {
				return err
			}
			if g := m.Info(id).Group; g != "" {
				return a.printer.Message("Success", fmt.Sprintf(MsgGrouped, id.Name, g))
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgUngrouped, id.Name))
		},
	}
}

func newTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tag <entry> <name> [value]",
		Short:   MsgTagShort,
		Long:    MsgTagShort + ". Tags show up in 'show'; no value clears the tag.",
		Args:    cobra.RangeArgs(2, 3),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			id, err := m.ParseID(args[0])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 3 {
				value = args[2]
			}
			if err := m.SetTag(id, args[1], value); err != nil {
				return err
			}
			if value == "" {
				return a.printer.Message("Success", fmt.Sprintf(MsgUntagged, args[1], id.Name))
			}
			return a.printer.Message("Success", fmt.Sprintf(MsgTagged, args[1], id.Name))
		},
	}
}
