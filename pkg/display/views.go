package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disiqueira/gotree/v3"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/metadata"
	"github.com/arthur-debert/modshelf/pkg/reconcile"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/types"
	"github.com/arthur-debert/modshelf/pkg/undo"
)

// EntryView is one entry as shown to the user
type EntryView struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Display       string     `json:"display,omitempty" yaml:"display,omitempty"`
	Category      string     `json:"category" yaml:"category"`
	Subfolder     string     `json:"subfolder,omitempty" yaml:"subfolder,omitempty"`
	Group         string     `json:"group,omitempty" yaml:"group,omitempty"`
	Active        bool       `json:"active" yaml:"active"`
	Files         []string   `json:"files" yaml:"files"`
	InstalledDate *time.Time `json:"installed_date,omitempty" yaml:"installed_date,omitempty"`
}

// Label is the display name, or the file name when none is set
func (e EntryView) Label() string {
	if e.Display != "" {
		return e.Display
	}
	return e.Name
}

// NewEntryView combines an entry with its display data
func NewEntryView(e types.ManagedEntry, info metadata.Info) EntryView {
	return EntryView{
		ID:            e.ID().String(),
		Name:          e.Name,
		Display:       info.Display,
		Category:      e.Category,
		Subfolder:     e.Subfolder,
		Group:         info.Group,
		Active:        e.Active,
		Files:         append([]string{}, e.Files...),
		InstalledDate: e.InstalledDate,
	}
}

// InfoFunc looks up display data by id
type InfoFunc func(types.EntryID) metadata.Info

// CategoryView lists the entries of one category
type CategoryView struct {
	Name     string      `json:"name" yaml:"name"`
	Missing  bool        `json:"missing,omitempty" yaml:"missing,omitempty"`
	Active   []EntryView `json:"active" yaml:"active"`
	Disabled []EntryView `json:"disabled" yaml:"disabled"`
}

// Count is the number of entries in the category
func (c CategoryView) Count() int {
	return len(c.Active) + len(c.Disabled)
}

// ListView is the result of the list command
type ListView struct {
	Categories []CategoryView `json:"categories" yaml:"categories"`
}

func (ListView) TemplateName() string { return "list" }

// NewListView groups entries by category in the given category order.
// Categories named in missing are flagged as not installed.
func NewListView(categories []string, active, disabled []types.ManagedEntry, missing []string, info InfoFunc) ListView {
	index := make(map[string]*CategoryView, len(categories))
	view := ListView{Categories: make([]CategoryView, len(categories))}
	for i, name := range categories {
		view.Categories[i] = CategoryView{Name: name, Active: []EntryView{}, Disabled: []EntryView{}}
		index[name] = &view.Categories[i]
	}
	for _, name := range missing {
		if c, ok := index[name]; ok {
			c.Missing = true
		}
	}

	add := func(e types.ManagedEntry) {
		c, ok := index[e.Category]
		if !ok {
			return
		}
		v := NewEntryView(e, info(e.ID()))
		if e.Active {
			c.Active = append(c.Active, v)
		} else {
			c.Disabled = append(c.Disabled, v)
		}
	}
	for _, e := range active {
		add(e)
	}
	for _, e := range disabled {
		add(e)
	}
	return view
}

// TreeNodeView is a group or a leaf of the display tree
type TreeNodeView struct {
	Name     string         `json:"name" yaml:"name"`
	Path     string         `json:"path,omitempty" yaml:"path,omitempty"`
	Children []TreeNodeView `json:"children,omitempty" yaml:"children,omitempty"`
	Entry    *EntryView     `json:"entry,omitempty" yaml:"entry,omitempty"`
}

// TreeView is the result of list --tree
type TreeView struct {
	Nodes []TreeNodeView `json:"nodes" yaml:"nodes"`
}

func (TreeView) TemplateName() string { return "tree" }

// NewTreeView converts a metadata tree
func NewTreeView(nodes []metadata.Node, info InfoFunc) TreeView {
	return TreeView{Nodes: convertNodes(nodes, info)}
}

func convertNodes(nodes []metadata.Node, info InfoFunc) []TreeNodeView {
	out := make([]TreeNodeView, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *metadata.Group:
			out = append(out, TreeNodeView{Name: n.Name, Path: n.Path, Children: convertNodes(n.Children, info)})
		case *metadata.Leaf:
			v := NewEntryView(n.Entry, info(n.Entry.ID()))
			out = append(out, TreeNodeView{Name: n.Display, Entry: &v})
		}
	}
	return out
}

// Text draws the tree with box-drawing branches under an "Entries" root.
// Labels carry style tags for the renderer.
func (t TreeView) Text() string {
	root := gotree.New("<Header>Entries</Header>")
	addTreeNodes(root, t.Nodes)
	return root.Print()
}

func addTreeNodes(parent gotree.Tree, nodes []TreeNodeView) {
	for _, n := range nodes {
		if n.Entry == nil {
			group := parent.Add(fmt.Sprintf("<Group>%s</Group> <Muted>(%d)</Muted>", n.Name, countLeaves(n)))
			addTreeNodes(group, n.Children)
			continue
		}
		state := "<Disabled>off</Disabled>"
		if n.Entry.Active {
			state = "<Active>on </Active>"
		}
		parent.Add(fmt.Sprintf("%s %s <EntryID>%s</EntryID>", state, n.Name, n.Entry.ID))
	}
}

func countLeaves(n TreeNodeView) int {
	if n.Entry != nil {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += countLeaves(c)
	}
	return total
}

// ReportView is the result of a reconcile pass
type ReportView struct {
	Added      []string `json:"added" yaml:"added"`
	Updated    []string `json:"updated" yaml:"updated"`
	Removed    []string `json:"removed" yaml:"removed"`
	Duplicates []string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Missing    []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func (ReportView) TemplateName() string { return "reconcile" }

// Changed reports whether the catalog was modified
func (r ReportView) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed) > 0
}

// NewReportView converts a reconcile report
func NewReportView(r reconcile.Report) ReportView {
	return ReportView{
		Added:      ids(r.Added),
		Updated:    ids(r.Updated),
		Removed:    ids(r.Removed),
		Duplicates: ids(r.Duplicates),
		Missing:    append([]string{}, r.Missing...),
	}
}

func ids(in []types.EntryID) []string {
	out := make([]string, len(in))
	for i, id := range in {
		out[i] = id.String()
	}
	return out
}

// HistoryItemView is one recorded action
type HistoryItemView struct {
	Description string    `json:"description" yaml:"description"`
	At          time.Time `json:"at" yaml:"at"`
	Applied     bool      `json:"applied" yaml:"applied"`
	Current     bool      `json:"current,omitempty" yaml:"current,omitempty"`
}

// HistoryView is the undo history, oldest first
type HistoryView struct {
	Items []HistoryItemView `json:"items" yaml:"items"`
}

func (HistoryView) TemplateName() string { return "history" }

// NewHistoryView marks the last applied item as current
func NewHistoryView(items []undo.HistoryItem) HistoryView {
	view := HistoryView{Items: make([]HistoryItemView, len(items))}
	last := -1
	for i, it := range items {
		view.Items[i] = HistoryItemView{Description: it.Description, At: it.At, Applied: it.Applied}
		if it.Applied {
			last = i
		}
	}
	if last >= 0 {
		view.Items[last].Current = true
	}
	return view
}

// CandidateView is one directory matching a resolver pattern
type CandidateView struct {
	Path      string `json:"path" yaml:"path"`
	Depth     int    `json:"depth" yaml:"depth"`
	Canonical bool   `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Best      bool   `json:"best,omitempty" yaml:"best,omitempty"`
}

// ResolveView is the result of the resolve command
type ResolveView struct {
	Pattern    string          `json:"pattern" yaml:"pattern"`
	Best       string          `json:"best,omitempty" yaml:"best,omitempty"`
	Candidates []CandidateView `json:"candidates" yaml:"candidates"`
	Skipped    []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

func (ResolveView) TemplateName() string { return "resolve" }

// NewResolveView converts a resolver result
func NewResolveView(p resolver.Pattern, r resolver.Result) ResolveView {
	view := ResolveView{Pattern: p.String(), Candidates: []CandidateView{}}
	if r.Found() {
		view.Best = r.Best
	}
	for _, c := range r.Candidates {
		view.Candidates = append(view.Candidates, CandidateView{
			Path:      c.Path,
			Depth:     c.Depth,
			Canonical: c.Canonical,
			Best:      c.Path == r.Best,
		})
	}
	for _, s := range r.Skipped {
		view.Skipped = append(view.Skipped, s.Path)
	}
	return view
}

// LoadOrderView shows the plugin order and the plugins not listed in it
type LoadOrderView struct {
	Order    []string `json:"order" yaml:"order"`
	Missing  []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Unlisted []string `json:"unlisted,omitempty" yaml:"unlisted,omitempty"`
}

func (LoadOrderView) TemplateName() string { return "loadorder" }

// NewLoadOrderView computes which available plugins are not in order
func NewLoadOrderView(order, available, missing []string) LoadOrderView {
	listed := make(map[string]bool, len(order))
	for _, p := range order {
		listed[strings.ToLower(p)] = true
	}
	view := LoadOrderView{Order: append([]string{}, order...), Missing: missing}
	for _, p := range available {
		if !listed[strings.ToLower(p)] {
			view.Unlisted = append(view.Unlisted, p)
		}
	}
	sort.Strings(view.Unlisted)
	return view
}

// MessageView wraps a confirmation for structured output
type MessageView struct {
	Message string `json:"message" yaml:"message"`
}

func (MessageView) TemplateName() string { return "message" }

// ErrorView is an error in structured output
type ErrorView struct {
	Code    string                 `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

func (ErrorView) TemplateName() string { return "error" }

// NewErrorView extracts code and details from err
func NewErrorView(err error) ErrorView {
	return ErrorView{
		Code:    string(errors.GetErrorCode(err)),
		Message: err.Error(),
		Details: errors.GetErrorDetails(err),
	}
}

// EntryDetailView shows one entry in full
type EntryDetailView struct {
	EntryView `yaml:",inline"`
	Flags     map[string]string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

func (EntryDetailView) TemplateName() string { return "entry" }

// NewEntryDetailView combines an entry with its display data
func NewEntryDetailView(e types.ManagedEntry, info metadata.Info) EntryDetailView {
	flags := make(map[string]string, len(e.Flags)+len(info.Flags))
	for k, v := range e.Flags {
		flags[k] = v
	}
	for k, v := range info.Flags {
		flags[k] = v
	}
	if len(flags) == 0 {
		flags = nil
	}
	return EntryDetailView{EntryView: NewEntryView(e, info), Flags: flags}
}
