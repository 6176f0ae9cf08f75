package metadata

import (
	"sort"
	"strings"

	"github.com/arthur-debert/modshelf/pkg/types"
)

// Ungrouped is the group holding entries without a group path
const Ungrouped = "Ungrouped"

// Node is either a *Group or a *Leaf
type Node interface {
	Label() string
	isNode()
}

// Group is a named branch. Path is the full slash-separated group path.
type Group struct {
	Name     string
	Path     string
	Children []Node
}

// Leaf wraps one entry
type Leaf struct {
	Entry   types.ManagedEntry
	Display string
}

func (g *Group) Label() string { return g.Name }
func (l *Leaf) Label() string  { return l.Display }

func (*Group) isNode() {}
func (*Leaf) isNode()  {}

// Leaves counts the leaves under g at any depth
func (g *Group) Leaves() int {
	n := 0
	for _, c := range g.Children {
		switch c := c.(type) {
		case *Group:
			n += c.Leaves()
		case *Leaf:
			n++
		}
	}
	return n
}

// BuildTree nests entries under their group paths. Entries without a group
// go under Ungrouped. Within each level groups come before leaves; groups
// sort by name and leaves by display name, case-insensitively.
func BuildTree(entries []types.ManagedEntry, store *Store) []Node {
	root := &Group{}
	index := map[string]*Group{"": root}

	for _, e := range entries {
		info := store.Get(e.ID())
		chain := info.Group
		if chain == "" {
			chain = Ungrouped
		}

		parent := root
		var path []string
		for _, name := range strings.Split(chain, "/") {
			path = append(path, name)
			key := strings.Join(path, "/")
			g, ok := index[key]
			if !ok {
				g = &Group{Name: name, Path: key}
				parent.Children = append(parent.Children, g)
				index[key] = g
			}
			parent = g
		}
		parent.Children = append(parent.Children, &Leaf{Entry: e, Display: store.DisplayName(e)})
	}

	sortNodes(root.Children)
	return root.Children
}

func sortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		_, iGroup := nodes[i].(*Group)
		_, jGroup := nodes[j].(*Group)
		if iGroup != jGroup {
			return iGroup
		}
		li, lj := strings.ToLower(nodes[i].Label()), strings.ToLower(nodes[j].Label())
		if li != lj {
			return li < lj
		}
		if !iGroup {
			return nodes[i].(*Leaf).Entry.ID().String() < nodes[j].(*Leaf).Entry.ID().String()
		}
		return false
	})
	for _, n := range nodes {
		if g, ok := n.(*Group); ok {
			sortNodes(g.Children)
		}
	}
}
