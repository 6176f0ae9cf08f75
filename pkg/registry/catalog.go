package registry

import (
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Catalog is the ordered set of managed entries. Insertion order is kept.
type Catalog struct {
	Entries []types.ManagedEntry
}

// NewCatalog returns an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{Entries: []types.ManagedEntry{}}
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Index returns the position of id, or -1
func (c *Catalog) Index(id types.EntryID) int {
	for i := range c.Entries {
		if c.Entries[i].ID() == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the entry with the given id
func (c *Catalog) Get(id types.EntryID) (types.ManagedEntry, bool) {
	i := c.Index(id)
	if i < 0 {
		return types.ManagedEntry{}, false
	}
	return c.Entries[i].Clone(), true
}

// Add appends an entry. Duplicate identities and file paths already owned
// by another entry are rejected.
func (c *Catalog) Add(e types.ManagedEntry) error {
	if c.Index(e.ID()) >= 0 {
		return errors.Newf(errors.ErrInvalidIdentity, "entry %s already exists", e.ID()).
			WithDetail("id", e.ID().String())
	}
	for _, f := range e.Files {
		if owner, ok := c.Owner(f); ok {
			return errors.Newf(errors.ErrInvalidIdentity, "file %s already belongs to %s", f, owner).
				WithDetail("file", f)
		}
	}
	c.Entries = append(c.Entries, e.Clone())
	return nil
}

// Replace overwrites the entry with the same identity, keeping its position
func (c *Catalog) Replace(e types.ManagedEntry) error {
	i := c.Index(e.ID())
	if i < 0 {
		return errors.Newf(errors.ErrNotFound, "entry %s not found", e.ID()).
			WithDetail("id", e.ID().String())
	}
	c.Entries[i] = e.Clone()
	return nil
}

// Remove drops the entry with the given id and reports whether it existed
func (c *Catalog) Remove(id types.EntryID) bool {
	i := c.Index(id)
	if i < 0 {
		return false
	}
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	return true
}

// Owner returns the id of the entry claiming path
func (c *Catalog) Owner(path string) (types.EntryID, bool) {
	for i := range c.Entries {
		for _, f := range c.Entries[i].Files {
			if f == path {
				return c.Entries[i].ID(), true
			}
		}
	}
	return types.EntryID{}, false
}

// Split returns copies of the active and disabled entries in catalog order
func (c *Catalog) Split() (active, disabled []types.ManagedEntry) {
	active = []types.ManagedEntry{}
	disabled = []types.ManagedEntry{}
	for _, e := range c.Entries {
		if e.Active {
			active = append(active, e.Clone())
		} else {
			disabled = append(disabled, e.Clone())
		}
	}
	return active, disabled
}
