package core

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/loadorder"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/metadata"
	"github.com/arthur-debert/modshelf/pkg/paths"
	"github.com/arthur-debert/modshelf/pkg/reconcile"
	"github.com/arthur-debert/modshelf/pkg/registry"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/scan"
	"github.com/arthur-debert/modshelf/pkg/toggle"
	"github.com/arthur-debert/modshelf/pkg/types"
	"github.com/arthur-debert/modshelf/pkg/undo"
)

// Manager owns the state of one game install
type Manager struct {
	mu sync.Mutex

	fs       types.FS
	cfg      *config.Config
	paths    *paths.Paths
	resolver *resolver.Resolver
	layout   *layout.Layout
	store    *registry.Store
	rec      *reconcile.Reconciler
	engine   *toggle.Engine
	meta     *metadata.Store
	order    *loadorder.File
	stack    *undo.Stack
	target   *target
	logger   zerolog.Logger
}

// New creates a Manager for the install at p.GameRoot()
func New(cfg *config.Config, p *paths.Paths, fsys types.FS) *Manager {
	r := resolver.New(fsys)
	l := layout.New(p.GameRoot(), cfg, fsys, r)
	store := registry.NewStore(fsys, p.RegistryPath(), cfg.DefaultCategory)

	m := &Manager{
		fs:       fsys,
		cfg:      cfg,
		paths:    p,
		resolver: r,
		layout:   l,
		store:    store,
		rec:      reconcile.New(store, scan.New(fsys, l)),
		engine:   toggle.New(fsys, store, l),
		meta:     metadata.Open(fsys, p.MetadataPath()),
		order:    loadorder.New(fsys, l, cfg.LoadOrder),
		stack:    undo.NewStack(cfg.Undo.MaxActions),
		logger:   logging.GetLogger("core"),
	}
	m.target = &target{m: m}
	return m
}

// Paths returns the resolved modshelf locations
func (m *Manager) Paths() *paths.Paths {
	return m.paths
}

// Config returns the active configuration
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Categories lists configured categories, the default first
func (m *Manager) Categories() []string {
	return m.layout.Categories()
}

// ParseID parses an entry id, using the default category when none is given
func (m *Manager) ParseID(s string) (types.EntryID, error) {
	id, err := types.ParseEntryID(s, m.cfg.DefaultCategory)
	if err != nil {
		return types.EntryID{}, errors.Wrap(err, errors.ErrInvalidIdentity, "invalid entry id")
	}
	if _, err := m.layout.Category(id.Category); err != nil {
		return types.EntryID{}, err
	}
	return id, nil
}

// Reconcile syncs the catalog with the disk and reports the changes
func (m *Manager) Reconcile() (reconcile.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target.reconcile()
}

// ListEntries reconciles and returns the active and disabled entries
func (m *Manager) ListEntries() (active, disabled []types.ManagedEntry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return nil, nil, err
	}
	cat, _ := m.store.Load()
	active, disabled = cat.Split()
	return active, disabled, nil
}

// Entry reconciles and returns one entry
func (m *Manager) Entry(id types.EntryID) (types.ManagedEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return types.ManagedEntry{}, err
	}
	return m.lookup(id)
}

// Info returns the display data of an entry
func (m *Manager) Info(id types.EntryID) metadata.Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta.Get(id)
}

// Tree reconciles and groups every entry by its display group
func (m *Manager) Tree() ([]metadata.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.target.reconcile(); err != nil {
		return nil, err
	}
	cat, _ := m.store.Load()
	return metadata.BuildTree(cat.Entries, m.meta), nil
}

// Resolve runs the directory resolver against the game root
func (m *Manager) Resolve(p resolver.Pattern) (resolver.Result, error) {
	if err := p.Validate(); err != nil {
		return resolver.Result{}, errors.Wrap(err, errors.ErrInvalidInput, "invalid pattern")
	}
	if m.layout.GameRoot() == "" {
		return resolver.Result{}, errors.New(errors.ErrNotFound, "game root is not set")
	}
	return m.resolver.ResolveAll(m.layout.GameRoot(), p), nil
}

// Roots resolves the directories of a category
func (m *Manager) Roots(category string) (layout.Roots, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout.Roots(category)
}

// WatchDirs lists the existing entry roots of every installed category
func (m *Manager) WatchDirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var dirs []string
	for _, name := range m.layout.Categories() {
		roots, err := m.layout.Roots(name)
		if err != nil {
			continue
		}
		for _, dir := range []string{roots.Active, roots.Disabled} {
			if roots.NestedDisabled && dir == roots.Disabled {
				continue
			}
			if info, err := m.fs.Stat(dir); err == nil && info.IsDir() {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// lookup must be called with the lock held
func (m *Manager) lookup(id types.EntryID) (types.ManagedEntry, error) {
	cat, _ := m.store.Load()
	e, ok := cat.Get(id)
	if !ok {
		return types.ManagedEntry{}, errors.Newf(errors.ErrNotFound, "entry %s not found", id).
			WithDetail("id", id.String())
	}
	return e, nil
}
