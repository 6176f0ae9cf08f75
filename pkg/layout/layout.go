// Package layout maps categories to their active and disabled roots inside
// a game install.
package layout

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Roots are the two locations of one category
type Roots struct {
	Category string `json:"category"`
	Active   string `json:"active"`
	Disabled string `json:"disabled"`
	// NestedDisabled is set when Disabled lies inside Active; scans of the
	// active root must skip it
	NestedDisabled bool `json:"nested_disabled,omitempty"`
}

// For returns the root holding entries in the given state
func (r Roots) For(active bool) string {
	if active {
		return r.Active
	}
	return r.Disabled
}

// Layout resolves and caches category roots for one game install.
type Layout struct {
	gameRoot string
	cfg      *config.Config
	fs       types.FS
	resolver *resolver.Resolver
	logger   zerolog.Logger

	mu    sync.Mutex
	cache map[string]Roots
}

// New creates a Layout for gameRoot
func New(gameRoot string, cfg *config.Config, fsys types.FS, r *resolver.Resolver) *Layout {
	return &Layout{
		gameRoot: gameRoot,
		cfg:      cfg,
		fs:       fsys,
		resolver: r,
		logger:   logging.GetLogger("layout"),
		cache:    make(map[string]Roots),
	}
}

// GameRoot returns the install root
func (l *Layout) GameRoot() string {
	return l.gameRoot
}

// Categories lists configured categories, the default first
func (l *Layout) Categories() []string {
	return l.cfg.CategoryNames()
}

// DefaultCategory is used for ids without a category prefix
func (l *Layout) DefaultCategory() string {
	return l.cfg.DefaultCategory
}

// Category returns the configuration of a category
func (l *Layout) Category(name string) (config.Category, error) {
	cat, ok := l.cfg.Categories[name]
	if !ok {
		return config.Category{}, errors.Newf(errors.ErrInvalidInput, "unknown category %q", name).
			WithDetail("category", name)
	}
	return cat, nil
}

// PatternFor builds the resolver pattern of a category
func PatternFor(cat config.Category) resolver.Pattern {
	return resolver.Pattern{
		Suffix:    cat.Suffix,
		Canonical: cat.Canonical,
		MarkerDir: cat.MarkerDir,
		Markers:   cat.Markers,
	}
}

// Roots returns the active and disabled roots of a category. The result is
// cached while the active root keeps existing. NOT_FOUND means the category
// is not present in this install.
func (l *Layout) Roots(category string) (Roots, error) {
	cat, err := l.Category(category)
	if err != nil {
		return Roots{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[category]; ok {
		if info, err := l.fs.Stat(cached.Active); err == nil && info.IsDir() {
			return cached, nil
		}
		delete(l.cache, category)
	}

	active, err := l.resolveActive(cat)
	if err != nil {
		return Roots{}, errors.Wrapf(err, errors.ErrNotFound, "active root of %s not found", category).
			WithDetail("category", category)
	}

	disabled := filepath.Join(filepath.Dir(active), filepath.FromSlash(cat.Disabled))
	roots := Roots{
		Category:       category,
		Active:         active,
		Disabled:       disabled,
		NestedDisabled: isWithin(active, disabled),
	}
	l.cache[category] = roots

	l.logger.Debug().
		Str("category", category).
		Str("active", roots.Active).
		Str("disabled", roots.Disabled).
		Msg("category roots resolved")

	return roots, nil
}

// Invalidate drops every cached resolution
func (l *Layout) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Roots)
}

func (l *Layout) resolveActive(cat config.Category) (string, error) {
	if cat.Path != "" {
		p := filepath.FromSlash(cat.Path)
		if !filepath.IsAbs(p) {
			p = filepath.Join(l.gameRoot, p)
		}
		info, err := l.fs.Stat(p)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", errors.Newf(errors.ErrNotFound, "%s is not a directory", p)
		}
		return p, nil
	}

	if l.gameRoot == "" {
		return "", errors.New(errors.ErrNotFound, "game root is not set")
	}
	pattern := PatternFor(cat)
	best, ok := l.resolver.Resolve(l.gameRoot, pattern)
	if !ok {
		return "", errors.Newf(errors.ErrNotFound, "no directory matches %s under %s", pattern, l.gameRoot)
	}
	return best, nil
}

// LoadOrderDir resolves the directory holding the plugin list
func (l *Layout) LoadOrderDir() (string, error) {
	lo := l.cfg.LoadOrder
	if l.gameRoot == "" {
		return "", errors.New(errors.ErrNotFound, "game root is not set")
	}
	pattern := resolver.Pattern{Suffix: lo.Suffix, Canonical: lo.Canonical}
	best, ok := l.resolver.Resolve(l.gameRoot, pattern)
	if !ok {
		return "", errors.Newf(errors.ErrNotFound, "no directory matches %s under %s", pattern, l.gameRoot)
	}
	return best, nil
}

// isWithin reports whether child is strictly inside parent
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
