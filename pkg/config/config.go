package config

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Game holds the install location
type Game struct {
	Root string `koanf:"root" toml:"root"`
}

// Storage holds where modshelf keeps its own files
type Storage struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// Undo holds undo stack settings
type Undo struct {
	MaxActions       int   `koanf:"max_actions" toml:"max_actions"`
	SnapshotMaxBytes int64 `koanf:"snapshot_max_bytes" toml:"snapshot_max_bytes"`
}

// Category describes one collection of toggleable entries.
type Category struct {
	// Suffix is the slash-separated trailing path of the active root
	Suffix string `koanf:"suffix" toml:"suffix,omitempty"`
	// Canonical is the expected location relative to the game root
	Canonical string `koanf:"canonical" toml:"canonical,omitempty"`
	// MarkerDir and Markers locate the root as a named directory holding
	// at least one file matching a marker glob
	MarkerDir string   `koanf:"marker_dir" toml:"marker_dir,omitempty"`
	Markers   []string `koanf:"markers" toml:"markers,omitempty"`
	// Path skips resolution; relative paths are joined to the game root
	Path string `koanf:"path" toml:"path,omitempty"`
	// Disabled is relative to the parent of the active root
	Disabled   string   `koanf:"disabled" toml:"disabled"`
	PrimaryExt string   `koanf:"primary_ext" toml:"primary_ext"`
	Deny       []string `koanf:"deny" toml:"deny"`
}

// LoadOrder describes the plugin list file
type LoadOrder struct {
	Suffix     string   `koanf:"suffix" toml:"suffix"`
	Canonical  string   `koanf:"canonical" toml:"canonical"`
	File       string   `koanf:"file" toml:"file"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
}

// Config is the main configuration structure
type Config struct {
	DefaultCategory string              `koanf:"default_category" toml:"default_category"`
	Game            Game                `koanf:"game" toml:"game"`
	Storage         Storage             `koanf:"storage" toml:"storage"`
	Undo            Undo                `koanf:"undo" toml:"undo"`
	Categories      map[string]Category `koanf:"categories" toml:"categories"`
	LoadOrder       LoadOrder           `koanf:"load_order" toml:"load_order"`
}

// CategoryNames returns the configured categories in a stable order, the
// default category first.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		if name != c.DefaultCategory {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := c.Categories[c.DefaultCategory]; ok {
		names = append([]string{c.DefaultCategory}, names...)
	}
	return names
}

// IsDenied reports whether a file name matches the category's deny-list.
// Matching is case-insensitive; entries may be globs.
func (c Category) IsDenied(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range c.Deny {
		p := strings.ToLower(pattern)
		if p == lower {
			return true
		}
		if ok, err := path.Match(p, lower); err == nil && ok {
			return true
		}
	}
	return false
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	if c.Undo.MaxActions <= 0 {
		return fmt.Errorf("undo.max_actions must be positive, got %d", c.Undo.MaxActions)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}
	if _, ok := c.Categories[c.DefaultCategory]; !ok {
		return fmt.Errorf("default_category %q is not a configured category", c.DefaultCategory)
	}
	for name, cat := range c.Categories {
		if strings.ContainsAny(name, ":|/") {
			return fmt.Errorf("category name %q must not contain ':', '|' or '/'", name)
		}
		if cat.Suffix == "" && cat.MarkerDir == "" && cat.Path == "" {
			return fmt.Errorf("category %s needs one of suffix, marker_dir or path", name)
		}
		if cat.MarkerDir != "" && len(cat.Markers) == 0 {
			return fmt.Errorf("category %s sets marker_dir without markers", name)
		}
		if cat.PrimaryExt == "" {
			return fmt.Errorf("category %s has no primary_ext", name)
		}
		if cat.Disabled == "" {
			return fmt.Errorf("category %s has no disabled directory", name)
		}
		for _, pattern := range cat.Deny {
			if _, err := path.Match(pattern, ""); err != nil {
				return fmt.Errorf("category %s: bad deny pattern %q: %w", name, pattern, err)
			}
		}
	}
	return nil
}

// normalize lowercases extensions and ensures the leading dot.
func (c *Config) normalize() {
	for name, cat := range c.Categories {
		cat.PrimaryExt = normalizeExt(cat.PrimaryExt)
		c.Categories[name] = cat
	}
	for i, ext := range c.LoadOrder.Extensions {
		c.LoadOrder.Extensions[i] = normalizeExt(ext)
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
