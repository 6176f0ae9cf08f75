// Package loadorder reads and writes the plugin load order file
// (Plugins.txt) found in the game's data folder.
package loadorder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// DirResolver locates the data folder
type DirResolver interface {
	LoadOrderDir() (string, error)
}

// File is the load order file of one install
type File struct {
	fs     types.FS
	dirs   DirResolver
	cfg    config.LoadOrder
	logger zerolog.Logger
}

// New creates a File
func New(fsys types.FS, dirs DirResolver, cfg config.LoadOrder) *File {
	return &File{
		fs:     fsys,
		dirs:   dirs,
		cfg:    cfg,
		logger: logging.GetLogger("loadorder"),
	}
}

// Path resolves the location of the load order file
func (f *File) Path() (string, error) {
	dir, err := f.dirs.LoadOrderDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, f.cfg.File), nil
}

// Read returns the plugin names in order. A missing file is an empty order.
// Blank lines and lines starting with '#' are skipped.
func (f *File) Read() ([]string, error) {
	path, err := f.Path()
	if err != nil {
		return nil, err
	}
	data, err := f.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "cannot read %s", f.cfg.File).WithDetail("path", path)
	}
	return parse(string(data)), nil
}

func parse(content string) []string {
	order := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		order = append(order, line)
	}
	return order
}

// Write replaces the load order. Names must be plain file names and unique
// (case-insensitively).
func (f *File) Write(order []string) error {
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if name == "" || strings.ContainsAny(name, `/\`) || strings.TrimSpace(name) != name {
			return errors.Newf(errors.ErrInvalidInput, "invalid plugin name %q", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return errors.Newf(errors.ErrInvalidInput, "plugin %s listed twice", name)
		}
		seen[key] = true
	}

	path, err := f.Path()
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, name := range order {
		b.WriteString(name)
		b.WriteString("\r\n")
	}
	if err := filesystem.WriteAtomic(f.fs, path, []byte(b.String())); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "cannot write %s", f.cfg.File).WithDetail("path", path)
	}
	f.logger.Info().Int("plugins", len(order)).Msg("load order written")
	return nil
}

// Available lists the plugin files present in the data folder, sorted
func (f *File) Available() ([]string, error) {
	dir, err := f.dirs.LoadOrderDir()
	if err != nil {
		return nil, err
	}
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "cannot list %s", dir)
	}

	plugins := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range f.cfg.Extensions {
			if ext == want {
				plugins = append(plugins, e.Name())
				break
			}
		}
	}
	sort.Slice(plugins, func(i, j int) bool {
		return strings.ToLower(plugins[i]) < strings.ToLower(plugins[j])
	})
	return plugins, nil
}

// Missing returns the names in order that have no plugin file on disk
func (f *File) Missing(order []string) ([]string, error) {
	available, err := f.Available()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(available))
	for _, p := range available {
		present[strings.ToLower(p)] = true
	}
	missing := []string{}
	for _, name := range order {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
