package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// LoadStatus tells how Load obtained its catalog
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	// LoadMissing: no catalog file yet
	LoadMissing
	// LoadCorrupt: the file could not be read or parsed; the catalog is empty
	LoadCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// record is the persisted shape of a ManagedEntry
type record struct {
	Name          string            `json:"name"`
	BaseName      string            `json:"base_name"`
	Files         []string          `json:"files"`
	Extensions    []string          `json:"extensions"`
	Subfolder     *string           `json:"subfolder"`
	Active        bool              `json:"active"`
	Category      string            `json:"category,omitempty"`
	InstalledDate *time.Time        `json:"installed_date"`
	Flags         map[string]string `json:"flags,omitempty"`
}

func toRecord(e types.ManagedEntry) record {
	r := record{
		Name:          e.Name,
		BaseName:      e.BaseName,
		Files:         e.Files,
		Extensions:    e.Extensions,
		Active:        e.Active,
		Category:      e.Category,
		InstalledDate: e.InstalledDate,
		Flags:         e.Flags,
	}
	if r.Files == nil {
		r.Files = []string{}
	}
	if r.Extensions == nil {
		r.Extensions = []string{}
	}
	if e.Subfolder != "" {
		sub := e.Subfolder
		r.Subfolder = &sub
	}
	return r
}

func (r record) toEntry(defaultCategory string) types.ManagedEntry {
	e := types.ManagedEntry{
		Name:          r.Name,
		BaseName:      r.BaseName,
		Files:         r.Files,
		Extensions:    r.Extensions,
		Active:        r.Active,
		Category:      r.Category,
		InstalledDate: r.InstalledDate,
		Flags:         r.Flags,
	}
	if e.Category == "" {
		e.Category = defaultCategory
	}
	if r.Subfolder != nil {
		e.Subfolder = types.NormalizeSubfolder(*r.Subfolder)
	}
	if e.BaseName == "" {
		e.BaseName = types.BaseName(e.Name)
	}
	if e.Files == nil {
		e.Files = []string{}
	}
	if e.Extensions == nil {
		e.Extensions = types.ExtensionsOf(e.Files)
	}
	return e
}

// Store reads and writes the catalog file. It is the only writer of that
// file.
type Store struct {
	fs              types.FS
	path            string
	defaultCategory string
	logger          zerolog.Logger
}

// NewStore creates a store for the catalog at path. Records without a
// category are assigned defaultCategory.
func NewStore(fsys types.FS, path, defaultCategory string) *Store {
	return &Store{
		fs:              fsys,
		path:            path,
		defaultCategory: defaultCategory,
		logger:          logging.GetLogger("registry"),
	}
}

// Path returns the catalog file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog. It never fails; see LoadStatus.
func (s *Store) Load() (*Catalog, LoadStatus) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", s.path).Msg("no catalog file, starting empty")
			return NewCatalog(), LoadMissing
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog unreadable, starting empty")
		return NewCatalog(), LoadCorrupt
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog is corrupt, starting empty")
		return NewCatalog(), LoadCorrupt
	}

	cat := NewCatalog()
	for i, r := range records {
		if r.Name == "" {
			s.logger.Warn().Int("index", i).Msg("dropping catalog record without a name")
			continue
		}
		e := r.toEntry(s.defaultCategory)
		if err := cat.Add(e); err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("dropping conflicting catalog record")
		}
	}

	s.logger.Debug().Str("path", s.path).Int("entries", cat.Len()).Msg("catalog loaded")
	return cat, LoadOK
}

// Save replaces the catalog file with the given catalog.
func (s *Store) Save(cat *Catalog) error {
	records := make([]record, 0, cat.Len())
	for _, e := range cat.Entries {
		records = append(records, toRecord(e))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode catalog")
	}

	if err := filesystem.WriteAtomic(s.fs, s.path, data); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "failed to save catalog to %s", filepath.Base(s.path)).
			WithDetail("path", s.path)
	}

	s.logger.Debug().Str("path", s.path).Int("entries", cat.Len()).Msg("catalog saved")
	return nil
}
