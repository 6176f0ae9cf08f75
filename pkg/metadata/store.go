package metadata

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Info is the display data of one entry
type Info struct {
	Display string            `json:"display,omitempty" yaml:"display,omitempty"`
	Group   string            `json:"group,omitempty" yaml:"group,omitempty"`
	Flags   map[string]string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

func (i Info) empty() bool {
	return i.Display == "" && i.Group == "" && len(i.Flags) == 0
}

func (i Info) clone() Info {
	c := i
	if i.Flags != nil {
		c.Flags = make(map[string]string, len(i.Flags))
		for k, v := range i.Flags {
			c.Flags[k] = v
		}
	}
	return c
}

type document struct {
	Version int             `json:"version"`
	Entries map[string]Info `json:"entries"`
}

const documentVersion = 1

// Store holds display data keyed by entry id
type Store struct {
	fs      types.FS
	path    string
	entries map[string]Info
	logger  zerolog.Logger
}

// Open loads the metadata file at path. A missing or corrupt file yields an
// empty store; a corrupt one is replaced on the next write.
func Open(fsys types.FS, path string) *Store {
	s := &Store{
		fs:      fsys,
		path:    path,
		entries: make(map[string]Info),
		logger:  logging.GetLogger("metadata"),
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", path).Msg("metadata unreadable, starting empty")
		}
		return s
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("metadata is corrupt, starting empty")
		return s
	}
	for k, v := range doc.Entries {
		v.Group = NormalizeGroup(v.Group)
		s.entries[k] = v
	}
	s.logger.Debug().Int("entries", len(s.entries)).Msg("metadata loaded")
	return s
}

// Path returns the metadata file location
func (s *Store) Path() string {
	return s.path
}

// Get returns the info for id, zero if none is stored
func (s *Store) Get(id types.EntryID) Info {
	return s.entries[id.String()].clone()
}

// DisplayName is the display name of e, falling back to its file name
func (s *Store) DisplayName(e types.ManagedEntry) string {
	if d := s.entries[e.ID().String()].Display; d != "" {
		return d
	}
	return e.Name
}

// SetDisplay sets the display name. An empty name clears it.
func (s *Store) SetDisplay(id types.EntryID, display string) error {
	return s.update(id, func(i *Info) {
		i.Display = strings.TrimSpace(display)
	})
}

// SetGroup sets the slash-separated group path. An empty path ungroups.
func (s *Store) SetGroup(id types.EntryID, group string) error {
	return s.update(id, func(i *Info) {
		i.Group = NormalizeGroup(group)
	})
}

// SetFlag sets one flag. An empty value deletes it.
func (s *Store) SetFlag(id types.EntryID, key, value string) error {
	return s.update(id, func(i *Info) {
		if value == "" {
			delete(i.Flags, key)
			return
		}
		if i.Flags == nil {
			i.Flags = make(map[string]string)
		}
		i.Flags[key] = value
	})
}

// Forget drops everything stored for id
func (s *Store) Forget(id types.EntryID) error {
	key := id.String()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	prev := s.entries[key]
	delete(s.entries, key)
	if err := s.save(); err != nil {
		s.entries[key] = prev
		return err
	}
	return nil
}

// Groups lists every group path in use, sorted
func (s *Store) Groups() []string {
	seen := make(map[string]bool)
	for _, i := range s.entries {
		if i.Group != "" {
			seen[i.Group] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func (s *Store) update(id types.EntryID, fn func(*Info)) error {
	key := id.String()
	prev, had := s.entries[key]
	next := prev.clone()
	fn(&next)

	if next.empty() {
		delete(s.entries, key)
	} else {
		s.entries[key] = next
	}

	if err := s.save(); err != nil {
		if had {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(document{Version: documentVersion, Entries: s.entries}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode metadata")
	}
	if err := filesystem.WriteAtomic(s.fs, s.path, data); err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to save metadata").WithDetail("path", s.path)
	}
	return nil
}

// NormalizeGroup trims each component of a group path and drops empty ones.
// Backslashes are accepted as separators.
func NormalizeGroup(group string) string {
	group = strings.ReplaceAll(group, `\`, "/")
	parts := strings.Split(group, "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
