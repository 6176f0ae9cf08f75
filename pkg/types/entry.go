package types

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// EntryID is the identity of a managed entry. Within one category an entry
// is identified by (Subfolder, Name); Subfolder is slash-separated and
// relative to the category root, empty for top level.
type EntryID struct {
	Category  string `json:"category"`
	Subfolder string `json:"subfolder"`
	Name      string `json:"name"`
}

// String renders the id as "category:subfolder|name".
func (id EntryID) String() string {
	return fmt.Sprintf("%s:%s|%s", id.Category, id.Subfolder, id.Name)
}

// Validate rejects names with separators and subfolders escaping the root.
func (id EntryID) Validate() error {
	if id.Category == "" {
		return fmt.Errorf("empty category")
	}
	if id.Name == "" || id.Name == "." || id.Name == ".." {
		return fmt.Errorf("invalid name %q", id.Name)
	}
	if strings.ContainsAny(id.Name, `/\`) {
		return fmt.Errorf("name %q contains a path separator", id.Name)
	}
	if id.Subfolder == "" {
		return nil
	}
	if strings.Contains(id.Subfolder, `\`) || path.IsAbs(id.Subfolder) || filepath.IsAbs(id.Subfolder) {
		return fmt.Errorf("subfolder %q must be relative and slash-separated", id.Subfolder)
	}
	for _, part := range strings.Split(id.Subfolder, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("subfolder %q has an invalid component", id.Subfolder)
		}
	}
	return nil
}

// ParseEntryID parses "category:subfolder|name". The category prefix and the
// subfolder part are optional: "Foo.pak", "|Foo.pak" and "sub|Foo.pak" are
// all accepted and use defaultCategory.
func ParseEntryID(s, defaultCategory string) (EntryID, error) {
	id := EntryID{Category: defaultCategory}
	rest := s
	if i := strings.Index(rest, ":"); i >= 0 && !strings.Contains(rest[:i], "|") {
		id.Category = rest[:i]
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, "|"); i >= 0 {
		id.Subfolder = NormalizeSubfolder(rest[:i])
		rest = rest[i+1:]
	}
	id.Name = rest
	if err := id.Validate(); err != nil {
		return EntryID{}, fmt.Errorf("invalid entry id %q: %w", s, err)
	}
	return id, nil
}

// NormalizeSubfolder converts a subfolder to its stored slash form.
func NormalizeSubfolder(sub string) string {
	sub = strings.ReplaceAll(sub, `\`, "/")
	sub = strings.Trim(path.Clean("/"+sub), "/")
	return sub
}

// ManagedEntry is one logical mod unit backed by a primary file and zero or
// more sidecar files sharing its base name.
type ManagedEntry struct {
	Name          string            `json:"name" yaml:"name"`
	BaseName      string            `json:"base_name" yaml:"base_name"`
	Files         []string          `json:"files" yaml:"files"`
	Extensions    []string          `json:"extensions" yaml:"extensions"`
	Subfolder     string            `json:"subfolder" yaml:"subfolder"`
	Active        bool              `json:"active" yaml:"active"`
	Category      string            `json:"category" yaml:"category"`
	InstalledDate *time.Time        `json:"installed_date,omitempty" yaml:"installed_date,omitempty"`
	Flags         map[string]string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// ID returns the identity key of the entry
func (e ManagedEntry) ID() EntryID {
	return EntryID{Category: e.Category, Subfolder: e.Subfolder, Name: e.Name}
}

// Clone returns a deep copy
func (e ManagedEntry) Clone() ManagedEntry {
	c := e
	c.Files = append([]string(nil), e.Files...)
	c.Extensions = append([]string(nil), e.Extensions...)
	if e.InstalledDate != nil {
		d := *e.InstalledDate
		c.InstalledDate = &d
	}
	if e.Flags != nil {
		c.Flags = make(map[string]string, len(e.Flags))
		for k, v := range e.Flags {
			c.Flags[k] = v
		}
	}
	return c
}

// BaseName strips the final extension from a file name.
func BaseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExtensionsOf returns the lowercase, sorted, de-duplicated extensions of files.
func ExtensionsOf(files []string) []string {
	seen := make(map[string]bool)
	exts := []string{}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// OrderFiles puts the primary file first and the sidecars after it in
// lexical order.
func OrderFiles(primary string, files []string) []string {
	ordered := []string{primary}
	rest := make([]string, 0, len(files))
	for _, f := range files {
		if f != primary {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
