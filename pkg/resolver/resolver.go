// Package resolver locates directories inside an install tree whose layout
// differs between distributions of the same game.
//
// Every directory under the root is visited. Candidates are the directories
// matching a Pattern; the best one is the canonical location when it is a
// candidate, otherwise the shallowest, with ties broken by path order.
// Tool installs often carry decoy copies of the same directory deeper in the
// tree, which the depth rule discards. Unreadable directories are recorded
// and skipped; resolution never fails because of one bad branch.
package resolver

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/logging"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Pattern describes the directory being looked for. Exactly one of Suffix
// and MarkerDir is expected.
type Pattern struct {
	// Suffix is the slash-separated trailing path, e.g. "Paks/~mods"
	Suffix string
	// Canonical is the expected location relative to the root
	Canonical string
	// MarkerDir is a directory base name that must contain a file
	// matching one of Markers
	MarkerDir string
	Markers   []string
}

// String renders the pattern for logs and messages
func (p Pattern) String() string {
	if p.MarkerDir != "" {
		return fmt.Sprintf("%s[%s]", p.MarkerDir, strings.Join(p.Markers, ","))
	}
	return p.Suffix
}

// Validate reports unusable patterns
func (p Pattern) Validate() error {
	switch {
	case p.Suffix == "" && p.MarkerDir == "":
		return fmt.Errorf("pattern needs a suffix or a marker directory")
	case p.Suffix != "" && p.MarkerDir != "":
		return fmt.Errorf("pattern cannot have both a suffix and a marker directory")
	case p.MarkerDir != "" && len(p.Markers) == 0:
		return fmt.Errorf("marker directory %s has no markers", p.MarkerDir)
	}
	return nil
}

// Candidate is one matching directory
type Candidate struct {
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	Canonical bool   `json:"canonical"`
}

// SkippedDir is a directory that could not be read
type SkippedDir struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Result holds every candidate in preference order and the skipped subtrees
type Result struct {
	Best       string       `json:"best"`
	Candidates []Candidate  `json:"candidates"`
	Skipped    []SkippedDir `json:"skipped,omitempty"`
}

// Found reports whether any candidate matched
func (r Result) Found() bool {
	return r.Best != ""
}

// Resolver walks install trees through a types.FS
type Resolver struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Resolver reading through fsys
func New(fsys types.FS) *Resolver {
	return &Resolver{fs: fsys, logger: logging.GetLogger("resolver")}
}

// Resolve returns the best directory under root matching p.
func (r *Resolver) Resolve(root string, p Pattern) (string, bool) {
	res := r.ResolveAll(root, p)
	return res.Best, res.Found()
}

// ResolveAll walks root and returns every candidate in preference order.
func (r *Resolver) ResolveAll(root string, p Pattern) Result {
	var res Result
	if err := p.Validate(); err != nil {
		r.logger.Warn().Err(err).Msg("invalid resolve pattern")
		return res
	}

	root = filepath.Clean(root)
	suffix := splitLower(p.Suffix)
	canonical := ""
	if p.Canonical != "" {
		canonical = strings.ToLower(filepath.Join(root, filepath.FromSlash(p.Canonical)))
	}

	type dir struct {
		path  string
		depth int
	}
	stack := []dir{{path: root}}
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := r.fs.ReadDir(d.path)
		if err != nil {
			r.logger.Debug().Err(err).Str("path", d.path).Msg("skipping unreadable directory")
			res.Skipped = append(res.Skipped, SkippedDir{Path: d.path, Err: err})
			continue
		}

		if r.matches(d.path, entries, suffix, p) {
			res.Candidates = append(res.Candidates, Candidate{
				Path:      d.path,
				Depth:     d.depth,
				Canonical: canonical != "" && strings.ToLower(d.path) == canonical,
			})
		}

		// Only real directories; symlinks report a non-dir type here
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsDir() {
				stack = append(stack, dir{
					path:  filepath.Join(d.path, entries[i].Name()),
					depth: d.depth + 1,
				})
			}
		}
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		a, b := res.Candidates[i], res.Candidates[j]
		if a.Canonical != b.Canonical {
			return a.Canonical
		}
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.Path < b.Path
	})

	if len(res.Candidates) > 0 {
		res.Best = res.Candidates[0].Path
	}

	r.logger.Debug().
		Str("root", root).
		Str("pattern", p.String()).
		Str("best", res.Best).
		Int("candidates", len(res.Candidates)).
		Int("skipped", len(res.Skipped)).
		Msg("resolved directory")

	return res
}

func (r *Resolver) matches(dirPath string, entries []fs.DirEntry, suffix []string, p Pattern) bool {
	if p.MarkerDir != "" {
		if !strings.EqualFold(filepath.Base(dirPath), p.MarkerDir) {
			return false
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := strings.ToLower(e.Name())
			for _, m := range p.Markers {
				if ok, _ := path.Match(strings.ToLower(m), name); ok {
					return true
				}
			}
		}
		return false
	}
	return hasSuffix(dirPath, suffix)
}

// hasSuffix compares trailing path components case-insensitively
func hasSuffix(dirPath string, suffix []string) bool {
	parts := splitLower(filepath.ToSlash(dirPath))
	if len(suffix) == 0 || len(parts) < len(suffix) {
		return false
	}
	tail := parts[len(parts)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

func splitLower(p string) []string {
	var parts []string
	for _, part := range strings.Split(strings.ToLower(p), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
