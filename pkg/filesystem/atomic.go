package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/arthur-debert/modshelf/pkg/types"
)

// WriteAtomic writes data to a temp file next to path and renames it over
// path. On failure the temp file is removed and path is left untouched.
func WriteAtomic(fsys types.FS, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := fsys.WriteFile(tmp, data, 0644); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
