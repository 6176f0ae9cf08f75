package filesystem

import (
	"fmt"
	"io"

	"github.com/arthur-debert/modshelf/pkg/types"
)

// CopyFile streams src into a newly created dst. dst must not exist.
// A partially written dst is removed on failure.
func CopyFile(fsys types.FS, src, dst string) (err error) {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := fsys.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
		if err != nil {
			_ = fsys.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}

// IsDirEmpty reports whether dir exists and has no entries.
func IsDirEmpty(fsys types.FS, dir string) bool {
	entries, err := fsys.ReadDir(dir)
	return err == nil && len(entries) == 0
}
