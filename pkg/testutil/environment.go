// pkg/testutil/environment.go
// DEPENDENCIES: filesystem, paths, config
// PURPOSE: Build isolated game install trees for tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/paths"
	"github.com/arthur-debert/modshelf/pkg/types"
)

// Canonical locations of the default categories, relative to the game root
const (
	PaksDir         = "OblivionRemastered/Content/Paks/~mods"
	PaksDisabledDir = "OblivionRemastered/Content/Paks/disabled"
	LogicModsDir    = "OblivionRemastered/Content/Paks/LogicMods"
	LogicModsOffDir = "OblivionRemastered/Content/Paks/DisabledLogicMods"
	DataDir         = "OblivionRemastered/Content/Dev/ObvData/Data"
)

// GameEnv is an isolated game install plus modshelf data directory
type GameEnv struct {
	Root    string
	DataDir string
	HomeDir string
	FS      *FaultFS
	Paths   *paths.Paths
	Config  *config.Config

	t *testing.T
}

// NewGameEnv creates an empty game root and points HOME and XDG at the
// temp dir. The filesystem is a FaultFS over the OS with no faults set.
func NewGameEnv(t *testing.T) *GameEnv {
	t.Helper()

	tempDir := t.TempDir()
	env := &GameEnv{
		Root:    filepath.Join(tempDir, "game"),
		DataDir: filepath.Join(tempDir, "data"),
		HomeDir: filepath.Join(tempDir, "home"),
		FS:      NewFaultFS(filesystem.NewOS()),
		t:       t,
	}

	for _, dir := range []string{env.Root, env.DataDir, env.HomeDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))
	t.Setenv(paths.EnvDataDir, env.DataDir)

	p, err := paths.New(env.Root, env.DataDir)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	env.Config = config.Default()
	env.Config.Game.Root = env.Root
	env.Config.Storage.Dir = env.DataDir

	return env
}

// Path joins a slash-separated path relative to the game root
func (env *GameEnv) Path(rel string) string {
	return filepath.Join(env.Root, filepath.FromSlash(rel))
}

// WriteFile creates a file (and its parents) relative to the game root and
// returns its absolute path.
func (env *GameEnv) WriteFile(rel, content string) string {
	env.t.Helper()

	full := env.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return full
}

// Mkdir creates a directory relative to the game root
func (env *GameEnv) Mkdir(rel string) string {
	env.t.Helper()

	full := env.Path(rel)
	if err := os.MkdirAll(full, 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", rel, err)
	}
	return full
}

// WithFileTree creates a complete file tree structure under the game root
func (env *GameEnv) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Root, tree)
}

// Exists reports whether a path relative to the game root exists
func (env *GameEnv) Exists(rel string) bool {
	_, err := os.Lstat(env.Path(rel))
	return err == nil
}

// FileTree represents a directory structure for testing. Values are file
// contents (string) or nested trees.
type FileTree map[string]interface{}

func createFileTree(t *testing.T, fsys types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fsys.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fsys.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fsys.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fsys, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
