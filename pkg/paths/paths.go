package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modshelf/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for modshelf
	EnvDataDir = "MODSHELF_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for modshelf
	EnvConfigDir = "MODSHELF_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// File and directory names. These are not user-configurable.
const (
	AppDirName       = "modshelf"
	RegistryFileName = "registry.json"
	MetadataFileName = "metadata.json"
	ConfigFileName   = "config.toml"
)

// Paths holds the resolved locations modshelf reads and writes.
type Paths struct {
	gameRoot  string
	dataDir   string
	configDir string
}

// New creates a Paths for the given game install root. The root is expanded
// and made absolute; it may be empty when only modshelf's own directories
// are needed. dataDir, when set, takes precedence over the environment.
func New(gameRoot, dataDir string) (*Paths, error) {
	p := &Paths{}

	if gameRoot != "" {
		abs, err := filepath.Abs(expandHome(gameRoot))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for game root %s", gameRoot)
		}
		p.gameRoot = abs
	}

	switch {
	case dataDir != "":
		p.dataDir = expandHome(dataDir)
	case os.Getenv(EnvDataDir) != "":
		p.dataDir = expandHome(os.Getenv(EnvDataDir))
	default:
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	p.configDir = DefaultConfigDir()

	return p, nil
}

// DefaultConfigDir returns the config directory, honouring MODSHELF_CONFIG_DIR.
func DefaultConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// UserConfigPath is the config file read when --config is not given
func UserConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// GameRoot returns the absolute game install root
func (p *Paths) GameRoot() string {
	return p.gameRoot
}

// DataDir returns the data directory for modshelf
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the config directory for modshelf
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// RegistryPath is the catalog file
func (p *Paths) RegistryPath() string {
	return filepath.Join(p.dataDir, RegistryFileName)
}

// MetadataPath is the metadata store file
func (p *Paths) MetadataPath() string {
	return filepath.Join(p.dataDir, MetadataFileName)
}

// ConfigPath is the user config file
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
