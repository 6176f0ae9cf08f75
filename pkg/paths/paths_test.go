// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables
// PURPOSE: Test path resolution and XDG overrides

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		gameRoot string
		dataDir  string
		envSetup map[string]string
		validate func(t *testing.T, p *Paths)
	}{
		{
			name:     "explicit game root",
			gameRoot: "/games/oblivion",
			validate: func(t *testing.T, p *Paths) {
				assert.Equal(t, "/games/oblivion", p.GameRoot())
			},
		},
		{
			name:     "expand tilde in game root",
			gameRoot: "~/games/oblivion",
			validate: func(t *testing.T, p *Paths) {
				homeDir, _ := os.UserHomeDir()
				assert.Equal(t, filepath.Join(homeDir, "games", "oblivion"), p.GameRoot())
			},
		},
		{
			name: "empty game root",
			validate: func(t *testing.T, p *Paths) {
				assert.Empty(t, p.GameRoot())
			},
		},
		{
			name: "env overrides",
			envSetup: map[string]string{
				EnvDataDir:   "/custom/data",
				EnvConfigDir: "/custom/config",
			},
			validate: func(t *testing.T, p *Paths) {
				assert.Equal(t, "/custom/data", p.DataDir())
				assert.Equal(t, "/custom/config", p.ConfigDir())
				assert.Equal(t, "/custom/data/registry.json", p.RegistryPath())
				assert.Equal(t, "/custom/data/metadata.json", p.MetadataPath())
				assert.Equal(t, "/custom/config/config.toml", p.ConfigPath())
			},
		},
		{
			name:    "explicit data dir beats env",
			dataDir: "/explicit/data",
			envSetup: map[string]string{
				EnvDataDir: "/custom/data",
			},
			validate: func(t *testing.T, p *Paths) {
				assert.Equal(t, "/explicit/data", p.DataDir())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, "")
			t.Setenv(EnvConfigDir, "")
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New(tt.gameRoot, tt.dataDir)
			require.NoError(t, err)
			tt.validate(t, p)
		})
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, homeDir, ExpandHome("~"))
	assert.Equal(t, filepath.Join(homeDir, "x"), ExpandHome("~/x"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "", ExpandHome(""))
}
