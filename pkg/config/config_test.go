// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir), environment variables
// PURPOSE: Test layered configuration loading and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "paks", cfg.DefaultCategory)
	assert.Equal(t, 50, cfg.Undo.MaxActions)
	assert.Equal(t, int64(64<<20), cfg.Undo.SnapshotMaxBytes)

	paks := cfg.Categories["paks"]
	assert.Equal(t, "Paks/~mods", paks.Suffix)
	assert.Equal(t, "OblivionRemastered/Content/Paks/~mods", paks.Canonical)
	assert.Equal(t, "disabled", paks.Disabled)
	assert.Equal(t, ".pak", paks.PrimaryExt)

	assert.Equal(t, "DisabledLogicMods", cfg.Categories["logicmods"].Disabled)
	assert.Equal(t, "Plugins.txt", cfg.LoadOrder.File)
	assert.Equal(t, []string{".esp", ".esm"}, cfg.LoadOrder.Extensions)

	require.NoError(t, cfg.Validate())
}

func TestCategoryNames(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"paks", "logicmods", "magicloader", "obse"}, cfg.CategoryNames())
}

func TestCategoryIsDenied(t *testing.T) {
	cat := Category{Deny: []string{"obse64_*.dll", "Stock.pak"}}

	assert.True(t, cat.IsDenied("obse64_0_411_140.dll"))
	assert.True(t, cat.IsDenied("stock.pak"))
	assert.True(t, cat.IsDenied("STOCK.PAK"))
	assert.False(t, cat.IsDenied("MyPlugin.dll"))
}

func TestLoad(t *testing.T) {
	clearEnv := func(t *testing.T) {
		t.Setenv("MODSHELF_GAME_ROOT", "")
		os.Unsetenv("MODSHELF_GAME_ROOT")
	}

	t.Run("defaults only", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(LoadOptions{UserConfigFile: filepath.Join(t.TempDir(), "missing.toml")})
		require.NoError(t, err)
		assert.Equal(t, "paks", cfg.DefaultCategory)
		assert.Empty(t, cfg.Game.Root)
	})

	t.Run("user file overrides defaults", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[game]
root = "/games/oblivion"

[undo]
max_actions = 10

[categories.paks]
deny = ["Stock.pak"]

[categories.ue4ss]
suffix = "Win64/ue4ss/Mods"
disabled = "DisabledMods"
primary_ext = "lua"
`), 0644))

		cfg, err := Load(LoadOptions{UserConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, "/games/oblivion", cfg.Game.Root)
		assert.Equal(t, 10, cfg.Undo.MaxActions)

		// merged, not replaced
		assert.Equal(t, "Paks/~mods", cfg.Categories["paks"].Suffix)
		assert.Equal(t, []string{"Stock.pak"}, cfg.Categories["paks"].Deny)

		assert.Equal(t, ".lua", cfg.Categories["ue4ss"].PrimaryExt)
		assert.Contains(t, cfg.CategoryNames(), "ue4ss")
	})

	t.Run("env beats file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[game]\nroot = \"/from/file\"\n"), 0644))
		t.Setenv("MODSHELF_GAME_ROOT", "/from/env")
		t.Setenv("MODSHELF_UNDO_MAX_ACTIONS", "7")

		cfg, err := Load(LoadOptions{ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.Game.Root)
		assert.Equal(t, 7, cfg.Undo.MaxActions)
	})

	t.Run("overrides beat env", func(t *testing.T) {
		t.Setenv("MODSHELF_GAME_ROOT", "/from/env")

		cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"game.root": "/from/flag"}})
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", cfg.Game.Root)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("invalid default category", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(LoadOptions{Overrides: map[string]interface{}{"default_category": "nope"}})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "game.root", envKey("MODSHELF_GAME_ROOT"))
	assert.Equal(t, "undo.max_actions", envKey("MODSHELF_UNDO_MAX_ACTIONS"))
	assert.Equal(t, "default_category", envKey("MODSHELF_DEFAULT_CATEGORY"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero undo bound", func(c *Config) { c.Undo.MaxActions = 0 }},
		{"no locator", func(c *Config) {
			c.Categories["bad"] = Category{Disabled: "d", PrimaryExt: ".x"}
		}},
		{"marker dir without markers", func(c *Config) {
			c.Categories["bad"] = Category{MarkerDir: "MagicLoader", Disabled: "d", PrimaryExt: ".x"}
		}},
		{"no primary ext", func(c *Config) {
			c.Categories["bad"] = Category{Suffix: "a/b", Disabled: "d"}
		}},
		{"separator in name", func(c *Config) {
			c.Categories["a:b"] = Category{Suffix: "a/b", Disabled: "d", PrimaryExt: ".x"}
		}},
		{"bad deny glob", func(c *Config) {
			c.Categories["bad"] = Category{Suffix: "a/b", Disabled: "d", PrimaryExt: ".x", Deny: []string{"["}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	assert.Contains(t, content, "[undo]")
	assert.Contains(t, content, "# max_actions = 50")
	assert.Contains(t, content, "[categories.paks]")
	assert.NotContains(t, content, "\nmax_actions")
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# note\n[game]\nroot = \"x\"\n\n  [undo]\n  max_actions = 5"
	out := commentOutConfigValues(in)
	assert.Equal(t, "# note\n[game]\n# root = \"x\"\n\n  [undo]\n#   max_actions = 5", out)
}
