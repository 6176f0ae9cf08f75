// pkg/layout/layout_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir)
// PURPOSE: Test category root resolution and caching

package layout_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/config"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/testutil"
)

func newLayout(env *testutil.GameEnv) *layout.Layout {
	return layout.New(env.Root, env.Config, env.FS, resolver.New(env.FS))
}

func TestRoots_SiblingDisabled(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.Mkdir(testutil.PaksDir)

	roots, err := newLayout(env).Roots("paks")
	require.NoError(t, err)
	assert.Equal(t, env.Path(testutil.PaksDir), roots.Active)
	assert.Equal(t, env.Path(testutil.PaksDisabledDir), roots.Disabled)
	assert.False(t, roots.NestedDisabled)
	assert.Equal(t, roots.Active, roots.For(true))
	assert.Equal(t, roots.Disabled, roots.For(false))
}

func TestRoots_NestedDisabled(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.Mkdir("OblivionRemastered/Binaries/Win64/OBSE/Plugins")

	roots, err := newLayout(env).Roots("obse")
	require.NoError(t, err)
	assert.Equal(t, env.Path("OblivionRemastered/Binaries/Win64/OBSE/Plugins/disabled"), roots.Disabled)
	assert.True(t, roots.NestedDisabled)
}

func TestRoots_NotFound(t *testing.T) {
	env := testutil.NewGameEnv(t)

	_, err := newLayout(env).Roots("paks")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRoots_UnknownCategory(t *testing.T) {
	env := testutil.NewGameEnv(t)

	_, err := newLayout(env).Roots("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRoots_ExplicitPath(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.Mkdir("custom/mods")
	env.Config.Categories["custom"] = config.Category{
		Path:       "custom/mods",
		Disabled:   "off",
		PrimaryExt: ".pak",
	}

	roots, err := newLayout(env).Roots("custom")
	require.NoError(t, err)
	assert.Equal(t, env.Path("custom/mods"), roots.Active)
	assert.Equal(t, env.Path("custom/off"), roots.Disabled)
}

func TestRoots_CacheRevalidated(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.Mkdir(testutil.PaksDir)
	l := newLayout(env)

	_, err := l.Roots("paks")
	require.NoError(t, err)

	// cached result is used while the root exists
	before := env.FS.Calls(testutil.OpReadDir)
	_, err = l.Roots("paks")
	require.NoError(t, err)
	assert.Equal(t, before, env.FS.Calls(testutil.OpReadDir))

	// moved out of band: re-resolved
	require.NoError(t, os.RemoveAll(env.Path(testutil.PaksDir)))
	env.Mkdir("Other/Paks/~mods")

	roots, err := l.Roots("paks")
	require.NoError(t, err)
	assert.Equal(t, env.Path("Other/Paks/~mods"), roots.Active)
}

func TestLoadOrderDir(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.Mkdir(testutil.DataDir)

	dir, err := newLayout(env).LoadOrderDir()
	require.NoError(t, err)
	assert.Equal(t, env.Path(testutil.DataDir), dir)
}
