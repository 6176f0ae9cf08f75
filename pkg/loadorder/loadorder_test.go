// pkg/loadorder/loadorder_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dir)
// PURPOSE: Test reading, writing and listing plugins

package loadorder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/loadorder"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/testutil"
)

func newFile(t *testing.T) (*testutil.GameEnv, *loadorder.File) {
	env := testutil.NewGameEnv(t)
	l := layout.New(env.Root, env.Config, env.FS, resolver.New(env.FS))
	return env, loadorder.New(env.FS, l, env.Config.LoadOrder)
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	env, f := newFile(t)
	env.Mkdir(testutil.DataDir)

	order, err := f.Read()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestRead_NoDataFolder(t *testing.T) {
	_, f := newFile(t)

	_, err := f.Read()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRead_SkipsBlankAndComments(t *testing.T) {
	env, f := newFile(t)
	env.WriteFile(filepath.Join(testutil.DataDir, "Plugins.txt"),
		"\ufeffOblivion.esm\r\n\r\n# comment\r\n  Alpha.esp  \nBeta.esp")

	order, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Oblivion.esm", "Alpha.esp", "Beta.esp"}, order)
}

func TestWrite_RoundTrip(t *testing.T) {
	env, f := newFile(t)
	env.Mkdir(testutil.DataDir)

	require.NoError(t, f.Write([]string{"Oblivion.esm", "Beta.esp", "Alpha.esp"}))
	order, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Oblivion.esm", "Beta.esp", "Alpha.esp"}, order)

	raw, err := os.ReadFile(env.Path(filepath.Join(testutil.DataDir, "Plugins.txt")))
	require.NoError(t, err)
	assert.Equal(t, "Oblivion.esm\r\nBeta.esp\r\nAlpha.esp\r\n", string(raw))
}

func TestWrite_RejectsInvalid(t *testing.T) {
	env, f := newFile(t)
	env.Mkdir(testutil.DataDir)

	for _, order := range [][]string{
		{"a.esp", "A.ESP"},
		{"sub/a.esp"},
		{""},
	} {
		err := f.Write(order)
		require.Error(t, err, "%v", order)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}
	assert.False(t, env.Exists(filepath.Join(testutil.DataDir, "Plugins.txt")))
}

func TestAvailableAndMissing(t *testing.T) {
	env, f := newFile(t)
	env.WriteFile(filepath.Join(testutil.DataDir, "beta.esp"), "b")
	env.WriteFile(filepath.Join(testutil.DataDir, "Alpha.ESM"), "a")
	env.WriteFile(filepath.Join(testutil.DataDir, "readme.txt"), "r")
	env.Mkdir(filepath.Join(testutil.DataDir, "folder.esp"))

	available, err := f.Available()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha.ESM", "beta.esp"}, available)

	missing, err := f.Missing([]string{"alpha.esm", "Gone.esp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gone.esp"}, missing)
}
