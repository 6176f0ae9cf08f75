// pkg/scan/scan_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir), FaultFS
// PURPOSE: Test disk scanning, sidecar grouping and exclusions

package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/layout"
	"github.com/arthur-debert/modshelf/pkg/resolver"
	"github.com/arthur-debert/modshelf/pkg/scan"
	"github.com/arthur-debert/modshelf/pkg/testutil"
	"github.com/arthur-debert/modshelf/pkg/types"
)

func newScanner(env *testutil.GameEnv) *scan.Scanner {
	l := layout.New(env.Root, env.Config, env.FS, resolver.New(env.FS))
	return scan.New(env.FS, l)
}

func byName(entries []types.ManagedEntry) map[string]types.ManagedEntry {
	m := make(map[string]types.ManagedEntry)
	for _, e := range entries {
		m[e.ID().String()] = e
	}
	return m
}

func TestScanCategory_GroupsSidecars(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "")
	env.WriteFile(testutil.PaksDir+"/Foo.ucas", "")
	env.WriteFile(testutil.PaksDir+"/Foo.utoc", "")
	env.WriteFile(testutil.PaksDir+"/Unrelated.txt", "")
	env.WriteFile(testutil.PaksDir+"/armor/Bar.PAK", "")
	env.WriteFile(testutil.PaksDisabledDir+"/Baz.pak", "")

	entries, err := newScanner(env).ScanCategory("paks")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	got := byName(entries)

	foo := got["paks:|Foo.pak"]
	assert.True(t, foo.Active)
	assert.Equal(t, "Foo", foo.BaseName)
	assert.Equal(t, []string{
		env.Path(testutil.PaksDir + "/Foo.pak"),
		env.Path(testutil.PaksDir + "/Foo.ucas"),
		env.Path(testutil.PaksDir + "/Foo.utoc"),
	}, foo.Files)
	assert.Equal(t, []string{".pak", ".ucas", ".utoc"}, foo.Extensions)

	bar := got["paks:armor|Bar.PAK"]
	assert.Equal(t, "armor", bar.Subfolder)
	assert.True(t, bar.Active)

	baz := got["paks:|Baz.pak"]
	assert.False(t, baz.Active)
	assert.Equal(t, []string{env.Path(testutil.PaksDisabledDir + "/Baz.pak")}, baz.Files)
}

func TestScanCategory_DenyList(t *testing.T) {
	env := testutil.NewGameEnv(t)
	cat := env.Config.Categories["paks"]
	cat.Deny = []string{"Stock.pak"}
	env.Config.Categories["paks"] = cat

	env.WriteFile(testutil.PaksDir+"/stock.pak", "")
	env.WriteFile(testutil.PaksDir+"/Mine.pak", "")

	entries, err := newScanner(env).ScanCategory("paks")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mine.pak", entries[0].Name)
}

func TestScanCategory_NestedDisabledSkippedInActiveScan(t *testing.T) {
	env := testutil.NewGameEnv(t)
	plugins := "OblivionRemastered/Binaries/Win64/OBSE/Plugins"
	env.WriteFile(plugins+"/On.dll", "")
	env.WriteFile(plugins+"/disabled/Off.dll", "")

	entries, err := newScanner(env).ScanCategory("obse")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := byName(entries)
	assert.True(t, got["obse:|On.dll"].Active)
	off, ok := got["obse:|Off.dll"]
	require.True(t, ok, "disabled plugin is not reported under a 'disabled' subfolder")
	assert.False(t, off.Active)
}

func TestScanCategory_Missing(t *testing.T) {
	env := testutil.NewGameEnv(t)

	_, err := newScanner(env).ScanCategory("paks")
	require.Error(t, err)
	assert.True(t, scan.IsNotFound(err))
}

func TestScanAll(t *testing.T) {
	env := testutil.NewGameEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "")
	env.WriteFile(testutil.LogicModsDir+"/Logic.pak", "")
	env.WriteFile(testutil.PaksDir+"/broken/Hidden.pak", "")
	env.FS.Fail(testutil.OpReadDir, env.Path(testutil.PaksDir+"/broken"))

	res := newScanner(env).ScanAll()

	got := byName(res.Entries)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "paks:|Foo.pak")
	assert.Contains(t, got, "logicmods:|Logic.pak")
	assert.ElementsMatch(t, []string{"magicloader", "obse"}, res.Missing)
	assert.Contains(t, res.Skipped, env.Path(testutil.PaksDir+"/broken"))
}
