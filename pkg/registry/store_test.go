// pkg/registry/store_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir), FaultFS
// PURPOSE: Test catalog persistence, corruption handling and atomic save

package registry_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/filesystem"
	"github.com/arthur-debert/modshelf/pkg/registry"
	"github.com/arthur-debert/modshelf/pkg/testutil"
	"github.com/arthur-debert/modshelf/pkg/types"
)

func entry(name, sub string, active bool, files ...string) types.ManagedEntry {
	return types.ManagedEntry{
		Name:       name,
		BaseName:   types.BaseName(name),
		Files:      files,
		Extensions: types.ExtensionsOf(files),
		Subfolder:  sub,
		Active:     active,
		Category:   "paks",
	}
}

func TestLoad_Missing(t *testing.T) {
	dir := t.TempDir()
	store := registry.NewStore(filesystem.NewOS(), filepath.Join(dir, "registry.json"), "paks")

	cat, status := store.Load()
	assert.Equal(t, registry.LoadMissing, status)
	assert.Equal(t, 0, cat.Len())
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := registry.NewStore(filesystem.NewOS(), path, "paks")
	cat, status := store.Load()
	assert.Equal(t, registry.LoadCorrupt, status)
	assert.Equal(t, 0, cat.Len())
}

func TestLoad_Unreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	fsys := testutil.NewFaultFS(filesystem.NewOS()).Fail(testutil.OpReadFile, path)
	cat, status := registry.NewStore(fsys, path, "paks").Load()
	assert.Equal(t, registry.LoadCorrupt, status)
	assert.Equal(t, 0, cat.Len())
}

func TestLoad_LegacyRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	legacy := `[
  {"name": "Foo.pak", "base_name": "Foo", "files": ["/g/Foo.pak"], "extensions": [".pak"], "subfolder": null, "active": true},
  {"name": "Bar.pak", "files": ["/g/sub/Bar.pak"], "subfolder": "sub\\inner", "active": false},
  {"name": "", "files": []},
  {"name": "Foo.pak", "files": ["/g/other/Foo.pak"], "subfolder": null, "active": true}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	cat, status := registry.NewStore(filesystem.NewOS(), path, "paks").Load()
	assert.Equal(t, registry.LoadOK, status)
	require.Equal(t, 2, cat.Len(), "nameless and duplicate records are dropped")

	foo := cat.Entries[0]
	assert.Equal(t, "paks", foo.Category)
	assert.Equal(t, "", foo.Subfolder)

	bar := cat.Entries[1]
	assert.Equal(t, "Bar", bar.BaseName)
	assert.Equal(t, "sub/inner", bar.Subfolder)
	assert.Equal(t, []string{".pak"}, bar.Extensions)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "registry.json")
	store := registry.NewStore(filesystem.NewOS(), path, "paks")

	installed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cat := registry.NewCatalog()
	foo := entry("Foo.pak", "", true, "/g/Foo.pak", "/g/Foo.ucas")
	foo.InstalledDate = &installed
	foo.Flags = map[string]string{"source": "nexus"}
	require.NoError(t, cat.Add(foo))
	require.NoError(t, cat.Add(entry("Bar.pak", "armor/heavy", false, "/g/d/armor/heavy/Bar.pak")))

	require.NoError(t, store.Save(cat))

	loaded, status := store.Load()
	assert.Equal(t, registry.LoadOK, status)
	assert.Equal(t, cat.Entries, loaded.Entries)

	// top level serialises as null
	var raw []map[string]interface{}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Nil(t, raw[0]["subfolder"])
	assert.Equal(t, "armor/heavy", raw[1]["subfolder"])
	assert.Equal(t, "2025-05-01T12:00:00Z", raw[0]["installed_date"])
}

func TestSave_FailureLeavesPriorContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	fsys := testutil.NewFaultFS(filesystem.NewOS())
	store := registry.NewStore(fsys, path, "paks")

	first := registry.NewCatalog()
	require.NoError(t, first.Add(entry("Foo.pak", "", true, "/g/Foo.pak")))
	require.NoError(t, store.Save(first))

	fsys.Fail(testutil.OpRename, "")
	second := registry.NewCatalog()
	err := store.Save(second)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")

	fsys.Reset()
	loaded, status := store.Load()
	assert.Equal(t, registry.LoadOK, status)
	assert.Equal(t, 1, loaded.Len())
}
