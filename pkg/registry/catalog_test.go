// pkg/registry/catalog_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test catalog identity and ownership invariants

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/registry"
)

func TestCatalog_AddRejectsDuplicates(t *testing.T) {
	cat := registry.NewCatalog()
	require.NoError(t, cat.Add(entry("Foo.pak", "", true, "/g/Foo.pak")))

	err := cat.Add(entry("Foo.pak", "", false, "/g/d/Foo.pak"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentity))

	err = cat.Add(entry("Other.pak", "x", true, "/g/Foo.pak"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentity), "file already owned")

	// same name in another subfolder is a different identity
	require.NoError(t, cat.Add(entry("Foo.pak", "x", true, "/g/x/Foo.pak")))
	assert.Equal(t, 2, cat.Len())
}

func TestCatalog_ReplaceRemoveSplit(t *testing.T) {
	cat := registry.NewCatalog()
	foo := entry("Foo.pak", "", true, "/g/Foo.pak")
	bar := entry("Bar.pak", "", true, "/g/Bar.pak")
	require.NoError(t, cat.Add(foo))
	require.NoError(t, cat.Add(bar))

	foo.Active = false
	foo.Files = []string{"/g/d/Foo.pak"}
	require.NoError(t, cat.Replace(foo))
	assert.Equal(t, 0, cat.Index(foo.ID()), "position kept")

	active, disabled := cat.Split()
	assert.Len(t, active, 1)
	assert.Len(t, disabled, 1)

	owner, ok := cat.Owner("/g/d/Foo.pak")
	require.True(t, ok)
	assert.Equal(t, foo.ID(), owner)

	assert.True(t, cat.Remove(bar.ID()))
	assert.False(t, cat.Remove(bar.ID()))
	assert.True(t, errors.IsErrorCode(cat.Replace(bar), errors.ErrNotFound))
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	cat := registry.NewCatalog()
	require.NoError(t, cat.Add(entry("Foo.pak", "", true, "/g/Foo.pak")))

	got, ok := cat.Get(cat.Entries[0].ID())
	require.True(t, ok)
	got.Files[0] = "/changed"
	assert.Equal(t, "/g/Foo.pak", cat.Entries[0].Files[0])
}
