// cmd/modshelf/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dir), cobra command tree
// PURPOSE: Run modshelf commands end to end against a temp game install

package modshelf

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modshelf/pkg/core"
	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/testutil"
	"github.com/arthur-debert/modshelf/pkg/types"
)

func newCLIEnv(t *testing.T) *testutil.GameEnv {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	env := testutil.NewGameEnv(t)
	env.Mkdir(testutil.PaksDir)
	return env
}

// run executes one invocation with a fresh app and returns its output
func run(t *testing.T, env *testutil.GameEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{fs: env.FS}
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--game", env.Root, "--data-dir", env.DataDir, "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

type listJSON struct {
	Categories []struct {
		Name     string `json:"name"`
		Missing  bool   `json:"missing"`
		Active   []struct {
			Name    string `json:"name"`
			Display string `json:"display"`
		} `json:"active"`
		Disabled []struct {
			Name string `json:"name"`
		} `json:"disabled"`
	} `json:"categories"`
}

func listPaks(t *testing.T, env *testutil.GameEnv) (active, disabled []string) {
	t.Helper()
	out, err := run(t, env, "", "list", "--format", "json")
	require.NoError(t, err)

	var view listJSON
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	for _, c := range view.Categories {
		if c.Name != "paks" {
			continue
		}
		for _, e := range c.Active {
			active = append(active, e.Name)
		}
		for _, e := range c.Disabled {
			disabled = append(disabled, e.Name)
		}
	}
	return active, disabled
}

func TestList_Text(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")
	env.WriteFile(testutil.PaksDisabledDir+"/Bar.pak", "p")

	out, err := run(t, env, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "paks")
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "on  Foo.pak")
	assert.Contains(t, out, "off Bar.pak")
	assert.Contains(t, out, "(not installed)")
}

func TestDisableEnable(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")
	env.WriteFile(testutil.PaksDir+"/Foo.ucas", "u")

	out, err := run(t, env, "", "disable", "Foo.pak")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled Foo.pak")
	assert.True(t, env.Exists(testutil.PaksDisabledDir+"/Foo.ucas"))
	assert.False(t, env.Exists(testutil.PaksDir+"/Foo.pak"))

	active, disabled := listPaks(t, env)
	assert.Empty(t, active)
	assert.Equal(t, []string{"Foo.pak"}, disabled)

	_, err = run(t, env, "", "enable", "paks:|Foo.pak")
	require.NoError(t, err)
	assert.True(t, env.Exists(testutil.PaksDir+"/Foo.pak"))
	assert.True(t, env.Exists(testutil.PaksDir+"/Foo.ucas"))
}

func TestDisable_Several(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/A.pak", "a")
	env.WriteFile(testutil.PaksDir+"/B.pak", "b")

	out, err := run(t, env, "", "disable", "A.pak", "B.pak")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled 2 entries")

	active, disabled := listPaks(t, env)
	assert.Empty(t, active)
	assert.ElementsMatch(t, []string{"A.pak", "B.pak"}, disabled)
}

func TestDisable_UnknownEntry(t *testing.T) {
	env := newCLIEnv(t)

	_, err := run(t, env, "", "disable", "Nope.pak")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestDisable_BadID(t *testing.T) {
	env := newCLIEnv(t)

	_, err := run(t, env, "", "disable", "paks:|sub/Foo.pak")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentity))
}

func TestRenameAndGroup_ShowInTree(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")
	env.WriteFile(testutil.PaksDir+"/Bar.pak", "p")

	out, err := run(t, env, "", "rename", "Foo.pak", "Better Foo")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed Foo.pak to "Better Foo"`)

	out, err = run(t, env, "", "group", "Foo.pak", "Armor/Heavy")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved Foo.pak to group Armor/Heavy")

	out, err = run(t, env, "", "list", "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Armor")
	assert.Contains(t, out, "Heavy")
	assert.Contains(t, out, "Better Foo")
	assert.Contains(t, out, "Ungrouped")

	out, err = run(t, env, "", "show", "Foo.pak", "--format", "json")
	require.NoError(t, err)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "Better Foo", detail["display"])
	assert.Equal(t, "Armor/Heavy", detail["group"])

	out, err = run(t, env, "", "group", "Foo.pak")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Foo.pak from its group")
}

func TestTag(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")

	out, err := run(t, env, "", "tag", "Foo.pak", "note", "needs patch")
	require.NoError(t, err)
	assert.Contains(t, out, "Set note on Foo.pak")

	out, err = run(t, env, "", "show", "Foo.pak")
	require.NoError(t, err)
	assert.Contains(t, out, "needs patch")

	out, err = run(t, env, "", "tag", "Foo.pak", "note")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared note on Foo.pak")
}

func TestAddAndRemove(t *testing.T) {
	env := newCLIEnv(t)
	src := env.WriteFile("downloads/New.pak", "n")
	env.WriteFile("downloads/New.utoc", "t")

	out, err := run(t, env, "", "add", src, "--subfolder", "armor")
	require.NoError(t, err)
	assert.Contains(t, out, "Added paks:armor|New.pak")
	assert.True(t, env.Exists(testutil.PaksDir+"/armor/New.pak"))
	assert.True(t, env.Exists(testutil.PaksDir+"/armor/New.utoc"))

	out, err = run(t, env, "", "remove", "armor|New.pak")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed New.pak")
	assert.False(t, env.Exists(testutil.PaksDir+"/armor/New.pak"))
}

func TestReconcile_JSON(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")

	out, err := run(t, env, "", "reconcile", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Added   []string `json:"added"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"paks:|Foo.pak"}, report.Added)
	assert.Contains(t, report.Missing, "obse")

	out, err = run(t, env, "", "reconcile", "--format", "json")
	require.NoError(t, err)
	report.Added = nil
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Empty(t, report.Added)
}

func TestLoadOrder(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.DataDir+"/Oblivion.esm", "m")
	env.WriteFile(testutil.DataDir+"/Extra.esp", "p")

	out, err := run(t, env, "", "load-order", "set", "Oblivion.esm", "Gone.esp")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved load order (2 plugins)")

	out, err = run(t, env, "", "load-order", "--format", "json")
	require.NoError(t, err)
	var view struct {
		Order    []string `json:"order"`
		Missing  []string `json:"missing"`
		Unlisted []string `json:"unlisted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, []string{"Oblivion.esm", "Gone.esp"}, view.Order)
	assert.Equal(t, []string{"Gone.esp"}, view.Missing)
	assert.Equal(t, []string{"Extra.esp"}, view.Unlisted)

	out, err = run(t, env, "", "load-order", "available")
	require.NoError(t, err)
	assert.Contains(t, out, "Extra.esp")
	assert.Contains(t, out, "Oblivion.esm")
}

func TestResolve(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, env, "", "resolve", "Paks/~mods", "--format", "json")
	require.NoError(t, err)
	var view struct {
		Best string `json:"best"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, env.Path(testutil.PaksDir), view.Best)

	_, err = run(t, env, "", "resolve")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSession_UndoRedo(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")

	script := strings.Join([]string{
		"disable Foo.pak",
		"undo",
		"# comment",
		"",
		"history",
		"redo",
		"undo",
		"undo",
		"quit",
		"disable Foo.pak",
	}, "\n")

	out, err := run(t, env, script, "session")
	require.NoError(t, err)

	assert.Contains(t, out, "Disabled Foo.pak")
	assert.Contains(t, out, "Undid: Disable Foo.pak")
	assert.Contains(t, out, "Redid: Disable Foo.pak")
	assert.Contains(t, out, "(undone)")
	assert.Contains(t, out, "nothing to undo")

	// quit stops before the last line
	assert.True(t, env.Exists(testutil.PaksDir+"/Foo.pak"))
	assert.False(t, env.Exists(testutil.PaksDisabledDir+"/Foo.pak"))
}

func TestSession_QuotedArgs(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")

	out, err := run(t, env, `rename Foo.pak "Fancy Foo"`+"\nundo\n", "session")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed Foo.pak to "Fancy Foo"`)
	assert.Contains(t, out, `Undid: Rename Foo.pak to "Fancy Foo"`)
}

func TestSessionPrompt_FollowsHistory(t *testing.T) {
	env := newCLIEnv(t)
	env.WriteFile(testutil.PaksDir+"/Foo.pak", "p")
	m := core.New(env.Config, env.Paths, env.FS)
	prompt := newSessionPrompt(m)
	id := types.EntryID{Category: "paks", Name: "Foo.pak"}

	assert.Equal(t, "modshelf> ", prompt.String())
	require.NoError(t, m.Toggle(id, false))
	assert.Equal(t, "modshelf*> ", prompt.String())
	require.NoError(t, m.Undo())
	assert.Equal(t, "modshelf> ", prompt.String())
	require.NoError(t, m.Redo())
	m.ClearHistory()
	assert.Equal(t, "modshelf> ", prompt.String())
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "disable A.pak B.pak", []string{"disable", "A.pak", "B.pak"}},
		{"extra spaces", "  list \t --tree ", []string{"list", "--tree"}},
		{"double quotes", `rename A.pak "Fancy A"`, []string{"rename", "A.pak", "Fancy A"}},
		{"single quotes", `group A.pak 'My Group/Sub'`, []string{"group", "A.pak", "My Group/Sub"}},
		{"empty quoted", `rename A.pak ""`, []string{"rename", "A.pak", ""}},
		{"escaped space", `show My\ Mod.pak`, []string{"show", "My Mod.pak"}},
		{"backslash in single quotes", `show 'a\b'`, []string{"show", `a\b`}},
		{"joined quotes", `x"y z"w`, []string{"xy zw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := splitArgs(`rename "open`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestGenConfig(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, env, "", "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "# modshelf configuration")
	assert.Contains(t, out, "# default_category")
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, env, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "modshelf "))
}

func TestRoot_NoCommand(t *testing.T) {
	env := newCLIEnv(t)

	_, err := run(t, env, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgErrNoCommand)
}

func TestRoot_BadFormat(t *testing.T) {
	env := newCLIEnv(t)

	_, err := run(t, env, "", "list", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
