package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/itemlists/internal/kv"
	"github.com/mesh-intelligence/itemlists/internal/migrate"
	"github.com/mesh-intelligence/itemlists/internal/paths"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// testEnv is an isolated configuration and data directory.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

type result struct {
	stdout string
	stderr string
	code   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{paths.EnvConfigDir, paths.EnvDataDir, "ITEMLISTS_BACKEND", "ITEMLISTS_NAMESPACE", "ITEMLISTS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes the CLI in-process against the jsonl backend.
func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	full := append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--backend", types.BackendJSONL,
		"--log-level", "error",
	}, args...)
	code := run(root, full, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.code, "args %v: stderr %s", args, r.stderr)
	return r.stdout
}

func (e *testEnv) listDirectory() types.Directory {
	e.t.Helper()
	var dir types.Directory
	require.NoError(e.t, json.Unmarshal([]byte(e.mustRun("list", "--json")), &dir))
	return dir
}

func (e *testEnv) showList(ref string) types.ItemList {
	e.t.Helper()
	var list types.ItemList
	require.NoError(e.t, json.Unmarshal([]byte(e.mustRun("show", ref, "--json")), &list))
	return list
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("version")
	assert.Equal(t, fmt.Sprintf("itemlists v%s\nmodule: %s\n", Version, modulePath), out)
}

func TestInitSeedsOnce(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("init")
	assert.Contains(t, out, "Wrote "+paths.ConfigFile(e.configDir))
	assert.Contains(t, out, "3 item lists")
	assert.FileExists(t, paths.ConfigFile(e.configDir))
	assert.FileExists(t, filepath.Join(e.dataDir, kv.JSONLFileName))

	out = e.mustRun("init")
	assert.NotContains(t, out, "Wrote")
	assert.Contains(t, out, "3 item lists")

	dir := e.listDirectory()
	assert.Equal(t, migrate.DirectoryVersion, dir.Version)
	require.Len(t, dir.Entries, 3)
	assert.Equal(t, "Venture City Items", dir.Entries[0].Title)
}

func TestDefaultConfigFileContent(t *testing.T) {
	dir := t.TempDir()
	written, err := writeDefaultConfig(dir)
	require.NoError(t, err)
	require.True(t, written)

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend))
	assert.Equal(t, types.DefaultNamespace, v.GetString(cfgKeyNamespace))
	assert.Equal(t, defaultLogLevel, v.GetString(cfgKeyLogLevel))

	written, err = writeDefaultConfig(dir)
	require.NoError(t, err)
	assert.False(t, written)
}

func TestConfigFileSelectsNamespace(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	cfg := "backend: jsonl\nnamespace: my-table\nlog_level: error\n"
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir), []byte(cfg), 0o644))

	e.mustRun("init")

	dir := e.listDirectory()
	require.NotEmpty(t, dir.Entries)
	assert.True(t, strings.HasPrefix(dir.Entries[0].Key, "my-table:"), dir.Entries[0].Key)
}

func TestCreateShowSetDelete(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	uuid := strings.TrimSpace(e.mustRun("create", "--title", "Loot", "--item", "Sword", "--item", "Rope"))
	require.NotEmpty(t, uuid)

	list := e.showList(uuid)
	assert.Equal(t, "Loot", list.Title)
	require.Len(t, list.Items, types.CellCount)
	assert.Equal(t, "Sword", list.Items[0].Name)
	assert.Equal(t, "Rope", list.Items[1].Name)
	require.NotNil(t, list.Items[0].Probability)
	assert.Equal(t, 1, *list.Items[0].Probability)

	e.mustRun("set", "loot", "--title", "Dungeon Loot", "--item", "14=Cursed Ring")
	list = e.showList(uuid)
	assert.Equal(t, "Dungeon Loot", list.Title)
	assert.Equal(t, "Cursed Ring", list.Items[14].Name)
	assert.Equal(t, "Sword", list.Items[0].Name)

	text := e.mustRun("show", "Dungeon Loot")
	assert.Contains(t, text, "Dungeon Loot")
	assert.Contains(t, text, "Cursed Ring (1/81, 99-00)")

	assert.Len(t, e.listDirectory().Entries, 4)

	e.mustRun("delete", uuid)
	r := e.run("show", uuid)
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "not found")
	assert.Len(t, e.listDirectory().Entries, 3)
}

func TestCreateRejectsTooManyItems(t *testing.T) {
	e := newTestEnv(t)
	args := []string{"create"}
	for i := 0; i <= types.CellCount; i++ {
		args = append(args, "--item", fmt.Sprint(i))
	}
	r := e.run(args...)
	assert.Equal(t, exitUserError, r.code)
}

func TestSetValidatesEdits(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	tests := []struct {
		name string
		args []string
	}{
		{name: "nothing to change", args: []string{"set", "Tavern Rumors"}},
		{name: "missing equals", args: []string{"set", "Tavern Rumors", "--item", "rope"}},
		{name: "index out of range", args: []string{"set", "Tavern Rumors", "--item", "15=rope"}},
		{name: "unknown list", args: []string{"set", "nope", "--title", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.run(tt.args...)
			assert.Equal(t, exitUserError, r.code, r.stderr)
		})
	}
}

func TestReset(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	e.mustRun("create", "--title", "Extra")
	require.Len(t, e.listDirectory().Entries, 4)

	r := e.run("reset")
	assert.Equal(t, exitUserError, r.code)
	assert.Len(t, e.listDirectory().Entries, 4)

	out := e.mustRun("reset", "--yes")
	assert.Contains(t, out, "Restored 3")
	assert.Len(t, e.listDirectory().Entries, 3)
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	out := e.mustRun("export", "Tavern Rumors", "--format", "csv")
	assert.True(t, strings.HasPrefix(out, "num_minus,0_plus,1_plus,2_plus,3_plus,4_plus\n0,\""), out)

	out = e.mustRun("export", "Tavern Rumors", "--format", "html")
	assert.Contains(t, out, "<table>")

	dir := filepath.Join(t.TempDir(), "out")
	out = e.mustRun("export", "Venture City Items", "--dir", dir)
	path := filepath.Join(dir, "venture-city-items.md")
	assert.Equal(t, path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "***Venture City Items***\n"))

	r := e.run("export", "Tavern Rumors", "--format", "pdf")
	assert.Equal(t, exitUserError, r.code)
}

func TestRollIsRepeatableWithSeed(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	list := e.showList("Starship Malfunctions")

	for _, extra := range [][]string{nil, {"--d100"}} {
		args := append([]string{"roll", "Starship Malfunctions", "--seed", "42", "--json"}, extra...)
		first := e.mustRun(args...)
		second := e.mustRun(args...)
		assert.Equal(t, first, second)

		var res rollResult
		require.NoError(t, json.Unmarshal([]byte(first), &res))
		require.NotNil(t, res.Item.Index)
		assert.Equal(t, list.Items[*res.Item.Index].Name, res.Item.Name)
		assert.LessOrEqual(t, res.Minus+res.Plus, 4)
	}

	out := e.mustRun("roll", "Starship Malfunctions", "--seed", "1")
	assert.Contains(t, out, "dice: ")
	assert.Contains(t, out, "item: ")
}

func TestInvalidBackend(t *testing.T) {
	e := newTestEnv(t)
	r := e.run("--backend", "postgres", "list")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "unknown backend")
}

func TestUnmigratableStoreIsSystemError(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.dataDir, 0o755))
	value, err := json.Marshal(`{"version":"9.0","entries":[]}`)
	require.NoError(t, err)
	line := fmt.Sprintf(`{"key":%q,"value":%s}`+"\n", types.DefaultNamespace, value)
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, kv.JSONLFileName), []byte(line), 0o644))

	r := e.run("list")
	assert.Equal(t, exitSysError, r.code)
	assert.Contains(t, r.stderr, "no migration path")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "not found", err: fmt.Errorf("item list: %w", types.ErrNotFound), want: exitUserError},
		{name: "plain", err: errors.New("bad flag"), want: exitUserError},
		{name: "system", err: systemError("open store", errors.New("disk")), want: exitSysError},
		{name: "migration", err: fmt.Errorf("x: %w", migrate.ErrNoMigrationPath), want: exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestCopyToAnotherBackend(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	e.mustRun("create", "--title", "Extra", "--item", "Lamp")

	target := filepath.Join(t.TempDir(), "snapshot")
	out := e.mustRun("copy", "--to-backend", types.BackendSQLite, "--to-data-dir", target)
	assert.Contains(t, out, "Copied 5 keys")

	copied := &testEnv{t: t, configDir: e.configDir, dataDir: target}
	r := copied.run("--backend", types.BackendSQLite, "show", "Extra", "--json")
	require.Equal(t, exitSuccess, r.code, r.stderr)
	var list types.ItemList
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &list))
	assert.Equal(t, "Lamp", list.Items[0].Name)

	r = e.run("copy", "--to-backend", types.BackendJSONL, "--to-data-dir", e.dataDir)
	assert.Equal(t, exitUserError, r.code)
}

func TestWatchRejectsMemoryBackend(t *testing.T) {
	e := newTestEnv(t)
	r := e.run("--backend", types.BackendMemory, "watch", "Tavern Rumors")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "no file to watch")
}
