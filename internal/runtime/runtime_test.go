package runtime

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/rollcall/internal/config"
	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/output"
	"github.com/manav03panchal/rollcall/internal/storage"
)

// isolate keeps host config and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("ROLLCALL_DATA_DIR", "")
	t.Setenv("ROLLCALL_BACKEND", "")
	t.Setenv("ROLLCALL_DEPARTMENTS", "")
	t.Setenv("ROLLCALL_MIN_FREE_SPACE", "1")
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Empty(t, opts.ConfigPath)
	assert.False(t, opts.InMemory)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	isolate(t)
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.Config)
	assert.NotNil(t, ctx.Backend)
	assert.NotNil(t, ctx.System)
	assert.NotNil(t, ctx.Formatter)
	assert.Equal(t, ":memory:", ctx.Backend.Location())
	assert.NotEmpty(t, logging.RequestIDFromContext(ctx.Request()))
}

func TestNewWithOptions(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	ctx, err := New(Options{
		InMemory:  true,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
		Writer:    &buf,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
	assert.True(t, ctx.IsJSON())

	ctx.Debugf("hello %s", "world")
	assert.Equal(t, "[DEBUG] hello world\n", buf.String())

	// Restore the quiet default for the other tests.
	logging.Init(logging.DefaultConfig())
}

func TestNewMemoryDataDir(t *testing.T) {
	isolate(t)
	ctx, err := New(Options{Overrides: config.Overrides{DataDir: MemoryDataDir}})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, ":memory:", ctx.Backend.Location())
}

func TestNewOnDisk(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	ctx, err := New(Options{Overrides: config.Overrides{DataDir: dir}})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, storage.MembersFileName))
	assert.FileExists(t, filepath.Join(dir, storage.RecordsFileName))
	assert.FileExists(t, filepath.Join(dir, storage.LockFileName))

	// A second runtime on the same directory is locked out.
	_, err = New(Options{Overrides: config.Overrides{DataDir: dir}})
	assert.ErrorIs(t, err, errors.ErrLockHeld)

	require.NoError(t, ctx.Close())
	assert.NoFileExists(t, filepath.Join(dir, storage.LockFileName))

	again, err := New(Options{Overrides: config.Overrides{DataDir: dir}})
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestNewWithConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "backend: sqlite\ndepartments: [Popping, Krump]\ndata_dir: " + filepath.Join(dir, "data") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	ctx, err := New(Options{ConfigPath: path})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, path, ctx.Config.Source)
	assert.Equal(t, filepath.Join(dir, "data", storage.SQLiteFileName), ctx.Backend.Location())
	assert.True(t, ctx.System.Departments().Contains("Krump"))
	assert.False(t, ctx.System.Departments().Contains("House"))
}

func TestNewInvalidConfig(t *testing.T) {
	isolate(t)

	_, err := New(Options{InMemory: true, Overrides: config.Overrides{Backend: "mongo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestContextClose(t *testing.T) {
	isolate(t)
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)

	assert.NoError(t, ctx.Close())
	// Closing twice is a no-op.
	assert.NoError(t, ctx.Close())

	nilCtx := &Context{}
	assert.NoError(t, nilCtx.Close())
}

func TestContextFormatters(t *testing.T) {
	isolate(t)
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.CLIFormatter())
	assert.NotNil(t, ctx.JSONFormatter())
	assert.False(t, ctx.IsJSON())
}

func TestContextDebugfDisabled(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	ctx, err := New(Options{InMemory: true, Writer: &buf})
	require.NoError(t, err)
	defer ctx.Close()

	ctx.Debugf("hidden")
	assert.Empty(t, buf.String())
}

func TestSystemThroughRuntime(t *testing.T) {
	isolate(t)
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	_, err = ctx.System.AddMember(ctx.Request(), "Alice", "House")
	require.NoError(t, err)

	members, err := ctx.System.ListMembers(ctx.Request())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
}
