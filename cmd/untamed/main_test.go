package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/trimarea/internal/testutil"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(args ...string) result {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShowBuildID(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	res := execute(img, "show-buildid")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Image version: "+testutil.DefaultBuildID+"\n", res.stdout)
	assert.Contains(t, res.stderr, "Opening file")
}

func TestShowSerialUnderscoreSpelling(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	res := execute("--log-level", "error", img, "show_serial")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Serial no.: "+testutil.DefaultSerial+"\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestShowSerialInvalidUTF8(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithSerial([]byte{0xFF, 0xFF}))
	res := execute(img, "show-serial")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error:")
	assert.Contains(t, res.stderr, "decode")
}

func TestDumpBootlogs(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()
	report := filepath.Join(t.TempDir(), "report.json")

	res := execute("-o", out, "--report", report, img, "dump-bootlogs", "tama")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Saved 10 boot logs")
	assert.Contains(t, res.stderr, "Saved bootlog 1 from 0x2A22E")
	assert.Contains(t, res.stderr, "Saved bootlog 10 from 0x70A2E")

	for i := 1; i <= 10; i++ {
		info, err := os.Stat(filepath.Join(out, "bootlogs", fmt.Sprintf("bootlog%d.txt", i)))
		require.NoError(t, err)
		assert.Equal(t, int64(testutil.BootlogSize), info.Size())
	}

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var descs []ocispec.Descriptor
	require.NoError(t, json.Unmarshal(data, &descs))
	assert.Len(t, descs, 10)
}

func TestDumpBootlogsNotImplemented(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()

	res := execute("-o", out, img, "dump-bootlogs", "kumano")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not implemented")
	assert.Contains(t, res.stderr, "kumano")
	assertEmptyDir(t, out)
}

func TestDumpBootlogsPlatformErrors(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()

	res := execute("-o", out, img, "dump-bootlogs")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "requires a platform")

	res = execute("-o", out, img, "dump-bootlogs", "akari")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown platform")
	assertEmptyDir(t, out)
}

func TestDumpSqliteDB(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithDatabaseExponent(14))
	out := t.TempDir()

	res := execute("-o", out, img, "dump-sqlitedb")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "SQLite DB size: 2^14 (16384 B")

	info, err := os.Stat(filepath.Join(out, "sqlite.db"))
	require.NoError(t, err)
	assert.Equal(t, int64(16384), info.Size())

	// A second run refuses to replace the dump.
	res = execute("-o", out, img, "dump-sqlitedb")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = execute("-o", out, "--overwrite", img, "dump-sqlitedb")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestDumpSqliteDBZstd(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()

	res := execute("-o", out, "--compress", "zstd", img, "dump-sqlitedb")
	require.Equal(t, 0, res.code, res.stderr)
	_, err := os.Stat(filepath.Join(out, "sqlite.db.zst"))
	require.NoError(t, err)

	res = execute("-o", out, "--compress", "lz4", img, "dump-sqlitedb")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid --compress")
}

func TestShowSqliteDB(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithDatabase(testutil.Database(t)))
	res := execute(img, "show-sqlitedb")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "TYPE")
	assert.Regexp(t, `table\s+props\s+3`, res.stdout)
	assert.Regexp(t, `table\s+logs\s+0`, res.stdout)
	assert.Regexp(t, `index\s+props_key\s+-`, res.stdout)
}

func TestUnknownActionExitsCleanly(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()

	res := execute("-o", out, img, "dump-everything")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, `Unknown action "dump-everything"`)
	assert.Contains(t, res.stdout, "dump-bootlogs")
	assertEmptyDir(t, out)
}

func TestSizeMismatch(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithSize(testutil.ImageSize-1))
	out := t.TempDir()

	res := execute("-o", out, img, "dump-sqlitedb")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "size mismatch")
	assert.Contains(t, res.stderr, "Is your dump corrupted?")
	assertEmptyDir(t, out)
}

func TestMagicMismatchWritesNothing(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithMagic(0x00, 0x00))
	out := t.TempDir()

	for _, args := range [][]string{
		{"-o", out, img, "dump-bootlogs", "tama"},
		{"-o", out, img, "dump-sqlitedb"},
		{"-o", out, img, "show-buildid"},
	} {
		res := execute(args...)
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stderr, "TA header mismatch")
		assert.Empty(t, res.stdout)
	}
	assertEmptyDir(t, out)
}

func TestMagicMismatchReportedAtErrorLevel(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t, testutil.WithMagic(0x00, 0x00))
	cfg := filepath.Join(t.TempDir(), "untamed.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level = \"error\"\n"), 0o600))

	for _, args := range [][]string{
		{"--log-level", "error", img, "show-buildid"},
		{"--config", cfg, img, "show-serial"},
	} {
		res := execute(args...)
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stderr, "TA header mismatch!")
		assert.NotContains(t, res.stderr, "Opening file")
		assert.Empty(t, res.stdout)
	}
}

func TestMissingImage(t *testing.T) {
	t.Parallel()

	res := execute(filepath.Join(t.TempDir(), "nope.img"), "show-serial")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "i/o error")
}

func TestArgCount(t *testing.T) {
	t.Parallel()

	res := execute("ta.img")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	out := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "untamed.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf("output_dir = %q\ncompress = \"zstd\"\nlog_level = \"warn\"\n", out)), 0o600))

	res := execute("--config", cfg, img, "dump-sqlitedb")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stderr, "Opening file")
	_, err := os.Stat(filepath.Join(out, "sqlite.db.zst"))
	require.NoError(t, err)

	// Command line flags win over the file.
	res = execute("--config", cfg, "--compress", "none", img, "dump-sqlitedb")
	require.Equal(t, 0, res.code, res.stderr)
	_, err = os.Stat(filepath.Join(out, "sqlite.db"))
	require.NoError(t, err)
}

func TestConfigFileUnknownKey(t *testing.T) {
	t.Parallel()

	img := testutil.WriteImage(t)
	cfg := filepath.Join(t.TempDir(), "untamed.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("outputdir = \"x\"\n"), 0o600))

	res := execute("--config", cfg, img, "show-serial")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown key")
}

func TestLookupAction(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"dump-bootlogs", "dump_bootlogs", "DUMP_BOOTLOGS"} {
		act, ok := lookupAction(name)
		require.True(t, ok, name)
		assert.Equal(t, "dump-bootlogs", act.name)
		assert.True(t, act.needsPlatform)
	}
	_, ok := lookupAction("help-me")
	assert.False(t, ok)
}
