package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/acp/internal/sqlite"
	"github.com/mesh-intelligence/acp/internal/testutil"
	"github.com/mesh-intelligence/acp/pkg/apkg"
	"github.com/mesh-intelligence/acp/pkg/types"
)

// runCmd executes the root command with args against configDir and returns
// what it wrote to stdout.
func runCmd(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := root.ExecuteContext(t.Context())
	return stdout.String(), err
}

// writePackage builds a fixture package with one media file.
func writePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, apkg.CollectionFile)
	require.NoError(t, sqlite.Save(t.Context(), testutil.Collection(), dbPath))

	path := filepath.Join(dir, "deck.apkg")
	testutil.WriteZip(t, path,
		testutil.Entry{Name: apkg.CollectionFile, Data: testutil.ReadFile(t, dbPath)},
		testutil.Entry{Name: apkg.MediaFile, Data: []byte(`{"0": "bonjour.mp3"}`)},
		testutil.Entry{Name: "0", Data: bytes.Repeat([]byte("x"), 2048)},
	)
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "acp v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInitCmd(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "nested", "acp")

	out, err := runCmd(t, configDir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	var cfg types.Config
	require.NoError(t, yaml.Unmarshal(testutil.ReadFile(t, filepath.Join(configDir, configFileExt)), &cfg))
	assert.Equal(t, types.DefaultConfig(), cfg)

	out, err = runCmd(t, configDir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config exists")
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Equal(t, types.DefaultConfig(), cfg)
	})

	t.Run("values from file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt),
			[]byte("log_level: debug\nlog_format: json\nworkspace_dir: /var/tmp/acp\n"), 0o644))
		cfg, err := loadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, types.Config{LogLevel: "debug", LogFormat: "json", WorkspaceDir: "/var/tmp/acp"}, cfg)
	})

	t.Run("unknown level", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("log_level: loud\n"), 0o644))
		_, err := loadConfig(dir)
		assert.ErrorIs(t, err, types.ErrLogLevelUnknown)
		assert.ErrorIs(t, err, types.ErrMalformedDocument)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("log_level: [\n"), 0o644))
		_, err := loadConfig(dir)
		assert.ErrorIs(t, err, types.ErrMalformedDocument)
	})
}

func TestInspectCmd(t *testing.T) {
	src := writePackage(t)
	out, err := runCmd(t, t.TempDir(), "inspect", "-i", src)
	require.NoError(t, err)

	assert.Contains(t, out, "1 notes, 1 cards, 2 review logs, 1 graves")
	assert.Contains(t, out, "Basic")
	assert.Contains(t, out, "Front, Back")
	assert.Contains(t, out, "Default")
	assert.Contains(t, out, "bonjour.mp3")
	assert.Contains(t, out, "2.0 kB")
}

func TestDumpCmd(t *testing.T) {
	src := writePackage(t)

	t.Run("json", func(t *testing.T) {
		out, err := runCmd(t, t.TempDir(), "dump", "-i", src)
		require.NoError(t, err)

		var s summary
		require.NoError(t, json.Unmarshal([]byte(out), &s))
		assert.Equal(t, 1, s.Notes)
		assert.Equal(t, 1, s.Media)
		require.Len(t, s.Models, 1)
		assert.Equal(t, testutil.ModelID, s.Models[0].ID)
		assert.Equal(t, []string{"Front", "Back"}, s.Models[0].Fields)
		assert.Equal(t, 1, s.Models[0].Notes)
		require.Len(t, s.Decks, 1)
		assert.Equal(t, 1, s.Decks[0].Cards)
		assert.Equal(t, int64(2048), s.MediaFiles[0].Size)
		assert.Empty(t, s.Problems)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := runCmd(t, t.TempDir(), "dump", "--format", "yaml", "-i", src)
		require.NoError(t, err)

		var s summary
		require.NoError(t, yaml.Unmarshal([]byte(out), &s))
		assert.Equal(t, 2, s.ReviewLogs)
		assert.Equal(t, "Default", s.Decks[0].Name)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), "dump", "--format", "toml", "-i", src)
		assert.ErrorIs(t, err, types.ErrMalformedDocument)
	})
}

func TestRootCmd(t *testing.T) {
	t.Run("repack to output", func(t *testing.T) {
		src := writePackage(t)
		dest := filepath.Join(t.TempDir(), "out.apkg")

		out, err := runCmd(t, t.TempDir(), "-i", src, "-o", dest, "-v")
		require.NoError(t, err)
		assert.Contains(t, out, dest)

		p, err := apkg.Open(t.Context(), dest)
		require.NoError(t, err)
		defer p.Close()
		assert.Equal(t, testutil.Collection(), p.Collection())
	})

	t.Run("open only", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), "-i", writePackage(t))
		assert.NoError(t, err)
	})

	t.Run("output equals input", func(t *testing.T) {
		src := writePackage(t)
		before := testutil.ReadFile(t, src)

		_, err := runCmd(t, t.TempDir(), "-i", src, "-o", src)
		assert.ErrorIs(t, err, errSamePath)
		assert.Equal(t, "IoError", types.Kind(err))
		assert.Equal(t, before, testutil.ReadFile(t, src))
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), "-i", filepath.Join(t.TempDir(), "nope.apkg"))
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("inspect without input", func(t *testing.T) {
		_, err := runCmd(t, t.TempDir(), "inspect")
		assert.Equal(t, "NotFound", types.Kind(err))
	})
}

func TestSummarizeProblems(t *testing.T) {
	p, err := apkg.Open(t.Context(), writePackage(t))
	require.NoError(t, err)
	defer p.Close()

	p.Collection().Cards[0].DeckID = 99
	s := summarize("deck.apkg", p)
	require.Len(t, s.Problems, 1)
	assert.Contains(t, s.Problems[0], "deck 99")

	var buf bytes.Buffer
	writeInspect(&buf, s)
	assert.Contains(t, buf.String(), "warning: ")
}

func TestRenderTable(t *testing.T) {
	decks := []deckSummary{
		{ID: 1, Name: "Default", Cards: 3},
		{ID: 1700000000000, Name: "Cram", Filtered: true},
	}
	out := renderTable("Decks", deckColumns, decks)
	assert.Contains(t, out, "Decks")
	assert.Contains(t, out, "1700000000000")
	assert.Contains(t, out, "filtered")
	assert.Contains(t, out, "normal")

	media := []mediaSummary{{File: "0", Name: "a.mp3", Size: 1500}, {File: "1", Name: "b.png", Missing: true}}
	out = renderTable("Media", mediaColumns, media, "", "total", "1.5 kB")
	assert.Contains(t, out, "1.5 kB")
	assert.Contains(t, out, "missing")
	assert.Contains(t, strings.ToLower(out), "total")
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.apkg")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))

	same, err := samePath(a, filepath.Join(dir, ".", "a.apkg"))
	require.NoError(t, err)
	assert.True(t, same)

	same, err = samePath(a, filepath.Join(dir, "b.apkg"))
	require.NoError(t, err)
	assert.False(t, same)
}
