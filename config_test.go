package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	used, err := readConfig(v, "", []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, used)

	cfg := loadConfig(v, nil)
	assert.Equal(t, defaultQuickIgnore, cfg.Filter.QuickIgnore)
	assert.Equal(t, defaultIgnorePatterns, cfg.Filter.IgnorePatterns)
	assert.Equal(t, DefaultMaxFileSize, cfg.Filter.MaxFileSize)
	assert.False(t, cfg.Filter.RespectGitignore)
	assert.Equal(t, "markdown", cfg.DefaultFormat)
	assert.Equal(t, TokenizerConfig{Backend: TokenizerTiktoken, Model: defaultTiktokenModel}, cfg.Tokenizer)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	toml := `quick_ignore = ["generated"]
max_file_size = 2048
respect_gitignore = true
default_format = "json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))

	v := viper.New()
	setDefaults(v)
	used, err := readConfig(v, "", []string{dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), used)

	cfg := loadConfig(v, []string{dir})
	assert.Equal(t, []string{"generated"}, cfg.Filter.QuickIgnore)
	assert.Equal(t, int64(2048), cfg.Filter.MaxFileSize)
	assert.True(t, cfg.Filter.RespectGitignore)
	assert.Equal(t, "json", cfg.DefaultFormat)
	assert.Equal(t, defaultBinaryExtensions, cfg.Filter.BinaryExtensions)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_MAX_FILE_SIZE", "42")
	t.Setenv("FOLIO_OUTPUT_FILE", "out/export.md")
	t.Setenv("FOLIO_TOKENIZER", "huggingface")
	t.Setenv("FOLIO_TOKENIZER_FILE", "/models/tokenizer.json")

	v := viper.New()
	setDefaults(v)
	_, err := readConfig(v, "", []string{t.TempDir()})
	require.NoError(t, err)

	cfg := loadConfig(v, nil)
	assert.Equal(t, int64(42), cfg.Filter.MaxFileSize)
	assert.Equal(t, "out/export.md", cfg.OutputFile)
	assert.Equal(t, TokenizerHuggingFace, cfg.Tokenizer.Backend)
	assert.Equal(t, "/models/tokenizer.json", cfg.Tokenizer.File)
}

func TestReadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_file_size = = 1"), 0o644))

	v := viper.New()
	_, err := readConfig(v, path, nil)
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "folio-export.md", defaultOutputPath(FormatMarkdown))
	assert.Equal(t, "folio-export.json", defaultOutputPath(FormatJSON))
	assert.Equal(t, "folio-export.txt", defaultOutputPath(FormatText))
}

func TestExcludeOutputs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	base := FilterConfig{IgnorePatterns: []string{"**/go.sum"}}

	cfg := excludeOutputs(base, root,
		filepath.Join(root, "folio-export.md"),
		filepath.Join(root, "out", "report.pdf"),
		filepath.Join(outside, "elsewhere.md"),
		"",
	)
	assert.Equal(t, []string{"**/go.sum", "folio-export.md", "out/report.pdf"}, cfg.IgnorePatterns)
	assert.Equal(t, []string{"**/go.sum"}, base.IgnorePatterns)

	f := NewPathFilter(cfg, root, nil)
	assert.True(t, f.Ignored("folio-export.md", false))
	assert.True(t, f.Ignored("out/report.pdf", false))
	assert.False(t, f.Ignored("docs/folio-export.md", false))
}

func TestExportSkipsPreviousExport(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": "package main"})
	dest := filepath.Join(root, defaultOutputPath(FormatText))

	e := newTestExporter()
	e.Filter = excludeOutputs(e.Filter, root, dest)
	for i := 0; i < 2; i++ {
		result, err := e.Export(context.Background(), root, FormatText, dest, NewFileSink(nil), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"main.go"}, recordPaths(result.Document.Files))
		assert.Equal(t, "main.go", result.Document.Structure)
	}
}
