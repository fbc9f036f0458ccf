package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultFilterConfig() FilterConfig {
	return FilterConfig{
		QuickIgnore:      defaultQuickIgnore,
		IgnorePatterns:   defaultIgnorePatterns,
		BinaryExtensions: defaultBinaryExtensions,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

func newTestFilter(t *testing.T) *PathFilter {
	t.Helper()
	return NewPathFilter(defaultFilterConfig(), "", nil)
}

func TestIsQuickIgnored(t *testing.T) {
	f := newTestFilter(t)
	assert.True(t, f.IsQuickIgnored("node_modules"))
	assert.True(t, f.IsQuickIgnored(".git"))
	assert.True(t, f.IsQuickIgnored(".vscode"))
	assert.False(t, f.IsQuickIgnored("src"))
	assert.False(t, f.IsQuickIgnored("Node_Modules"))
}

func TestIsPatternIgnored(t *testing.T) {
	f := newTestFilter(t)
	assert.True(t, f.IsPatternIgnored("web/app.min.js"))
	assert.True(t, f.IsPatternIgnored("package-lock.json"))
	assert.True(t, f.IsPatternIgnored("pkg/node_modules/x.js"))
	assert.False(t, f.IsPatternIgnored("src/app.js"))
}

func TestIsBinary(t *testing.T) {
	f := newTestFilter(t)
	assert.True(t, f.IsBinary("image.png"))
	assert.True(t, f.IsBinary("assets/LOGO.PNG"))
	assert.True(t, f.IsBinary("lib/native.so"))
	assert.False(t, f.IsBinary("icon.svg"))
	assert.False(t, f.IsBinary("Makefile"))
}

func TestSizeThreshold(t *testing.T) {
	f := newTestFilter(t)
	assert.True(t, f.Accepts("big.txt", DefaultMaxFileSize))
	assert.False(t, f.Accepts("big.txt", DefaultMaxFileSize+1))
	assert.True(t, f.InStructure("big.txt", false), "oversized text files stay in the structure")
	assert.False(t, f.InStructure("image.png", false))
	assert.True(t, f.InStructure("assets.png", true), "binary extensions only apply to files")
}

func TestInjectedTables(t *testing.T) {
	f := NewPathFilter(FilterConfig{
		QuickIgnore:      []string{"generated"},
		IgnorePatterns:   []string{"**/**.snap"},
		BinaryExtensions: []string{"dat"},
		MaxFileSize:      10,
	}, "", nil)

	assert.True(t, f.Ignored("generated", true))
	assert.True(t, f.Ignored("a/b/generated", true))
	assert.False(t, f.Ignored("node_modules", true))
	assert.True(t, f.Ignored("tests/__snapshots__/x.snap", false))
	assert.True(t, f.IsBinary("blob.dat"))
	assert.False(t, f.IsBinary("image.png"))
	assert.True(t, f.IsOversized(11))
	assert.Equal(t, int64(10), f.MaxFileSize())
}

func TestZeroMaxSizeUsesDefault(t *testing.T) {
	f := NewPathFilter(FilterConfig{}, "", nil)
	assert.Equal(t, DefaultMaxFileSize, f.MaxFileSize())
}

func TestRespectGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secrets/\n*.env\n"), 0o644))

	cfg := defaultFilterConfig()
	cfg.RespectGitignore = true
	f := NewPathFilter(cfg, root, nil)

	assert.True(t, f.Ignored("secrets", true))
	assert.True(t, f.Ignored("config/prod.env", false))
	assert.False(t, f.Ignored("src/main.go", false))

	cfg.RespectGitignore = false
	assert.False(t, NewPathFilter(cfg, root, nil).Ignored("config/prod.env", false))
}
