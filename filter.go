package main

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// FilterConfig is the data a PathFilter is built from. Nothing in it is
// hard-coded into the filter itself, so tests can inject their own sets.
type FilterConfig struct {
	QuickIgnore      []string
	IgnorePatterns   []string
	BinaryExtensions []string
	MaxFileSize      int64
	RespectGitignore bool
}

// PathFilter decides which paths are excluded from an export. The exact-name
// set is checked first; the pattern list (and .gitignore, when enabled) only
// runs for names that survive it.
type PathFilter struct {
	quick     map[string]struct{}
	patterns  []Pattern
	binary    map[string]struct{}
	maxSize   int64
	gitignore gitignore.IgnoreMatcher
	root      string
}

// NewPathFilter compiles cfg. When cfg.RespectGitignore is set, the .gitignore
// at root (if any) is loaded; a parse failure is logged and ignored.
func NewPathFilter(cfg FilterConfig, root string, logger *zap.Logger) *PathFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &PathFilter{
		quick:    make(map[string]struct{}, len(cfg.QuickIgnore)),
		patterns: compilePatterns(cfg.IgnorePatterns),
		binary:   make(map[string]struct{}, len(cfg.BinaryExtensions)),
		maxSize:  cfg.MaxFileSize,
		root:     root,
	}
	if f.maxSize <= 0 {
		f.maxSize = DefaultMaxFileSize
	}
	for _, name := range cfg.QuickIgnore {
		if name = strings.TrimSpace(name); name != "" {
			f.quick[name] = struct{}{}
		}
	}
	for _, ext := range cfg.BinaryExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.binary[ext] = struct{}{}
	}

	if cfg.RespectGitignore && root != "" {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if file, err := os.Open(gitIgnorePath); err == nil {
			f.gitignore = gitignore.NewGitIgnoreFromReader(root, file)
			file.Close()
			logger.Debug("Loaded .gitignore", zap.String("path", gitIgnorePath))
		} else if !os.IsNotExist(err) {
			logger.Warn("Could not open .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
		}
	}
	return f
}

// MaxFileSize returns the content-capture threshold in bytes.
func (f *PathFilter) MaxFileSize() int64 { return f.maxSize }

// IsQuickIgnored reports whether basename is in the always-excluded name set.
func (f *PathFilter) IsQuickIgnored(basename string) bool {
	_, ok := f.quick[basename]
	return ok
}

// IsPatternIgnored reports whether relPath matches any configured pattern.
func (f *PathFilter) IsPatternIgnored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, p := range f.patterns {
		if p.Match(relPath) {
			return true
		}
	}
	return false
}

// IsBinary reports whether the extension of p is in the binary set.
func (f *PathFilter) IsBinary(p string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(p)))
	if ext == "" {
		return false
	}
	_, ok := f.binary[ext]
	return ok
}

// IsOversized reports whether size exceeds the threshold.
func (f *PathFilter) IsOversized(size int64) bool {
	return size > f.maxSize
}

// Ignored is the traversal check shared by every pass: quick name set first,
// then the pattern list and the optional .gitignore.
func (f *PathFilter) Ignored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	if f.IsQuickIgnored(path.Base(relPath)) {
		return true
	}
	if f.IsPatternIgnored(relPath) {
		return true
	}
	if f.gitignore != nil && f.gitignore.Match(filepath.Join(f.root, filepath.FromSlash(relPath)), isDir) {
		return true
	}
	return false
}

// InStructure reports whether a path belongs in the tree view. Oversized
// files still appear there.
func (f *PathFilter) InStructure(relPath string, isDir bool) bool {
	if f.Ignored(relPath, isDir) {
		return false
	}
	return isDir || !f.IsBinary(relPath)
}

// Accepts reports whether a file's content may be captured.
func (f *PathFilter) Accepts(relPath string, size int64) bool {
	return f.InStructure(relPath, false) && !f.IsOversized(size)
}
