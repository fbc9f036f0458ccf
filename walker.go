package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// WalkState tracks a Walker through one scan.
type WalkState int

const (
	StateIdle WalkState = iota
	StateCounting
	StateScanning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s WalkState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCounting:
		return "counting"
	case StateScanning:
		return "scanning"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("WalkState(%d)", int(s))
}

// Walker enumerates a root directory for one export. All filesystem access is
// sequential; a Walker must not be shared between concurrent exports.
type Walker struct {
	fsys    fs.FS
	filter  *PathFilter
	langs   *LanguageClassifier
	logger  *zap.Logger
	state   WalkState
	skipped int
}

// NewWalker walks the directory root on disk.
func NewWalker(root string, filter *PathFilter, langs *LanguageClassifier, logger *zap.Logger) (*Walker, error) {
	if root == "" {
		return nil, ErrNoRoot
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoRoot, root)
	}
	return NewWalkerFS(os.DirFS(root), filter, langs, logger), nil
}

// NewWalkerFS walks fsys with "." as the root.
func NewWalkerFS(fsys fs.FS, filter *PathFilter, langs *LanguageClassifier, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if langs == nil {
		langs = NewLanguageClassifier(nil)
	}
	return &Walker{fsys: fsys, filter: filter, langs: langs, logger: logger}
}

// State returns the current state.
func (w *Walker) State() WalkState { return w.state }

// Skipped returns how many files the last scan examined but did not capture.
func (w *Walker) Skipped() int { return w.skipped }

// Count returns the number of entries a scan will examine. It applies the
// same ignore checks as Scan so that progress increments add up to 100.
func (w *Walker) Count(ctx context.Context) (int, error) {
	w.state = StateCounting
	total := 0
	err := w.countDir(ctx, ".", &total)
	if err != nil {
		w.finish(err)
		return 0, err
	}
	return total, nil
}

func (w *Walker) countDir(ctx context.Context, dir string, total *int) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.logger.Warn("Failed to read directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		rel := joinRel(dir, entry.Name())
		isDir, ok := w.resolve(rel, entry)
		if !ok || w.filter.Ignored(rel, isDir) {
			continue
		}
		*total++
		if isDir {
			if err := w.countDir(ctx, rel, total); err != nil {
				return err
			}
		}
	}
	return nil
}

// scanState is owned by a single Scan call.
type scanState struct {
	total     int
	scanned   int
	increment float64
	files     []FileRecord
	reporter  ProgressReporter
}

// Scan counts, then captures every accepted file. Records are returned in
// listing order. On cancellation the collected records are discarded and
// ErrCancelled is returned.
func (w *Walker) Scan(ctx context.Context, reporter ProgressReporter) ([]FileRecord, error) {
	w.skipped = 0
	total, err := w.Count(ctx)
	if err != nil {
		return nil, err
	}

	w.state = StateScanning
	st := &scanState{total: total, reporter: reporter}
	if total > 0 {
		st.increment = 100 / float64(total)
	}
	w.logger.Debug("Starting scan", zap.Int("totalEntries", total))

	if err := w.scanDir(ctx, ".", st); err != nil {
		w.finish(err)
		return nil, err
	}
	w.state = StateCompleted
	w.logger.Debug("Scan completed", zap.Int("files", len(st.files)), zap.Int("skipped", w.skipped))
	return st.files, nil
}

func (w *Walker) scanDir(ctx context.Context, dir string, st *scanState) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.logger.Warn("Failed to read directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		rel := joinRel(dir, entry.Name())
		isDir, ok := w.resolve(rel, entry)
		if !ok {
			continue
		}
		if w.filter.Ignored(rel, isDir) {
			w.logger.Debug("Skipping ignored path", zap.String("path", rel))
			continue
		}

		st.scanned++
		reportProgress(st.reporter, Progress{
			Message:   fmt.Sprintf("Scanning %s (%d/%d)", rel, st.scanned, st.total),
			Increment: st.increment,
			Scanned:   st.scanned,
			Total:     st.total,
		}, w.logger)

		if isDir {
			if err := w.scanDir(ctx, rel, st); err != nil {
				return err
			}
			continue
		}
		if record, ok := w.captureFile(rel, entry); ok {
			st.files = append(st.files, record)
		} else {
			w.skipped++
		}
	}
	return nil
}

// captureFile applies the per-file checks and reads the content. Failures are
// logged and reported as a skip.
func (w *Walker) captureFile(rel string, entry fs.DirEntry) (FileRecord, bool) {
	if w.filter.IsBinary(rel) {
		w.logger.Debug("Skipping binary file", zap.String("path", rel))
		return FileRecord{}, false
	}
	info, err := w.fileInfo(rel, entry)
	if err != nil {
		w.logger.Warn("Could not stat file", zap.String("path", rel), zap.Error(err))
		return FileRecord{}, false
	}
	if !info.Mode().IsRegular() {
		w.logger.Debug("Skipping non-regular file", zap.String("path", rel))
		return FileRecord{}, false
	}
	if w.filter.IsOversized(info.Size()) {
		w.logger.Debug("Skipping oversized file",
			zap.String("path", rel),
			zap.Int64("sizeBytes", info.Size()),
			zap.Int64("maxSizeBytes", w.filter.MaxFileSize()))
		return FileRecord{}, false
	}
	content, err := fs.ReadFile(w.fsys, rel)
	if err != nil {
		w.logger.Warn("Failed to read file", zap.String("path", rel), zap.Error(err))
		return FileRecord{}, false
	}
	return FileRecord{
		Path:         rel,
		Content:      string(content),
		Language:     w.langs.Classify(rel),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, true
}

// resolve reports whether entry takes part in the traversal and whether it is
// a directory. A symlink to a regular file stands in for that file; links to
// directories and broken links are left out of every pass, so the traversal
// cannot loop.
func (w *Walker) resolve(rel string, entry fs.DirEntry) (isDir bool, ok bool) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), true
	}
	info, err := fs.Stat(w.fsys, rel)
	if err != nil {
		w.logger.Debug("Skipping broken symlink", zap.String("path", rel), zap.Error(err))
		return false, false
	}
	if !info.Mode().IsRegular() {
		w.logger.Debug("Skipping symlink to non-regular file", zap.String("path", rel))
		return false, false
	}
	return false, true
}

// fileInfo follows a symlink to its target.
func (w *Walker) fileInfo(rel string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return fs.Stat(w.fsys, rel)
	}
	return entry.Info()
}

func (w *Walker) finish(err error) {
	if err == ErrCancelled {
		w.state = StateCancelled
		w.logger.Info("Scan cancelled")
		return
	}
	w.state = StateFailed
}

// BuildStructure is an independent traversal producing the tree view:
// directories before files, each group in byte order, depth equal to the
// nesting level. Oversized files are listed, binary ones are not.
func (w *Walker) BuildStructure(ctx context.Context) ([]StructureEntry, error) {
	var out []StructureEntry
	if err := w.structureDir(ctx, ".", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Walker) structureDir(ctx context.Context, dir string, depth int, out *[]StructureEntry) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		w.logger.Warn("Failed to read directory for structure", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	sortStructureEntries(entries)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		rel := joinRel(dir, entry.Name())
		isDir, ok := w.resolve(rel, entry)
		if !ok || !w.filter.InStructure(rel, isDir) {
			continue
		}
		*out = append(*out, StructureEntry{Depth: depth, Name: entry.Name(), IsDir: isDir})
		if isDir {
			if err := w.structureDir(ctx, rel, depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortStructureEntries orders directories first, then files, by name.
func sortStructureEntries(entries []fs.DirEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
}

// RenderStructure turns entries into the indented text embedded in exports.
func RenderStructure(entries []StructureEntry) string {
	var builder strings.Builder
	for i, e := range entries {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(strings.Repeat("  ", e.Depth))
		builder.WriteString(e.Name)
		if e.IsDir {
			builder.WriteString("/")
		}
	}
	return builder.String()
}

func joinRel(dir, name string) string {
	if dir == "." {
		return name
	}
	return path.Join(dir, name)
}
