package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// exportCandidates lists the files under root that a full export would show
// in its structure.
func exportCandidates(root string, filter *PathFilter) ([]string, error) {
	var candidates []string
	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p == "." {
			return nil
		}
		if !filter.InStructure(p, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			candidates = append(candidates, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for files: %w", err)
	}
	return candidates, nil
}

// pickDocument opens a fuzzy finder over the export candidates. It returns
// "" when the user aborts.
func pickDocument(root string, filter *PathFilter) (string, error) {
	candidates, err := exportCandidates(root, filter)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no files found to select from")
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select a file to export. Enter to confirm, Esc to abort."
			}
			info, statErr := os.Stat(filepath.Join(root, candidates[i]))
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", candidates[i], statErr)
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes\nModified: %s", candidates[i], info.Size(), isoTime(info.ModTime()))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}
	return filepath.Join(root, candidates[idx]), nil
}
