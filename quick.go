package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// lineRange is a 1-based inclusive selection. The zero value selects nothing.
type lineRange struct {
	start, end int
}

// parseLineRange accepts "a:b", "a:" (to the end) and "a" (single line).
func parseLineRange(s string) (lineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return lineRange{}, nil
	}
	startStr, endStr, hasColon := strings.Cut(s, ":")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return lineRange{}, fmt.Errorf("invalid line range %q", s)
	}
	end := start
	if hasColon {
		if endStr == "" {
			end = -1
		} else if end, err = strconv.Atoi(endStr); err != nil || end < start {
			return lineRange{}, fmt.Errorf("invalid line range %q", s)
		}
	}
	return lineRange{start: start, end: end}, nil
}

// apply returns the selected lines of text, or "" for the zero range. A
// selection starting past the last line is an error rather than an empty
// selection, which would export the whole document.
func (r lineRange) apply(text string) (string, error) {
	if r.start == 0 {
		return "", nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if r.start > len(lines) {
		return "", fmt.Errorf("line %d is out of range: document has %d lines", r.start, len(lines))
	}
	end := r.end
	if end < 0 || end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSuffix(strings.Join(lines[r.start-1:end], ""), "\n"), nil
}

// loadActiveDocument reads path as the document of a quick export.
func loadActiveDocument(path string, selection lineRange, langs *LanguageClassifier) (ActiveDocument, error) {
	if path == "" {
		return ActiveDocument{}, ErrNoActiveDocument
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return ActiveDocument{}, fmt.Errorf("%w: %v", ErrNoActiveDocument, err)
	}
	text := string(content)
	selected, err := selection.apply(text)
	if err != nil {
		return ActiveDocument{}, fmt.Errorf("invalid selection for %s: %w", path, err)
	}
	return ActiveDocument{
		Path:      path,
		Language:  langs.Classify(path),
		Text:      text,
		Selection: selected,
	}, nil
}
