package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxFileSize is the content-capture threshold (1 MiB). Files at exactly
// this size are still captured.
const DefaultMaxFileSize int64 = 1 << 20

// Sentinel errors shared by the walker, the exporter and the CLI.
var (
	ErrNoRoot           = errors.New("no root directory available")
	ErrNoActiveDocument = errors.New("no active document")
	ErrCancelled        = errors.New("export cancelled")
	ErrUnknownFormat    = errors.New("unknown export format")
)

// FileRecord holds one file accepted for export.
type FileRecord struct {
	Path         string // root-relative, forward slashes
	Content      string
	Language     string
	Size         int64
	LastModified time.Time
}

// StructureEntry is one line of the rendered directory tree.
type StructureEntry struct {
	Depth int
	Name  string
	IsDir bool
}

// ExportDocument is built once per export and rendered immediately.
type ExportDocument struct {
	ExportedAt time.Time
	Structure  string
	Files      []FileRecord
}

// Summary holds aggregated information about an export.
type Summary struct {
	TotalFiles   int
	TotalSize    int64
	SkippedFiles int
	TotalTokens  int
}

// Format selects the rendering of an export document.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// ParseFormat accepts the canonical names plus the usual short aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "plain":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the file extension used when saving a full export.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// QuickFormat is the subset of formats offered for single-document export.
type QuickFormat string

const (
	QuickText     QuickFormat = "text"
	QuickMarkdown QuickFormat = "markdown"
)

// ParseQuickFormat validates a quick-export format name.
func ParseQuickFormat(s string) (QuickFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "plain":
		return QuickText, nil
	case "markdown", "md":
		return QuickMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ActiveDocument is the input of a quick export: a single document and an
// optional selection within it.
type ActiveDocument struct {
	Path      string
	Language  string
	Text      string
	Selection string // empty means the whole document
}
