package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	isoLayout      = "2006-01-02T15:04:05.000Z"
	separatorWidth = 80
	minFenceLength = 3
)

// isoTime formats t as a UTC ISO-8601 timestamp with millisecond precision.
func isoTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// Render serializes doc. The output depends only on doc and format.
func Render(doc ExportDocument, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(doc), nil
	case FormatJSON:
		return renderJSON(doc)
	case FormatText:
		return renderText(doc), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

func renderMarkdown(doc ExportDocument) string {
	var builder strings.Builder
	builder.WriteString("# Project Export\n\n")
	builder.WriteString(fmt.Sprintf("Exported: %s\n\n", isoTime(doc.ExportedAt)))

	builder.WriteString("## Structure\n\n")
	writeFenced(&builder, "", doc.Structure)

	builder.WriteString("\n## Files\n")
	for _, file := range doc.Files {
		builder.WriteString(fmt.Sprintf("\n### %s\n\n", file.Path))
		builder.WriteString(fmt.Sprintf("Last modified: %s | Size: %.2f KB\n\n", isoTime(file.LastModified), float64(file.Size)/1024))
		writeFenced(&builder, file.Language, file.Content)
	}
	return builder.String()
}

// writeFenced writes content in a code fence one backtick longer than the
// longest backtick run inside it.
func writeFenced(builder *strings.Builder, language, content string) {
	fence := strings.Repeat("`", fenceLength(content))
	builder.WriteString(fence)
	builder.WriteString(language)
	builder.WriteString("\n")
	builder.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(fence)
	builder.WriteString("\n")
}

func fenceLength(content string) int {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest+1 > minFenceLength {
		return longest + 1
	}
	return minFenceLength
}

type jsonFile struct {
	Path         string `json:"path"`
	Content      string `json:"content"`
	Language     string `json:"language"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
}

type jsonDocument struct {
	ExportedAt string     `json:"exportedAt"`
	Structure  string     `json:"structure"`
	Files      []jsonFile `json:"files"`
}

func renderJSON(doc ExportDocument) (string, error) {
	out := jsonDocument{
		ExportedAt: isoTime(doc.ExportedAt),
		Structure:  doc.Structure,
		Files:      make([]jsonFile, 0, len(doc.Files)),
	}
	for _, f := range doc.Files {
		out.Files = append(out.Files, jsonFile{
			Path:         f.Path,
			Content:      f.Content,
			Language:     f.Language,
			Size:         f.Size,
			LastModified: isoTime(f.LastModified),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return buf.String(), nil
}

func renderText(doc ExportDocument) string {
	var builder strings.Builder
	builder.WriteString("PROJECT EXPORT\n")
	builder.WriteString(strings.Repeat("=", separatorWidth))
	builder.WriteString("\n\nSTRUCTURE:\n")
	builder.WriteString(doc.Structure)
	builder.WriteString("\n\nFILES:\n")
	for _, file := range doc.Files {
		builder.WriteString(fmt.Sprintf("\n=== %s ===\n", file.Path))
		builder.WriteString(file.Content)
		if file.Content != "" && !strings.HasSuffix(file.Content, "\n") {
			builder.WriteString("\n")
		}
		builder.WriteString(strings.Repeat("-", separatorWidth))
		builder.WriteString("\n")
	}
	return builder.String()
}

// RenderQuick formats a single document or selection for the clipboard.
func RenderQuick(doc ActiveDocument, format QuickFormat) (string, error) {
	content := doc.Text
	if doc.Selection != "" {
		content = doc.Selection
	}
	switch format {
	case QuickText:
		return fmt.Sprintf("FILE: %s\n\n%s", doc.Path, content), nil
	case QuickMarkdown:
		fence := strings.Repeat("`", fenceLength(content))
		return fmt.Sprintf("# Code Export\n\n## File: %s\n\n%s%s\n%s\n%s", doc.Path, fence, doc.Language, content, fence), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// summarize aggregates the captured records.
func summarize(files []FileRecord, skipped int) Summary {
	summary := Summary{TotalFiles: len(files), SkippedFiles: skipped}
	for _, f := range files {
		summary.TotalSize += f.Size
	}
	return summary
}
