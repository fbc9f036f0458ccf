package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Exporter runs full and quick exports. One Exporter may run many exports,
// but only one at a time.
type Exporter struct {
	Filter    FilterConfig
	Languages *LanguageClassifier
	Logger    *zap.Logger
	Now       func() time.Time
}

// ExportResult describes a completed full export.
type ExportResult struct {
	Destination string
	Document    ExportDocument
	Summary     Summary
}

func (e *Exporter) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Export scans root, renders it in format and hands the text to sink under
// dest. It returns ErrCancelled, with nothing written, when ctx is cancelled
// during the traversal.
func (e *Exporter) Export(ctx context.Context, root string, format Format, dest string, sink SaveSink, reporter ProgressReporter) (ExportResult, error) {
	logger := e.logger()
	if root == "" {
		return ExportResult{}, ErrNoRoot
	}

	filter := NewPathFilter(e.Filter, root, logger)
	walker, err := NewWalker(root, filter, e.Languages, logger)
	if err != nil {
		return ExportResult{}, err
	}

	start := time.Now()
	logger.Info("Starting export", zap.String("root", root), zap.String("format", string(format)))

	files, err := walker.Scan(ctx, reporter)
	if err != nil {
		return ExportResult{}, err
	}
	entries, err := walker.BuildStructure(ctx)
	if err != nil {
		return ExportResult{}, err
	}

	doc := ExportDocument{
		ExportedAt: e.now(),
		Structure:  RenderStructure(entries),
		Files:      files,
	}
	text, err := Render(doc, format)
	if err != nil {
		return ExportResult{}, err
	}
	if err := sink.Save(dest, text); err != nil {
		return ExportResult{}, fmt.Errorf("failed to save export to %s: %w", dest, err)
	}

	summary := summarize(files, walker.Skipped())
	logger.Info("Export completed",
		zap.String("destination", dest),
		zap.Int("files", summary.TotalFiles),
		zap.Int64("bytes", summary.TotalSize),
		zap.Int("skipped", summary.SkippedFiles),
		zap.Duration("elapsed", time.Since(start)))
	return ExportResult{Destination: dest, Document: doc, Summary: summary}, nil
}

// QuickExport renders a single document (or its selection) and copies it.
func (e *Exporter) QuickExport(doc ActiveDocument, format QuickFormat, clip ClipboardSink) error {
	if doc.Path == "" {
		return ErrNoActiveDocument
	}
	if doc.Language == "" && e.Languages != nil {
		doc.Language = e.Languages.Classify(doc.Path)
	}
	text, err := RenderQuick(doc, format)
	if err != nil {
		return err
	}
	if err := clip.Copy(text); err != nil {
		return fmt.Errorf("failed to copy export to clipboard: %w", err)
	}
	e.logger().Debug("Quick export copied", zap.String("path", doc.Path), zap.Int("bytes", len(text)))
	return nil
}

// IsCancelled reports whether err is a user cancellation rather than a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
