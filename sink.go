package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// SaveSink receives a finished full export.
type SaveSink interface {
	Save(path, text string) error
}

// ClipboardSink receives a quick-export snippet.
type ClipboardSink interface {
	Copy(text string) error
}

// FileSink writes exports to disk. Writes hold a lock file next to the target
// and go through a temp file plus rename, so a failed save leaves the previous
// file (if any) untouched.
type FileSink struct {
	logger *zap.Logger
}

func NewFileSink(logger *zap.Logger) *FileSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{logger: logger}
}

// Save implements SaveSink.
func (s *FileSink) Save(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("Failed to release lock", zap.String("path", path), zap.Error(err))
		}
		os.Remove(path + ".lock")
	}()

	if err := atomicWrite(path, []byte(text)); err != nil {
		return err
	}
	s.logger.Debug("Saved export", zap.String("path", path), zap.Int("bytes", len(text)))
	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".folio-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	tempFile = nil
	return nil
}

// SystemClipboard copies to the OS clipboard.
type SystemClipboard struct{}

// Copy implements ClipboardSink.
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// WriterSink prints exports instead of storing them. It satisfies both sink
// interfaces and backs --print.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Save(_ string, text string) error {
	_, err := io.WriteString(s.W, text)
	return err
}

func (s WriterSink) Copy(text string) error {
	_, err := io.WriteString(s.W, text)
	return err
}

// clipboardSaver lets a full export go to the clipboard.
type clipboardSaver struct {
	clip ClipboardSink
}

func (c clipboardSaver) Save(_ string, text string) error {
	return c.clip.Copy(text)
}
