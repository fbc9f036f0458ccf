package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkSave(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "export.md")

	sink := NewFileSink(nil)
	require.NoError(t, sink.Save(target, "first"))
	require.NoError(t, sink.Save(target, "second"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp and lock files are cleaned up")
	assert.Equal(t, "export.md", entries[0].Name())
}

func TestFileSinkCreatesMissingDirectories(t *testing.T) {
	target := filepath.Join(t.TempDir(), "new", "deeper", "export.md")

	require.NoError(t, NewFileSink(nil).Save(target, "x"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.NoFileExists(t, target+".lock")
}

func TestFileSinkFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "export.txt")
	require.NoError(t, os.WriteFile(target, []byte("previous"), 0o644))

	// A directory where the temp file should go makes the write fail.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("file, not dir"), 0o644))
	err := atomicWrite(filepath.Join(blocked, "export.txt"), []byte("new"))
	assert.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := WriterSink{W: &buf}
	require.NoError(t, sink.Save("ignored", "a"))
	require.NoError(t, sink.Copy("b"))
	assert.Equal(t, "ab", buf.String())
}

func TestClipboardSaver(t *testing.T) {
	clip := &recordingClipboard{}
	require.NoError(t, clipboardSaver{clip: clip}.Save("clipboard", "doc"))
	assert.Equal(t, "doc", clip.text)
}
