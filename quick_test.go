package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		in      string
		want    lineRange
		wantErr bool
	}{
		{in: "", want: lineRange{}},
		{in: "3", want: lineRange{start: 3, end: 3}},
		{in: "2:4", want: lineRange{start: 2, end: 4}},
		{in: "5:", want: lineRange{start: 5, end: -1}},
		{in: "0:2", wantErr: true},
		{in: "4:2", wantErr: true},
		{in: "a:b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLineRange(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineRangeApply(t *testing.T) {
	text := "one\ntwo\nthree\nfour\n"
	tests := []struct {
		name string
		r    lineRange
		want string
	}{
		{name: "zero range", r: lineRange{}, want: ""},
		{name: "middle", r: lineRange{start: 2, end: 3}, want: "two\nthree"},
		{name: "to end", r: lineRange{start: 3, end: -1}, want: "three\nfour"},
		{name: "end clamped", r: lineRange{start: 4, end: 99}, want: "four"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.apply(text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineRangeApplyOutOfRange(t *testing.T) {
	for _, r := range []lineRange{{start: 5, end: 5}, {start: 9, end: -1}} {
		_, err := r.apply("one\ntwo\nthree\nfour\n")
		assert.ErrorContains(t, err, "document has 4 lines")
	}
	_, err := lineRange{start: 2, end: 2}.apply("single line")
	assert.Error(t, err)
}

func TestLoadActiveDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.go")
	require.NoError(t, os.WriteFile(path, []byte("package f\n\nfunc X() {}\n"), 0o644))

	doc, err := loadActiveDocument(path, lineRange{start: 3, end: 3}, NewLanguageClassifier(nil))
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "go", doc.Language)
	assert.Equal(t, "func X() {}", doc.Selection)

	_, err = loadActiveDocument(path, lineRange{start: 10, end: 10}, NewLanguageClassifier(nil))
	assert.ErrorContains(t, err, "invalid selection")

	_, err = loadActiveDocument("", lineRange{}, NewLanguageClassifier(nil))
	assert.ErrorIs(t, err, ErrNoActiveDocument)

	_, err = loadActiveDocument(filepath.Join(t.TempDir(), "missing.go"), lineRange{}, NewLanguageClassifier(nil))
	assert.ErrorIs(t, err, ErrNoActiveDocument)
}
