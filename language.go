package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LanguageInfo is one entry of languages.yml.
type LanguageInfo struct {
	Extensions []string `yaml:"extensions"`
}

// LanguageMap maps a display tag (e.g., "typescript") to its details.
type LanguageMap map[string]LanguageInfo

// defaultLanguages is the built-in extension to tag table.
var defaultLanguages = map[string]string{
	".ts":     "typescript",
	".tsx":    "tsx",
	".js":     "javascript",
	".jsx":    "jsx",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".py":     "python",
	".go":     "go",
	".rs":     "rust",
	".java":   "java",
	".kt":     "kotlin",
	".scala":  "scala",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".hpp":    "cpp",
	".cs":     "csharp",
	".rb":     "ruby",
	".php":    "php",
	".swift":  "swift",
	".dart":   "dart",
	".lua":    "lua",
	".r":      "r",
	".pl":     "perl",
	".hs":     "haskell",
	".ex":     "elixir",
	".exs":    "elixir",
	".erl":    "erlang",
	".clj":    "clojure",
	".sh":     "bash",
	".bash":   "bash",
	".zsh":    "zsh",
	".ps1":    "powershell",
	".sql":    "sql",
	".html":   "html",
	".htm":    "html",
	".css":    "css",
	".scss":   "scss",
	".less":   "less",
	".vue":    "vue",
	".svelte": "svelte",
	".json":   "json",
	".yaml":   "yaml",
	".yml":    "yaml",
	".toml":   "toml",
	".xml":    "xml",
	".md":     "markdown",
	".proto":  "protobuf",
	".tf":     "hcl",
}

// LanguageClassifier maps file extensions to display tags. It is a pure
// lookup once built.
type LanguageClassifier struct {
	extensionMap map[string]string
}

// NewLanguageClassifier builds a classifier from the built-in table with
// overrides layered on top. Override tags win over built-in ones.
func NewLanguageClassifier(overrides LanguageMap) *LanguageClassifier {
	c := &LanguageClassifier{extensionMap: make(map[string]string, len(defaultLanguages))}
	for ext, tag := range defaultLanguages {
		c.extensionMap[ext] = tag
	}
	for tag, info := range overrides {
		for _, ext := range info.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			c.extensionMap[ext] = tag
		}
	}
	return c
}

// Classify returns the tag for p's extension, or "" when unknown.
func (c *LanguageClassifier) Classify(p string) string {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(p)))
	if ext == "" {
		return ""
	}
	return c.extensionMap[ext]
}

// loadLanguageTable looks for languages.yml in the config directories. A
// missing file is not an error; the built-in table is used as is.
func loadLanguageTable(configDirs []string) (LanguageMap, string, error) {
	var langFilePath string
	for _, p := range configDirs {
		testPath := filepath.Join(p, "languages.yml")
		if _, err := os.Stat(testPath); err == nil {
			langFilePath = testPath
			break
		}
	}
	if langFilePath == "" {
		return nil, "", nil
	}

	yamlFile, err := os.ReadFile(langFilePath)
	if err != nil {
		return nil, langFilePath, fmt.Errorf("error reading language file %s: %w", langFilePath, err)
	}

	var langs LanguageMap
	if err := yaml.Unmarshal(yamlFile, &langs); err != nil {
		return nil, langFilePath, fmt.Errorf("error parsing language file %s: %w", langFilePath, err)
	}
	return langs, langFilePath, nil
}
