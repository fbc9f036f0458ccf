package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// defaultQuickIgnore names directories and files that are never exported.
var defaultQuickIgnore = []string{
	".git", ".svn", ".hg",
	"node_modules", "bower_components", "vendor",
	"dist", "build", "out", "target", "coverage",
	".next", ".nuxt", ".cache", ".gradle",
	"__pycache__", ".venv", "venv",
	".idea", ".vscode",
	".DS_Store",
}

// defaultIgnorePatterns use the "**" dialect understood by Pattern.
var defaultIgnorePatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/**.min.js",
	"**/**.min.css",
	"**/**.map",
	"**/**.log",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/go.sum",
}

var defaultBinaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".psd",
	".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".7z", ".rar",
	".exe", ".dll", ".so", ".dylib", ".bin", ".o", ".a", ".class", ".jar", ".war",
	".pyc", ".pyo", ".wasm",
	".mp3", ".mp4", ".wav", ".ogg", ".flac", ".avi", ".mov", ".mkv", ".webm",
	".ttf", ".otf", ".woff", ".woff2", ".eot",
	".db", ".sqlite", ".sqlite3",
}

// Config is the resolved configuration after defaults, config file,
// FOLIO_* environment and flags have been merged.
type Config struct {
	Filter        FilterConfig
	DefaultFormat string
	OutputFile    string
	CountTokens   bool
	Tokenizer     TokenizerConfig
	ConfigDirs    []string
}

// setDefaults registers every key with its default value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("quick_ignore", defaultQuickIgnore)
	v.SetDefault("ignore_patterns", defaultIgnorePatterns)
	v.SetDefault("binary_extensions", defaultBinaryExtensions)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("default_format", string(FormatMarkdown))
	v.SetDefault("respect_gitignore", false)
	v.SetDefault("count_tokens", false)
	v.SetDefault("tokenizer", TokenizerTiktoken)
	v.SetDefault("tokenizer_model", defaultTiktokenModel)
	v.SetDefault("tokenizer_file", "")
	v.SetDefault("output_file", "")
}

// configDirs lists where config.toml and languages.yml are looked up.
func configDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "folio"))
	}
	return append(dirs, ".")
}

// readConfig wires the config file and environment into v. A missing config
// file is not an error.
func readConfig(v *viper.Viper, cfgFile string, dirs []string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return "", nil
		}
		return "", fmt.Errorf("error reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// loadConfig resolves Config from v.
func loadConfig(v *viper.Viper, dirs []string) Config {
	return Config{
		Filter: FilterConfig{
			QuickIgnore:      v.GetStringSlice("quick_ignore"),
			IgnorePatterns:   v.GetStringSlice("ignore_patterns"),
			BinaryExtensions: v.GetStringSlice("binary_extensions"),
			MaxFileSize:      v.GetInt64("max_file_size"),
			RespectGitignore: v.GetBool("respect_gitignore"),
		},
		DefaultFormat: v.GetString("default_format"),
		OutputFile:    v.GetString("output_file"),
		CountTokens:   v.GetBool("count_tokens"),
		Tokenizer: TokenizerConfig{
			Backend: v.GetString("tokenizer"),
			Model:   v.GetString("tokenizer_model"),
			File:    v.GetString("tokenizer_file"),
		},
		ConfigDirs: dirs,
	}
}

// defaultOutputPath names the save destination for a format.
func defaultOutputPath(format Format) string {
	return "folio-export" + format.Extension()
}

// excludeOutputs adds an ignore pattern for every output path that lies under
// root, so a later export of the same root does not capture an earlier one.
func excludeOutputs(cfg FilterConfig, root string, outputs ...string) FilterConfig {
	patterns := append([]string{}, cfg.IgnorePatterns...)
	for _, out := range outputs {
		if rel, ok := relativeToRoot(root, out); ok {
			patterns = append(patterns, rel)
		}
	}
	cfg.IgnorePatterns = patterns
	return cfg
}

// relativeToRoot returns p as a slash-separated path relative to root, or
// false when p is empty or outside root.
func relativeToRoot(root, p string) (string, bool) {
	if p == "" {
		return "", false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
