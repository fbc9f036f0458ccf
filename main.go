package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// Filtering
	excludePatterns string

	// Output
	outputFormat    string
	outputFile      string
	printToStdout   bool
	copyToClipboard bool
	pdfOutputFile   string
	noProgress      bool

	// Quick export
	quickFormat     string
	quickLines      string
	interactiveMode bool

	verbose bool
	cfgFile string

	logger    = zap.NewNop()
	appConfig Config
	langs     = NewLanguageClassifier(nil)
)

// version is the application version, set via ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "folio [PATH]",
	Short: "Folio exports a project directory as a single reviewable document.",
	Long: `Folio scans a directory (or a Git URL), skips build output, dependencies,
binaries and oversized files, and renders the directory tree plus file
contents as Markdown, JSON or plain text.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExport,
}

var quickCmd = &cobra.Command{
	Use:   "quick [FILE]",
	Short: "Copy a single file or a line selection as a formatted snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuickExport,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of folio",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "folio version %s (commit: %s) built at %s with %s on %s/%s\n",
			version, commit, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initLogger, initConfig, initLanguages)
	setDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/folio/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&printToStdout, "print", "p", false, "Print the export to stdout instead of saving it")

	// Filtering
	rootCmd.Flags().StringVarP(&excludePatterns, "exclude", "e", "", "Additional ignore patterns (comma-separated, ** matches anything)")
	rootCmd.Flags().Int64P("max-size", "s", DefaultMaxFileSize, "Maximum file size in bytes for content capture")
	viper.BindPFlag("max_file_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().Bool("gitignore", false, "Also honour the root .gitignore")
	viper.BindPFlag("respect_gitignore", rootCmd.Flags().Lookup("gitignore"))

	// Output
	rootCmd.Flags().StringVarP(&outputFormat, "format", "F", "", "Export format: markdown, json or text")
	viper.BindPFlag("default_format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Save the export to this file (default folio-export.<ext>)")
	viper.BindPFlag("output_file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the export to the clipboard")
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also save the export as PDF")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress line")

	// Token counting
	rootCmd.Flags().Bool("tokens", false, "Log a token estimate for the export")
	viper.BindPFlag("count_tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().String("model", defaultTiktokenModel, "Model used for the token estimate")
	viper.BindPFlag("tokenizer_model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().String("tokenizer", TokenizerTiktoken, "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().String("tokenizer-file", "", "Path to a local HuggingFace tokenizer.json")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Quick export
	quickCmd.Flags().StringVarP(&quickFormat, "format", "F", string(QuickText), "Snippet format: text or markdown")
	quickCmd.Flags().StringVarP(&quickLines, "lines", "l", "", "Export only these lines (a:b, a:, or a)")
	quickCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the file with a fuzzy finder")

	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")

	rootCmd.AddCommand(quickCmd, versionCmd)
}

func initLogger() {
	l, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logger: %v\n", err)
	}
	logger = l
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	dirs := configDirs()
	used, err := readConfig(viper.GetViper(), cfgFile, dirs)
	if err != nil {
		logger.Warn("Ignoring config file", zap.Error(err))
	} else if used != "" {
		logger.Debug("Using config file", zap.String("path", used))
	}
	appConfig = loadConfig(viper.GetViper(), dirs)
}

// initLanguages layers languages.yml over the built-in table.
func initLanguages() {
	table, path, err := loadLanguageTable(appConfig.ConfigDirs)
	if err != nil {
		logger.Warn("Could not load language definitions, using built-in table", zap.Error(err))
		return
	}
	if path != "" {
		logger.Debug("Loaded language definitions", zap.String("path", path), zap.Int("languages", len(table)))
	}
	langs = NewLanguageClassifier(table)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, err := ParseFormat(appConfig.DefaultFormat)
	if err != nil {
		return err
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	if isGitURL(root) {
		tempDir, err := cloneRepo(ctx, root, cmd.ErrOrStderr(), logger)
		if err != nil {
			if IsCancelled(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled.")
				return nil
			}
			return err
		}
		defer os.RemoveAll(tempDir)
		root = tempDir
	}

	filterCfg := appConfig.Filter
	if excludePatterns != "" {
		filterCfg.IgnorePatterns = append(append([]string{}, filterCfg.IgnorePatterns...), strings.Split(excludePatterns, ",")...)
	}

	dest := appConfig.OutputFile
	if dest == "" {
		dest = defaultOutputPath(format)
	}
	var sink SaveSink = NewFileSink(logger)
	saveToFile := true
	switch {
	case printToStdout:
		sink = WriterSink{W: cmd.OutOrStdout()}
		dest = "stdout"
		saveToFile = false
	case copyToClipboard:
		sink = clipboardSaver{clip: SystemClipboard{}}
		dest = "clipboard"
		saveToFile = false
	}
	outputs := []string{pdfOutputFile}
	if saveToFile {
		outputs = append(outputs, dest)
	}
	filterCfg = excludeOutputs(filterCfg, root, outputs...)
	exporter := &Exporter{Filter: filterCfg, Languages: langs, Logger: logger}

	var reporter ProgressReporter
	if !noProgress && !printToStdout {
		if tp := NewTerminalProgress(); tp != nil {
			reporter = tp
			defer tp.Done()
		}
	}

	result, err := exporter.Export(ctx, root, format, dest, sink, reporter)
	if IsCancelled(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if appConfig.CountTokens {
		counter, err := newTokenCounter(appConfig.Tokenizer, logger)
		if err != nil {
			logger.Warn("Token counting disabled", zap.Error(err))
		} else {
			result.Summary.TotalTokens = countTokens(counter, result.Document.Files)
		}
	}

	if pdfOutputFile != "" {
		data, err := renderPDF(result.Document, result.Summary)
		if err != nil {
			return err
		}
		if err := NewFileSink(logger).Save(pdfOutputFile, string(data)); err != nil {
			return fmt.Errorf("failed to save PDF to %s: %w", pdfOutputFile, err)
		}
	}

	printSummary(cmd, result)
	return nil
}

func printSummary(cmd *cobra.Command, result ExportResult) {
	if printToStdout {
		return
	}
	s := result.Summary
	line := fmt.Sprintf("Exported %d files (%d bytes, %d skipped) to %s", s.TotalFiles, s.TotalSize, s.SkippedFiles, result.Destination)
	if s.TotalTokens > 0 {
		line += fmt.Sprintf(", ~%d tokens", s.TotalTokens)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), line)
}

func runQuickExport(cmd *cobra.Command, args []string) error {
	format, err := ParseQuickFormat(quickFormat)
	if err != nil {
		return err
	}
	selection, err := parseLineRange(quickLines)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else if interactiveMode {
		path, err = pickDocument(".", NewPathFilter(appConfig.Filter, ".", logger))
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Selection aborted.")
			return nil
		}
	}

	doc, err := loadActiveDocument(path, selection, langs)
	if err != nil {
		return err
	}

	var clip ClipboardSink = SystemClipboard{}
	if printToStdout {
		clip = WriterSink{W: cmd.OutOrStdout()}
	}
	exporter := &Exporter{Filter: appConfig.Filter, Languages: langs, Logger: logger}
	if err := exporter.QuickExport(doc, format, clip); err != nil {
		return err
	}
	if !printToStdout {
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to clipboard.\n", doc.Path)
	}
	return nil
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
