package main

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

const (
	defaultTiktokenModel = "gpt-4o"
	defaultHFModel       = "gpt2"
)

// Tokenizer backends.
const (
	TokenizerTiktoken    = "tiktoken"
	TokenizerHuggingFace = "huggingface"
)

// TokenizerConfig selects and locates the backend used for the token estimate.
type TokenizerConfig struct {
	Backend string
	Model   string
	File    string // local tokenizer.json, huggingface only
}

// TokenCounter estimates how many model tokens a text costs.
type TokenCounter interface {
	CountTokens(text string) int
}

type tiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountTokens(text string) int {
	if c.ttk == nil {
		return 0
	}
	return len(c.ttk.EncodeOrdinary(text))
}

type hfCounter struct {
	htk    *hf.Tokenizer
	logger *zap.Logger
}

func (c *hfCounter) CountTokens(text string) int {
	if c.htk == nil {
		return 0
	}
	en, err := c.htk.EncodeSingle(text)
	if err != nil {
		c.logger.Warn("HuggingFace tokenizer failed to encode text", zap.Error(err))
		return 0
	}
	return len(en.Tokens)
}

// newTokenCounter builds the counter for cfg.Backend. An empty backend means
// tiktoken.
func newTokenCounter(cfg TokenizerConfig, logger *zap.Logger) (TokenCounter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", TokenizerTiktoken:
		return loadTiktoken(cfg.Model, logger)
	case TokenizerHuggingFace:
		return loadHuggingFace(cfg.Model, cfg.File, logger)
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use '%s' or '%s'", cfg.Backend, TokenizerTiktoken, TokenizerHuggingFace)
	}
}

// loadTiktoken falls back to the default model when the name is unknown.
func loadTiktoken(model string, logger *zap.Logger) (TokenCounter, error) {
	if model == "" {
		model = defaultTiktokenModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("Unknown tokenizer model, using default",
			zap.String("model", model),
			zap.String("default", defaultTiktokenModel),
			zap.Error(err))
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &tiktokenCounter{ttk: tke}, nil
}

// loadHuggingFace reads a local tokenizer.json when file is set, otherwise it
// resolves the model's tokenizer.json through the sugarme cache (which may
// download it).
func loadHuggingFace(model, file string, logger *zap.Logger) (TokenCounter, error) {
	if file == "" {
		if model == "" || model == defaultTiktokenModel {
			model = defaultHFModel
		}
		logger.Info("Loading HuggingFace tokenizer", zap.String("model", model))
		cached, err := hf.CachedPath(model, "tokenizer.json")
		if err != nil {
			return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
		}
		file = cached
	}
	htk, err := pretrained.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", file, err)
	}
	logger.Debug("Loaded HuggingFace tokenizer", zap.String("file", file))
	return &hfCounter{htk: htk, logger: logger}, nil
}

// countTokens totals the estimate over every captured file.
func countTokens(counter TokenCounter, files []FileRecord) int {
	total := 0
	for _, f := range files {
		total += counter.CountTokens(f.Content)
	}
	return total
}
