package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/anthropic"
	"github.com/fwojciec/chat/gemini"
	"github.com/fwojciec/chat/textgen"
)

const (
	providerTextgen   = "textgen"
	providerAnthropic = "anthropic"
	providerGemini    = "gemini"
)

// envKeys holds provider API keys read from the environment.
type envKeys struct {
	anthropic string
	gemini    string
}

// resolveProvider selects and constructs the provider. All env var values are
// passed in as parameters; env is only read in main().
func resolveProvider(ctx context.Context, cfg config, env envKeys) (chat.Provider, error) {
	switch cfg.providerName() {
	case providerTextgen:
		var opts []textgen.Option
		if cfg.Endpoint != "" {
			opts = append(opts, textgen.WithEndpoint(cfg.Endpoint))
		}
		if cfg.APIKey != "" {
			opts = append(opts, textgen.WithHeader("Authorization", "Bearer "+cfg.APIKey))
		}
		return textgen.New(opts...), nil
	case providerAnthropic:
		key := cfg.APIKey
		if key == "" {
			key = env.anthropic
		}
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set (use -api-key flag or environment variable)")
		}
		var opts []anthropic.Option
		if cfg.Endpoint != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.Endpoint))
		}
		return anthropic.New(key, opts...), nil
	case providerGemini:
		key := cfg.APIKey
		if key == "" {
			key = env.gemini
		}
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		client, err := gemini.New(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be %q, %q or %q", cfg.Provider, providerTextgen, providerAnthropic, providerGemini)
	}
}
