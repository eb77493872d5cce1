// Command chat is a terminal chat client for streaming text-generation
// endpoints.
//
// Usage:
//
//	chat [flags]
//	ANTHROPIC_API_KEY=sk-... chat -provider anthropic [flags]
//	GEMINI_API_KEY=gk-...    chat -provider gemini [flags]
//
// Flags:
//
//	-provider string  Provider: textgen, anthropic, gemini (default: textgen)
//	-endpoint string  Endpoint URL (textgen) or API base URL (anthropic)
//	-model string     Model ID (default: provider default)
//	-api-key string   API key (overrides provider's env var)
//	-timeout duration Bound on one request/response cycle (default: none)
//	-config string    Path to YAML config file (default: ~/.chat/config.yaml)
//	-log-file string  Path to log file (default: ~/.chat/chat.log)
//	-debug            Log at debug level
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"github.com/fwojciec/chat/conversation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		providerFlag = flag.String("provider", "", "Provider: textgen, anthropic, gemini")
		endpoint     = flag.String("endpoint", "", "Endpoint URL (textgen) or API base URL (anthropic)")
		model        = flag.String("model", "", "Model ID (provider-specific)")
		apiKey       = flag.String("api-key", "", "API key (overrides provider's env var)")
		timeout      = flag.Duration("timeout", 0, "Bound on one request/response cycle (0 = none)")
		configPath   = flag.String("config", "", "Path to YAML config file")
		logFile      = flag.String("log-file", "", "Path to log file")
		debug        = flag.Bool("debug", false, "Log at debug level")
	)
	flag.Parse()

	// Flags override the config file.
	path, explicit := *configPath, *configPath != ""
	if !explicit {
		path = defaultPath("config.yaml")
	}
	fileCfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	cfg := fileCfg.merge(config{
		Provider: *providerFlag,
		Endpoint: *endpoint,
		Model:    *model,
		APIKey:   *apiKey,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Debug:    *debug,
	})
	if cfg.LogFile == "" {
		cfg.LogFile = defaultPath("chat.log")
	}

	logger, err := newLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Resolve provider. Env vars are read here and passed as values.
	provider, err := resolveProvider(ctx, cfg, envKeys{
		anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		gemini:    os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.String("provider", cfg.providerName()),
		zap.String("model", cfg.Model))

	conv := conversation.New(provider,
		conversation.WithLogger(logger),
		conversation.WithModel(cfg.Model),
		conversation.WithTimeout(cfg.Timeout),
	)

	if err := bt.Run(ctx, bt.New(conv, chat.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// newLogger builds a JSON file logger. The TUI owns the terminal, so
// nothing is written to stdout or stderr.
func newLogger(path string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".chat", name)
}
