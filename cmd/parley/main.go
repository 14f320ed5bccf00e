// Command parley is a terminal chat client for streaming AI conversations.
//
// Usage:
//
//	parley -url http://localhost:3000 [flags]
//	GEMINI_API_KEY=gk-... parley [flags]
//
// Flags:
//
//	-url string         Base URL of an AI SDK chat endpoint (overrides Gemini)
//	-model string       Initial model ID (must be in the catalog)
//	-web-search         Start with web search enabled
//	-log string         Path to a diagnostic log file (default: discard)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/aisdk"
	bt "github.com/mkwiat/parley/bubbletea"
	"github.com/mkwiat/parley/clipboard"
	"github.com/mkwiat/parley/gemini"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL   = flag.String("url", "", "Base URL of an AI SDK chat endpoint")
		model     = flag.String("model", "", "Initial model ID")
		webSearch = flag.Bool("web-search", false, "Start with web search enabled")
		logPath   = flag.String("log", "", "Path to a diagnostic log file")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reporter, closeLog, err := newReporter(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := resolveBackend(ctx, *baseURL, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	catalog := parley.DefaultCatalog()
	theme := parley.DefaultTheme()
	tuiModel := bt.New(backend, clipboard.System{}, reporter, catalog, theme)

	if *model != "" {
		if err := tuiModel.Composer().SelectModel(*model); err != nil {
			return fmt.Errorf("select model: %w", err)
		}
	}
	if *webSearch {
		tuiModel.Composer().ToggleWebSearch()
	}

	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// resolveBackend selects the backend. An explicit -url wins; otherwise the
// Gemini API key from the environment is used. Env vars are only read in
// run() and passed as values.
func resolveBackend(ctx context.Context, baseURL, geminiEnvKey string) (parley.Backend, error) {
	if baseURL != "" {
		return aisdk.New(baseURL), nil
	}
	if geminiEnvKey != "" {
		client, err := gemini.New(ctx, geminiEnvKey)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("no backend configured: pass -url or set GEMINI_API_KEY")
}

// newReporter builds the diagnostic reporter. Logs go to a file so they never
// corrupt the TUI; with no -log flag, reports are discarded.
func newReporter(logPath string) (parley.Reporter, func(), error) {
	if logPath == "" {
		return parley.NopReporter{}, func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	return parley.NewLogReporter(logger), func() { _ = f.Close() }, nil
}
