// Command uci-mcp serves a UCI chess engine as a Model Context Protocol tool
// over stdio.
//
//	uci-mcp -engine stockfish -options engine.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	uci "github.com/wagiedev/uci-engine-go"
	"github.com/wagiedev/uci-engine-go/internal/mcp"
	"github.com/wagiedev/uci-engine-go/internal/session"
)

const version = "0.1.0"

func main() {
	enginePath := flag.String("engine", "stockfish", "Engine executable name or path")
	optionsPath := flag.String("options", "", "YAML file with an 'options' mapping of engine settings")
	handshake := flag.Duration("handshake-timeout", 10*time.Second, "Maximum wait for the engine handshake")
	debug := flag.Bool("debug", false, "Log engine traffic to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	// stdout carries the MCP stream; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *enginePath, *optionsPath, *handshake); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, enginePath, optionsPath string, handshake time.Duration) error {
	var engineOptions []uci.EngineOption

	if optionsPath != "" {
		opts, err := uci.LoadEngineOptionsFile(optionsPath)
		if err != nil {
			return err
		}

		engineOptions = opts
	}

	return uci.WithEngine(ctx, enginePath, func(engine uci.Engine) error {
		if len(engineOptions) > 0 {
			if err := engine.Configure(ctx, engineOptions...); err != nil {
				return fmt.Errorf("configure engine: %w", err)
			}

			if err := engine.Sync(ctx); err != nil {
				return fmt.Errorf("sync engine: %w", err)
			}
		}

		id := engine.ID()
		log.Info("Engine ready", "name", id.Name, "author", id.Author)

		analyzer := mcp.AnalyzerFunc(func(ctx context.Context, job session.Job) (*session.Result, error) {
			return uci.Analyze(ctx, engine, job)
		})

		name := "uci-mcp"
		if id.Name != "" {
			name = id.Name
		}

		return mcp.NewServer(log, analyzer, name, version).Run(ctx, &mcpsdk.StdioTransport{})
	},
		uci.WithLogger(log),
		uci.WithHandshakeTimeout(handshake),
		uci.WithSyncTimeout(handshake),
		uci.WithStderr(func(line string) {
			log.Warn("Engine stderr", "line", line)
		}),
	)
}
