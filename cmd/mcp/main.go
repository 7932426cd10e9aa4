// Command mcp serves the node's MCP tools over stdio for assistants that spawn
// their tools as subprocesses. The process owns its own MT5 link.
package main

import (
	"context"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"

	"pulse-node/internal/config"
	"pulse-node/internal/logging"
	"pulse-node/internal/node"
	"pulse-node/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	setupLoggingFunc = logging.Setup
	initTracerFunc   = tracing.InitTracer
	newNodeFunc      = node.New
	notifyContext    = ossignal.NotifyContext
	runStdioFunc     = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	closer, err := setupLoggingFunc(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Console:    os.Stderr,
	})
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closeQuietly(closer)

	ctx, cancel := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	n := newNodeFunc(ctx, cfg, tracer)
	defer n.Close(context.Background())

	log.Info("serving MCP over stdio")
	if err := runStdioFunc(ctx, n.MCP); err != nil && ctx.Err() == nil {
		log.Errorf("mcp stdio server failed: %v", err)
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
