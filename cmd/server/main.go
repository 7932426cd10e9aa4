package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"pulse-node/internal/config"
	"pulse-node/internal/logging"
	"pulse-node/internal/node"
	"pulse-node/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "pulse-node/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	setupLoggingFunc       = logging.Setup
	initTracerFunc         = tracing.InitTracer
	newNodeFunc            = node.New
	newRouterFunc          = gin.New
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Pulse Node API
// @version         1.0
// @description     Local node bridging a MetaTrader 5 terminal, crypto market data and the AI market advisor.

// @host      localhost:8000
// @BasePath  /
func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	closer, err := setupLoggingFunc(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closeQuietly(closer)

	ctx, cancel := context.WithCancel(context.Background())
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

	r := newRouterFunc()
	r.Use(gin.Recovery(), otelgin.Middleware(tracing.ServiceName))
	n.Mount(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := n.Server(r)
	go n.Warmer.Start(ctx)

	go func() {
		log.WithField("addr", srv.Addr).Info("pulse node listening")
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	n.Close(shutdownCtx)

	log.Info("Server exiting")
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
