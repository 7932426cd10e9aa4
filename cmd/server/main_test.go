package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pulse-node/internal/config"
	"pulse-node/internal/logging"
	"pulse-node/internal/node"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func TestMainMountsRoutesBeforeServing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t)
	defer restore()

	servedCh := make(chan *http.Server, 1)
	startHTTPServerFunc = func(srv *http.Server) error {
		servedCh <- srv
		return http.ErrServerClosed
	}
	var served *http.Server
	waitForSignalFunc = func(<-chan os.Signal) { served = <-servedCh }

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	if served.Addr != "127.0.0.1:8000" {
		t.Fatalf("expected 127.0.0.1:8000, got %s", served.Addr)
	}
	for _, path := range []string{"/health", "/swagger/doc.json"} {
		rec := httptest.NewRecorder()
		served.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected %s 200, got %d", path, rec.Code)
		}
	}
}

func stubServerDeps(t *testing.T) func() {
	dir := t.TempDir()

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogging := setupLoggingFunc
	origInitTracer := initTracerFunc
	origNewNode := newNodeFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPBind:          "127.0.0.1",
			Port:              8000,
			MT5GatewayURL:     "http://127.0.0.1:1",
			CoinGeckoBaseURL:  "http://127.0.0.1:1",
			ApifyBaseURL:      "http://127.0.0.1:1",
			OpenAIModel:       "gpt-4o-mini",
			AdvisorMaxHistory: 20,
			SettingsDir:       dir,
		}
	}
	setupLoggingFunc = func(logging.Options) (io.Closer, error) { return nil, nil }
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newNodeFunc = node.New
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggingFunc = origSetupLogging
		initTracerFunc = origInitTracer
		newNodeFunc = origNewNode
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
