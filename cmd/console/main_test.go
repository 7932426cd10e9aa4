package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"pulse-node/internal/advisor"
	"pulse-node/internal/config"
	"pulse-node/internal/domain"
	"pulse-node/internal/logging"
	"pulse-node/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainRunsConsoleAndShutsDown(t *testing.T) {
	restore := stubConsoleDeps(t)
	defer restore()

	var model tea.Model
	runProgramFunc = func(m tea.Model) error {
		model = m
		return nil
	}
	shutdownCalled := false
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error {
		shutdownCalled = true
		return nil
	}

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

	if _, ok := model.(tui.AppModel); !ok {
		t.Fatalf("expected console app model, got %T", model)
	}
	if !shutdownCalled {
		t.Fatal("expected http server shutdown after the console exits")
	}
}

func TestConsoleAdvisorReadsAndClearsStoredConversation(t *testing.T) {
	ctx := context.Background()
	store := advisor.NewMemoryConversationStore(10)
	if err := store.Append(ctx, tui.ConversationID,
		domain.ConversationMessage{Role: "user", Content: "hi"},
		domain.ConversationMessage{Role: "assistant", Content: "hello"},
	); err != nil {
		t.Fatalf("append: %v", err)
	}
	a := consoleAdvisor{advisor: advisor.NewService(nil, nil, store, "gpt-4o-mini", 10)}

	msgs, err := a.History(ctx, tui.ConversationID)
	if err != nil || len(msgs) != 2 {
		t.Fatalf("expected 2 stored messages, got %d (%v)", len(msgs), err)
	}
	if err := a.Reset(ctx, tui.ConversationID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if msgs, _ := a.History(ctx, tui.ConversationID); len(msgs) != 0 {
		t.Fatalf("expected empty conversation after reset, got %d", len(msgs))
	}
}

func TestServerStateReportsError(t *testing.T) {
	s := &serverState{}
	if s.Err() != nil {
		t.Fatal("expected nil error while serving")
	}
	s.set(errors.New("bind: address already in use"))
	if s.Err() == nil {
		t.Fatal("expected recorded error")
	}
}

func stubConsoleDeps(t *testing.T) func() {
	t.Helper()
	dir := t.TempDir()

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogging := setupLoggingFunc
	origInitTracer := initTracerFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc
	origRunProgram := runProgramFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPBind:          "127.0.0.1",
			Port:              8000,
			MT5GatewayURL:     "http://127.0.0.1:1",
			CoinGeckoBaseURL:  "http://127.0.0.1:1",
			ApifyBaseURL:      "http://127.0.0.1:1",
			AdvisorMaxHistory: 20,
			SettingsDir:       dir,
		}
	}
	setupLoggingFunc = func(logging.Options) (io.Closer, error) { return nil, nil }
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggingFunc = origSetupLogging
		initTracerFunc = origInitTracer
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
		runProgramFunc = origRunProgram
	}
}
