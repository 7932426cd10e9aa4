// Command console runs the Pulse node in-process behind a terminal dashboard.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"pulse-node/internal/advisor"
	"pulse-node/internal/config"
	"pulse-node/internal/domain"
	"pulse-node/internal/logging"
	"pulse-node/internal/node"
	"pulse-node/internal/service"
	"pulse-node/internal/tui"
	"pulse-node/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "pulse-node/docs"
)

const logRingSize = 200

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	setupLoggingFunc       = logging.Setup
	initTracerFunc         = tracing.InitTracer
	newNodeFunc            = node.New
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	runProgramFunc         = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

// serverState records why the HTTP server stopped.
type serverState struct {
	mu  sync.Mutex
	err error
}

func (s *serverState) set(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *serverState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	closer, err := setupLoggingFunc(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Quiet:      true,
	})
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closeQuietly(closer)

	ring := logging.NewRing(logRingSize)
	log.AddHook(ring)

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

	gin.SetMode(gin.ReleaseMode)
	n := newNodeFunc(ctx, cfg, tracer)

	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(tracing.ServiceName))
	n.Mount(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	srv := n.Server(r)
	go n.Warmer.Start(ctx)

	state := &serverState{}
	go func() {
		log.WithField("addr", srv.Addr).Info("pulse node listening")
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			state.set(err)
		}
	}()

	app := tui.NewAppModel(tui.Services{
		Session:   n.Bridge,
		Market:    n.Market,
		Advisor:   consoleAdvisor{market: n.Market, advisor: n.Advisor},
		Logs:      ring,
		NodeURL:   "http://" + cfg.Addr(),
		ServerErr: state.Err,
	})
	if err := runProgramFunc(app); err != nil {
		log.WithError(err).Error("console exited with error")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	n.Close(shutdownCtx)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// consoleAdvisor asks through the market service, which adds market context,
// and reads or clears the stored conversation on the advisor.
type consoleAdvisor struct {
	market  *service.MarketService
	advisor *advisor.Service
}

func (a consoleAdvisor) Chat(ctx context.Context, conversationID, message string) string {
	return a.market.Chat(ctx, conversationID, message)
}

func (a consoleAdvisor) History(ctx context.Context, conversationID string) ([]domain.ConversationMessage, error) {
	return a.advisor.History(ctx, conversationID)
}

func (a consoleAdvisor) Reset(ctx context.Context, conversationID string) error {
	return a.advisor.Reset(ctx, conversationID)
}
