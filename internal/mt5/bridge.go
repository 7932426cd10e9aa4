// Package mt5 owns the process-wide MetaTrader 5 session and translates the
// terminal's native records into the frontend's wire format.
package mt5

import (
	"context"
	"strings"
	"sync"

	"pulse-node/internal/domain"
	"pulse-node/internal/terminal"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TerminalPathKey is the settings key holding an optional terminal install path.
const TerminalPathKey = "MT5_TERMINAL_PATH"

// SettingsReader resolves values from the local settings store.
type SettingsReader interface {
	Get(key string, fallbackEnv bool) (string, bool)
}

// Status describes the current session without touching the terminal.
type Status struct {
	State  domain.SessionState `json:"state"`
	Login  int64               `json:"login,omitempty"`
	Server string              `json:"server,omitempty"`
}

// Bridge serializes every terminal call behind one mutex; the terminal link is a
// single OS-level resource shared by all callers.
type Bridge struct {
	tracer   trace.Tracer
	terminal terminal.Terminal
	settings SettingsReader

	mu     sync.Mutex
	state  domain.SessionState
	login  int64
	server string
}

func NewBridge(tracer trace.Tracer, term terminal.Terminal, settings SettingsReader) *Bridge {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("mt5")
	}
	return &Bridge{
		tracer:   tracer,
		terminal: term,
		settings: settings,
		state:    domain.SessionDisconnected,
	}
}

// Connect initializes the terminal link and logs into the account. On an
// authentication failure the link is shut down before returning.
func (b *Bridge) Connect(ctx context.Context, creds domain.Credentials) error {
	ctx, span := b.tracer.Start(ctx, "mt5.connect")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("mt5.login", creds.Login),
		attribute.String("mt5.server", creds.Server),
	)

	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.terminalPath()
	if err := b.terminal.Initialize(ctx, path); err != nil {
		b.reset()
		initErr := &InitializationError{Cause: b.terminal.LastError(ctx)}
		log.WithError(err).Errorf("initialize() failed, error code = %s", initErr.Cause)
		span.SetStatus(codes.Error, "initialize failed")
		return initErr
	}

	if err := b.terminal.Login(ctx, creds.Login, creds.Password, creds.Server); err != nil {
		authErr := &AuthenticationError{Login: creds.Login, Server: creds.Server, Cause: b.terminal.LastError(ctx)}
		log.WithFields(log.Fields{"login": creds.Login, "server": creds.Server}).
			Errorf("failed to connect to MT5 account, error code = %s", authErr.Cause)
		if shutdownErr := b.terminal.Shutdown(ctx); shutdownErr != nil {
			log.WithError(shutdownErr).Warn("shutdown after failed login")
		}
		b.reset()
		span.SetStatus(codes.Error, "login failed")
		return authErr
	}

	b.state = domain.SessionConnected
	b.login = creds.Login
	b.server = creds.Server
	log.WithFields(log.Fields{"login": creds.Login, "server": creds.Server}).Info("connected to MT5 account")
	return nil
}

// Disconnect releases the terminal link. It is safe to call without a session and
// reports false only when the release itself failed. The session is kept as
// connected after a failed release so a later Disconnect retries it.
func (b *Bridge) Disconnect(ctx context.Context) (ok bool) {
	ctx, span := b.tracer.Start(ctx, "mt5.disconnect")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("error disconnecting MT5: %v", r)
			span.SetStatus(codes.Error, "shutdown panicked")
			ok = false
		}
	}()

	if err := b.terminal.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error disconnecting MT5")
		span.RecordError(err)
		return false
	}
	b.reset()
	log.Info("MT5 connection closed")
	return true
}

// AccountInfo returns the account record as of now, or nil when there is no
// session or the terminal has nothing to report.
func (b *Bridge) AccountInfo(ctx context.Context) *domain.AccountSnapshot {
	ctx, span := b.tracer.Start(ctx, "mt5.account-info")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != domain.SessionConnected {
		return nil
	}

	info, err := b.terminal.AccountInfo(ctx)
	if err != nil || info == nil {
		log.WithError(err).Errorf("failed to get account info, error code = %s", b.terminal.LastError(ctx))
		return nil
	}
	return accountSnapshot(info)
}

// Positions returns the open positions in terminal order. It never returns nil.
func (b *Bridge) Positions(ctx context.Context) []domain.Position {
	ctx, span := b.tracer.Start(ctx, "mt5.positions")
	defer span.End()

	b.mu.Lock()
	defer b.mu.Unlock()

	out := []domain.Position{}
	if b.state != domain.SessionConnected {
		return out
	}

	records, err := b.terminal.PositionsGet(ctx)
	if err != nil || records == nil {
		log.WithError(err).Errorf("failed to get positions, error code = %s", b.terminal.LastError(ctx))
		return out
	}

	for _, rec := range records {
		pos, err := toPosition(rec)
		if err != nil {
			log.WithFields(log.Fields{"ticket": rec.Ticket, "type": rec.Type}).WithError(err).Warn("skipping position")
			continue
		}
		out = append(out, pos)
	}
	span.SetAttributes(attribute.Int("mt5.positions", len(out)))
	return out
}

func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{State: b.state, Login: b.login, Server: b.server}
}

// The override must come from the persisted settings, never from the process
// environment.
func (b *Bridge) terminalPath() string {
	if b.settings == nil {
		return ""
	}
	path, ok := b.settings.Get(TerminalPathKey, false)
	if !ok {
		return ""
	}
	return strings.TrimSpace(path)
}

func (b *Bridge) reset() {
	b.state = domain.SessionDisconnected
	b.login = 0
	b.server = ""
}
