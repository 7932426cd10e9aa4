package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultGatewayURL = "http://127.0.0.1:18812"

// GatewayClient talks to the local MT5 gateway, the process on the terminal's
// machine that owns the native terminal API and exposes it as JSON over HTTP.
type GatewayClient struct {
	http   *resty.Client
	tracer trace.Tracer

	mu sync.Mutex
	// transportErr holds the failure of the last call that never reached the
	// gateway; LastError reports it instead of asking the gateway.
	transportErr *Error
}

type gatewayAck struct {
	OK bool `json:"ok"`
}

type initializeRequest struct {
	Path string `json:"path,omitempty"`
}

type loginRequest struct {
	Login    int64  `json:"login"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

type accountResponse struct {
	Account *AccountInfo `json:"account"`
}

type positionsResponse struct {
	Positions []PositionRecord `json:"positions"`
}

func NewGatewayClient(baseURL string, tracer trace.Tracer) *GatewayClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return newGatewayClient(client, tracer)
}

func newGatewayClient(client *resty.Client, tracer trace.Tracer) *GatewayClient {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("terminal")
	}
	return &GatewayClient{http: client, tracer: tracer}
}

func (c *GatewayClient) Initialize(ctx context.Context, path string) error {
	ctx, span := c.tracer.Start(ctx, "terminal.initialize")
	defer span.End()
	span.SetAttributes(attribute.Bool("terminal.path_override", path != ""))

	return c.ack(ctx, "/initialize", initializeRequest{Path: path})
}

func (c *GatewayClient) Login(ctx context.Context, login int64, password, server string) error {
	ctx, span := c.tracer.Start(ctx, "terminal.login")
	defer span.End()
	span.SetAttributes(attribute.String("terminal.server", server))

	return c.ack(ctx, "/login", loginRequest{Login: login, Password: password, Server: server})
}

func (c *GatewayClient) Shutdown(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "terminal.shutdown")
	defer span.End()

	resp, err := c.http.R().SetContext(ctx).Post("/shutdown")
	if err != nil {
		c.setTransportErr(err)
		return fmt.Errorf("shutdown: %w", err)
	}
	c.setTransportErr(nil)
	if resp.IsError() {
		return fmt.Errorf("shutdown: gateway status %d", resp.StatusCode())
	}
	return nil
}

func (c *GatewayClient) LastError(ctx context.Context) Error {
	c.mu.Lock()
	if c.transportErr != nil {
		e := *c.transportErr
		c.mu.Unlock()
		return e
	}
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "terminal.last-error")
	defer span.End()

	var out Error
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/last_error")
	if err != nil {
		return Error{Code: CodeInternalFailReceive, Description: err.Error()}
	}
	if resp.IsError() {
		return Error{Code: CodeInternalFail, Description: fmt.Sprintf("gateway status %d", resp.StatusCode())}
	}
	span.SetAttributes(attribute.Int("terminal.error_code", out.Code))
	return out
}

func (c *GatewayClient) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	ctx, span := c.tracer.Start(ctx, "terminal.account-info")
	defer span.End()

	var out accountResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/account_info")
	if err != nil {
		c.setTransportErr(err)
		return nil, fmt.Errorf("account_info: %w", err)
	}
	c.setTransportErr(nil)
	if resp.IsError() {
		return nil, fmt.Errorf("account_info: gateway status %d", resp.StatusCode())
	}
	return out.Account, nil
}

func (c *GatewayClient) PositionsGet(ctx context.Context) ([]PositionRecord, error) {
	ctx, span := c.tracer.Start(ctx, "terminal.positions-get")
	defer span.End()

	var out positionsResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/positions_get")
	if err != nil {
		c.setTransportErr(err)
		return nil, fmt.Errorf("positions_get: %w", err)
	}
	c.setTransportErr(nil)
	if resp.IsError() {
		return nil, fmt.Errorf("positions_get: gateway status %d", resp.StatusCode())
	}
	span.SetAttributes(attribute.Int("terminal.positions", len(out.Positions)))
	return out.Positions, nil
}

func (c *GatewayClient) ack(ctx context.Context, endpoint string, body any) error {
	var out gatewayAck
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post(endpoint)
	if err != nil {
		c.setTransportErr(err)
		return fmt.Errorf("%s: %w", strings.TrimPrefix(endpoint, "/"), err)
	}
	c.setTransportErr(nil)
	if resp.IsError() || !out.OK {
		return fmt.Errorf("%s: %w", strings.TrimPrefix(endpoint, "/"), ErrRejected)
	}
	return nil
}

// A gateway that cannot be reached behaves like a terminal that never answered
// the handshake.
func (c *GatewayClient) setTransportErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.transportErr = nil
		return
	}
	c.transportErr = &Error{Code: CodeIPCTimeout, Description: "IPC timeout: " + err.Error()}
}
