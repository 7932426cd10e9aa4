package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

type stubSession struct {
	account   *domain.AccountSnapshot
	positions []domain.Position
	status    mt5.Status
}

func (s *stubSession) AccountInfo(ctx context.Context) *domain.AccountSnapshot {
	if s.account == nil {
		return nil
	}
	copy := *s.account
	return &copy
}

func (s *stubSession) Positions(ctx context.Context) []domain.Position {
	return append([]domain.Position{}, s.positions...)
}

func (s *stubSession) Status() mt5.Status { return s.status }

type stubMarket struct {
	mu          sync.Mutex
	coins       []domain.CoinMarket
	summary     domain.MarketSummary
	lastVs      string
	lastPerPage int
	lastCoin    string
	lastDays    string
}

func (m *stubMarket) Prices(ctx context.Context, vs string, perPage int) ([]domain.CoinMarket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastVs, m.lastPerPage = vs, perPage
	return append([]domain.CoinMarket(nil), m.coins...), nil
}

func (m *stubMarket) History(ctx context.Context, coinID, days string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCoin, m.lastDays = coinID, days
	return []float64{1, 2, 3}
}

func (m *stubMarket) Summary(ctx context.Context) domain.MarketSummary {
	return m.summary
}

func testServer() (*sdkmcp.Server, *stubSession, *stubMarket) {
	session := &stubSession{
		account: &domain.AccountSnapshot{Login: 5001, Balance: 1000, Equity: 1012.5, Profit: 12.5, Currency: "USD"},
		positions: []domain.Position{{
			ID: "42", Symbol: "EURUSD", Side: domain.SideLong,
			Qty: decimal.NewFromFloat(0.1), EntryPrice: decimal.NewFromFloat(1.1),
			CurrentPrice: decimal.NewFromFloat(1.1125), PnL: decimal.NewFromFloat(12.5),
			OpenedAt: 1700000000000,
		}},
		status: mt5.Status{State: domain.SessionConnected, Login: 5001, Server: "Demo-Server"},
	}
	market := &stubMarket{
		coins: []domain.CoinMarket{
			{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", CurrentPrice: 50000, LastUpdated: time.Unix(0, 0).UTC()},
		},
		summary: domain.MarketSummary{Sentiment: "Bullish", Signal: "BUY", Takeaways: []string{"a", "b", "c"}},
	}

	srv := NewServer(nil, session, market, ServerConfig{RequestTimeout: time.Second})
	return srv, session, market
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

type authRoundTripper struct {
	token string
	base  http.RoundTripper
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeStructured(result *sdkmcp.CallToolResult, out any) error {
	body, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
