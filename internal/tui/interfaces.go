package tui

import (
	"context"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"
)

// SessionQuerier provides the MT5 session to the console.
type SessionQuerier interface {
	Status() mt5.Status
	AccountInfo(ctx context.Context) *domain.AccountSnapshot
	Positions(ctx context.Context) []domain.Position
}

// MarketQuerier provides the crypto listing to the console.
type MarketQuerier interface {
	Prices(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error)
}

// AdvisorQuerier provides advisor chat and its stored conversation to the console.
type AdvisorQuerier interface {
	Chat(ctx context.Context, conversationID, message string) string
	History(ctx context.Context, conversationID string) ([]domain.ConversationMessage, error)
	Reset(ctx context.Context, conversationID string) error
}

// LogSource returns the most recent log lines, oldest first.
type LogSource interface {
	Tail(n int) []string
}

// ConversationID keys the console's advisor history.
const ConversationID = "console"

// Services bundles all service dependencies injected into the console.
type Services struct {
	Session SessionQuerier
	Market  MarketQuerier
	Advisor AdvisorQuerier
	Logs    LogSource
	// NodeURL is the address the HTTP node listens on.
	NodeURL string
	// ServerErr reports why the HTTP node stopped, or nil while it serves.
	ServerErr func() error
}
