package mcp

import (
	"context"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"
)

// SessionReader exposes the read side of the MT5 session.
type SessionReader interface {
	AccountInfo(ctx context.Context) *domain.AccountSnapshot
	Positions(ctx context.Context) []domain.Position
	Status() mt5.Status
}

// MarketReader exposes cached market data and the advisor summary.
type MarketReader interface {
	Prices(ctx context.Context, vs string, perPage int) ([]domain.CoinMarket, error)
	History(ctx context.Context, coinID, days string) []float64
	Summary(ctx context.Context) domain.MarketSummary
}
