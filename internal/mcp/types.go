package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"pulse-node/internal/domain"
	"pulse-node/internal/mt5"
)

const (
	defaultPerPage  = 100
	maxPerPage      = 250
	defaultCurrency = "usd"
	defaultDays     = "1"
)

type pricesListInput struct {
	VsCurrency string `json:"vs_currency,omitempty" jsonschema:"quote currency, defaults to usd"`
	PerPage    int    `json:"per_page,omitempty" jsonschema:"number of coins to return, max 250"`
}

type pricesListOutput struct {
	Coins []domain.CoinMarket `json:"coins"`
}

type coinHistoryInput struct {
	CoinID string `json:"coin_id" jsonschema:"CoinGecko coin id (e.g. bitcoin)"`
	Days   string `json:"days,omitempty" jsonschema:"window in days or max, defaults to 1"`
}

type coinHistoryOutput struct {
	CoinID string    `json:"coin_id"`
	Days   string    `json:"days"`
	Prices []float64 `json:"prices"`
}

type emptyInput struct{}

type newsSummaryOutput struct {
	Summary domain.MarketSummary `json:"summary"`
}

type mt5AccountOutput struct {
	Connected bool                    `json:"connected"`
	Account   *domain.AccountSnapshot `json:"account,omitempty"`
}

// positionOutput mirrors domain.Position with plain numbers. Output schemas are
// inferred from these types, and a decimal.Decimal field would be described as
// an object while it is sent as a number.
type positionOutput struct {
	ID           string              `json:"id"`
	Symbol       string              `json:"symbol"`
	Side         domain.PositionSide `json:"side"`
	Qty          float64             `json:"qty"`
	EntryPrice   float64             `json:"entryPrice"`
	CurrentPrice float64             `json:"currentPrice"`
	PnL          float64             `json:"pnl"`
	OpenedAt     int64               `json:"openedAt"`
}

type mt5PositionsOutput struct {
	Positions []positionOutput `json:"positions"`
	Balance   float64           `json:"balance"`
	Equity    float64           `json:"equity"`
	Profit    float64           `json:"profit"`
}

type sessionOutput struct {
	Session mt5.Status `json:"session"`
}

func toPositionOutputs(positions []domain.Position) []positionOutput {
	out := make([]positionOutput, 0, len(positions))
	for _, p := range positions {
		out = append(out, positionOutput{
			ID:           p.ID,
			Symbol:       p.Symbol,
			Side:         p.Side,
			Qty:          p.Qty.InexactFloat64(),
			EntryPrice:   p.EntryPrice.InexactFloat64(),
			CurrentPrice: p.CurrentPrice.InexactFloat64(),
			PnL:          p.PnL.InexactFloat64(),
			OpenedAt:     p.OpenedAt,
		})
	}
	return out
}

func normalizeCurrency(vs string) string {
	vs = strings.ToLower(strings.TrimSpace(vs))
	if vs == "" {
		return defaultCurrency
	}
	return vs
}

func normalizePerPage(n int) (int, error) {
	if n == 0 {
		return defaultPerPage, nil
	}
	if n < 0 || n > maxPerPage {
		return 0, fmt.Errorf("per_page must be between 1 and %d", maxPerPage)
	}
	return n, nil
}

func normalizeCoinID(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", fmt.Errorf("coin_id is required")
	}
	return id, nil
}

func normalizeDays(days string) (string, error) {
	days = strings.ToLower(strings.TrimSpace(days))
	if days == "" {
		return defaultDays, nil
	}
	if days == "max" {
		return days, nil
	}
	if n, err := strconv.Atoi(days); err != nil || n <= 0 {
		return "", fmt.Errorf("invalid days: %s", days)
	}
	return days, nil
}
