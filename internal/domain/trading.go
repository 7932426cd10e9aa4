package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// The frontend reads position quantities and prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionConnected    SessionState = "connected"
)

type PositionSide string

const (
	SideLong  PositionSide = "LONG"
	SideShort PositionSide = "SHORT"
)

// Credentials identify a broker account. They are supplied on every connect and
// never persisted.
type Credentials struct {
	Login    int64  `json:"login"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

// String keeps the password out of log lines and %v output.
func (c Credentials) String() string {
	return fmt.Sprintf("login=%d server=%s", c.Login, c.Server)
}

// AccountSnapshot is the account record as reported by the terminal at the
// moment of the query.
type AccountSnapshot struct {
	Login             int64   `json:"login"`
	TradeMode         int     `json:"trade_mode"`
	Leverage          int64   `json:"leverage"`
	LimitOrders       int     `json:"limit_orders"`
	MarginSOMode      int     `json:"margin_so_mode"`
	TradeAllowed      bool    `json:"trade_allowed"`
	TradeExpert       bool    `json:"trade_expert"`
	MarginMode        int     `json:"margin_mode"`
	CurrencyDigits    int     `json:"currency_digits"`
	FIFOClose         bool    `json:"fifo_close"`
	Balance           float64 `json:"balance"`
	Credit            float64 `json:"credit"`
	Profit            float64 `json:"profit"`
	Equity            float64 `json:"equity"`
	Margin            float64 `json:"margin"`
	MarginFree        float64 `json:"margin_free"`
	MarginLevel       float64 `json:"margin_level"`
	MarginSOCall      float64 `json:"margin_so_call"`
	MarginSOSO        float64 `json:"margin_so_so"`
	MarginInitial     float64 `json:"margin_initial"`
	MarginMaintenance float64 `json:"margin_maintenance"`
	Assets            float64 `json:"assets"`
	Liabilities       float64 `json:"liabilities"`
	CommissionBlocked float64 `json:"commission_blocked"`
	Name              string  `json:"name"`
	Server            string  `json:"server"`
	Currency          string  `json:"currency"`
	Company           string  `json:"company"`
}

// Position is an open broker position in the shape the frontend renders.
type Position struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Side         PositionSide    `json:"side"`
	Qty          decimal.Decimal `json:"qty"`
	EntryPrice   decimal.Decimal `json:"entryPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	PnL          decimal.Decimal `json:"pnl"`
	OpenedAt     int64           `json:"openedAt"`
}

// AccountTotals is the balance/equity/profit triple reported next to positions.
// A missing snapshot yields zeros.
type AccountTotals struct {
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
	Profit  float64 `json:"profit"`
}

func TotalsOf(s *AccountSnapshot) AccountTotals {
	if s == nil {
		return AccountTotals{}
	}
	return AccountTotals{Balance: s.Balance, Equity: s.Equity, Profit: s.Profit}
}
