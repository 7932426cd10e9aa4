package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCredentialsStringHidesPassword(t *testing.T) {
	c := Credentials{Login: 5012345, Password: "hunter2", Server: "Broker-Demo"}
	require.Equal(t, "login=5012345 server=Broker-Demo", c.String())
	require.NotContains(t, fmt.Sprintf("%v", c), "hunter2")
}

func TestTotalsOf(t *testing.T) {
	require.Equal(t, AccountTotals{}, TotalsOf(nil))
	require.Equal(t,
		AccountTotals{Balance: 1000, Equity: 1012.5, Profit: 12.5},
		TotalsOf(&AccountSnapshot{Balance: 1000, Equity: 1012.5, Profit: 12.5}),
	)
}

func TestPositionMarshalsNumbers(t *testing.T) {
	p := Position{
		ID:           "42",
		Symbol:       "XAUUSD",
		Side:         SideShort,
		Qty:          decimal.RequireFromString("0.25"),
		EntryPrice:   decimal.RequireFromString("2350.1"),
		CurrentPrice: decimal.RequireFromString("2340.6"),
		PnL:          decimal.RequireFromString("237.5"),
		OpenedAt:     1700000000000,
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "42", "symbol": "XAUUSD", "side": "SHORT",
		"qty": 0.25, "entryPrice": 2350.1, "currentPrice": 2340.6, "pnl": 237.5,
		"openedAt": 1700000000000
	}`, string(b))
}
