// Package terminal is the native MetaTrader 5 integration as seen by the session
// bridge: a single process-wide link to the trading terminal.
package terminal

import (
	"context"
	"errors"
	"fmt"
)

// Result codes reported by the terminal's last_error call.
const (
	CodeOK                  = 1
	CodeFail                = -1
	CodeInvalidParams       = -2
	CodeNoMemory            = -3
	CodeNotFound            = -4
	CodeInvalidVersion      = -5
	CodeAuthFailed          = -6
	CodeUnsupported         = -7
	CodeAutoTradingDisabled = -8
	CodeInternalFail        = -10000
	CodeInternalFailSend    = -10001
	CodeInternalFailReceive = -10002
	CodeInternalFailInit    = -10003
	CodeInternalFailConnect = -10004
	CodeIPCTimeout          = -10005
)

// Native position type codes.
const (
	PositionTypeBuy  = 0
	PositionTypeSell = 1
)

var ErrRejected = errors.New("terminal rejected the request")

// Terminal is the link to the terminal process. Calls block until the terminal
// answers; cancellation comes only from ctx.
type Terminal interface {
	Initialize(ctx context.Context, path string) error
	Login(ctx context.Context, login int64, password, server string) error
	Shutdown(ctx context.Context) error
	LastError(ctx context.Context) Error
	// AccountInfo returns nil without an error when the terminal has no record.
	AccountInfo(ctx context.Context) (*AccountInfo, error)
	// PositionsGet returns nil without an error when the terminal has no data.
	PositionsGet(ctx context.Context) ([]PositionRecord, error)
}

// Error is the (code, description) pair of the terminal's last_error.
type Error struct {
	Code        int    `json:"code"`
	Description string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("(%d, %q)", e.Code, e.Description)
}

func (e Error) IsIPCTimeout() bool {
	return e.Code == CodeIPCTimeout
}

// AccountInfo mirrors the terminal's account_info record.
type AccountInfo struct {
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

// PositionRecord mirrors one entry of the terminal's positions_get result.
// Time is in epoch seconds.
type PositionRecord struct {
	Ticket        int64   `json:"ticket"`
	Time          int64   `json:"time"`
	TimeMsc       int64   `json:"time_msc"`
	TimeUpdate    int64   `json:"time_update"`
	TimeUpdateMsc int64   `json:"time_update_msc"`
	Type          int     `json:"type"`
	Magic         int64   `json:"magic"`
	Identifier    int64   `json:"identifier"`
	Reason        int     `json:"reason"`
	Volume        float64 `json:"volume"`
	PriceOpen     float64 `json:"price_open"`
	StopLoss      float64 `json:"sl"`
	TakeProfit    float64 `json:"tp"`
	PriceCurrent  float64 `json:"price_current"`
	Swap          float64 `json:"swap"`
	Profit        float64 `json:"profit"`
	Symbol        string  `json:"symbol"`
	Comment       string  `json:"comment"`
	ExternalID    string  `json:"external_id"`
}
