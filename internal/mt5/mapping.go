package mt5

import (
	"fmt"
	"strconv"

	"pulse-node/internal/domain"
	"pulse-node/internal/terminal"

	"github.com/shopspring/decimal"
)

var sideByType = map[int]domain.PositionSide{
	terminal.PositionTypeBuy:  domain.SideLong,
	terminal.PositionTypeSell: domain.SideShort,
}

// SideFromType maps a native position type code. Only buy (0) and sell (1) exist.
func SideFromType(code int) (domain.PositionSide, error) {
	side, ok := sideByType[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownSide, code)
	}
	return side, nil
}

// OpenedAtMillis converts the terminal's epoch seconds to epoch milliseconds.
func OpenedAtMillis(seconds int64) int64 {
	return seconds * 1000
}

func toPosition(rec terminal.PositionRecord) (domain.Position, error) {
	side, err := SideFromType(rec.Type)
	if err != nil {
		return domain.Position{}, err
	}
	return domain.Position{
		ID:           strconv.FormatInt(rec.Ticket, 10),
		Symbol:       rec.Symbol,
		Side:         side,
		Qty:          decimal.NewFromFloat(rec.Volume),
		EntryPrice:   decimal.NewFromFloat(rec.PriceOpen),
		CurrentPrice: decimal.NewFromFloat(rec.PriceCurrent),
		PnL:          decimal.NewFromFloat(rec.Profit),
		OpenedAt:     OpenedAtMillis(rec.Time),
	}, nil
}

func accountSnapshot(info *terminal.AccountInfo) *domain.AccountSnapshot {
	return &domain.AccountSnapshot{
		Login:             info.Login,
		TradeMode:         info.TradeMode,
		Leverage:          info.Leverage,
		LimitOrders:       info.LimitOrders,
		MarginSOMode:      info.MarginSOMode,
		TradeAllowed:      info.TradeAllowed,
		TradeExpert:       info.TradeExpert,
		MarginMode:        info.MarginMode,
		CurrencyDigits:    info.CurrencyDigits,
		FIFOClose:         info.FIFOClose,
		Balance:           info.Balance,
		Credit:            info.Credit,
		Profit:            info.Profit,
		Equity:            info.Equity,
		Margin:            info.Margin,
		MarginFree:        info.MarginFree,
		MarginLevel:       info.MarginLevel,
		MarginSOCall:      info.MarginSOCall,
		MarginSOSO:        info.MarginSOSO,
		MarginInitial:     info.MarginInitial,
		MarginMaintenance: info.MarginMaintenance,
		Assets:            info.Assets,
		Liabilities:       info.Liabilities,
		CommissionBlocked: info.CommissionBlocked,
		Name:              info.Name,
		Server:            info.Server,
		Currency:          info.Currency,
		Company:           info.Company,
	}
}
