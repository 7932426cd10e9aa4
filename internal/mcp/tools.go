package mcp

import (
	"context"
	"fmt"

	"pulse-node/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, session SessionReader, market MarketReader) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "prices_list",
		Description: "List top coins by market cap with price changes and a 7 day sparkline",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in pricesListInput) (*mcp.CallToolResult, pricesListOutput, error) {
		if market == nil {
			return nil, pricesListOutput{}, fmt.Errorf("market service unavailable")
		}
		perPage, err := normalizePerPage(in.PerPage)
		if err != nil {
			return nil, pricesListOutput{}, err
		}
		coins, err := market.Prices(ctx, normalizeCurrency(in.VsCurrency), perPage)
		if err != nil {
			return nil, pricesListOutput{}, err
		}
		return nil, pricesListOutput{Coins: coins}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "coin_history",
		Description: "Get the price series for one coin over a window of days",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in coinHistoryInput) (*mcp.CallToolResult, coinHistoryOutput, error) {
		if market == nil {
			return nil, coinHistoryOutput{}, fmt.Errorf("market service unavailable")
		}
		coinID, err := normalizeCoinID(in.CoinID)
		if err != nil {
			return nil, coinHistoryOutput{}, err
		}
		days, err := normalizeDays(in.Days)
		if err != nil {
			return nil, coinHistoryOutput{}, err
		}
		return nil, coinHistoryOutput{CoinID: coinID, Days: days, Prices: market.History(ctx, coinID, days)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_summary",
		Description: "Get the advisor's sentiment, signal and takeaways for the latest headlines",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, newsSummaryOutput, error) {
		if market == nil {
			return nil, newsSummaryOutput{}, fmt.Errorf("market service unavailable")
		}
		return nil, newsSummaryOutput{Summary: market.Summary(ctx)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mt5_account",
		Description: "Get the connected MT5 account snapshot",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, mt5AccountOutput, error) {
		if session == nil {
			return nil, mt5AccountOutput{}, fmt.Errorf("mt5 session unavailable")
		}
		account := session.AccountInfo(ctx)
		return nil, mt5AccountOutput{Connected: account != nil, Account: account}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mt5_positions",
		Description: "List open MT5 positions with account balance, equity and profit",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, mt5PositionsOutput, error) {
		if session == nil {
			return nil, mt5PositionsOutput{}, fmt.Errorf("mt5 session unavailable")
		}
		positions := session.Positions(ctx)
		totals := domain.TotalsOf(session.AccountInfo(ctx))
		return nil, mt5PositionsOutput{
			Positions: toPositionOutputs(positions),
			Balance:   totals.Balance,
			Equity:    totals.Equity,
			Profit:    totals.Profit,
		}, nil
	})
}
