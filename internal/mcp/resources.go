package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, session SessionReader, market MarketReader) {
	server.AddResource(&mcp.Resource{
		URI:         "mt5://session",
		Name:        "mt5-session",
		Description: "Current MT5 session state, login and server",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if session == nil {
			return nil, fmt.Errorf("mt5 session unavailable")
		}
		return jsonResource(req.Params.URI, sessionOutput{Session: session.Status()})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "history://{coin_id}{?days}",
		Name:        "coin-history",
		Description: "Price series for a coin; optional days query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("market service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil || parsed.Scheme != "history" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		coinID, err := normalizeCoinID(parsed.Host)
		if err != nil {
			return nil, err
		}
		days, err := normalizeDays(strings.TrimSpace(parsed.Query().Get("days")))
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, coinHistoryOutput{CoinID: coinID, Days: days, Prices: market.History(ctx, coinID, days)})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
