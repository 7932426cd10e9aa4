// Package provider holds the clients for third-party market data.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

type CoinGecko struct {
	http   *resty.Client
	tracer trace.Tracer
}

type coinGeckoMarket struct {
	ID                                string     `json:"id"`
	Symbol                            string     `json:"symbol"`
	Name                              string     `json:"name"`
	Image                             string     `json:"image"`
	CurrentPrice                      float64    `json:"current_price"`
	MarketCap                         float64    `json:"market_cap"`
	MarketCapRank                     int        `json:"market_cap_rank"`
	TotalVolume                       float64    `json:"total_volume"`
	PriceChange24h                    float64    `json:"price_change_24h"`
	PriceChangePercentage24h          float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage1hInCurrency float64    `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage7dInCurrency float64    `json:"price_change_percentage_7d_in_currency"`
	CirculatingSupply                 float64    `json:"circulating_supply"`
	TotalSupply                       float64    `json:"total_supply"`
	ATH                               float64    `json:"ath"`
	ATHChangePercentage               float64    `json:"ath_change_percentage"`
	LastUpdated                       time.Time  `json:"last_updated"`
	SparklineIn7d                     *sparkline `json:"sparkline_in_7d"`
}

type sparkline struct {
	Price []float64 `json:"price"`
}

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

func NewCoinGecko(baseURL string, tracer trace.Tracer) *CoinGecko {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("provider")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")
	return &CoinGecko{http: client, tracer: tracer}
}

// Markets lists the top coins by market cap with sparkline and 1h/24h/7d change.
func (c *CoinGecko) Markets(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.markets")
	defer span.End()

	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	if perPage <= 0 || perPage > 250 {
		perPage = 100
	}
	span.SetAttributes(attribute.String("coingecko.vs_currency", vsCurrency), attribute.Int("coingecko.per_page", perPage))

	var raw []coinGeckoMarket
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency":             vsCurrency,
			"order":                   "market_cap_desc",
			"per_page":                fmt.Sprint(perPage),
			"page":                    "1",
			"sparkline":               "true",
			"price_change_percentage": "1h,24h,7d",
		}).
		SetResult(&raw).
		Get("/coins/markets")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return nil, fmt.Errorf("coingecko markets: status %d", resp.StatusCode())
	}

	out := make([]domain.CoinMarket, 0, len(raw))
	for _, m := range raw {
		coin := domain.CoinMarket{
			ID:                       m.ID,
			Symbol:                   strings.ToUpper(m.Symbol),
			Name:                     m.Name,
			Image:                    m.Image,
			CurrentPrice:             m.CurrentPrice,
			MarketCap:                m.MarketCap,
			MarketCapRank:            m.MarketCapRank,
			TotalVolume:              m.TotalVolume,
			PriceChange24h:           m.PriceChange24h,
			PriceChangePercentage24h: m.PriceChangePercentage24h,
			PriceChangePercentage1h:  m.PriceChangePercentage1hInCurrency,
			PriceChangePercentage7d:  m.PriceChangePercentage7dInCurrency,
			CirculatingSupply:        m.CirculatingSupply,
			TotalSupply:              m.TotalSupply,
			ATH:                      m.ATH,
			ATHChangePercentage:      m.ATHChangePercentage,
			Sparkline7d:              []float64{},
			LastUpdated:              m.LastUpdated,
		}
		if m.SparklineIn7d != nil && m.SparklineIn7d.Price != nil {
			coin.Sparkline7d = m.SparklineIn7d.Price
		}
		out = append(out, coin)
	}
	return out, nil
}

// History returns the price series of coinID in USD over the last days.
func (c *CoinGecko) History(ctx context.Context, coinID, days string) ([]float64, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.history")
	defer span.End()

	if days == "" {
		days = "1"
	}
	span.SetAttributes(attribute.String("coingecko.coin_id", coinID), attribute.String("coingecko.days", days))

	var chart marketChart
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", coinID).
		SetQueryParams(map[string]string{"vs_currency": "usd", "days": days}).
		SetResult(&chart).
		Get("/coins/{id}/market_chart")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("coingecko history: %w", err)
	}
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return nil, fmt.Errorf("coingecko history: status %d", resp.StatusCode())
	}

	prices := make([]float64, 0, len(chart.Prices))
	for _, point := range chart.Prices {
		if len(point) < 2 {
			continue
		}
		prices = append(prices, point[1])
	}
	return prices, nil
}
