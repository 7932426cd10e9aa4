package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubKeys map[string]string

func (s stubKeys) Get(key string, _ bool) (string, bool) {
	v, ok := s[key]
	return v, ok && v != ""
}

func serveJSON(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCoinGeckoMarkets(t *testing.T) {
	srv := serveJSON(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "eur", q.Get("vs_currency"))
		require.Equal(t, "5", q.Get("per_page"))
		require.Equal(t, "true", q.Get("sparkline"))
		require.Equal(t, "1h,24h,7d", q.Get("price_change_percentage"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.5,"market_cap_rank":1,
			 "price_change_percentage_24h":2.5,"price_change_percentage_1h_in_currency":0.1,
			 "price_change_percentage_7d_in_currency":-3.2,"total_supply":21000000,
			 "last_updated":"2026-10-19T10:00:00.000Z","sparkline_in_7d":{"price":[1,2,3]}},
			{"id":"tether","symbol":"usdt","name":"Tether","current_price":1,"total_supply":null,"sparkline_in_7d":null}
		]`)
	})

	c := NewCoinGecko(srv.URL, nil)
	coins, err := c.Markets(context.Background(), "eur", 5)
	require.NoError(t, err)
	require.Len(t, coins, 2)

	btc := coins[0]
	require.Equal(t, "BTC", btc.Symbol)
	require.Equal(t, 64000.5, btc.CurrentPrice)
	require.Equal(t, 1, btc.MarketCapRank)
	require.Equal(t, 0.1, btc.PriceChangePercentage1h)
	require.Equal(t, -3.2, btc.PriceChangePercentage7d)
	require.Equal(t, []float64{1, 2, 3}, btc.Sparkline7d)
	require.Equal(t, 2026, btc.LastUpdated.Year())

	usdt := coins[1]
	require.Equal(t, "USDT", usdt.Symbol)
	require.Zero(t, usdt.TotalSupply)
	require.NotNil(t, usdt.Sparkline7d)
	require.Empty(t, usdt.Sparkline7d)
}

func TestCoinGeckoMarketsDefaultsAndErrors(t *testing.T) {
	srv := serveJSON(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := NewCoinGecko(srv.URL, nil).Markets(context.Background(), "", 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestCoinGeckoHistory(t *testing.T) {
	srv := serveJSON(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/ethereum/market_chart", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"prices":[[1700000000000,3000.1],[1700000300000,3001.2],[1700000600000]]}`)
	})

	prices, err := NewCoinGecko(srv.URL, nil).History(context.Background(), "ethereum", "7")
	require.NoError(t, err)
	require.Equal(t, []float64{3000.1, 3001.2}, prices)
}

func TestApifySearchNews(t *testing.T) {
	var body searchRequest
	srv := serveJSON(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/acts/apify~google-search-scraper/run-sync-get-dataset-items", r.URL.Path)
		require.Equal(t, "tok", r.URL.Query().Get("token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		results := make([]map[string]string, 0, 12)
		for i := 0; i < 12; i++ {
			item := map[string]string{"title": fmt.Sprintf("Headline %d", i), "url": fmt.Sprintf("https://news.example/%d", i)}
			if i == 0 {
				item["date"] = "2 hours ago"
			}
			results = append(results, item)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{{"organicResults": results}})
	})

	a := NewApify(srv.URL, stubKeys{ApifyKeySetting: "tok"}, nil)
	items, err := a.SearchNews(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, searchRequest{Queries: DefaultNewsQuery + " news", ResultsPerPage: 10, MaxPagesPerQuery: 1}, body)

	require.Len(t, items, 10)
	require.Equal(t, "Headline 0", items[0].Title)
	require.Equal(t, "https://news.example/0", items[0].Link)
	require.Equal(t, "Google Search", items[0].Source)
	require.Equal(t, "2 hours ago", items[0].PublishedAt)
	require.Equal(t, "Just Now", items[1].PublishedAt)
	require.Nil(t, items[0].HeadlineAnalysis)
}

func TestApifyWithoutKey(t *testing.T) {
	a := NewApify("http://127.0.0.1:1", stubKeys{}, nil)
	_, err := a.SearchNews(context.Background(), "gold")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestApifyStatusError(t *testing.T) {
	srv := serveJSON(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	_, err := NewApify(srv.URL, stubKeys{ApifyKeySetting: "tok"}, nil).SearchNews(context.Background(), "oil")
	require.Error(t, err)
}
