package tui

import (
	"errors"
	"strings"
	"testing"

	"pulse-node/internal/domain"
)

func TestMarketsFetch(t *testing.T) {
	svc := testServices()
	svc.Market = &stubMarket{coins: []domain.CoinMarket{
		{Symbol: "BTC", MarketCapRank: 1, CurrentPrice: 98000, PriceChangePercentage24h: 2.3, TotalVolume: 28e9},
		{Symbol: "ETH", MarketCapRank: 2, CurrentPrice: 3456, PriceChangePercentage24h: -1.2, TotalVolume: 15e9},
	}}
	m := NewMarketsModel(svc)
	m.SetSize(120, 40)

	updated, _ := m.Update(m.fetchCmd()())
	if len(updated.Coins()) != 2 || updated.Coins()[0].Symbol != "BTC" {
		t.Fatalf("unexpected coins: %+v", updated.Coins())
	}
	if view := updated.View(); !strings.Contains(view, "$98,000") {
		t.Fatal("expected formatted BTC price in view")
	}
}

func TestMarketsFetchError(t *testing.T) {
	svc := testServices()
	svc.Market = &stubMarket{err: errors.New("429")}
	m := NewMarketsModel(svc)
	m.SetSize(120, 40)

	updated, _ := m.Update(m.fetchCmd()())
	if view := updated.View(); !strings.Contains(view, "429") {
		t.Fatalf("expected error in view, got %q", view)
	}
}

func TestMarketsWithoutService(t *testing.T) {
	m := NewMarketsModel(Services{})
	if _, ok := m.fetchCmd()().(coinsErrMsg); !ok {
		t.Fatal("expected error message without a market service")
	}
}
