package domain

import "time"

// CoinMarket is one row of the CoinGecko markets listing.
type CoinMarket struct {
	ID                       string    `json:"id"`
	Symbol                   string    `json:"symbol"`
	Name                     string    `json:"name"`
	Image                    string    `json:"image"`
	CurrentPrice             float64   `json:"current_price"`
	MarketCap                float64   `json:"market_cap"`
	MarketCapRank            int       `json:"market_cap_rank"`
	TotalVolume              float64   `json:"total_volume"`
	PriceChange24h           float64   `json:"price_change_24h"`
	PriceChangePercentage24h float64   `json:"price_change_percentage_24h"`
	PriceChangePercentage1h  float64   `json:"price_change_percentage_1h"`
	PriceChangePercentage7d  float64   `json:"price_change_percentage_7d"`
	CirculatingSupply        float64   `json:"circulating_supply"`
	TotalSupply              float64   `json:"total_supply"`
	ATH                      float64   `json:"ath"`
	ATHChangePercentage      float64   `json:"ath_change_percentage"`
	Sparkline7d              []float64 `json:"sparkline_7d"`
	LastUpdated              time.Time `json:"last_updated"`
}

// NewsItem is a normalized headline. When enriched, the analysis fields are
// flattened into the item on the wire.
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	*HeadlineAnalysis
}

type HeadlineAnalysis struct {
	ImpactScore     float64  `json:"impact_score"`
	Reasoning       string   `json:"reasoning"`
	AffectedAssets  []string `json:"affected_assets"`
	ChainReaction   []string `json:"chain_reaction"`
	TradeSuggestion string   `json:"trade_suggestion"`
}

type MarketSummary struct {
	Sentiment string   `json:"sentiment"`
	Signal    string   `json:"signal"`
	Takeaways []string `json:"takeaways"`
}

type ConversationMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
