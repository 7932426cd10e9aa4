package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"pulse-node/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	enrichedHeadlines  = 3
	maxNewsItems       = 10
	fallbackPoints     = 50
	contextCoins       = 5
	contextPerPage     = 10
	defaultVsCurrency  = "usd"
	defaultPerPage     = 100
	fallbackBase       = 100.0
	fallbackAmplitude  = 5.0
	priceCacheKeyFmt   = "prices:%s:%d"
	historyCacheKeyFmt = "history:%s:%s"
	newsCacheKey       = "news:latest"
)

type MarketDataProvider interface {
	Markets(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error)
	History(ctx context.Context, coinID, days string) ([]float64, error)
}

type NewsProvider interface {
	SearchNews(ctx context.Context, query string) ([]domain.NewsItem, error)
}

type Analyst interface {
	AnalyzeHeadline(ctx context.Context, headline, marketContext string) domain.HeadlineAnalysis
	Summarize(ctx context.Context, headlines []string) domain.MarketSummary
	Chat(ctx context.Context, conversationID, message, marketContext string) string
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// MarketService fronts the market data providers and the advisor for the HTTP,
// MCP and console surfaces.
type MarketService struct {
	tracer   trace.Tracer
	markets  MarketDataProvider
	news     NewsProvider
	analyst  Analyst
	cache    JSONCache
	priceTTL time.Duration
	newsTTL  time.Duration
	jitter   func() float64
}

func NewMarketService(
	tracer trace.Tracer,
	markets MarketDataProvider,
	news NewsProvider,
	analyst Analyst,
	cache JSONCache,
	priceTTL, newsTTL time.Duration,
) *MarketService {
	return &MarketService{
		tracer:   tracer,
		markets:  markets,
		news:     news,
		analyst:  analyst,
		cache:    cache,
		priceTTL: priceTTL,
		newsTTL:  newsTTL,
		jitter:   rand.Float64,
	}
}

// Prices returns the CoinGecko markets listing, served from cache when fresh.
func (s *MarketService) Prices(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error) {
	return s.loadPrices(ctx, "market.prices", vsCurrency, perPage, true)
}

// RefreshPrices fetches the listing upstream regardless of the cache and stores
// the result for later Prices calls.
func (s *MarketService) RefreshPrices(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error) {
	return s.loadPrices(ctx, "market.refresh-prices", vsCurrency, perPage, false)
}

func (s *MarketService) loadPrices(ctx context.Context, spanName, vsCurrency string, perPage int, useCache bool) ([]domain.CoinMarket, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	vsCurrency = strings.ToLower(strings.TrimSpace(vsCurrency))
	if vsCurrency == "" {
		vsCurrency = defaultVsCurrency
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	key := fmt.Sprintf(priceCacheKeyFmt, vsCurrency, perPage)
	var cached []domain.CoinMarket
	if useCache && s.cacheGet(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	coins, err := s.markets.Markets(ctx, vsCurrency, perPage)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	s.cacheSet(ctx, key, coins, s.priceTTL)
	return coins, nil
}

// History returns the price series for coinID. When the provider fails or has
// no data it returns a flat synthetic series so the chart still renders.
func (s *MarketService) History(ctx context.Context, coinID, days string) []float64 {
	ctx, span := s.tracer.Start(ctx, "market.history")
	defer span.End()

	if days == "" {
		days = "1"
	}
	key := fmt.Sprintf(historyCacheKeyFmt, coinID, days)
	var cached []float64
	if s.cacheGet(ctx, key, &cached) && len(cached) > 0 {
		return cached
	}

	prices, err := s.markets.History(ctx, coinID, days)
	if err != nil || len(prices) == 0 {
		if err != nil {
			log.WithError(err).WithField("coin", coinID).Warn("history unavailable, serving placeholder series")
		}
		span.SetAttributes(attribute.Bool("market.placeholder", true))
		return s.placeholderSeries()
	}
	s.cacheSet(ctx, key, prices, s.priceTTL)
	return prices
}

// News returns up to ten headlines, the first three scored by the advisor. Any
// provider failure yields an empty list.
func (s *MarketService) News(ctx context.Context) []domain.NewsItem {
	return s.loadNews(ctx, "market.news", true)
}

// RefreshNews rebuilds the headline list upstream and caches it. A failed
// refresh leaves the cached list in place.
func (s *MarketService) RefreshNews(ctx context.Context) []domain.NewsItem {
	return s.loadNews(ctx, "market.refresh-news", false)
}

func (s *MarketService) loadNews(ctx context.Context, spanName string, useCache bool) []domain.NewsItem {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	var cached []domain.NewsItem
	if useCache && s.cacheGet(ctx, newsCacheKey, &cached) {
		return cached
	}

	items, err := s.news.SearchNews(ctx, "")
	if err != nil {
		log.WithError(err).Warn("news fetch failed")
		return []domain.NewsItem{}
	}
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}

	if s.analyst != nil {
		n := min(enrichedHeadlines, len(items))
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				log.Debugf("analyzing: %.30s", items[i].Title)
				analysis := s.analyst.AnalyzeHeadline(ctx, items[i].Title, "")
				items[i].HeadlineAnalysis = &analysis
			}(i)
		}
		wg.Wait()
	}

	span.SetAttributes(attribute.Int("market.news", len(items)))
	if len(items) > 0 {
		s.cacheSet(ctx, newsCacheKey, items, s.newsTTL)
	}
	return items
}

// Summary asks the advisor for one read across the current headlines.
func (s *MarketService) Summary(ctx context.Context) domain.MarketSummary {
	ctx, span := s.tracer.Start(ctx, "market.summary")
	defer span.End()

	news := s.News(ctx)
	headlines := make([]string, 0, len(news))
	for _, item := range news {
		headlines = append(headlines, item.Title)
	}
	if s.analyst == nil {
		return domain.MarketSummary{Sentiment: "Neutral", Signal: "Wait", Takeaways: []string{}}
	}
	return s.analyst.Summarize(ctx, headlines)
}

// MarketContext renders the top coins as a few lines of plain text for the chat
// prompt. It is empty when prices are unavailable.
func (s *MarketService) MarketContext(ctx context.Context) string {
	coins, err := s.Prices(ctx, defaultVsCurrency, contextPerPage)
	if err != nil || len(coins) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range coins {
		if i == contextCoins {
			break
		}
		fmt.Fprintf(&b, "%s: $%.2f (24h %+.2f%%)\n", c.Symbol, c.CurrentPrice, c.PriceChangePercentage24h)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Chat forwards message to the advisor with live market context attached.
func (s *MarketService) Chat(ctx context.Context, conversationID, message string) string {
	ctx, span := s.tracer.Start(ctx, "market.chat")
	defer span.End()

	if s.analyst == nil {
		return "System Error: advisor not configured"
	}
	return s.analyst.Chat(ctx, conversationID, message, s.MarketContext(ctx))
}

func (s *MarketService) placeholderSeries() []float64 {
	out := make([]float64, fallbackPoints)
	for i := range out {
		out[i] = fallbackBase + (s.jitter()*2-1)*fallbackAmplitude
	}
	return out
}

func (s *MarketService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	return hit
}

func (s *MarketService) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}
