package job

import (
	"context"
	"time"

	"pulse-node/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	warmCurrency = "usd"
	warmPerPage  = 100
)

// MarketSource refreshes cached market data, skipping the cache on read.
type MarketSource interface {
	RefreshPrices(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error)
	RefreshNews(ctx context.Context) []domain.NewsItem
}

// MarketWarmer keeps the default price listing and the headlines cached so the
// frontend's first requests after idle periods do not wait on upstream APIs.
// Intervals should be shorter than the cache TTLs so an entry is rewritten
// before it expires.
type MarketWarmer struct {
	tracer     trace.Tracer
	market     MarketSource
	priceEvery time.Duration
	newsEvery  time.Duration
}

func NewMarketWarmer(tracer trace.Tracer, market MarketSource, priceEvery, newsEvery time.Duration) *MarketWarmer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("job")
	}
	return &MarketWarmer{
		tracer:     tracer,
		market:     market,
		priceEvery: priceEvery,
		newsEvery:  newsEvery,
	}
}

// Start refreshes immediately and then on each tick. Blocks until ctx is cancelled.
func (w *MarketWarmer) Start(ctx context.Context) {
	if w == nil || w.market == nil || w.priceEvery <= 0 || w.newsEvery <= 0 {
		log.Info("market warmer disabled")
		<-ctx.Done()
		return
	}

	log.WithFields(log.Fields{"prices": w.priceEvery.String(), "news": w.newsEvery.String()}).
		Info("market warmer starting")
	priceTicker := time.NewTicker(w.priceEvery)
	newsTicker := time.NewTicker(w.newsEvery)
	defer priceTicker.Stop()
	defer newsTicker.Stop()

	w.warmPrices(ctx)
	w.warmNews(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("market warmer stopped")
			return
		case <-priceTicker.C:
			w.warmPrices(ctx)
		case <-newsTicker.C:
			w.warmNews(ctx)
		}
	}
}

func (w *MarketWarmer) warmPrices(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "market-warmer.prices")
	defer span.End()

	coins, err := w.market.RefreshPrices(ctx, warmCurrency, warmPerPage)
	if err != nil {
		span.RecordError(err)
		log.WithError(err).Warn("price warm-up failed")
		return
	}
	span.SetAttributes(attribute.Int("coins", len(coins)))
}

func (w *MarketWarmer) warmNews(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "market-warmer.news")
	defer span.End()

	span.SetAttributes(attribute.Int("headlines", len(w.market.RefreshNews(ctx))))
}
