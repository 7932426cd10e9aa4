package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	DefaultApifyURL  = "https://api.apify.com"
	DefaultNewsQuery = "Finance Investing Stock Market"
	ApifyKeySetting  = "APIFY_API_KEY"

	googleSearchActor = "apify~google-search-scraper"
	newsSource        = "Google Search"
	maxSearchResults  = 10
)

var ErrNoAPIKey = errors.New("api key not configured")

// KeySource resolves API keys from the local settings.
type KeySource interface {
	Get(key string, fallbackEnv bool) (string, bool)
}

// Apify runs the Google search scraper actor synchronously and normalizes the
// organic results into headlines.
type Apify struct {
	http   *resty.Client
	tracer trace.Tracer
	keys   KeySource
}

type searchRequest struct {
	Queries          string `json:"queries"`
	ResultsPerPage   int    `json:"resultsPerPage"`
	MaxPagesPerQuery int    `json:"maxPagesPerQuery"`
}

type searchPage struct {
	OrganicResults []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Date  string `json:"date"`
	} `json:"organicResults"`
}

func NewApify(baseURL string, keys KeySource, tracer trace.Tracer) *Apify {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultApifyURL
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("provider")
	}
	// The actor runs synchronously and routinely takes tens of seconds.
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(90 * time.Second).
		SetHeader("Accept", "application/json")
	return &Apify{http: client, tracer: tracer, keys: keys}
}

// SearchNews returns at most ten headlines for query.
func (a *Apify) SearchNews(ctx context.Context, query string) ([]domain.NewsItem, error) {
	ctx, span := a.tracer.Start(ctx, "apify.search-news")
	defer span.End()

	token, ok := a.keys.Get(ApifyKeySetting, true)
	if !ok {
		log.Warn("APIFY_API_KEY missing, news disabled")
		return nil, ErrNoAPIKey
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultNewsQuery
	}
	span.SetAttributes(attribute.String("apify.query", query))

	var pages []searchPage
	resp, err := a.http.R().
		SetContext(ctx).
		SetPathParam("actor", googleSearchActor).
		SetQueryParam("token", token).
		SetBody(searchRequest{Queries: query + " news", ResultsPerPage: maxSearchResults, MaxPagesPerQuery: 1}).
		SetResult(&pages).
		Post("/v2/acts/{actor}/run-sync-get-dataset-items")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("apify search: %w", err)
	}
	if resp.IsError() {
		log.Warnf("Apify status: %s", resp.Status())
		span.SetStatus(codes.Error, resp.Status())
		return nil, fmt.Errorf("apify search: status %d", resp.StatusCode())
	}

	items := make([]domain.NewsItem, 0, maxSearchResults)
	for _, page := range pages {
		for _, r := range page.OrganicResults {
			if len(items) == maxSearchResults {
				return items, nil
			}
			published := r.Date
			if published == "" {
				published = "Just Now"
			}
			items = append(items, domain.NewsItem{
				Title:       r.Title,
				Link:        r.URL,
				Source:      newsSource,
				PublishedAt: published,
			})
		}
	}
	span.SetAttributes(attribute.Int("apify.results", len(items)))
	return items, nil
}
