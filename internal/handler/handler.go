package handler

import (
	"context"
	"net/http"

	"pulse-node/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SessionBridge is the process-wide MT5 session.
type SessionBridge interface {
	Connect(ctx context.Context, creds domain.Credentials) error
	Disconnect(ctx context.Context) bool
	AccountInfo(ctx context.Context) *domain.AccountSnapshot
	Positions(ctx context.Context) []domain.Position
}

type MarketQuerier interface {
	Prices(ctx context.Context, vsCurrency string, perPage int) ([]domain.CoinMarket, error)
	History(ctx context.Context, coinID, days string) []float64
	News(ctx context.Context) []domain.NewsItem
	Summary(ctx context.Context) domain.MarketSummary
	Chat(ctx context.Context, conversationID, message string) string
}

type SettingsStore interface {
	Masked() map[string]any
	Save(values map[string]any) (map[string]any, error)
	Get(key string, fallbackEnv bool) (string, bool)
}

// KeyReloader receives the advisor API key after the settings change.
type KeyReloader interface {
	SetAPIKey(apiKey string)
}

type Handler struct {
	tracer   trace.Tracer
	bridge   SessionBridge
	market   MarketQuerier
	settings SettingsStore
	reloader KeyReloader
}

func New(
	tracer trace.Tracer,
	bridge SessionBridge,
	market MarketQuerier,
	settings SettingsStore,
	reloader KeyReloader,
) *Handler {
	return &Handler{
		tracer:   tracer,
		bridge:   bridge,
		market:   market,
		settings: settings,
		reloader: reloader,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/config", h.GetConfig)
	api.POST("/config", h.UpdateConfig)
	api.GET("/insight", h.GetInsight)
	api.GET("/news", h.GetNews)
	api.GET("/news/summary", h.GetNewsSummary)
	api.POST("/ai/chat", h.Chat)
	api.GET("/history/:coin_id", h.GetHistory)
	api.GET("/crypto/prices", h.GetCryptoPrices)

	mt := api.Group("/mt")
	mt.POST("/connect", h.ConnectMT)
	mt.POST("/disconnect", h.DisconnectMT)
	mt.GET("/positions", h.GetMTPositions)
}

// Root godoc
// @Summary      Service banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Pulse local node API"})
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
