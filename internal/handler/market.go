package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type chatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// GetCryptoPrices godoc
// @Summary      Crypto market listing
// @Description  Top coins by market cap from CoinGecko, cached briefly
// @Tags         market
// @Produce      json
// @Param        vs_currency  query  string  false  "Quote currency"  default(usd)
// @Param        per_page     query  int     false  "Number of coins (max 250)"  default(100)
// @Success      200  {array}   domain.CoinMarket
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/crypto/prices [get]
func (h *Handler) GetCryptoPrices(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.crypto-prices")
	defer span.End()

	perPage := 100
	if raw := strings.TrimSpace(c.Query("per_page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 250 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "per_page must be between 1 and 250"})
			return
		}
		perPage = n
	}
	vs := c.DefaultQuery("vs_currency", "usd")
	span.SetAttributes(attribute.String("vs_currency", vs), attribute.Int("per_page", perPage))

	coins, err := h.market.Prices(ctx, vs, perPage)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch crypto prices"})
		return
	}
	c.JSON(http.StatusOK, coins)
}

// GetHistory godoc
// @Summary      Price history for a coin
// @Description  Falls back to a placeholder series when the data source is unavailable
// @Tags         market
// @Produce      json
// @Param        coin_id  path   string  true   "CoinGecko coin id"
// @Param        days     query  string  false  "Window in days"  default(1)
// @Success      200  {array}  number
// @Router       /api/history/{coin_id} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.history")
	defer span.End()

	coinID := strings.ToLower(strings.TrimSpace(c.Param("coin_id")))
	days := c.DefaultQuery("days", "1")
	span.SetAttributes(attribute.String("coin_id", coinID), attribute.String("days", days))

	c.JSON(http.StatusOK, h.market.History(ctx, coinID, days))
}

// GetNews godoc
// @Summary      Market headlines
// @Description  Up to ten headlines, the first three scored by the advisor
// @Tags         market
// @Produce      json
// @Success      200  {array}  domain.NewsItem
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.news")
	defer span.End()

	c.JSON(http.StatusOK, h.market.News(ctx))
}

// GetNewsSummary godoc
// @Summary      AI market summary
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.MarketSummary
// @Router       /api/news/summary [get]
func (h *Handler) GetNewsSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.news-summary")
	defer span.End()

	c.JSON(http.StatusOK, h.market.Summary(ctx))
}

// GetInsight godoc
// @Summary      Deprecated insight endpoint
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/insight [get]
func (h *Handler) GetInsight(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Use /api/news/summary for insights."})
}

// Chat godoc
// @Summary      Chat with the market advisor
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "Message"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/ai/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.chat")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"reply": h.market.Chat(ctx, req.ConversationID, req.Message)})
}
