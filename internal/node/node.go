// Package node assembles the Pulse local node: settings, cache, MT5 bridge,
// market data, advisor and the HTTP/MCP surfaces over them.
package node

import (
	"context"
	"net/http"
	"time"

	"pulse-node/internal/advisor"
	"pulse-node/internal/cache"
	"pulse-node/internal/config"
	"pulse-node/internal/domain"
	"pulse-node/internal/handler"
	"pulse-node/internal/job"
	mcpserver "pulse-node/internal/mcp"
	"pulse-node/internal/mt5"
	"pulse-node/internal/provider"
	"pulse-node/internal/service"
	"pulse-node/internal/settings"
	"pulse-node/internal/terminal"

	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const mcpMaxBodyBytes int64 = 1 << 20

var (
	connectRedisFunc = cache.Connect
	newTerminalFunc  = func(baseURL string, tracer trace.Tracer) terminal.Terminal {
		return terminal.NewGatewayClient(baseURL, tracer)
	}
)

type Node struct {
	Config   *config.Config
	Tracer   trace.Tracer
	Settings *settings.Store
	Cache    *cache.Cache
	Bridge   *mt5.Bridge
	Advisor  *advisor.Service
	LLM      *advisor.OpenAIClient
	Market   *service.MarketService
	MCP      *sdkmcp.Server
	Warmer   *job.MarketWarmer

	redis *redis.Client
}

// New wires every component. Redis and the advisor key are optional; without
// them the node runs on in-memory caches and fallback advisor answers.
func New(ctx context.Context, cfg *config.Config, tracer trace.Tracer) *Node {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pulse-node")
	}

	dir := cfg.SettingsDir
	if dir == "" {
		dir = settings.DefaultDir()
	}
	store := settings.NewStore(dir)

	rdb := connectRedisFunc(ctx, cfg.RedisURL)
	c := cache.New(rdb)
	log.WithField("backend", c.Backend()).Info("cache ready")

	bridge := mt5.NewBridge(tracer, newTerminalFunc(cfg.MT5GatewayURL, tracer), store)

	key, _ := store.Get(advisor.APIKeySetting, true)
	llm := advisor.NewOpenAIClient(key)
	if !llm.Configured() {
		log.Warn("OPENAI_API_KEY not set; advisor answers will use fallbacks")
	}

	var conversations advisor.ConversationStore
	if rdb != nil {
		conversations = advisor.NewRedisConversationStore(rdb, cfg.AdvisorMaxHistory)
	} else {
		conversations = advisor.NewMemoryConversationStore(cfg.AdvisorMaxHistory)
	}
	adv := advisor.NewService(tracer, llm, conversations, cfg.OpenAIModel, cfg.AdvisorMaxHistory)

	market := service.NewMarketService(
		tracer,
		provider.NewCoinGecko(cfg.CoinGeckoBaseURL, tracer),
		provider.NewApify(cfg.ApifyBaseURL, store, tracer),
		adv,
		c,
		time.Duration(cfg.PriceCacheSecs)*time.Second,
		time.Duration(cfg.NewsCacheSecs)*time.Second,
	)

	mcpSrv := mcpserver.NewServer(tracer, bridge, market, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	var warmPrices, warmNews time.Duration
	if cfg.MarketWarmEnabled {
		warmPrices = warmInterval(cfg.PriceCacheSecs)
		warmNews = warmInterval(cfg.NewsCacheSecs)
	}

	return &Node{
		Config:   cfg,
		Tracer:   tracer,
		Settings: store,
		Cache:    c,
		Bridge:   bridge,
		Advisor:  adv,
		LLM:      llm,
		Market:   market,
		MCP:      mcpSrv,
		Warmer:   job.NewMarketWarmer(tracer, market, warmPrices, warmNews),
		redis:    rdb,
	}
}

// warmInterval is half the cache TTL, so every entry is rewritten while the
// previous one is still fresh.
func warmInterval(ttlSecs int) time.Duration {
	return max(time.Duration(ttlSecs)*time.Second/2, time.Second)
}

// Mount installs the middleware chain, the REST routes and, when enabled, the
// MCP endpoint on r.
func (n *Node) Mount(r *gin.Engine) {
	r.Use(handler.CORS(), handler.RequestID(), handler.AccessLog())

	h := handler.New(n.Tracer, n.Bridge, n.Market, n.Settings, n.LLM)
	h.RegisterRoutes(r)

	if !n.Config.MCPHTTPEnabled {
		return
	}
	if n.Config.MCPAuthToken == "" {
		log.Warn("MCP_HTTP_ENABLED is set but MCP_AUTH_TOKEN is empty; /mcp not mounted")
		return
	}
	mcpHandler := mcpserver.NewHTTPTransportHandler(n.MCP, mcpserver.HTTPHandlerConfig{
		AuthToken:       n.Config.MCPAuthToken,
		RateLimitPerMin: n.Config.MCPRateLimitPerMin,
		MaxBodyBytes:    mcpMaxBodyBytes,
	})
	r.Any("/mcp", gin.WrapH(mcpHandler))
	log.Info("MCP endpoint mounted at /mcp")
}

// Server returns the HTTP server for the node's listen address.
func (n *Node) Server(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              n.Config.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Close releases the MT5 link and the redis connection.
func (n *Node) Close(ctx context.Context) {
	if n.Bridge.Status().State == domain.SessionConnected && !n.Bridge.Disconnect(ctx) {
		log.Warn("mt5 shutdown reported an error")
	}
	if n.redis != nil {
		if err := n.redis.Close(); err != nil {
			log.WithError(err).Warn("closing redis")
		}
	}
}
