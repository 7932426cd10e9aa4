package config

import (
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPBind string
	Port     int

	RedisURL       string
	PriceCacheSecs int
	NewsCacheSecs  int
	// MarketWarmEnabled refreshes the default listing and headlines in the
	// background at the cache TTLs.
	MarketWarmEnabled bool

	MT5GatewayURL    string
	CoinGeckoBaseURL string
	ApifyBaseURL     string

	OpenAIModel       string
	AdvisorMaxHistory int

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	OTLPEndpoint string

	MCPHTTPEnabled        bool
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int

	// SettingsDir overrides the per-user settings directory.
	SettingsDir string
}

// Addr is the listen address for the HTTP node.
func (c *Config) Addr() string {
	return c.HTTPBind + ":" + strconv.Itoa(c.Port)
}

func Load() *Config {
	cfg := &Config{
		RedisURL:     strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogFile:      strings.TrimSpace(os.Getenv("LOG_FILE")),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		MCPAuthToken: os.Getenv("MCP_AUTH_TOKEN"),
		SettingsDir:  strings.TrimSpace(os.Getenv("PULSE_CONFIG_DIR")),
	}

	cfg.HTTPBind = strings.TrimSpace(os.Getenv("HTTP_BIND"))
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = "127.0.0.1"
	}

	cfg.Port = 8000
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 65536 {
			cfg.Port = n
		} else {
			log.Printf("Warning: invalid PORT=%q, defaulting to 8000", v)
		}
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, caching and chat history stay in memory")
	}
	cfg.PriceCacheSecs = positiveInt("PRICE_CACHE_SECS", 30)
	cfg.NewsCacheSecs = positiveInt("NEWS_CACHE_SECS", 300)
	cfg.MarketWarmEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MARKET_WARM_ENABLED")), "true")

	cfg.MT5GatewayURL = strings.TrimSpace(os.Getenv("MT5_GATEWAY_URL"))
	if cfg.MT5GatewayURL == "" {
		cfg.MT5GatewayURL = "http://127.0.0.1:18812"
	}

	cfg.CoinGeckoBaseURL = strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL"))
	if cfg.CoinGeckoBaseURL == "" {
		cfg.CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	}

	cfg.ApifyBaseURL = strings.TrimSpace(os.Getenv("APIFY_BASE_URL"))
	if cfg.ApifyBaseURL == "" {
		cfg.ApifyBaseURL = "https://api.apify.com"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.AdvisorMaxHistory = 20
	if v := os.Getenv("ADVISOR_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdvisorMaxHistory = n
		}
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		log.Printf("Warning: unsupported LOG_LEVEL=%q, defaulting to info", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	cfg.LogMaxSizeMB = positiveInt("LOG_MAX_SIZE_MB", 20)
	cfg.LogMaxBackups = positiveInt("LOG_MAX_BACKUPS", 3)
	cfg.LogMaxAgeDays = positiveInt("LOG_MAX_AGE_DAYS", 14)

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")
	if cfg.MCPHTTPEnabled && cfg.MCPAuthToken == "" {
		log.Println("Warning: MCP_HTTP_ENABLED without MCP_AUTH_TOKEN, /mcp will reject every request")
	}
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 5)
	cfg.MCPRateLimitPerMin = positiveInt("MCP_RATE_LIMIT_PER_MIN", 60)

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, defaulting to %d", key, v, def)
		return def
	}
	return n
}
