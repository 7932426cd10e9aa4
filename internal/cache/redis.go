package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Connect returns a client for url, accepting either a redis:// URL or a bare
// host:port. It returns nil when url is empty or the server does not answer;
// the node then keeps everything in process.
func Connect(ctx context.Context, url string) *redis.Client {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}

	opts := &redis.Options{Addr: url}
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			log.WithError(err).Warn("invalid REDIS_URL, caching in memory")
			return nil
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, caching in memory")
		_ = client.Close()
		return nil
	}
	log.Println("Connected to Redis")
	return client
}

// Cache stores JSON values with a TTL in redis, or in process memory when no
// client is configured.
type Cache struct {
	client *redis.Client
	prefix string

	mu    sync.Mutex
	local map[string]localEntry
	now   func() time.Time
}

type localEntry struct {
	data    []byte
	expires time.Time
}

func New(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: "pulse:",
		local:  make(map[string]localEntry),
		now:    time.Now,
	}
}

// Redis returns the underlying client, or nil in memory mode.
func (c *Cache) Redis() *redis.Client { return c.client }

func (c *Cache) Backend() string {
	if c.client != nil {
		return "redis"
	}
	return "memory"
}

// GetJSON decodes the value under key into dst. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	var data []byte
	if c.client != nil {
		b, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		data = b
	} else {
		c.mu.Lock()
		entry, ok := c.local[key]
		if ok && !c.now().Before(entry.expires) {
			delete(c.local, key)
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			return false, nil
		}
		data = entry.data
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.client != nil {
		return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	}
	c.mu.Lock()
	c.local[key] = localEntry{data: data, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.client != nil {
		return c.client.Del(ctx, c.prefix+key).Err()
	}
	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
	return nil
}
