package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/logger"
)

const redisComponentName = "redis-publisher"

// RedisConfig configures the Redis pub/sub event publisher.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	// ChannelPrefix is prepended to the event name, so "user.created" goes
	// to "results:user.created" and PSUBSCRIBE results:user.* sees it.
	ChannelPrefix string `yaml:"channel_prefix" mapstructure:"channel_prefix"`
	PoolSize      int    `yaml:"pool_size" mapstructure:"pool_size"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
	DialTimeout   string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	WriteTimeout  string `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *RedisConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.ChannelPrefix == "" {
		c.ChannelPrefix = "results"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks the config when the publisher is enabled.
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("events.redis.addr is required")
	}
	if c.DB < 0 {
		return fmt.Errorf("events.redis.db must be non-negative (got: %d)", c.DB)
	}
	for _, d := range []struct{ name, val string }{
		{"dial_timeout", c.DialTimeout},
		{"write_timeout", c.WriteTimeout},
	} {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("invalid events.redis.%s %q: %w", d.name, d.val, err)
		}
	}
	return nil
}

var _ component.Component = (*RedisPublisher)(nil)

// RedisPublisher publishes events as JSON on Redis pub/sub channels. It is
// also a component: Start pings the server and Stop closes the client.
type RedisPublisher struct {
	client *goredis.Client
	prefix string
	log    *logger.Logger

	mu     sync.RWMutex
	closed bool
}

// NewRedisPublisher creates a publisher with its own client.
func NewRedisPublisher(cfg RedisConfig, log *logger.Logger) (*RedisPublisher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis publisher config: %w", err)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis publisher is disabled")
	}
	dialTimeout, _ := time.ParseDuration(cfg.DialTimeout)
	writeTimeout, _ := time.ParseDuration(cfg.WriteTimeout)
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  dialTimeout,
		WriteTimeout: writeTimeout,
	})
	return NewRedisPublisherWithClient(client, cfg.ChannelPrefix, log), nil
}

// NewRedisPublisherWithClient creates a publisher over an existing client.
// The publisher owns the client and closes it on Stop.
func NewRedisPublisherWithClient(client *goredis.Client, prefix string, log *logger.Logger) *RedisPublisher {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &RedisPublisher{
		client: client,
		prefix: prefix,
		log:    log.WithComponent("events.redis"),
	}
}

// Channel returns the channel an event named name is published on.
func (p *RedisPublisher) Channel(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + ":" + name
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("redis publisher is closed")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Name, err)
	}
	channel := p.Channel(e.Name)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.Name, channel, err)
	}
	return nil
}

// Name implements component.Component.
func (p *RedisPublisher) Name() string { return redisComponentName }

// Start verifies the server is reachable.
func (p *RedisPublisher) Start(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	p.log.Info("Redis event publisher connected", logger.Fields(
		"addr", p.client.Options().Addr,
		"prefix", p.prefix,
	))
	return nil
}

// Stop closes the client. Safe to call multiple times.
func (p *RedisPublisher) Stop(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.client.Close()
}

// Health implements component.Component.
func (p *RedisPublisher) Health(ctx context.Context) component.Health {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return component.Health{Name: redisComponentName, Status: component.StatusUnhealthy, Message: "closed"}
	}
	if err := p.client.Ping(ctx).Err(); err != nil {
		return component.Health{Name: redisComponentName, Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: redisComponentName, Status: component.StatusHealthy}
}
