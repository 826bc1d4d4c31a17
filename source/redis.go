package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMode selects how the tag universe is stored under the key.
type RedisMode string

const (
	// RedisList reads a list with LRANGE; list order is the registration order.
	RedisList RedisMode = "list"

	// RedisSet reads a set with SMEMBERS and sorts the members, since sets
	// have no order of their own.
	RedisSet RedisMode = "set"
)

// DefaultRedisKey is the key read when RedisOptions.Key is empty.
const DefaultRedisKey = "gameplaytags"

// RedisOptions configures the Redis source.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0")
	URL string

	// Key holds the tag list or set
	Key string

	// Mode defaults to RedisList
	Mode RedisMode

	// TLS configuration for secure connections
	TLS *TLSConfig

	// ConnectTimeout bounds the initial ping
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	Logger *slog.Logger
}

// Redis reads the tag universe from a single Redis key.
type Redis struct {
	client *redis.Client
	key    string
	mode   RedisMode
	logger *slog.Logger
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	tlsConfig, err := opts.TLS.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	if tlsConfig != nil {
		redisOpts.TLSConfig = tlsConfig
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	src, err := NewRedisFromClient(client, opts.Key, opts.Mode, opts.Logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return src, nil
}

// NewRedisFromClient wraps an existing client. The source takes ownership
// and closes it on Close.
func NewRedisFromClient(client *redis.Client, key string, mode RedisMode, logger *slog.Logger) (*Redis, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	if mode == "" {
		mode = RedisList
	}
	if mode != RedisList && mode != RedisSet {
		return nil, fmt.Errorf("unknown redis mode %q", mode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Redis{client: client, key: key, mode: mode, logger: logger}, nil
}

// Paths reads the key. A missing key is an empty universe.
func (r *Redis) Paths(ctx context.Context) ([]string, error) {
	var (
		raw []string
		err error
	)

	switch r.mode {
	case RedisSet:
		raw, err = r.client.SMembers(ctx, r.key).Result()
		sort.Strings(raw)
	default:
		raw, err = r.client.LRange(ctx, r.key, 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from Redis key %s: %w", r.key, err)
	}

	return canonical(raw, r.logger, "redis:"+r.key), nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
