package bullq

import "github.com/redis/go-redis/v9"

// DefaultPrefix is the namespace root used when WithPrefix is not given.
const DefaultPrefix = "bull"

// DefaultAddr is dialed when no connection options are supplied.
const DefaultAddr = "127.0.0.1:6379"

type config struct {
	prefix  string
	conn    *redis.UniversalOptions
	logger  Logger
	encoder Encoder

	// newConn builds the connection handle; tests swap it for a fake.
	newConn func(cfg config, clientName string) Connection
}

// Option is a function that configures a QueueBase during NewQueueBase.
type Option func(*config)

// WithPrefix sets the root namespace segment of every key. Use a hash tag such
// as "{bull}" to keep all keys of a queue on one Redis Cluster slot.
// An empty prefix keeps the default.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithConnection sets the options used to build the Redis client. They are
// copied; the caller's value is never modified.
func WithConnection(opts *redis.UniversalOptions) Option {
	return func(c *config) {
		c.conn = opts
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEncoder sets the encoder used by Snapshot. Defaults to JSONEncoder.
func WithEncoder(e Encoder) Option {
	return func(c *config) {
		if e != nil {
			c.encoder = e
		}
	}
}

// resolveConfig overlays opts on the defaults and returns a fully-populated config.
func resolveConfig(opts ...Option) config {
	c := config{
		prefix:  DefaultPrefix,
		logger:  nopLogger{},
		encoder: &JSONEncoder{},
		newConn: func(cfg config, clientName string) Connection {
			return NewRedisConnection(cfg.conn, clientName, cfg.logger)
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.conn == nil {
		c.conn = &redis.UniversalOptions{Addrs: []string{DefaultAddr}}
	}
	return c
}
