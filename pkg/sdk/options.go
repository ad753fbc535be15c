package vetdir

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/vetdir/internal/db/driver"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver         string
	url            string
	database       string
	keyPrefix      string
	connectTimeout time.Duration
	defaultLimit   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMongo connects to MongoDB at uri and uses the named database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driver.Mongo
		c.url = uri
		c.database = database
	})
}

// WithRedis connects to Redis using a redis:// URL.
func WithRedis(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driver.Redis
		c.url = url
	})
}

// WithValkey connects to Valkey using a redis:// URL.
func WithValkey(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driver.Valkey
		c.url = url
	})
}

// WithPostgres connects to PostgreSQL using a pgx DSN.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driver.Postgres
		c.url = dsn
	})
}

// WithMemory keeps all data in process. Useful for tests and demos.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driver.Memory
		c.url = ""
	})
}

// WithKeyPrefix sets the key namespace for Redis/Valkey. Default: "vetdir:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithConnectTimeout bounds the initial connect and readiness check.
// Default: 10s.
func WithConnectTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.connectTimeout = d
	})
}

// WithDefaultLimit sets the result cap used when a call passes limit <= 0.
// Default: 50.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
