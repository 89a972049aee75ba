package redis

import "time"

// Config describes the optional Redis connection. An empty ConnectionURL
// means the service runs with in-process guard and cache backends.
type Config struct {
	// ConnectionURL has the form redis://:password@localhost:6379/0.
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
	// KeyPrefix namespaces every key written by this service.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"signup:"`
}

// Enabled reports whether a Redis connection was configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
