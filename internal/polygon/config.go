package polygon

import "time"

const (
	DefaultBaseURL        = "https://api.polygon.io"
	DefaultTimeout        = 10 * time.Second
	DefaultMaxRetries     = 5
	DefaultInitialBackoff = time.Second
)

// Config is the explicit client configuration, built once at startup and
// shared by every fetcher.
type Config struct {
	BaseURL string
	APIKeys []string
	// KeyStrategy picks a key per request when several are configured.
	KeyStrategy KeySelectionStrategy
	Timeout     time.Duration
	// MaxRetries bounds the 429 retries after the first attempt.
	MaxRetries     int
	InitialBackoff time.Duration
	// MinRequestInterval spaces requests on the same key. Zero disables it.
	MinRequestInterval time.Duration
	// Workers sizes the idle connection pool.
	Workers int
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DefaultInitialBackoff
	}
	return c
}
