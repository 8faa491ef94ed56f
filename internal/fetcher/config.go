package fetcher

import "time"

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxRedirects = 5
	defaultMaxBodySize  = 10 * 1024 * 1024
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds HTML fetcher settings.
type Config struct {
	UserAgent    string        `env:"FETCHER_USER_AGENT"    yaml:"user_agent"`
	Timeout      time.Duration `env:"FETCHER_TIMEOUT"       yaml:"timeout"`
	MaxRedirects int           `env:"FETCHER_MAX_REDIRECTS" yaml:"max_redirects"`
	MaxBodySize  int           `env:"FETCHER_MAX_BODY_SIZE" yaml:"max_body_size"`
}

// WithDefaults returns a copy with zero-value fields defaulted.
func (c Config) WithDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	return c
}
