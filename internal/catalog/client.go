package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/retry"
)

const (
	defaultIndex       = "ai_tools"
	defaultPingTimeout = 5 * time.Second
	defaultMaxRetries  = 3
)

// ElasticsearchConfig holds connection settings for the catalog index.
type ElasticsearchConfig struct {
	URL         string        `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username    string        `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password    string        `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	APIKey      string        `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`
	Index       string        `env:"ELASTICSEARCH_INDEX"    yaml:"index"`
	MaxRetries  int           `yaml:"max_retries"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
}

// SetDefaults fills unset fields.
func (c *ElasticsearchConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		c.URL = "http://" + c.URL
	}
	if c.Index == "" {
		c.Index = defaultIndex
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = defaultPingTimeout
	}
}

// NewClient builds an Elasticsearch client and waits for the cluster to answer a ping.
func NewClient(ctx context.Context, cfg ElasticsearchConfig, log logger.Logger) (*es.Client, error) {
	cfg.SetDefaults()

	esCfg := es.Config{
		Addresses:  []string{cfg.URL},
		MaxRetries: cfg.MaxRetries,
	}
	switch {
	case cfg.APIKey != "":
		esCfg.APIKey = cfg.APIKey
	case cfg.Username != "":
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := es.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	log.Info("Verifying Elasticsearch connection", logger.URL(cfg.URL))

	backoff := retry.Config{
		MaxAttempts:  5,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		IsRetryable:  func(error) bool { return true },
	}
	if err = retry.Do(ctx, backoff, func() error { return ping(ctx, client, cfg.PingTimeout) }); err != nil {
		return nil, fmt.Errorf("connect to elasticsearch: %w", err)
	}

	log.Info("Elasticsearch connection established", logger.URL(cfg.URL))
	return client, nil
}

func ping(ctx context.Context, client *es.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ping returned %s", res.Status())
	}
	return nil
}
