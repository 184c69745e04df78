package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Store struct {
		Backend string        `koanf:"backend"` // memory | redis
		CartTTL time.Duration `koanf:"cart_ttl"`
	} `koanf:"store"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Payments struct {
		Provider   string        `koanf:"provider"` // fake | processor
		ProviderID string        `koanf:"provider_id"`
		BaseURL    string        `koanf:"base_url"`
		APIKey     string        `koanf:"api_key"`
		Currency   string        `koanf:"currency"`
		Timeout    time.Duration `koanf:"timeout"`
	} `koanf:"payments"`

	Events struct {
		RabbitURL string `koanf:"rabbit_url"` // empty disables publishing
	} `koanf:"events"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix STOREFRONT_, nested with __)
	// e.g. STOREFRONT_REDIS__ADDR, STOREFRONT_PAYMENTS__API_KEY
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	switch c.Store.Backend {
	case "", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required when store.backend is redis")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	switch c.Payments.Provider {
	case "", "fake":
	case "processor":
		if c.Payments.BaseURL == "" || c.Payments.APIKey == "" {
			return fmt.Errorf("payments.base_url and payments.api_key required when payments.provider is processor")
		}
	default:
		return fmt.Errorf("unknown payments.provider %q", c.Payments.Provider)
	}
	if c.Payments.Currency == "" {
		return fmt.Errorf("payments.currency required")
	}
	return nil
}
