package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Provider struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		APIHost        string `yaml:"api_host"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`
	Breaker struct {
		FailureThreshold       int `yaml:"failure_threshold"`
		RecoveryTimeoutSeconds int `yaml:"recovery_timeout_seconds"`
	} `yaml:"breaker"`
	Retry struct {
		MaxRetries  int `yaml:"max_retries"`
		BaseDelayMs int `yaml:"base_delay_ms"`
		MaxDelayMs  int `yaml:"max_delay_ms"`
	} `yaml:"retry"`
	Search struct {
		DefaultLocation       string `yaml:"default_location"`
		MaxLocations          int    `yaml:"max_locations"`
		Concurrency           int    `yaml:"concurrency"`
		ResultLimit           int    `yaml:"result_limit"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	} `yaml:"search"`
	RateLimit struct {
		RequestsPerMinute int `yaml:"requests_per_minute"`
		Burst             int `yaml:"burst"`
	} `yaml:"ratelimit"`
	Redis struct {
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	OpenRouter struct {
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"openrouter"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// Override with environment variables if set
	if key := os.Getenv("RAPIDAPI_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if host := os.Getenv("RAPIDAPI_HOST"); host != "" {
		cfg.Provider.APIHost = host
	}
	if base := os.Getenv("PROVIDER_BASE_URL"); base != "" {
		cfg.Provider.BaseURL = base
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.OpenRouter.APIKey = key
	}
	if model := os.Getenv("OPENROUTER_MODEL"); model != "" {
		cfg.OpenRouter.Model = model
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if port := os.Getenv("PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value: %v", err)
		}
		cfg.Server.Port = portNum
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://airbnb19.p.rapidapi.com"
	}
	if cfg.Provider.APIHost == "" {
		cfg.Provider.APIHost = "airbnb19.p.rapidapi.com"
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 10
	}
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = 5
	}
	if cfg.Breaker.RecoveryTimeoutSeconds == 0 {
		cfg.Breaker.RecoveryTimeoutSeconds = 60
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.BaseDelayMs == 0 {
		cfg.Retry.BaseDelayMs = 500
	}
	if cfg.Retry.MaxDelayMs == 0 {
		cfg.Retry.MaxDelayMs = 8000
	}
	if cfg.Search.DefaultLocation == "" {
		cfg.Search.DefaultLocation = "San Francisco"
	}
	if cfg.Search.MaxLocations == 0 {
		cfg.Search.MaxLocations = 10
	}
	if cfg.Search.Concurrency == 0 {
		cfg.Search.Concurrency = 5
	}
	if cfg.Search.ResultLimit == 0 {
		cfg.Search.ResultLimit = 5
	}
	if cfg.Search.RequestTimeoutSeconds == 0 {
		cfg.Search.RequestTimeoutSeconds = 25
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}
	if cfg.OpenRouter.BaseURL == "" {
		cfg.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.OpenRouter.Model == "" {
		cfg.OpenRouter.Model = "anthropic/claude-3-haiku"
	}
	if cfg.OpenRouter.TimeoutSeconds == 0 {
		cfg.OpenRouter.TimeoutSeconds = 8
	}
}

func (cfg *Config) validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if cfg.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker failure_threshold must be at least 1")
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry max_retries must be non-negative")
	}
	if cfg.Retry.BaseDelayMs > cfg.Retry.MaxDelayMs {
		return fmt.Errorf("retry base_delay_ms must not exceed max_delay_ms")
	}
	if cfg.Search.MaxLocations < 1 || cfg.Search.MaxLocations > 10 {
		return fmt.Errorf("search max_locations must be between 1 and 10")
	}
	if cfg.Search.Concurrency < 1 {
		return fmt.Errorf("search concurrency must be at least 1")
	}
	if cfg.Search.ResultLimit < 1 {
		return fmt.Errorf("search result_limit must be at least 1")
	}
	if cfg.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("ratelimit requests_per_minute must be at least 1")
	}
	if cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("ratelimit burst must be at least 1")
	}
	if cfg.Redis.Port <= 0 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}
	return nil
}

// ProviderTimeout returns the provider call timeout as a duration.
func (cfg *Config) ProviderTimeout() time.Duration {
	return time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
}

// RecoveryTimeout returns the breaker recovery window as a duration.
func (cfg *Config) RecoveryTimeout() time.Duration {
	return time.Duration(cfg.Breaker.RecoveryTimeoutSeconds) * time.Second
}

// BaseDelay returns the retry base delay as a duration.
func (cfg *Config) BaseDelay() time.Duration {
	return time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond
}

// MaxDelay returns the retry delay ceiling as a duration.
func (cfg *Config) MaxDelay() time.Duration {
	return time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond
}

// RequestTimeout returns the aggregation deadline as a duration.
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.Search.RequestTimeoutSeconds) * time.Second
}

// RequestRate returns the per-IP request rate in events per second.
func (cfg *Config) RequestRate() float64 {
	return float64(cfg.RateLimit.RequestsPerMinute) / 60.0
}

// CacheTTL returns the search cache expiration as a duration.
func (cfg *Config) CacheTTL() time.Duration {
	return time.Duration(cfg.Redis.TTLSeconds) * time.Second
}

// OpenRouterTimeout returns the enhancer call timeout as a duration.
func (cfg *Config) OpenRouterTimeout() time.Duration {
	return time.Duration(cfg.OpenRouter.TimeoutSeconds) * time.Second
}
