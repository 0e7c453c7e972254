package configloader

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath переопределяет путь к файлу конфигурации.
	EnvConfigPath = "CONFIG_PATH"
	// EnvAnthropicAPIKey overrides ai.apiKey.
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	// DefaultPath is used when CONFIG_PATH is unset.
	DefaultPath = "config/config.yml"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`  // seconds
	WriteTimeout int    `yaml:"writeTimeout"` // seconds, 0 для SSE без ограничения
	IdleTimeout  int    `yaml:"idleTimeout"`  // seconds
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
	RPCCallTimeoutSeconds int `yaml:"rpc_call_timeout_seconds"`
}

// PortfolioConfig holds configuration for the portfolio endpoint.
type PortfolioConfig struct {
	TimeoutMillis int64 `yaml:"timeoutMillis"`
	// MaxConcurrentLookups = 1 means sequential balance lookups.
	MaxConcurrentLookups int `yaml:"maxConcurrentLookups"`
}

// RPCClientConfig holds configuration for RPC clients.
type RPCClientConfig struct {
	RateLimit                float64 `yaml:"rateLimit"`
	BurstLimit               int     `yaml:"burstLimit"`
	ConnectionTimeoutSeconds int     `yaml:"connectionTimeoutSeconds"`
}

// NetworkOverride replaces the built-in RPC endpoints of one chain.
type NetworkOverride struct {
	ChainID      uint64   `yaml:"chainID"`
	RPCURL       string   `yaml:"rpcURL"`
	FallbackURLs []string `yaml:"fallbackURLs"`
}

// TokensConfig points at the directory of per-network token lists.
type TokensConfig struct {
	Directory string `yaml:"directory"`
}

// PricesConfig holds configuration for the price oracle.
type PricesConfig struct {
	CacheTTLMinutes int                `yaml:"cacheTTLMinutes"`
	Table           map[string]float64 `yaml:"table"` // symbol -> USD, дополняет встроенную таблицу
}

// AIConfig holds configuration for the text generator.
type AIConfig struct {
	Provider    string  `yaml:"provider"` // "anthropic" | "scripted"
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	MaxTokens   int64   `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CORSConfig holds allowed origins for the browser client.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Portfolio   PortfolioConfig   `yaml:"portfolio"`
	RPCClient   RPCClientConfig   `yaml:"rpcClient"`
	Networks    []NetworkOverride `yaml:"networks"`
	Tokens      TokensConfig      `yaml:"tokens"`
	Prices      PricesConfig      `yaml:"prices"`
	AI          AIConfig          `yaml:"ai"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
	CORS        CORSConfig        `yaml:"cors"`
}

// PortfolioTimeout returns the portfolio fetch deadline.
func (c *Config) PortfolioTimeout() time.Duration {
	return time.Duration(c.Portfolio.TimeoutMillis) * time.Millisecond
}

// RPCCallTimeout returns the per-call RPC deadline.
func (c *Config) RPCCallTimeout() time.Duration {
	return time.Duration(c.Performance.RPCCallTimeoutSeconds) * time.Second
}

// PriceCacheTTL returns how long a fetched price stays fresh.
func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.Prices.CacheTTLMinutes) * time.Minute
}

// ResolvePath returns CONFIG_PATH when set, otherwise DefaultPath.
func ResolvePath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file from the given path and unmarshals it.
// A missing file is not an error: defaults are applied to an empty config.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using defaults", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if key := os.Getenv(EnvAnthropicAPIKey); key != "" {
		cfg.AI.APIKey = key
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	// Default values for performance if not set
	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
		logrus.Infof("Performance.RPCCallTimeoutSeconds not set, defaulting to %d", cfg.Performance.RPCCallTimeoutSeconds)
	}

	if cfg.Portfolio.TimeoutMillis <= 0 {
		cfg.Portfolio.TimeoutMillis = 15000
		logrus.Infof("Portfolio.TimeoutMillis not set, defaulting to %d ms", cfg.Portfolio.TimeoutMillis)
	}
	if cfg.Portfolio.MaxConcurrentLookups <= 0 {
		cfg.Portfolio.MaxConcurrentLookups = 1
	}
	if cfg.Portfolio.MaxConcurrentLookups > cfg.Performance.MaxConcurrentRoutines {
		logrus.Warnf("Portfolio.MaxConcurrentLookups %d exceeds Performance.MaxConcurrentRoutines, capping to %d",
			cfg.Portfolio.MaxConcurrentLookups, cfg.Performance.MaxConcurrentRoutines)
		cfg.Portfolio.MaxConcurrentLookups = cfg.Performance.MaxConcurrentRoutines
	}

	if cfg.RPCClient.BurstLimit <= 0 {
		cfg.RPCClient.BurstLimit = 1
	}
	if cfg.RPCClient.ConnectionTimeoutSeconds <= 0 {
		cfg.RPCClient.ConnectionTimeoutSeconds = 10
	}

	if cfg.Tokens.Directory == "" {
		cfg.Tokens.Directory = "data/tokens"
	}

	if cfg.Prices.CacheTTLMinutes <= 0 {
		cfg.Prices.CacheTTLMinutes = 60 // Default to 1 hour
		logrus.Infof("Prices.CacheTTLMinutes not set, defaulting to %d minutes", cfg.Prices.CacheTTLMinutes)
	}

	if cfg.AI.Provider == "" {
		if cfg.AI.APIKey != "" {
			cfg.AI.Provider = "anthropic"
		} else {
			cfg.AI.Provider = "scripted"
			logrus.Warn("No AI API key configured, falling back to the scripted provider")
		}
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "claude-3-5-haiku-latest"
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 500
	}
	if cfg.AI.Temperature <= 0 {
		cfg.AI.Temperature = 0.8
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "./docs/swagger.yaml"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case "anthropic":
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.provider is anthropic but no API key is set (ai.apiKey or %s)", EnvAnthropicAPIKey)
		}
	case "scripted":
	default:
		return fmt.Errorf("unknown ai.provider %q", cfg.AI.Provider)
	}
	if cfg.AI.Temperature > 1 {
		return fmt.Errorf("ai.temperature must be within (0, 1], got %v", cfg.AI.Temperature)
	}
	for i, n := range cfg.Networks {
		if n.ChainID == 0 {
			return fmt.Errorf("networks[%d]: chainID is required", i)
		}
		if n.RPCURL == "" {
			logrus.Warnf("Network override for chain %d has no rpcURL, built-in endpoint stays primary", n.ChainID)
		}
	}
	return nil
}
