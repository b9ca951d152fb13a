// Package config loads the YAML configuration selected by the ENV variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the dalil API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Search   SearchConfig   `yaml:"search"`
	Reindex  ReindexConfig  `yaml:"reindex"`
	Enrich   EnrichConfig   `yaml:"enrich"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	AdminKeys []string `yaml:"admin_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ProviderConfig selects and configures the embedding/reranking provider.
// Exactly one provider is active per deployment. An empty API key puts the
// service into degraded mode: search returns empty results, reindex jobs
// fail fast, the process still serves traffic.
type ProviderConfig struct {
	Name            string `yaml:"name"` // "openai" or "jina"
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	EmbedModel      string `yaml:"embed_model"`
	RerankModel     string `yaml:"rerank_model"`
	Dimensions      int    `yaml:"dimensions"`
	RerankTimeoutSec int   `yaml:"rerank_timeout_sec"`
	CacheTTLHours   int    `yaml:"cache_ttl_hours"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// SearchConfig holds retrieval pipeline settings.
type SearchConfig struct {
	DefaultLimit   int     `yaml:"default_limit"`
	MaxLimit       int     `yaml:"max_limit"`
	BoostIncrement float64 `yaml:"boost_increment"`
	BoostCap       float64 `yaml:"boost_cap"`
	RerankTopK     int     `yaml:"rerank_top_k"`
	FacetSample    int     `yaml:"facet_sample"`
}

// ReindexConfig holds background reindexing settings.
type ReindexConfig struct {
	BatchSize        int `yaml:"batch_size"`
	EntryPauseMs     int `yaml:"entry_pause_ms"`
	BatchPauseMs     int `yaml:"batch_pause_ms"`
	StalenessDays    int `yaml:"staleness_days"`
	JobTTLHours      int `yaml:"job_ttl_hours"`
}

// EnrichConfig holds external listing crawl settings.
type EnrichConfig struct {
	Enabled       bool `yaml:"enabled"`
	TimeoutSec    int  `yaml:"timeout_sec"`
	CacheTTLHours int  `yaml:"cache_ttl_hours"`
	MaxBodyKB     int  `yaml:"max_body_kb"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "openai"
	}
	if c.Provider.EmbedModel == "" {
		c.Provider.EmbedModel = "text-embedding-3-small"
	}
	if c.Provider.Dimensions <= 0 {
		c.Provider.Dimensions = 1024
	}
	if c.Provider.RerankTimeoutSec <= 0 {
		c.Provider.RerankTimeoutSec = 15
	}
	if c.Provider.CacheTTLHours <= 0 {
		c.Provider.CacheTTLHours = 24
	}
	if c.Provider.HNSWM <= 0 {
		c.Provider.HNSWM = 32
	}
	if c.Provider.HNSWEFConstruct <= 0 {
		c.Provider.HNSWEFConstruct = 400
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 50
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.BoostIncrement <= 0 {
		c.Search.BoostIncrement = 0.15
	}
	if c.Search.BoostCap <= 0 {
		c.Search.BoostCap = 2.0
	}
	if c.Search.RerankTopK <= 0 {
		c.Search.RerankTopK = 10
	}
	if c.Search.FacetSample <= 0 {
		c.Search.FacetSample = 500
	}
	if c.Reindex.BatchSize <= 0 {
		c.Reindex.BatchSize = 10
	}
	if c.Reindex.EntryPauseMs <= 0 {
		c.Reindex.EntryPauseMs = 200
	}
	if c.Reindex.BatchPauseMs <= 0 {
		c.Reindex.BatchPauseMs = 2000
	}
	if c.Reindex.StalenessDays <= 0 {
		c.Reindex.StalenessDays = 30
	}
	if c.Reindex.JobTTLHours <= 0 {
		c.Reindex.JobTTLHours = 24
	}
	if c.Enrich.TimeoutSec <= 0 {
		c.Enrich.TimeoutSec = 10
	}
	if c.Enrich.CacheTTLHours <= 0 {
		c.Enrich.CacheTTLHours = 24 * 7
	}
	if c.Enrich.MaxBodyKB <= 0 {
		c.Enrich.MaxBodyKB = 512
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Provider.Name {
	case "openai", "jina":
		// ok
	default:
		return fmt.Errorf("provider.name must be \"openai\" or \"jina\", got %q", c.Provider.Name)
	}
	if c.Search.BoostCap < 1.0 {
		return fmt.Errorf("search.boost_cap must be >= 1.0, got %g", c.Search.BoostCap)
	}
	if c.Search.RerankTopK > 20 {
		return fmt.Errorf("search.rerank_top_k must be <= 20, got %d", c.Search.RerankTopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
