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

// Config holds the ragfuse service configuration.
type Config struct {
	HTTP      HTTPConfig        `yaml:"http"`
	Model     ModelConfig       `yaml:"model"`
	Embedding EmbeddingConfig   `yaml:"embedding"`
	Retrieval RetrievalConfig   `yaml:"retrieval"`
	Sessions  SessionsConfig    `yaml:"sessions"`
	Corpus    CorpusConfig      `yaml:"corpus"`
	Auth      AuthConfig        `yaml:"auth"`
	Logging   LoggingConfig     `yaml:"logging"`
	Prompts   map[string]string `yaml:"prompts"` // overrides keyed by template name
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ModelConfig holds chat model provider settings.
// APIKeys with more than one entry enables round-robin key rotation.
type ModelConfig struct {
	Provider    string   `yaml:"provider"` // label for logs and metrics
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeys     []string `yaml:"api_keys"`
	Temperature float32  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"` // 0 = provider default
	TimeoutSec  int      `yaml:"timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string      `yaml:"provider"`
	BaseURL    string      `yaml:"base_url"`
	Model      string      `yaml:"model"`
	APIKeys    []string    `yaml:"api_keys"`
	Dimensions int         `yaml:"dimensions"` // 0 = model default
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"` // requires sessions.store=redis
}

// RetrievalConfig holds fusion and expansion tuning.
type RetrievalConfig struct {
	K            int     `yaml:"k"`             // per-signal fetch depth
	Alpha        float64 `yaml:"alpha"`         // semantic weight in [0,1]
	VariantCount int     `yaml:"variant_count"` // generated query variants
	Merge        string  `yaml:"merge"`         // flatten | rrf
	RRFK         int     `yaml:"rrf_k"`         // reciprocal rank fusion constant
	Hyde         bool    `yaml:"hyde"`          // hypothetical document augmentation
	ReflectTurns int     `yaml:"reflect_turns"` // history turns fed to reflection
}

// SessionsConfig holds conversation history storage settings.
type SessionsConfig struct {
	Store            string   `yaml:"store"` // memory | redis
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CorpusConfig holds document corpus settings.
type CorpusConfig struct {
	Backend string       `yaml:"backend"` // memory | qdrant
	Path    string       `yaml:"path"`    // JSONL seed file for the in-memory corpus
	Qdrant  QdrantConfig `yaml:"qdrant"`
}

// QdrantConfig holds qdrant connection settings for the semantic backend.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"` // gRPC port
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
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
		// LLM round-trips dominate request latency
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Model.TimeoutSec <= 0 {
		c.Model.TimeoutSec = 60
	}
	if c.Retrieval.K <= 0 {
		c.Retrieval.K = 10
	}
	if c.Retrieval.Alpha == 0 {
		c.Retrieval.Alpha = 0.5
	}
	if c.Retrieval.VariantCount <= 0 {
		c.Retrieval.VariantCount = 4
	}
	if c.Retrieval.Merge == "" {
		c.Retrieval.Merge = "flatten"
	}
	if c.Retrieval.RRFK <= 0 {
		c.Retrieval.RRFK = 60
	}
	if c.Retrieval.ReflectTurns <= 0 {
		c.Retrieval.ReflectTurns = 2
	}
	if c.Sessions.Store == "" {
		c.Sessions.Store = "memory"
	}
	if c.Sessions.TTLSec <= 0 {
		c.Sessions.TTLSec = 86400
	}
	if c.Sessions.KeyPrefix == "" {
		c.Sessions.KeyPrefix = "ragfuse:"
	}
	if c.Sessions.ReadinessTimeout <= 0 {
		c.Sessions.ReadinessTimeout = 10
	}
	if c.Corpus.Backend == "" {
		c.Corpus.Backend = "memory"
	}
	if c.Corpus.Qdrant.Port <= 0 {
		c.Corpus.Qdrant.Port = 6334
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Model.APIKeys) == 0 {
		return fmt.Errorf("model.api_keys is required")
	}
	if c.Retrieval.Alpha < 0 || c.Retrieval.Alpha > 1 {
		return fmt.Errorf("retrieval.alpha must be in [0,1], got %g", c.Retrieval.Alpha)
	}
	switch c.Retrieval.Merge {
	case "flatten", "rrf":
	default:
		return fmt.Errorf("retrieval.merge must be \"flatten\" or \"rrf\", got %q", c.Retrieval.Merge)
	}
	switch c.Sessions.Store {
	case "memory":
	case "redis":
		if len(c.Sessions.Addrs) == 0 {
			return fmt.Errorf("sessions.addrs is required when sessions.store is redis")
		}
	default:
		return fmt.Errorf("sessions.store must be \"memory\" or \"redis\", got %q", c.Sessions.Store)
	}
	switch c.Corpus.Backend {
	case "memory":
	case "qdrant":
		if c.Corpus.Qdrant.Host == "" {
			return fmt.Errorf("corpus.qdrant.host is required when corpus.backend is qdrant")
		}
		if c.Corpus.Qdrant.Collection == "" {
			return fmt.Errorf("corpus.qdrant.collection is required when corpus.backend is qdrant")
		}
	default:
		return fmt.Errorf("corpus.backend must be \"memory\" or \"qdrant\", got %q", c.Corpus.Backend)
	}
	if c.Embedding.Cache.Enabled && c.Sessions.Store != "redis" {
		return fmt.Errorf("embedding.cache.enabled requires sessions.store=redis")
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
