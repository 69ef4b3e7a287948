package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the jobscout API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Auth         AuthConfig         `yaml:"auth"`
	Logging      LoggingConfig      `yaml:"logging"`
	Database     DatabaseConfig     `yaml:"database"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	LLM          LLMConfig          `yaml:"llm"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Ranking      RankingConfig      `yaml:"ranking"`
	Selection    SelectionConfig    `yaml:"selection"`
	Conversation ConversationConfig `yaml:"conversation"`
	Catalog      CatalogConfig      `yaml:"catalog"`
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

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
)

// DatabaseConfig selects the retrieval backend.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // postgres, redis, valkey (default: postgres)
	DSN              string   `yaml:"dsn"`    // postgres only
	MaxConns         int32    `yaml:"max_conns"`
	Addrs            []string `yaml:"addrs"` // redis/valkey only
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"` // FT index name
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the query embedding provider settings.
type EmbeddingConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Provider         string `yaml:"provider"` // metrics label
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	CacheTTLSec      int    `yaml:"cache_ttl_sec"` // 0 disables the redis query cache
	TimeoutSec       int    `yaml:"timeout_sec"`
}

// LLMConfig holds the chat completion provider and per-call-site token budgets.
type LLMConfig struct {
	APIKey             string  `yaml:"api_key"`
	BaseURL            string  `yaml:"base_url"`
	Model              string  `yaml:"model"`
	Temperature        float32 `yaml:"temperature"`
	TimeoutSec         int     `yaml:"timeout_sec"`
	IntentMaxTokens    int     `yaml:"intent_max_tokens"`
	NormalizeMaxTokens int     `yaml:"normalize_max_tokens"`
	SelectionMaxTokens int     `yaml:"selection_max_tokens"`
	FollowUpMaxTokens  int     `yaml:"follow_up_max_tokens"`
}

// RetrievalConfig holds orchestration settings. Thresholds favour recall.
type RetrievalConfig struct {
	DefaultMode         string  `yaml:"default_mode"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	CandidateCount      int     `yaml:"candidate_count"`
	MinScore            int     `yaml:"min_score"`
	TimeoutSec          int     `yaml:"timeout_sec"`
	ConcurrentText      bool    `yaml:"concurrent_text"`
}

// RankingConfig holds the rank score weights.
type RankingConfig struct {
	KeywordWeight       float64 `yaml:"keyword_weight"`
	RelevanceWeight     float64 `yaml:"relevance_weight"`
	RecencyHalfLifeDays float64 `yaml:"recency_half_life_days"`
	SelectionPool       int     `yaml:"selection_pool"`
}

// SelectionConfig bounds the final list.
type SelectionConfig struct {
	FallbackCount int `yaml:"fallback_count"`
	MinResults    int `yaml:"min_results"`
	MaxResults    int `yaml:"max_results"`
}

// Conversation stores.
const (
	StoreMemory = "memory"
	StoreThread = "thread"
)

// ConversationConfig selects where conversation turns live.
type ConversationConfig struct {
	Store          string `yaml:"store"` // memory, thread (default: memory)
	HistoryLimit   int    `yaml:"history_limit"`
	AssistantID    string `yaml:"assistant_id"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	PollTimeoutSec int    `yaml:"poll_timeout_sec"`
}

// CatalogConfig holds the catalog snapshot refresh policy and static vocabulary.
type CatalogConfig struct {
	RefreshSec int      `yaml:"refresh_sec"`
	Cities     []string `yaml:"cities"`
	Companies  []string `yaml:"companies"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 90 // ask runs several LLM calls
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	c.Database.applyDefaults()
	c.Embedding.applyDefaults()
	c.LLM.applyDefaults()
	c.Retrieval.applyDefaults()
	c.Ranking.applyDefaults()
	c.Selection.applyDefaults()
	c.Conversation.applyDefaults()
	if c.Catalog.RefreshSec <= 0 {
		c.Catalog.RefreshSec = 3600
	}
}

func (d *DatabaseConfig) applyDefaults() {
	if d.Driver == "" {
		d.Driver = DriverPostgres
	}
	if d.ReadinessTimeout <= 0 {
		d.ReadinessTimeout = 10
	}
}

func (e *EmbeddingConfig) applyDefaults() {
	if e.Provider == "" {
		e.Provider = "openai"
	}
	if e.TimeoutSec <= 0 {
		e.TimeoutSec = 30
	}
}

func (l *LLMConfig) applyDefaults() {
	if l.TimeoutSec <= 0 {
		l.TimeoutSec = 30
	}
	if l.IntentMaxTokens <= 0 {
		l.IntentMaxTokens = 10
	}
	if l.NormalizeMaxTokens <= 0 {
		l.NormalizeMaxTokens = 300
	}
	if l.SelectionMaxTokens <= 0 {
		l.SelectionMaxTokens = 800
	}
	if l.FollowUpMaxTokens <= 0 {
		l.FollowUpMaxTokens = 400
	}
}

func (r *RetrievalConfig) applyDefaults() {
	if r.DefaultMode == "" {
		r.DefaultMode = "semantic"
	}
	if r.SimilarityThreshold <= 0 {
		r.SimilarityThreshold = 0.1
	}
	if r.CandidateCount <= 0 {
		r.CandidateCount = 30
	}
	r.CandidateCount = min(max(r.CandidateCount, 20), 50)
	if r.MinScore <= 0 {
		r.MinScore = 1
	}
	if r.TimeoutSec <= 0 {
		r.TimeoutSec = 30
	}
}

func (r *RankingConfig) applyDefaults() {
	if r.KeywordWeight <= 0 {
		r.KeywordWeight = 10
	}
	if r.RelevanceWeight <= 0 {
		r.RelevanceWeight = 2
	}
	if r.RecencyHalfLifeDays <= 0 {
		r.RecencyHalfLifeDays = 30
	}
	if r.SelectionPool <= 0 {
		r.SelectionPool = 20
	}
}

func (s *SelectionConfig) applyDefaults() {
	if s.FallbackCount <= 0 {
		s.FallbackCount = 3
	}
	if s.MinResults <= 0 {
		s.MinResults = 2
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 20
	}
}

func (c *ConversationConfig) applyDefaults() {
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = 800
	}
	if c.PollTimeoutSec <= 0 {
		c.PollTimeoutSec = 45
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be postgres, redis or valkey, got %q", c.Database.Driver)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	switch c.Retrieval.DefaultMode {
	case "semantic", "hybrid", "text":
	default:
		return fmt.Errorf("retrieval.default_mode must be semantic, hybrid or text, got %q", c.Retrieval.DefaultMode)
	}
	if c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("retrieval.similarity_threshold must be <= 1, got %g", c.Retrieval.SimilarityThreshold)
	}
	if c.Retrieval.MinScore > 3 {
		return fmt.Errorf("retrieval.min_score must be between 1 and 3, got %d", c.Retrieval.MinScore)
	}
	if c.Selection.MaxResults > 20 {
		return fmt.Errorf("selection.max_results must be <= 20, got %d", c.Selection.MaxResults)
	}
	if c.Selection.MinResults > c.Selection.MaxResults {
		return fmt.Errorf("selection.min_results (%d) exceeds max_results (%d)",
			c.Selection.MinResults, c.Selection.MaxResults)
	}
	switch c.Conversation.Store {
	case StoreMemory, StoreThread:
	default:
		return fmt.Errorf("conversation.store must be memory or thread, got %q", c.Conversation.Store)
	}
	return nil
}

// Seconds converts a config value in seconds to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
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
