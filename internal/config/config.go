package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/lessonqa/internal/domain"
)

// LLM backends.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Config holds the lessonqa configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string   `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string   `yaml:"format"` // json, console (default: determined by env)
	Output []string `yaml:"output"` // stderr (default), stdout or file paths
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`

	// Browsers never send cookies cross-origin unless credentials are allowed,
	// which needs an explicit origin list.
	CORSAllowedOrigins   []string `yaml:"cors_allowed_origins"`   // default: ["*"]
	CORSAllowCredentials bool     `yaml:"cors_allow_credentials"` // default: false
}

// DatasetConfig points at the lesson records JSON file.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig holds the generator backend settings.
type LLMConfig struct {
	Backend     string       `yaml:"backend"` // openai (default), gemini
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"` // openai: required, includes /v1; gemini: optional API override
	Model       string       `yaml:"model"`
	Temperature float32      `yaml:"temperature"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	Instruction string       `yaml:"instruction"` // prepended to every prompt
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
	KeyPrefix         string `yaml:"key_prefix"`          // counter namespace (default: lessonqa:budget:)
	DailyTTLHours     int    `yaml:"daily_ttl_hours"`     // day counter retention (default: 48)
	MonthlyTTLDays    int    `yaml:"monthly_ttl_days"`    // month counter retention (default: 62)
}

// RetrievalConfig holds matcher and formatter tuning.
type RetrievalConfig struct {
	DatePattern         string               `yaml:"date_pattern"`
	FuzzyThreshold      int                  `yaml:"fuzzy_threshold"`
	DateFallbackToFuzzy bool                 `yaml:"date_fallback_to_fuzzy"`
	SampleSize          int                  `yaml:"sample_size"`
	FieldTriggers       []FieldTriggerConfig `yaml:"field_triggers"` // empty = built-in table
}

// FieldTriggerConfig is one row of the field-intent keyword table.
type FieldTriggerConfig struct {
	Field   string   `yaml:"field"`
	Phrases []string `yaml:"phrases"`
}

// CacheConfig holds the optional Redis/Valkey answer cache settings.
// The same store persists token budget counters.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// Variables from a .env file in the working directory are loaded first and never
// override variables already set in the process environment.
func Load(env string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
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
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.CORSAllowedOrigins) == 0 {
		c.HTTP.CORSAllowedOrigins = []string{"*"}
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = BackendOpenAI
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.LLM.Budget.KeyPrefix == "" {
		c.LLM.Budget.KeyPrefix = domain.KeyPrefix + "budget:"
	}
	if c.LLM.Budget.DailyTTLHours <= 0 {
		c.LLM.Budget.DailyTTLHours = 48
	}
	if c.LLM.Budget.MonthlyTTLDays <= 0 {
		c.LLM.Budget.MonthlyTTLDays = 62
	}

	defaults := domain.DefaultRetrievalConfig()
	if c.Retrieval.DatePattern == "" {
		c.Retrieval.DatePattern = defaults.DatePattern
	}
	if c.Retrieval.FuzzyThreshold <= 0 {
		c.Retrieval.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if c.Retrieval.SampleSize <= 0 {
		c.Retrieval.SampleSize = defaults.SampleSize
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.CORSAllowCredentials && slices.Contains(c.HTTP.CORSAllowedOrigins, "*") {
		return fmt.Errorf("http.cors_allow_credentials requires explicit http.cors_allowed_origins, not \"*\"")
	}
	return c.ValidatePipeline()
}

// ValidatePipeline checks every section except http. Embedded clients use it directly.
func (c *Config) ValidatePipeline() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if err := c.LLM.validate(); err != nil {
		return err
	}
	if c.Retrieval.FuzzyThreshold > 100 {
		return fmt.Errorf("retrieval.fuzzy_threshold must be between 1 and 100, got %d", c.Retrieval.FuzzyThreshold)
	}
	if _, err := regexp.Compile(c.Retrieval.DatePattern); err != nil {
		return fmt.Errorf("retrieval.date_pattern: %w", err)
	}
	for i, t := range c.Retrieval.FieldTriggers {
		if t.Field == "" {
			return fmt.Errorf("retrieval.field_triggers[%d].field is required", i)
		}
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	switch c.Logging.Format {
	case "", "json", "console":
		// ok
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	return nil
}

func (l *LLMConfig) validate() error {
	switch l.Backend {
	case BackendOpenAI:
		if l.BaseURL == "" {
			return fmt.Errorf("llm.base_url is required for the openai backend")
		}
	case BackendGemini:
		if l.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for the gemini backend")
		}
	default:
		return fmt.Errorf("llm.backend must be %q or %q, got %q", BackendOpenAI, BackendGemini, l.Backend)
	}
	if l.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", l.Temperature)
	}
	switch l.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("llm.budget.action must be \"warn\" or \"reject\", got %q", l.Budget.Action)
	}
	// A counter must outlive its own window or a restart loses usage.
	if l.Budget.DailyTTLHours < 24 {
		return fmt.Errorf("llm.budget.daily_ttl_hours must be at least 24, got %d", l.Budget.DailyTTLHours)
	}
	if l.Budget.MonthlyTTLDays < 31 {
		return fmt.Errorf("llm.budget.monthly_ttl_days must be at least 31, got %d", l.Budget.MonthlyTTLDays)
	}
	return nil
}

// RetrievalSettings converts the retrieval section to the domain tuning type.
func (c *Config) RetrievalSettings() domain.RetrievalConfig {
	return domain.RetrievalConfig{
		DatePattern:         c.Retrieval.DatePattern,
		FuzzyThreshold:      c.Retrieval.FuzzyThreshold,
		DateFallbackToFuzzy: c.Retrieval.DateFallbackToFuzzy,
		SampleSize:          c.Retrieval.SampleSize,
	}
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
