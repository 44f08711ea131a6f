package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8000},
		Dataset: DatasetConfig{Path: "data/lessons.json"},
		LLM: LLMConfig{
			BaseURL: "http://localhost:8001/v1",
			Model:   "Qwen/Qwen2.5-1.5B-Instruct",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port must be between 1 and 65535, got 0"},
		{"missing dataset", func(c *Config) { c.Dataset.Path = "" }, "dataset.path is required"},
		{"openai without base url", func(c *Config) { c.LLM.BaseURL = "" }, "llm.base_url is required for the openai backend"},
		{"gemini without api key", func(c *Config) { c.LLM.Backend = BackendGemini }, "llm.api_key is required for the gemini backend"},
		{"unknown backend", func(c *Config) { c.LLM.Backend = "anthropic" }, `llm.backend must be "openai" or "gemini", got "anthropic"`},
		{"missing model", func(c *Config) { c.LLM.Model = "" }, "llm.model is required"},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature must be between 0 and 2, got 3"},
		{"invalid budget action", func(c *Config) { c.LLM.Budget.Action = "invalid_action" }, `llm.budget.action must be "warn" or "reject", got "invalid_action"`},
		{"threshold above 100", func(c *Config) { c.Retrieval.FuzzyThreshold = 101 }, "retrieval.fuzzy_threshold must be between 1 and 100, got 101"},
		{"trigger without field", func(c *Config) {
			c.Retrieval.FieldTriggers = []FieldTriggerConfig{{Phrases: []string{"x"}}}
		}, "retrieval.field_triggers[0].field is required"},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }, "cache.addrs is required when cache is enabled"},
		{"daily budget ttl shorter than a day", func(c *Config) { c.LLM.Budget.DailyTTLHours = 12 }, "llm.budget.daily_ttl_hours must be at least 24, got 12"},
		{"monthly budget ttl shorter than a month", func(c *Config) { c.LLM.Budget.MonthlyTTLDays = 30 }, "llm.budget.monthly_ttl_days must be at least 31, got 30"},
		{"cors credentials with wildcard", func(c *Config) { c.HTTP.CORSAllowCredentials = true }, `http.cors_allow_credentials requires explicit http.cors_allowed_origins, not "*"`},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, `logging.format must be "json" or "console", got "xml"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tc.wantErr {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidate_InvalidDatePattern(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.DatePattern = `(\d+`

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid date pattern")
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.Budget.Action = action
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.LLM.Backend != BackendOpenAI {
		t.Errorf("expected Backend=openai, got %q", cfg.LLM.Backend)
	}
	if cfg.LLM.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.LLM.TimeoutSec)
	}
	if cfg.Retrieval.FuzzyThreshold != 70 {
		t.Errorf("expected FuzzyThreshold=70, got %d", cfg.Retrieval.FuzzyThreshold)
	}
	if cfg.Retrieval.SampleSize != 3 {
		t.Errorf("expected SampleSize=3, got %d", cfg.Retrieval.SampleSize)
	}
	if cfg.Retrieval.DatePattern == "" {
		t.Error("expected default DatePattern")
	}
	if cfg.Retrieval.DateFallbackToFuzzy {
		t.Error("expected DateFallbackToFuzzy=false by default")
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if len(cfg.HTTP.CORSAllowedOrigins) != 1 || cfg.HTTP.CORSAllowedOrigins[0] != "*" || cfg.HTTP.CORSAllowCredentials {
		t.Errorf("expected CORS any origin without credentials, got %v/%v", cfg.HTTP.CORSAllowedOrigins, cfg.HTTP.CORSAllowCredentials)
	}
	if cfg.LLM.Budget.KeyPrefix != "lessonqa:budget:" {
		t.Errorf("expected budget KeyPrefix=lessonqa:budget:, got %q", cfg.LLM.Budget.KeyPrefix)
	}
	if cfg.LLM.Budget.DailyTTLHours != 48 || cfg.LLM.Budget.MonthlyTTLDays != 62 {
		t.Errorf("expected budget TTLs 48h/62d, got %d/%d", cfg.LLM.Budget.DailyTTLHours, cfg.LLM.Budget.MonthlyTTLDays)
	}
}

func TestValidate_CORSCredentialsWithExplicitOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.CORSAllowedOrigins = []string{"https://lessons.example.edu.vn"}
	cfg.HTTP.CORSAllowCredentials = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		LLM:       LLMConfig{Backend: BackendGemini, TimeoutSec: 10},
		Retrieval: RetrievalConfig{FuzzyThreshold: 80, SampleSize: 5, DatePattern: `\d+`},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.Backend != BackendGemini || cfg.LLM.TimeoutSec != 10 {
		t.Errorf("llm overridden: %+v", cfg.LLM)
	}
	if cfg.Retrieval.FuzzyThreshold != 80 || cfg.Retrieval.SampleSize != 5 || cfg.Retrieval.DatePattern != `\d+` {
		t.Errorf("retrieval overridden: %+v", cfg.Retrieval)
	}
}

func TestRetrievalSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.DateFallbackToFuzzy = true

	rs := cfg.RetrievalSettings()
	if rs.FuzzyThreshold != 70 || rs.SampleSize != 3 || !rs.DateFallbackToFuzzy || rs.DatePattern == "" {
		t.Errorf("unexpected retrieval settings: %+v", rs)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("LESSONQA_TEST_LLM_URL", "http://vllm:8000/v1")

	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
http:
  port: 8000
dataset:
  path: data/lessons.json
llm:
  base_url: ${LESSONQA_TEST_LLM_URL}
  model: ${LESSONQA_TEST_MODEL:-Qwen/Qwen2.5-1.5B-Instruct}
  temperature: 0.5
retrieval:
  field_triggers:
    - field: "GHI CHÚ"
      phrases: ["ghi chú", "note"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.BaseURL != "http://vllm:8000/v1" {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "Qwen/Qwen2.5-1.5B-Instruct" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.5 {
		t.Errorf("Temperature = %v", cfg.LLM.Temperature)
	}
	if len(cfg.Retrieval.FieldTriggers) != 1 || cfg.Retrieval.FieldTriggers[0].Field != "GHI CHÚ" {
		t.Errorf("FieldTriggers = %+v", cfg.Retrieval.FieldTriggers)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LESSONQA_TEST_SET", "value")

	got := string(expandEnvVars([]byte("a=${LESSONQA_TEST_SET} b=${LESSONQA_TEST_UNSET:-fallback} c=${LESSONQA_TEST_UNSET}")))
	if got != "a=value b=fallback c=" {
		t.Errorf("unexpected expansion: %q", got)
	}
}

func TestValidatePipeline_IgnoresHTTP(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing port")
	}
	if err := cfg.ValidatePipeline(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
