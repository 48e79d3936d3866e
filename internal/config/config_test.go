package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("sqlask-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.AskTimeout != 60*time.Second {
		t.Fatalf("HTTP.AskTimeout = %s", cfg.HTTP.AskTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Database.Path != "chinook.duckdb" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.Driver != DriverDuckDB {
		t.Fatalf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Schema.SampleRows != 3 {
		t.Fatalf("Schema.SampleRows = %d", cfg.Schema.SampleRows)
	}
	if cfg.Query.MaxRows != 0 {
		t.Fatalf("Query.MaxRows = %d", cfg.Query.MaxRows)
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "" || cfg.AI.BaseURL != "" {
		t.Fatalf("AI model/base URL should default to the backend's own: %q %q", cfg.AI.Model, cfg.AI.BaseURL)
	}
	if cfg.Audit.DSN != "" {
		t.Fatalf("Audit.DSN = %q, want empty", cfg.Audit.DSN)
	}
	if cfg.Seed.ScriptPath != "chinook.sql" || cfg.Seed.ObjectKey != "" || !cfg.Seed.SkipIfSeeded {
		t.Fatalf("Seed = %#v", cfg.Seed)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"SQLASK_PROFILE": "prod"})
	cfg, err := Load("sqlask-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
}

func TestLoadTestProfileUsesInMemoryDatabase(t *testing.T) {
	cfg, err := Load("sqlask-api", mapLookup(map[string]string{"SQLASK_PROFILE": "TEST"}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != ":memory:" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.HTTP.Address != ":18080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"SQLASK_PROFILE":                    "test",
		"SQLASK_SERVICE_NAME":               "sqlask-custom",
		"SQLASK_HTTP_ADDR":                  ":9999",
		"SQLASK_HTTP_READ_TIMEOUT":          "2s",
		"SQLASK_HTTP_WRITE_TIMEOUT":         "3s",
		"SQLASK_ASK_TIMEOUT":                "45s",
		"SQLASK_LOG_LEVEL":                  "error",
		"SQLASK_AUTH_REQUIRED":              "true",
		"SQLASK_AUTH_STATIC_KEYS":           "k1:t1:query_reader",
		"SQLASK_DATABASE_DRIVER":            "SQLite",
		"SQLASK_DATABASE_PATH":              "/data/chinook.duckdb",
		"SQLASK_DATABASE_MAX_OPEN_CONNS":    "8",
		"SQLASK_DATABASE_MAX_IDLE_CONNS":    "2",
		"SQLASK_SCHEMA_SAMPLE_ROWS":         "0",
		"SQLASK_QUERY_MAX_ROWS":             "200",
		"SQLASK_AI_PROVIDER":                "Anthropic",
		"SQLASK_AI_BASE_URL":                "https://api.example.com",
		"SQLASK_AI_API_KEY":                 "secret-key",
		"SQLASK_AI_MODEL":                   "claude-sonnet-4-5",
		"SQLASK_AI_TEMPERATURE":             "0.3",
		"SQLASK_AI_MAX_TOKENS":              "2048",
		"SQLASK_AI_TIMEOUT":                 "21s",
		"SQLASK_OBJECTSTORE_ENDPOINT":       "s3.example.com",
		"SQLASK_OBJECTSTORE_BUCKET":         "seed-scripts",
		"SQLASK_OBJECTSTORE_USE_SSL":        "true",
		"SQLASK_OBJECTSTORE_PREFIX":         "chinook",
		"SQLASK_AUDIT_DSN":                  "postgres://example",
		"SQLASK_AUDIT_MAX_OPEN_CONNS":       "3",
		"SQLASK_AUDIT_CONN_MAX_LIFETIME":    "1h",
		"SQLASK_DATABASE_CONN_MAX_LIFETIME": "10m",
		"SQLASK_SEED_SCRIPT":                "/seed/chinook.sql",
		"SQLASK_SEED_OBJECT_KEY":            "chinook/chinook.sql",
		"SQLASK_SEED_SKIP_IF_SEEDED":        "false",
	})
	cfg, err := Load("sqlask-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "sqlask-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 3*time.Second {
		t.Fatalf("HTTP.WriteTimeout = %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.HTTP.AskTimeout != 45*time.Second {
		t.Fatalf("HTTP.AskTimeout = %s", cfg.HTTP.AskTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required = false, want true")
	}
	if cfg.Auth.StaticKeys != "k1:t1:query_reader" {
		t.Fatalf("StaticKeys = %q", cfg.Auth.StaticKeys)
	}
	if cfg.Database.Path != "/data/chinook.duckdb" {
		t.Fatalf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Fatalf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns != 8 {
		t.Fatalf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 2 {
		t.Fatalf("Database.MaxIdleConns = %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime != 10*time.Minute {
		t.Fatalf("Database.ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Schema.SampleRows != 0 {
		t.Fatalf("Schema.SampleRows = %d", cfg.Schema.SampleRows)
	}
	if cfg.Query.MaxRows != 200 {
		t.Fatalf("Query.MaxRows = %d", cfg.Query.MaxRows)
	}
	if cfg.AI.Provider != ProviderAnthropic {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.BaseURL != "https://api.example.com" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.APIKey != "secret-key" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "claude-sonnet-4-5" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %f", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens != 2048 {
		t.Fatalf("AI.MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.ObjectStore.Endpoint != "s3.example.com" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
	if cfg.ObjectStore.Bucket != "seed-scripts" {
		t.Fatalf("ObjectStore.Bucket = %q", cfg.ObjectStore.Bucket)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL = false, want true")
	}
	if cfg.ObjectStore.Prefix != "chinook" {
		t.Fatalf("ObjectStore.Prefix = %q", cfg.ObjectStore.Prefix)
	}
	if cfg.Audit.DSN != "postgres://example" {
		t.Fatalf("Audit.DSN = %q", cfg.Audit.DSN)
	}
	if cfg.Audit.MaxOpenConns != 3 {
		t.Fatalf("Audit.MaxOpenConns = %d", cfg.Audit.MaxOpenConns)
	}
	if cfg.Audit.ConnMaxLifetime != time.Hour {
		t.Fatalf("Audit.ConnMaxLifetime = %s", cfg.Audit.ConnMaxLifetime)
	}
	if cfg.Seed.ScriptPath != "/seed/chinook.sql" || cfg.Seed.ObjectKey != "chinook/chinook.sql" || cfg.Seed.SkipIfSeeded {
		t.Fatalf("Seed = %#v", cfg.Seed)
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"SQLASK_PROFILE": "oops"},
		{"SQLASK_HTTP_READ_TIMEOUT": "NaN"},
		{"SQLASK_ASK_TIMEOUT": "soon"},
		{"SQLASK_DATABASE_MAX_OPEN_CONNS": "oops"},
		{"SQLASK_DATABASE_PATH": "  "},
		{"SQLASK_DATABASE_DRIVER": "oracle"},
		{"SQLASK_SCHEMA_SAMPLE_ROWS": "-1"},
		{"SQLASK_QUERY_MAX_ROWS": "-5"},
		{"SQLASK_AI_PROVIDER": "mystery"},
		{"SQLASK_AI_TEMPERATURE": "bad"},
		{"SQLASK_AI_MAX_TOKENS": "many"},
		{"SQLASK_AUTH_REQUIRED": "not-bool"},
		{"SQLASK_LOG_LEVEL": "verbose"},
		{"SQLASK_SEED_SKIP_IF_SEEDED": "maybe"},
	}
	for _, env := range tests {
		_, err := Load("sqlask-api", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func TestLoadRequiresLookup(t *testing.T) {
	if _, err := Load("sqlask-api", nil); err == nil {
		t.Fatal("expected error for nil lookup")
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
