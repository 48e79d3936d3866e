package backend

import (
	"testing"

	"github.com/sqlask/sqlask/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	for _, name := range []string{config.ProviderOpenAI, config.ProviderLangChain, config.ProviderAnthropic} {
		provider, err := New(config.AIConfig{Provider: name, APIKey: "test-key"})
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if provider.Name() != name {
			t.Fatalf("New(%q).Name() = %q", name, provider.Name())
		}
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New(config.AIConfig{Provider: "mystery", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(config.AIConfig{Provider: config.ProviderOpenAI}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
