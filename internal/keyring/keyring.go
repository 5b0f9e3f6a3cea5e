// Package keyring stores LLM provider API keys in the system keychain.
package keyring

import (
	"fmt"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/zalando/go-keyring"
)

const serviceName = "scriptcut"

// APIKey names one keychain entry.
type APIKey string

const (
	// OpenAI is the keychain entry for the OpenAI API key.
	OpenAI APIKey = "openai-api-key"
	// Gemini is the keychain entry for the Google Gemini API key.
	Gemini APIKey = "gemini-api-key"
	// Claude is the keychain entry for the Anthropic API key.
	Claude APIKey = "claude-api-key"
	// Custom is the keychain entry for a self-hosted endpoint's key.
	Custom APIKey = "custom-api-key"
)

// AllAPIKeys returns all known API key types for iteration.
func AllAPIKeys() []APIKey {
	return []APIKey{OpenAI, Gemini, Claude, Custom}
}

// ForProvider returns the keychain entry used for p.
func ForProvider(p pipeline.Provider) APIKey {
	switch p {
	case pipeline.ProviderOpenAI:
		return OpenAI
	case pipeline.ProviderGemini:
		return Gemini
	case pipeline.ProviderClaude:
		return Claude
	default:
		return Custom
	}
}

// DisplayName returns the provider name for the entry.
func (k APIKey) DisplayName() string {
	switch k {
	case OpenAI:
		return string(pipeline.ProviderOpenAI)
	case Gemini:
		return string(pipeline.ProviderGemini)
	case Claude:
		return string(pipeline.ProviderClaude)
	case Custom:
		return string(pipeline.ProviderCustom)
	default:
		return string(k)
	}
}

// Get retrieves an API key value from the system keychain.
func Get(apiKey APIKey) (string, error) {
	value, err := keyring.Get(serviceName, string(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to get %s from keychain: %w", apiKey.DisplayName(), err)
	}

	return value, nil
}

// Set stores an API key value in the system keychain.
func Set(apiKey APIKey, value string) error {
	if err := keyring.Set(serviceName, string(apiKey), value); err != nil {
		return fmt.Errorf("failed to set %s in keychain: %w", apiKey.DisplayName(), err)
	}

	return nil
}

// IsSet checks if an API key exists in the keychain.
func IsSet(apiKey APIKey) bool {
	_, err := keyring.Get(serviceName, string(apiKey))

	return err == nil
}

// APIKeyFromProviderName maps a provider name (e.g. "gemini") to its entry.
func APIKeyFromProviderName(name string) (APIKey, error) {
	p, err := pipeline.ParseProvider(name)
	if err != nil {
		return "", fmt.Errorf("unknown provider: %w", err)
	}

	return ForProvider(p), nil
}
