package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/alkime/scriptcut/internal/keyring"
	"github.com/alkime/scriptcut/internal/pipeline"
)

// WorkflowFlags are shared by the interactive and unattended commands.
type WorkflowFlags struct {
	BackendURL string `flag:"" name:"backend-url" env:"SCRIPTCUT_BACKEND_URL" default:"http://localhost:8080" help:"Processing backend base URL"`

	Provider  string `flag:"" env:"LLM_PROVIDER" default:"openai" enum:"openai,gemini,claude,custom" help:"LLM provider"`
	LLMURL    string `flag:"" name:"llm-url" env:"LLM_API_URL" help:"LLM endpoint (default: the provider's)"`
	LLMMethod string `flag:"" name:"llm-method" env:"LLM_API_METHOD" default:"POST" help:"HTTP method for the LLM endpoint"`
	APIKey    string `flag:"" name:"api-key" env:"LLM_API_KEY" help:"LLM API key (falls back to the keychain)"`

	Theme    string `flag:"" default:"joyful" enum:"joyful,serious,inspirational,humorous,suspenseful" help:"Video theme"`
	Audience string `flag:"" help:"Target audience"`
	Purpose  string `flag:"" help:"Video purpose"`

	Fields map[string]string `flag:"" name:"upload-field" help:"Extra upload form field as key=value (repeatable)"`
}

// settings builds the AI settings, resolving the API key from the keychain
// when none was given.
func (f *WorkflowFlags) settings() (pipeline.AISettings, error) {
	provider, err := pipeline.ParseProvider(f.Provider)
	if err != nil {
		return pipeline.AISettings{}, err
	}

	s := pipeline.DefaultAISettings()
	s.SelectProvider(provider)
	s.Theme = f.Theme
	s.TargetAudience = f.Audience
	s.VideoPurpose = f.Purpose
	s.LLM.Method = strings.ToUpper(f.LLMMethod)
	s.LLM.APIKey = f.APIKey

	if f.LLMURL != "" {
		s.LLM.URL = f.LLMURL
	}
	if provider == pipeline.ProviderCustom && s.LLM.URL == "" {
		return pipeline.AISettings{}, errors.New("the custom provider needs --llm-url")
	}

	if s.LLM.APIKey == "" {
		if secret, err := keyring.Get(keyring.ForProvider(provider)); err == nil {
			s.LLM.APIKey = secret
		} else {
			slog.Debug("keychain lookup failed", "provider", provider, "error", err)
		}
	}

	return s, nil
}
