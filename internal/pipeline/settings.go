package pipeline

import "fmt"

// Provider selects which LLM the backend talks to. The client only forwards
// it; the backend does provider-specific dispatch.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderCustom Provider = "custom"
)

// AllProviders returns the selectable providers in display order.
func AllProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderGemini, ProviderClaude, ProviderCustom}
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	for _, p := range AllProviders() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown llm provider %q", name)
}

// DefaultURL is the endpoint prefilled when the provider is selected. Custom
// has none so the user enters one.
func (p Provider) DefaultURL() string {
	switch p {
	case ProviderOpenAI:
		return "https://api.openai.com/v1/chat/completions"
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	case ProviderClaude:
		return "https://api.anthropic.com/v1/messages"
	default:
		return ""
	}
}

// Next cycles to the following provider, wrapping around.
func (p Provider) Next() Provider {
	all := AllProviders()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// DefaultTheme is restored on every reset.
const DefaultTheme = "joyful"

// Themes returns the selectable video themes.
func Themes() []string {
	return []string{DefaultTheme, "serious", "inspirational", "humorous", "suspenseful"}
}

// NextTheme cycles to the theme after current.
func NextTheme(current string) string {
	themes := Themes()
	for i, t := range themes {
		if t == current {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// LLMConnection is the caller-supplied connection forwarded to the backend.
type LLMConnection struct {
	Provider Provider
	URL      string
	Method   string
	APIKey   string
}

// AISettings are the creative parameters of the AI script stage.
type AISettings struct {
	Theme          string
	TargetAudience string
	VideoPurpose   string
	LLM            LLMConnection
}

// DefaultAISettings returns the settings of a fresh session.
func DefaultAISettings() AISettings {
	return AISettings{
		Theme: DefaultTheme,
		LLM: LLMConnection{
			Provider: ProviderOpenAI,
			URL:      ProviderOpenAI.DefaultURL(),
			Method:   "POST",
		},
	}
}

// SelectProvider switches provider and prefills its default URL.
func (s *AISettings) SelectProvider(p Provider) {
	s.LLM.Provider = p
	s.LLM.URL = p.DefaultURL()
}
