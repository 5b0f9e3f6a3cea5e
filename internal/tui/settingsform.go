package tui

import (
	"strings"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field int

const (
	fieldTheme field = iota
	fieldAudience
	fieldPurpose
	fieldProvider
	fieldURL
	fieldMethod
	fieldKey

	fieldCount
)

func (f field) label() string {
	switch f {
	case fieldTheme:
		return "Theme"
	case fieldAudience:
		return "Target audience"
	case fieldPurpose:
		return "Video purpose"
	case fieldProvider:
		return "LLM provider"
	case fieldURL:
		return "API URL"
	case fieldMethod:
		return "API method"
	case fieldKey:
		return "API key"
	default:
		return ""
	}
}

// settingsForm edits pipeline.AISettings. Theme and provider are selectors
// cycled with the arrow keys; everything else is free text.
type settingsForm struct {
	keys  KeyMap
	focus field

	theme    string
	provider pipeline.Provider
	inputs   map[field]*textinput.Model
}

func newSettingsForm(keys KeyMap, s pipeline.AISettings) settingsForm {
	f := settingsForm{
		keys:   keys,
		inputs: map[field]*textinput.Model{},
	}

	for _, fl := range []field{fieldAudience, fieldPurpose, fieldURL, fieldMethod, fieldKey} {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		f.inputs[fl] = &ti
	}
	f.inputs[fieldAudience].Placeholder = "e.g. small business owners"
	f.inputs[fieldPurpose].Placeholder = "e.g. product launch teaser"
	f.inputs[fieldURL].Placeholder = "enter the endpoint for a custom provider"
	f.inputs[fieldKey].EchoMode = textinput.EchoPassword

	f.load(s)

	return f
}

// load replaces every field with s.
func (f *settingsForm) load(s pipeline.AISettings) {
	f.theme = s.Theme
	f.provider = s.LLM.Provider
	f.inputs[fieldAudience].SetValue(s.TargetAudience)
	f.inputs[fieldPurpose].SetValue(s.VideoPurpose)
	f.inputs[fieldURL].SetValue(s.LLM.URL)
	f.inputs[fieldMethod].SetValue(s.LLM.Method)
	f.inputs[fieldKey].SetValue(s.LLM.APIKey)
}

// resetTopic restores theme, audience and purpose from base but keeps the
// LLM connection the user entered.
func (f *settingsForm) resetTopic(base pipeline.AISettings) {
	f.theme = base.Theme
	f.inputs[fieldAudience].SetValue(base.TargetAudience)
	f.inputs[fieldPurpose].SetValue(base.VideoPurpose)
}

func (f settingsForm) settings() pipeline.AISettings {
	return pipeline.AISettings{
		Theme:          f.theme,
		TargetAudience: strings.TrimSpace(f.inputs[fieldAudience].Value()),
		VideoPurpose:   strings.TrimSpace(f.inputs[fieldPurpose].Value()),
		LLM: pipeline.LLMConnection{
			Provider: f.provider,
			URL:      strings.TrimSpace(f.inputs[fieldURL].Value()),
			Method:   strings.TrimSpace(f.inputs[fieldMethod].Value()),
			APIKey:   strings.TrimSpace(f.inputs[fieldKey].Value()),
		},
	}
}

func (f *settingsForm) setFocus(fl field) tea.Cmd {
	for _, in := range f.inputs {
		in.Blur()
	}
	f.focus = fl
	if in, ok := f.inputs[fl]; ok {
		return in.Focus()
	}
	return nil
}

func (f *settingsForm) blur() {
	for _, in := range f.inputs {
		in.Blur()
	}
}

func (f *settingsForm) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, f.keys.NextField):
		return f.setFocus((f.focus + 1) % fieldCount)
	case key.Matches(msg, f.keys.PrevField):
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	}

	switch f.focus {
	case fieldTheme:
		if key.Matches(msg, f.keys.Cycle) {
			f.theme = pipeline.NextTheme(f.theme)
		}
		return nil
	case fieldProvider:
		if key.Matches(msg, f.keys.Cycle) {
			f.provider = f.provider.Next()
			f.inputs[fieldURL].SetValue(f.provider.DefaultURL())
		}
		return nil
	}

	in := f.inputs[f.focus]
	updated, cmd := in.Update(msg)
	*in = updated

	return cmd
}

func (f settingsForm) View(active bool) string {
	var sb strings.Builder

	for fl := range fieldCount {
		label := style.Label
		if active && fl == f.focus {
			label = style.FocusedLabel
		}
		sb.WriteString(label.Width(18).Render(fl.label()))

		switch fl {
		case fieldTheme:
			sb.WriteString(f.selector(active && fl == f.focus, f.theme))
		case fieldProvider:
			sb.WriteString(f.selector(active && fl == f.focus, string(f.provider)))
		default:
			if active {
				sb.WriteString(f.inputs[fl].View())
			} else {
				sb.WriteString(f.staticValue(fl))
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (f settingsForm) selector(focused bool, value string) string {
	if focused {
		return style.Key.Render("‹ " + value + " ›")
	}
	return value
}

func (f settingsForm) staticValue(fl field) string {
	v := f.inputs[fl].Value()
	if v == "" {
		return style.Muted.Render("-")
	}
	if fl == fieldKey {
		return strings.Repeat("•", min(len(v), 12))
	}
	return v
}
