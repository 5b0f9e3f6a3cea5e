// Package tui hosts the scriptcut workflow in a terminal UI.
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui/components/labeledspinner"
	"github.com/alkime/scriptcut/internal/tui/components/progressbar"
	"github.com/alkime/scriptcut/internal/tui/components/sections"
	"github.com/alkime/scriptcut/internal/tui/style"
	"github.com/alkime/scriptcut/internal/tui/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	defaultWidth  = 80
	defaultHeight = 40
	excerptLines  = 6
)

// Config holds what the app needs from the command line.
type Config struct {
	Backend workflow.Backend
	// Editor opens the AI script externally; nil disables the binding.
	Editor workflow.ScriptEditor
	// Settings prefill the AI settings section.
	Settings pipeline.AISettings
	// UploadFields are sent as extra form fields with the upload.
	UploadFields map[string]string
	// MediaPath prefills the upload path.
	MediaPath string
	// BackendURL is shown in the header.
	BackendURL string
	Logger     *slog.Logger
	// CoordinatorOptions are passed through to the workflow coordinator.
	CoordinatorOptions []workflow.CoordinatorOption
}

// Model is the root bubbletea model. Its View is a projection of the
// coordinator's session plus the widgets used to edit the active section.
type Model struct {
	cfg    Config
	keys   KeyMap
	coord  *workflow.Coordinator
	logger *slog.Logger

	width, height int
	// current is the last activated section.
	current pipeline.Section

	layout sections.Model
	bars   map[pipeline.StageTag]progressbar.Model
	busy   labeledspinner.Model

	path     textinput.Model
	pathHint string
	script   viewport.Model
	form     settingsForm
	aiScript textarea.Model

	// notice is a local hint that is not part of the workflow status.
	notice string
}

// New creates the app model.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Settings.Theme == "" {
		cfg.Settings = pipeline.DefaultAISettings()
	}

	opts := append([]workflow.CoordinatorOption{workflow.WithLogger(logger)}, cfg.CoordinatorOptions...)
	keys := DefaultKeyMap()

	path := textinput.New()
	path.Placeholder = "/path/to/video.mp4"
	path.Prompt = "› "
	path.SetValue(cfg.MediaPath)
	path.Focus()

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	m := &Model{
		cfg:    cfg,
		keys:   keys,
		coord:  workflow.NewCoordinator(cfg.Backend, opts...),
		logger: logger,
		width:  defaultWidth,
		height: defaultHeight,
		layout: sections.New(defaultWidth),
		bars: map[pipeline.StageTag]progressbar.Model{
			pipeline.TagTranscribe:  progressbar.New("Transcribe", defaultWidth),
			pipeline.TagAIScriptGen: progressbar.New("AI script", defaultWidth),
			pipeline.TagVideoGen:    progressbar.New("Video", defaultWidth),
		},
		busy:     labeledspinner.New(spinner.Dot, "Working...", ""),
		path:     path,
		script:   viewport.New(defaultWidth-6, 8),
		form:     newSettingsForm(keys, cfg.Settings),
		aiScript: ta,
	}
	m.pathHint = fileHint(cfg.MediaPath)
	m.resize(defaultWidth, defaultHeight)

	return m
}

// Session returns the workflow state being shown.
func (m *Model) Session() pipeline.Session { return m.coord.Session() }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.busy.Init())
}

func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.coord.Reset()
			return m, tea.Quit
		case key.Matches(msg, m.keys.StartOver):
			m.notice = ""
			return m, m.coord.Reset()
		}
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.busy, cmd = m.busy.Update(msg)
		return m, cmd

	case workflow.ScriptEditedMsg:
		if msg.Err != nil {
			m.notice = msg.Err.Error()
			return m, nil
		}
		m.notice = ""
		if m.coord.Session().Gates.IsActive(pipeline.SectionAIPreview) {
			m.aiScript.SetValue(msg.Script)
		}
		return m, nil
	}

	cmd := m.coord.Update(teaMsg)

	switch msg := teaMsg.(type) {
	case workflow.SectionActivatedMsg:
		return m, tea.Batch(cmd, m.enter(msg.Section))
	case workflow.WorkflowResetMsg:
		return m, tea.Batch(cmd, m.restart())
	}

	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	session := m.coord.Session()
	if !session.Gates.IsActive(m.current) {
		return nil
	}

	switch m.current {
	case pipeline.SectionUpload:
		if key.Matches(msg, m.keys.Submit) {
			return m.coord.SubmitUpload(m.path.Value(), m.cfg.UploadFields)
		}
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		m.pathHint = fileHint(m.path.Value())
		return cmd

	case pipeline.SectionScript:
		if key.Matches(msg, m.keys.Submit) {
			return m.coord.ConfirmScript()
		}
		var cmd tea.Cmd
		m.script, cmd = m.script.Update(msg)
		return cmd

	case pipeline.SectionAISettings:
		if key.Matches(msg, m.keys.Submit) {
			m.form.blur()
			return m.coord.SubmitAIScript(m.form.settings())
		}
		return m.form.update(msg)

	case pipeline.SectionAIPreview:
		switch {
		case key.Matches(msg, m.keys.Apply):
			m.aiScript.Blur()
			return m.coord.ApplyEffects(m.aiScript.Value())
		case key.Matches(msg, m.keys.Edit):
			if m.cfg.Editor == nil {
				m.notice = "No external editor configured."
				return nil
			}
			return m.cfg.Editor.Edit(m.aiScript.Value())
		}
		var cmd tea.Cmd
		m.aiScript, cmd = m.aiScript.Update(msg)
		return cmd
	}

	return nil
}

// enter prepares the widgets of a newly activated section.
func (m *Model) enter(section pipeline.Section) tea.Cmd {
	m.current = section
	m.notice = ""
	session := m.coord.Session()

	switch section {
	case pipeline.SectionScript:
		m.path.Blur()
		m.script.SetContent(wrapText(session.OriginalScript, m.script.Width))
		m.script.GotoTop()
	case pipeline.SectionAISettings:
		return m.form.setFocus(fieldTheme)
	case pipeline.SectionAIPreview:
		m.aiScript.SetValue(session.AIScript)
		return m.aiScript.Focus()
	case pipeline.SectionFinalVideo:
		m.aiScript.Blur()
	}

	return nil
}

// restart returns the widgets to their initial state after a reset. The
// media path and LLM connection are kept so a retry needs no retyping.
func (m *Model) restart() tea.Cmd {
	m.current = pipeline.SectionUpload
	m.script.SetContent("")
	m.aiScript.Reset()
	m.aiScript.Blur()
	m.form.blur()
	m.form.resetTopic(m.cfg.Settings)

	return m.path.Focus()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.layout.SetWidth(width)
	for tag, bar := range m.bars {
		bar.SetWidth(width)
		m.bars[tag] = bar
	}

	inner := max(width-8, 20)
	m.path.Width = inner
	m.script.Width = inner
	m.script.Height = max(height/5, 4)
	m.script.SetContent(wrapText(m.coord.Session().OriginalScript, inner))
	m.aiScript.SetWidth(inner)
	m.aiScript.SetHeight(max(height/4, 5))
}

func (m *Model) View() string {
	session := m.coord.Session()

	var sb strings.Builder
	sb.WriteString(style.Title.Render("scriptcut"))
	if m.cfg.BackendURL != "" {
		sb.WriteString(style.Muted.Render("  " + m.cfg.BackendURL))
	}
	sb.WriteString("\n\n")

	items := make([]sections.Section, 0, len(pipeline.AllSections()))
	for _, s := range pipeline.AllSections() {
		state := sections.StateOf(session.Gates, m.current, s)
		items = append(items, sections.Section{
			Title: s.Title(),
			State: state,
			Body:  m.body(session, s, state),
		})
	}
	sb.WriteString(m.layout.View(items))
	sb.WriteString("\n")

	sb.WriteString(renderStatus(session.Status))
	if m.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Warning.Render(m.notice))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help(session))

	return sb.String()
}

func (m *Model) body(session pipeline.Session, s pipeline.Section, state sections.State) string {
	var parts []string

	switch s {
	case pipeline.SectionUpload:
		if state == sections.Active {
			parts = append(parts, m.path.View())
		} else if session.MediaPath != "" {
			parts = append(parts, style.Muted.Render(session.MediaPath))
		}
		if m.pathHint != "" {
			parts = append(parts, style.Subtitle.Render(m.pathHint))
		}
		parts = append(parts, m.bars[pipeline.TagTranscribe].View(session.Progress.Get(pipeline.TagTranscribe)))

	case pipeline.SectionScript:
		if session.OriginalScript != "" {
			parts = append(parts, style.Viewport.Render(m.script.View()))
		}

	case pipeline.SectionAISettings:
		parts = append(parts, m.form.View(state == sections.Active))
		parts = append(parts, m.bars[pipeline.TagAIScriptGen].View(session.Progress.Get(pipeline.TagAIScriptGen)))

	case pipeline.SectionAIPreview:
		if state == sections.Active {
			parts = append(parts, m.aiScript.View())
		} else if session.AIScript != "" {
			parts = append(parts, excerpt(session.AIScript, excerptLines))
		}
		parts = append(parts, m.bars[pipeline.TagVideoGen].View(session.Progress.Get(pipeline.TagVideoGen)))

	case pipeline.SectionFinalVideo:
		if session.DownloadURL != "" {
			parts = append(parts, style.Label.Render("Download: ")+style.Success.Render(session.DownloadURL))
		}
	}

	if state == sections.Busy {
		parts = append(parts, m.busy.View())
	}

	return joinNonEmpty(parts)
}

func (m *Model) help(session pipeline.Session) string {
	var bindings []key.Binding

	if session.Gates.IsActive(m.current) {
		switch m.current {
		case pipeline.SectionUpload:
			bindings = append(bindings, m.keys.Submit)
		case pipeline.SectionScript:
			bindings = append(bindings, m.keys.Submit)
		case pipeline.SectionAISettings:
			bindings = append(bindings, m.keys.Submit, m.keys.NextField, m.keys.Cycle)
		case pipeline.SectionAIPreview:
			bindings = append(bindings, m.keys.Apply)
			if m.cfg.Editor != nil {
				bindings = append(bindings, m.keys.Edit)
			}
		}
	}
	bindings = append(bindings, m.keys.ShortHelp()...)

	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, renderKeyHelp(b))
	}

	return strings.Join(out, "  ")
}

func renderKeyHelp(b key.Binding) string {
	return style.Help.Render("[") + style.Key.Render(b.Help().Key) +
		style.Help.Render("] ") + style.Help.Render(b.Help().Desc)
}

func renderStatus(st pipeline.StatusLine) string {
	if st.Text == "" {
		return ""
	}
	if st.IsError {
		return style.Error.Render("Error: " + st.Text)
	}
	return style.Subtitle.Render(st.Text)
}

// fileHint describes the file at path, or returns empty when it cannot be read.
func fileHint(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return fmt.Sprintf("%s, modified %s", humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}

// wrapText wraps text to width so long lines wrap in the viewport instead
// of being truncated.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func excerpt(text string, lines int) string {
	all := strings.Split(text, "\n")
	if len(all) <= lines {
		return text
	}
	return strings.Join(all[:lines], "\n") + "\n" + style.Muted.Render("…")
}

func joinNonEmpty(parts []string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
