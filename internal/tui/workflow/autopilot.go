package workflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/scriptcut/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned by an autopilot run stopped by the user.
var ErrInterrupted = errors.New("interrupted")

// AutopilotInputs are the answers given to each section in turn.
type AutopilotInputs struct {
	MediaPath    string
	UploadFields map[string]string
	Settings     pipeline.AISettings
	// ReviseScript, if set, may rewrite the AI script before effects are applied.
	ReviseScript func(aiScript string) string
}

// Autopilot runs the whole workflow without a user: every section that
// becomes active is answered from AutopilotInputs. It quits once the final
// video section activates or the workflow resets on failure.
type Autopilot struct {
	coord  *Coordinator
	inputs AutopilotInputs
	logger *slog.Logger

	lastStatus  pipeline.StatusLine
	downloadURL string
	err         error
}

// NewAutopilot creates a headless driver for coord.
func NewAutopilot(coord *Coordinator, inputs AutopilotInputs, logger *slog.Logger) *Autopilot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Autopilot{coord: coord, inputs: inputs, logger: logger}
}

// Result returns the download URL of the final video, or why the run stopped.
func (a *Autopilot) Result() (string, error) {
	return a.downloadURL, a.err
}

func (a *Autopilot) Init() tea.Cmd {
	return a.checked(a.coord.SubmitUpload(a.inputs.MediaPath, a.inputs.UploadFields))
}

func (a *Autopilot) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := teaMsg.(tea.KeyMsg); ok && km.Type == tea.KeyCtrlC {
		a.coord.Reset()
		a.err = ErrInterrupted
		return a, tea.Quit
	}

	cmd := a.coord.Update(teaMsg)
	a.logStatus()

	switch msg := teaMsg.(type) {
	case SectionActivatedMsg:
		return a, tea.Batch(cmd, a.answer(msg.Section))

	case WorkflowResetMsg:
		if msg.Cause != 0 {
			a.err = fmt.Errorf("%s error: %s", msg.Cause, msg.Status.Text)
			return a, tea.Quit
		}
	}

	return a, cmd
}

func (a *Autopilot) View() string {
	return a.coord.Session().Status.Text + "\n"
}

func (a *Autopilot) answer(section pipeline.Section) tea.Cmd {
	switch section {
	case pipeline.SectionScript:
		return a.checked(a.coord.ConfirmScript())
	case pipeline.SectionAISettings:
		return a.checked(a.coord.SubmitAIScript(a.inputs.Settings))
	case pipeline.SectionAIPreview:
		script := a.coord.Session().AIScript
		if a.inputs.ReviseScript != nil {
			script = a.inputs.ReviseScript(script)
		}
		return a.checked(a.coord.ApplyEffects(script))
	case pipeline.SectionFinalVideo:
		a.downloadURL = a.coord.Session().DownloadURL
		a.logger.Info("final video ready", "download_url", a.downloadURL)
		return tea.Quit
	}

	return nil
}

// checked stops the run when a submission was refused locally; nothing
// else would ever move the workflow forward.
func (a *Autopilot) checked(cmd tea.Cmd) tea.Cmd {
	a.logStatus()

	st := a.coord.Session().Status
	if st.IsError && st.Kind == pipeline.KindValidation {
		a.err = fmt.Errorf("%s error: %s", st.Kind, st.Text)
		return tea.Quit
	}

	return cmd
}

func (a *Autopilot) logStatus() {
	st := a.coord.Session().Status
	if st == a.lastStatus || st.Text == "" {
		a.lastStatus = st
		return
	}
	a.lastStatus = st

	if st.IsError {
		a.logger.Error(st.Text, "kind", st.Kind)
		return
	}

	attrs := []any{}
	for _, tag := range pipeline.AllTags() {
		if p := a.coord.Session().Progress.Get(tag); p.Visible() {
			attrs = append(attrs, string(tag), p.Value())
		}
	}
	a.logger.Info(st.Text, attrs...)
}
