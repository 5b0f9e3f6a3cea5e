package workflow

import (
	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// SubmitOKMsg reports that the backend accepted a stage submission.
type SubmitOKMsg struct {
	Stage pipeline.Stage
	JobID string
	epoch uint64
}

// SubmitErrMsg reports a rejected or failed stage submission.
type SubmitErrMsg struct {
	Stage pipeline.Stage
	Err   error
	epoch uint64
}

// PollPendingMsg carries a non-terminal poll result.
type PollPendingMsg struct {
	JobID    string
	Tag      pipeline.StageTag
	Snapshot pipeline.StatusSnapshot
}

// PollCompletedMsg carries the completed poll result of a stage.
type PollCompletedMsg struct {
	JobID    string
	Tag      pipeline.StageTag
	Snapshot pipeline.StatusSnapshot
}

// PollFailedMsg carries a failed job, or a poll that could not be made.
type PollFailedMsg struct {
	JobID    string
	Tag      pipeline.StageTag
	Snapshot pipeline.StatusSnapshot
	Kind     pipeline.ErrorKind
	Err      error
}

// SectionActivatedMsg is emitted after a section gate becomes active.
type SectionActivatedMsg struct {
	Section pipeline.Section
}

// WorkflowResetMsg is emitted after every reset. Cause is zero for a user
// start-over and the failure kind otherwise.
type WorkflowResetMsg struct {
	Cause  pipeline.ErrorKind
	Status pipeline.StatusLine
}

// ScriptEditedMsg returns the result of an external edit.
type ScriptEditedMsg struct {
	Script string
	Err    error
}

type pollTickMsg struct {
	seq uint64
}

type pollResultMsg struct {
	seq  uint64
	resp backend.StatusResponse
	err  error
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
