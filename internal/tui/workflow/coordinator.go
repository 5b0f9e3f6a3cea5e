package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/alkime/scriptcut/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// NotAvailableText is shown when a stage is attempted while its section is disabled.
const NotAvailableText = "This step is not available right now."

// Coordinator owns the single job identity and the single status poller and
// sequences the stage controllers. It is driven from a bubbletea Update loop
// and is not safe for concurrent use; commands it returns only ever report
// back through messages.
type Coordinator struct {
	backend  Backend
	logger   *slog.Logger
	poller   *StatusPoller
	interval time.Duration

	controllers map[pipeline.Stage]*stageController

	session pipeline.Session
	jobID   string

	// epoch changes on every reset; submit results from an older epoch are stale.
	epoch     uint64
	submitCtx context.Context
	cancel    context.CancelFunc
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*coordinatorOptions)

type coordinatorOptions struct {
	logger    *slog.Logger
	scheduler Scheduler
	interval  time.Duration
}

// WithLogger sets the coordinator's logger.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(o *coordinatorOptions) { o.logger = logger }
}

// WithScheduler replaces tea.Tick for poll timing (used by tests).
func WithScheduler(s Scheduler) CoordinatorOption {
	return func(o *coordinatorOptions) { o.scheduler = s }
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) CoordinatorOption {
	return func(o *coordinatorOptions) { o.interval = d }
}

// NewCoordinator returns a coordinator in the freshly loaded state.
func NewCoordinator(b Backend, opts ...CoordinatorOption) *Coordinator {
	o := coordinatorOptions{logger: slog.Default(), interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	c := &Coordinator{
		backend:     b,
		logger:      o.logger,
		interval:    o.interval,
		controllers: newControllers(),
		session:     pipeline.NewSession(),
	}
	c.poller = NewStatusPoller(b.Status, o.scheduler, o.logger)
	c.submitCtx, c.cancel = context.WithCancel(context.Background())

	return c
}

// Session returns a copy of the visible state.
func (c *Coordinator) Session() pipeline.Session { return c.session }

// JobID returns the current job identity, empty before upload and after reset.
func (c *Coordinator) JobID() string { return c.jobID }

// Poller exposes the status poller for inspection.
func (c *Coordinator) Poller() *StatusPoller { return c.poller }

// Reset returns to the freshly loaded state: poller disarmed, job identity
// cleared, only Upload active, all text and progress cleared. Anything still
// in flight is cancelled and its result ignored.
func (c *Coordinator) Reset() tea.Cmd {
	c.reset()
	c.logger.Info("workflow reset")

	return emit(WorkflowResetMsg{})
}

func (c *Coordinator) reset() {
	c.poller.Disarm()
	c.cancel()
	c.submitCtx, c.cancel = context.WithCancel(context.Background())
	c.epoch++
	c.jobID = ""
	c.session = pipeline.NewSession()
}

// SubmitUpload starts the Upload stage with the media file at path.
func (c *Coordinator) SubmitUpload(path string, fields map[string]string) tea.Cmd {
	c.session.MediaPath = path
	return c.submit(pipeline.StageUpload, stageInput{mediaPath: path, uploadFields: fields})
}

// ConfirmScript accepts the transcribed script and unlocks the AI settings.
func (c *Coordinator) ConfirmScript() tea.Cmd {
	if !c.session.Gates.IsActive(pipeline.SectionScript) {
		c.session.SetError(pipeline.KindValidation, NotAvailableText)
		return nil
	}

	ctrl := c.controllers[pipeline.StageScriptConfirm]
	c.logger.Info("script confirmed", "video_id", c.jobID)

	return c.activate(pipeline.StageScriptConfirm.NextSection(), ctrl.completedText)
}

// SubmitAIScript starts AI script generation with the given settings.
func (c *Coordinator) SubmitAIScript(settings pipeline.AISettings) tea.Cmd {
	c.session.Settings = settings
	return c.submit(pipeline.StageAIScriptGen, stageInput{settings: settings})
}

// ApplyEffects starts final video generation from the (possibly edited) AI script.
func (c *Coordinator) ApplyEffects(aiScript string) tea.Cmd {
	c.session.AIScript = aiScript
	return c.submit(pipeline.StageEffectsApply, stageInput{aiScript: aiScript})
}

func (c *Coordinator) submit(stage pipeline.Stage, in stageInput) tea.Cmd {
	ctrl := c.controllers[stage]

	if ctrl.needsJobText != "" && c.jobID == "" {
		c.session.SetError(pipeline.KindValidation, ctrl.needsJobText)
		return nil
	}
	if !c.session.Gates.IsActive(stage.Section()) {
		c.session.SetError(pipeline.KindValidation, NotAvailableText)
		return nil
	}
	if ctrl.validate != nil {
		if err := ctrl.validate(in); err != nil {
			c.session.SetError(pipeline.KindValidation, err.Error())
			return nil
		}
	}

	c.session.SetInfo(ctrl.submittingText)
	c.session.Gates.Disable(stage.Section())
	if tag, ok := stage.Tag(); ok {
		c.session.Progress.For(tag).Show()
	}

	c.logger.Info("stage submitted", "stage", stage, "video_id", c.jobID)

	return ctrl.submitCmd(c.submitCtx, c.backend, c.session, c.jobID, in, c.epoch)
}

// Update consumes workflow messages and returns follow-up commands. Messages
// it does not own are ignored.
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SubmitOKMsg:
		if msg.epoch != c.epoch {
			c.logger.Debug("ignoring stale submit response", "stage", msg.Stage)
			return nil
		}
		return c.onStageSubmitted(msg.Stage, msg.JobID)

	case SubmitErrMsg:
		if msg.epoch != c.epoch {
			c.logger.Debug("ignoring stale submit error", "stage", msg.Stage, "error", msg.Err)
			return nil
		}
		kind, text := c.controllers[msg.Stage].classify(msg.Err)
		c.logger.Error("stage submission failed", "stage", msg.Stage, "kind", kind, "error", msg.Err)
		return c.fail(kind, text)

	case pollTickMsg, pollResultMsg:
		event, cmd := c.poller.Update(msg)
		if event == nil {
			return cmd
		}
		return tea.Batch(cmd, c.Update(event))

	case PollPendingMsg:
		if !c.owns(msg.JobID, msg.Tag) {
			return nil
		}
		c.session.Progress.For(msg.Tag).Set(msg.Snapshot.Progress)
		c.session.SetInfo(msg.Snapshot.Message)
		return nil

	case PollCompletedMsg:
		if !c.owns(msg.JobID, msg.Tag) {
			return nil
		}
		return c.onStageCompleted(msg.Tag.Stage(), msg.Snapshot)

	case PollFailedMsg:
		if !c.owns(msg.JobID, msg.Tag) {
			return nil
		}
		return c.onStageFailed(msg.Tag.Stage(), msg.Snapshot, msg.Kind)
	}

	return nil
}

// owns reports whether a poll event belongs to the current job and the
// stage this coordinator is waiting on.
func (c *Coordinator) owns(jobID string, tag pipeline.StageTag) bool {
	if jobID == "" || jobID != c.jobID {
		c.logger.Debug("ignoring poll event for stale job", "video_id", jobID, "stage", tag)
		return false
	}
	return true
}

func (c *Coordinator) onStageSubmitted(stage pipeline.Stage, jobID string) tea.Cmd {
	ctrl := c.controllers[stage]

	if stage == pipeline.StageUpload {
		c.jobID = jobID
	} else if jobID != c.jobID {
		c.logger.Warn("submit response for a different job ignored",
			"stage", stage, "video_id", jobID, "current", c.jobID)
		return nil
	}

	c.session.Gates.Disable(stage.Section())
	c.session.SetInfo(ctrl.acceptedText)

	tag, ok := stage.Tag()
	if !ok {
		return nil
	}

	// Single flight: whatever was armed before goes first.
	c.poller.Disarm()
	cmd, err := c.poller.Arm(c.jobID, tag, c.interval)
	if err != nil {
		c.logger.Error("failed to arm status poller", "stage", stage, "error", err)
		return c.fail(pipeline.KindTransport, PollErrorText)
	}

	return cmd
}

func (c *Coordinator) onStageCompleted(stage pipeline.Stage, snap pipeline.StatusSnapshot) tea.Cmd {
	ctrl := c.controllers[stage]
	c.poller.Disarm()

	if tag, ok := stage.Tag(); ok {
		c.session.Progress.For(tag).Set(snap.Progress)
	}
	ctrl.apply(&c.session, snap, c.backend.DownloadURL(c.jobID))

	c.logger.Info("stage completed", "stage", stage, "video_id", c.jobID)

	return c.activate(stage.NextSection(), ctrl.completedText)
}

// onStageFailed restarts the workflow. There is no partial retry; the error
// text is set after the reset so it stays visible.
func (c *Coordinator) onStageFailed(stage pipeline.Stage, snap pipeline.StatusSnapshot, kind pipeline.ErrorKind) tea.Cmd {
	c.poller.Disarm()
	c.logger.Error("stage failed", "stage", stage, "video_id", c.jobID, "kind", kind, "error", snap.Error)

	return c.fail(kind, snap.FailureText())
}

func (c *Coordinator) fail(kind pipeline.ErrorKind, text string) tea.Cmd {
	c.reset()
	c.session.SetError(kind, text)

	return emit(WorkflowResetMsg{Cause: kind, Status: c.session.Status})
}

func (c *Coordinator) activate(section pipeline.Section, status string) tea.Cmd {
	c.session.Gates.Activate(section)
	c.session.SetInfo(status)

	return emit(SectionActivatedMsg{Section: section})
}
